package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogahribetzz/transparansi/internal/auditlog"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/id"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
	"github.com/ogahribetzz/transparansi/internal/normalize"
)

// Actors recorded in the admin log.
const (
	ActorAdmin = "admin"
	ActorDonor = "donor"
)

// Donation is a donor's submission. File is already base64 encoded.
type Donation struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	File     string `json:"file,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// ManualTransaction is a ledger line typed in by an admin.
type ManualTransaction struct {
	Type     model.TransactionType   `json:"type"`
	Date     string                  `json:"date"`
	Name     string                  `json:"name"`
	Amount   int64                   `json:"amount"`
	Category string                  `json:"category"`
	Status   model.TransactionStatus `json:"status"`
}

// UpdateConfig sends patch to the spreadsheet and, once it is accepted,
// applies it to the current config. A rejected update leaves the current
// config unchanged.
func (s *Service) UpdateConfig(ctx context.Context, patch model.ConfigPatch) (model.AppConfig, error) {
	if patch.IsEmpty() {
		return model.AppConfig{}, fmt.Errorf("%w: config patch changes nothing", ErrInvalidSubmission)
	}

	err := s.gw.Post(ctx, gateway.ActionUpdateConfig, patch)
	s.record(ActorAdmin, gateway.ActionUpdateConfig, "", describePatch(patch), err)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("updating config: %w", err)
	}
	return s.store.Apply(patch), nil
}

// ApproveTransaction moves a pending transaction to APPROVED. The ledger
// must be readable so the transaction can be checked first.
func (s *Service) ApproveTransaction(ctx context.Context, txID string) (model.Transaction, error) {
	res := s.Transactions(ctx, ScopeAll)
	if res.Outcome.UsedFallback() {
		return model.Transaction{}, fmt.Errorf("approving %s: %w", txID, ErrUnavailable)
	}
	tx, ok := ledger.Find(res.Items, txID)
	if !ok {
		return model.Transaction{}, fmt.Errorf("approving %s: %w", txID, ErrNotFound)
	}
	approved, err := ledger.Approve(tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("approving %s: %w", txID, err)
	}

	err = s.gw.Post(ctx, gateway.ActionApproveTransaction, map[string]string{"id": txID})
	s.record(ActorAdmin, gateway.ActionApproveTransaction, txID, describeTx(tx.Name, tx.Amount), err)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("approving %s: %w", txID, err)
	}
	return approved, nil
}

// SubmitDonation records a donor's submission as a pending income line.
// A blank name becomes "Hamba Allah" and a blank date becomes today.
func (s *Service) SubmitDonation(ctx context.Context, d Donation) (model.Transaction, error) {
	if d.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidSubmission)
	}
	if (d.File == "") != (d.MimeType == "") {
		return model.Transaction{}, fmt.Errorf("%w: file and mimeType go together", ErrInvalidSubmission)
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		d.Name = model.DefaultDonorName
	}
	date, err := s.dateOrToday(d.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	d.Date = date

	err = s.gw.Post(ctx, gateway.ActionSubmitDonation, d)
	s.record(ActorDonor, gateway.ActionSubmitDonation, "", describeTx(d.Name, d.Amount), err)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("submitting donation: %w", err)
	}
	return model.Transaction{
		ID:       id.TransactionID(d.Date, d.Name, d.Amount),
		Date:     d.Date,
		Name:     d.Name,
		Amount:   d.Amount,
		Type:     model.TypeIncome,
		Category: model.DefaultCategory,
		Status:   model.StatusPending,
	}, nil
}

// SubmitManualTransaction records an admin-entered line. Unset fields get
// defaults: INCOME, today, "Hamba Allah", "Umum" and APPROVED.
func (s *Service) SubmitManualTransaction(ctx context.Context, m ManualTransaction) (model.Transaction, error) {
	if m.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidSubmission)
	}
	switch m.Type {
	case "":
		m.Type = model.TypeIncome
	case model.TypeIncome, model.TypeExpense:
	default:
		return model.Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidSubmission, m.Type)
	}
	switch m.Status {
	case "":
		m.Status = model.StatusApproved
	case model.StatusPending, model.StatusApproved:
	default:
		return model.Transaction{}, fmt.Errorf("%w: unknown status %q", ErrInvalidSubmission, m.Status)
	}
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		m.Name = model.DefaultDonorName
	}
	m.Category = strings.TrimSpace(m.Category)
	if m.Category == "" {
		m.Category = model.DefaultCategory
	}
	date, err := s.dateOrToday(m.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	m.Date = date

	txID := id.TransactionID(m.Date, m.Name, m.Amount)
	err = s.gw.Post(ctx, gateway.ActionSubmitManualTransaction, m)
	s.record(ActorAdmin, gateway.ActionSubmitManualTransaction, txID, describeTx(m.Name, m.Amount), err)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("submitting manual transaction: %w", err)
	}
	return model.Transaction{
		ID:       txID,
		Date:     m.Date,
		Name:     m.Name,
		Amount:   m.Amount,
		Type:     m.Type,
		Category: m.Category,
		Status:   m.Status,
	}, nil
}

// AuditEntries returns the admin log, oldest first.
func (s *Service) AuditEntries() ([]auditlog.Entry, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.Read()
}

func (s *Service) dateOrToday(date string) (string, error) {
	d := normalize.Date(date)
	if d == "" {
		return s.now().In(normalize.WIB).Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return "", fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidSubmission, date)
	}
	return d, nil
}

// record appends to the admin log. A log failure is reported but does not
// undo a write the spreadsheet already accepted.
func (s *Service) record(actor, action, txID, details string, err error) {
	if s.audit == nil {
		return
	}
	e := auditlog.Entry{
		Timestamp:     s.now(),
		Actor:         actor,
		Action:        action,
		Outcome:       auditlog.OutcomeOK,
		TransactionID: txID,
		Details:       details,
	}
	if err != nil {
		e.Outcome = auditlog.OutcomeFailed
		e.Details = strings.TrimSpace(details + "; " + err.Error())
	}
	if aerr := s.audit.Append(e); aerr != nil {
		s.log.Error("writing admin log", "action", action, "error", aerr)
	}
}

func describeTx(name string, amount int64) string {
	return fmt.Sprintf("%s, %s", name, FormatRupiah(amount))
}

func describePatch(p model.ConfigPatch) string {
	var fields []string
	if p.LogoURL != nil {
		fields = append(fields, "logoUrl")
	}
	if p.QrisURL != nil {
		fields = append(fields, "qrisUrl")
	}
	if p.YoutubePlaylistID != nil {
		fields = append(fields, "youtubePlaylistId")
	}
	return strings.Join(fields, " ")
}

// IsClientError reports whether err was caused by the request rather than
// the spreadsheet.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSubmission) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ledger.ErrAlreadyApproved)
}
