package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ogahribetzz/transparansi/internal/donations"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePublicTransactions(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeResult(w, s.svc.PublicLedger(r.Context(), c))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Summary(r.Context()))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Categories(r.Context()))
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Programs(r.Context()))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Locations(r.Context()))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Config(r.Context()))
}

func (s *Server) handleSubmitDonation(w http.ResponseWriter, r *http.Request) {
	var d donations.Donation
	if !s.decode(w, r, &d) {
		return
	}
	tx, err := s.svc.SubmitDonation(r.Context(), d)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleAllTransactions(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeResult(w, s.svc.AllTransactions(r.Context(), c))
}

func (s *Server) handlePendingTransactions(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.svc.AllTransactions(r.Context(), c)
	res.Items = ledger.FilterPending(res.Items)
	writeResult(w, res)
}

func (s *Server) handleManualTransaction(w http.ResponseWriter, r *http.Request) {
	var m donations.ManualTransaction
	if !s.decode(w, r, &m) {
		return
	}
	m.Type = model.TransactionType(strings.ToUpper(strings.TrimSpace(string(m.Type))))
	m.Status = model.TransactionStatus(strings.ToUpper(strings.TrimSpace(string(m.Status))))

	tx, err := s.svc.SubmitManualTransaction(r.Context(), m)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.ApproveTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch model.ConfigPatch
	if !s.decode(w, r, &patch) {
		return
	}
	cfg, err := s.svc.UpdateConfig(r.Context(), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Notifications(r.Context()))
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkNotificationRead(chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.AuditEntries()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func criteriaFromQuery(r *http.Request) (ledger.Criteria, error) {
	q := r.URL.Query()
	c := ledger.Criteria{
		Type:      model.TransactionType(strings.ToUpper(strings.TrimSpace(q.Get("type")))),
		NameQuery: q.Get("q"),
		From:      strings.TrimSpace(q.Get("from")),
		To:        strings.TrimSpace(q.Get("to")),
		Category:  q.Get("category"),
	}
	if err := c.Validate(); err != nil {
		return ledger.Criteria{}, err
	}
	return c, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding body: %v", err))
		return false
	}
	return true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, donations.ErrInvalidSubmission):
		return http.StatusBadRequest
	case errors.Is(err, donations.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyApproved):
		return http.StatusConflict
	case errors.Is(err, donations.ErrUnavailable):
		return http.StatusServiceUnavailable
	case gateway.KindOf(err) != "":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult[T any](w http.ResponseWriter, res donations.Result[T]) {
	source := "live"
	if res.Outcome.UsedFallback() {
		source = "fallback"
	}
	w.Header().Set(HeaderDataSource, source)
	writeJSON(w, http.StatusOK, res.Items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
