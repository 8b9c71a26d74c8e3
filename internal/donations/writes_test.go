package donations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogahribetzz/transparansi/internal/auditlog"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/id"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

func TestUpdateConfig(t *testing.T) {
	env := newTestEnv(t)
	logo := "/logo-baru.png"

	cfg, err := env.svc.UpdateConfig(context.Background(), model.ConfigPatch{LogoURL: &logo})
	require.NoError(t, err)
	assert.Equal(t, logo, cfg.LogoURL)
	assert.Equal(t, cfg, env.svc.CurrentConfig())

	writes := env.sheet.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, gateway.ActionUpdateConfig, writes[0].Action)
	assert.Equal(t, map[string]any{"logoUrl": logo}, writes[0].Data)

	entries, err := env.audit.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.OutcomeOK, entries[0].Outcome)
	assert.Equal(t, "logoUrl", entries[0].Details)
}

func TestUpdateConfig_RejectedLeavesStoreUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setPost(`{"status":"error","message":"locked"}`)
	before := env.svc.CurrentConfig()
	qris := "https://example.com/qris.png"

	_, err := env.svc.UpdateConfig(context.Background(), model.ConfigPatch{QrisURL: &qris})
	require.Error(t, err)
	assert.Equal(t, gateway.KindRemote, gateway.KindOf(err))
	assert.Equal(t, before, env.svc.CurrentConfig())

	entries, err := env.audit.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.OutcomeFailed, entries[0].Outcome)
	assert.Contains(t, entries[0].Details, "locked")
}

func TestUpdateConfig_EmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.UpdateConfig(context.Background(), model.ConfigPatch{})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
	assert.Empty(t, env.sheet.writes())
}

func TestApproveTransaction(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)

	tx, err := env.svc.ApproveTransaction(context.Background(), "T3")
	require.NoError(t, err)
	assert.Equal(t, "T3", tx.ID)
	assert.Equal(t, model.StatusApproved, tx.Status)
	assert.Equal(t, "Siti", tx.Name)

	writes := env.sheet.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, gateway.ActionApproveTransaction, writes[0].Action)
	assert.Equal(t, map[string]any{"id": "T3"}, writes[0].Data)

	entries, err := env.audit.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "T3", entries[0].TransactionID)
	assert.Equal(t, ActorAdmin, entries[0].Actor)
	assert.Equal(t, "Siti, Rp 50.000", entries[0].Details)
}

func TestApproveTransaction_DuplicateSheetID(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, `{"status":"success","data":[
		{"ID":"X","Tanggal":"2024-05-01","Nama Donatur":"Budi","Nominal":10000,"Verivikasi":"Pending"},
		{"ID":"X","Tanggal":"2024-05-02","Nama Donatur":"Siti","Nominal":20000,"Verivikasi":"Pending"}
	]}`)

	res := env.svc.AllTransactions(context.Background(), ledger.Criteria{})
	require.Len(t, res.Items, 2)
	assert.Equal(t, "X", res.Items[0].ID)
	assert.Equal(t, "X", res.Items[1].ID)

	_, err := env.svc.ApproveTransaction(context.Background(), "X")
	require.NoError(t, err)
	writes := env.sheet.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, map[string]any{"id": "X"}, writes[0].Data)
}

func TestApproveTransaction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ledger  string
		id      string
		wantErr error
	}{
		{"already approved", ledgerRows, "T1", ledger.ErrAlreadyApproved},
		{"unknown id", ledgerRows, "T99", ErrNotFound},
		{"ledger unreadable", "", "T3", ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.ledger != "" {
				env.sheet.setGet(gateway.ActionGetTransactions, tt.ledger)
			}
			_, err := env.svc.ApproveTransaction(context.Background(), tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantErr != ErrUnavailable, IsClientError(err))
			assert.Empty(t, env.sheet.writes(), "nothing is posted")
		})
	}
}

func TestApproveTransaction_PostFails(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)
	env.sheet.setPost(`<html>error</html>`)

	_, err := env.svc.ApproveTransaction(context.Background(), "T3")
	require.Error(t, err)
	assert.Equal(t, gateway.KindParse, gateway.KindOf(err))
	assert.False(t, IsClientError(err))
}

func TestSubmitDonation(t *testing.T) {
	env := newTestEnv(t)

	tx, err := env.svc.SubmitDonation(context.Background(), Donation{
		Name:     "  ",
		Amount:   75000,
		File:     "aGVsbG8=",
		MimeType: "image/png",
		FileName: "bukti.png",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDonorName, tx.Name)
	assert.Equal(t, "2024-05-11", tx.Date, "today in WIB")
	assert.Equal(t, model.StatusPending, tx.Status)
	assert.Equal(t, model.TypeIncome, tx.Type)
	assert.Equal(t, id.TransactionID("2024-05-11", model.DefaultDonorName, 75000), tx.ID)

	writes := env.sheet.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, gateway.ActionSubmitDonation, writes[0].Action)
	assert.Equal(t, map[string]any{
		"name":     model.DefaultDonorName,
		"amount":   float64(75000),
		"date":     "2024-05-11",
		"file":     "aGVsbG8=",
		"mimeType": "image/png",
		"fileName": "bukti.png",
	}, writes[0].Data)

	entries, err := env.audit.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActorDonor, entries[0].Actor)
}

func TestSubmitDonation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		d    Donation
	}{
		{"zero amount", Donation{Name: "Budi"}},
		{"negative amount", Donation{Name: "Budi", Amount: -5}},
		{"file without type", Donation{Name: "Budi", Amount: 10, File: "aGk="}},
		{"bad date", Donation{Name: "Budi", Amount: 10, Date: "kemarin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.SubmitDonation(context.Background(), tt.d)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
			assert.Empty(t, env.sheet.writes())
		})
	}
}

func TestSubmitDonation_Unreachable(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setPost(`{"status":"error","message":"Script error"}`)

	_, err := env.svc.SubmitDonation(context.Background(), Donation{Name: "Budi", Amount: 10000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submitting donation")
}

func TestSubmitManualTransaction_Defaults(t *testing.T) {
	env := newTestEnv(t)

	tx, err := env.svc.SubmitManualTransaction(context.Background(), ManualTransaction{
		Type:   model.TypeExpense,
		Date:   "03/05/2024",
		Name:   "Beli beras",
		Amount: 120000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, tx.Status)
	assert.Equal(t, model.DefaultCategory, tx.Category)
	assert.Equal(t, "2024-05-03", tx.Date)
	assert.Equal(t, model.TypeExpense, tx.Type)

	writes := env.sheet.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, gateway.ActionSubmitManualTransaction, writes[0].Action)
	assert.Equal(t, "APPROVED", writes[0].Data["status"])
	assert.Equal(t, "EXPENSE", writes[0].Data["type"])
	assert.Equal(t, "2024-05-03", writes[0].Data["date"])
}

func TestSubmitManualTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name string
		m    ManualTransaction
	}{
		{"zero amount", ManualTransaction{Name: "x"}},
		{"bad type", ManualTransaction{Amount: 1, Type: "TRANSFER"}},
		{"bad status", ManualTransaction{Amount: 1, Status: "REJECTED"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.SubmitManualTransaction(context.Background(), tt.m)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}
}

func TestWrites_NoAuditLog(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.Audit = nil })
	_, err := env.svc.SubmitDonation(context.Background(), Donation{Name: "Budi", Amount: 10000})
	require.NoError(t, err)

	entries, err := env.svc.AuditEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{75000, "Rp 75.000"},
		{1500000, "Rp 1.500.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupiah(tt.in))
	}
}
