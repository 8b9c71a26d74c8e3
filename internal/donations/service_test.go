package donations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogahribetzz/transparansi/internal/fallback"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

const ledgerRows = `{"status":"success","data":[
	{"ID":"T1","Tanggal":"2024-05-01","Nama Donatur":"Budi","Nominal":"Rp 75.000","Tipe":"Pemasukan","Verivikasi":"Approved","Kategori":"Donasi QRIS"},
	{"ID":"T2","Tanggal":"2024-05-03","Nama Donatur":"Beli beras","Nominal":120000,"Tipe":"Pengeluaran","Verivikasi":"Approved","Kategori":"Logistik"},
	{"ID":"T3","Tanggal":"2024-05-04","Nama Donatur":"Siti","Nominal":50000,"Tipe":"Pemasukan","Verivikasi":"Pending"},
	{"ID":"T4","Tanggal":"2024-05-02","Nama Donatur":"Andi","Nominal":25000,"Tipe":"Pemasukan","Verivikasi":"APPROVED"}
]}`

func TestTransactions_SheetRow(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, `{"status":"success","data":[
		{"Nama Donatur":"Budi","Nominal":"Rp 75.000","Tipe":"Pemasukan","Verivikasi":"Approved","Tanggal":"2024-05-01T17:30:00.000Z"},
		"stray"
	]}`)

	res := env.svc.Transactions(context.Background(), ScopeAll)
	assert.Equal(t, StateSucceeded, res.Outcome.State)
	assert.False(t, res.Outcome.UsedFallback())
	require.Len(t, res.Items, 1)

	tx := res.Items[0]
	assert.Equal(t, "Budi", tx.Name)
	assert.Equal(t, int64(75000), tx.Amount)
	assert.Equal(t, model.TypeIncome, tx.Type)
	assert.Equal(t, model.StatusApproved, tx.Status)
	assert.Equal(t, "2024-05-02", tx.Date)
	assert.NotEmpty(t, tx.ID)
}

func TestTransactions_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		body   *string
		reason gateway.Kind
	}{
		{"server error", nil, gateway.KindNetwork},
		{"status error", strPtr(`{"status":"error","message":"Sheet not found"}`), gateway.KindRemote},
		{"html", strPtr(`<html>Sign in</html>`), gateway.KindParse},
		{"object data", strPtr(`{"status":"success","data":{"rows":1}}`), gateway.KindShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.body != nil {
				env.sheet.setGet(gateway.ActionGetTransactions, *tt.body)
			}

			res := env.svc.Transactions(context.Background(), ScopePublic)
			assert.True(t, res.Outcome.UsedFallback())
			assert.Equal(t, tt.reason, res.Outcome.Reason)
			assert.Error(t, res.Outcome.Err)
			assert.Equal(t, fallback.Default().Transactions(), res.Items)
		})
	}
}

func TestReads_NoRowsFallBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty array", body: `{"status":"success","data":[]}`},
		{name: "only non-object elements", body: `[1,"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.sheet.setGet(gateway.ActionGetTransactions, tt.body)
			env.sheet.setGet(gateway.ActionGetPrograms, tt.body)
			env.sheet.setGet(gateway.ActionGetLocations, tt.body)
			ctx := context.Background()

			txns := env.svc.Transactions(ctx, ScopeAll)
			assert.True(t, txns.Outcome.UsedFallback())
			assert.Equal(t, gateway.KindShape, txns.Outcome.Reason)
			assert.Equal(t, fallback.Default().Transactions(), txns.Items)

			programs := env.svc.Programs(ctx)
			assert.True(t, programs.Outcome.UsedFallback())
			assert.Equal(t, gateway.KindShape, programs.Outcome.Reason)
			assert.Equal(t, fallback.Default().Programs(), programs.Items)

			locs := env.svc.Locations(ctx)
			assert.True(t, locs.Outcome.UsedFallback())
			assert.Equal(t, gateway.KindShape, locs.Outcome.Reason)
			assert.Equal(t, fallback.Default().Locations(), locs.Items)
		})
	}
}

func TestPublicLedger(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)

	res := env.svc.PublicLedger(context.Background(), ledger.Criteria{})
	var ids []string
	for _, tx := range res.Items {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"T2", "T4", "T1"}, ids, "approved only, newest first")

	res = env.svc.PublicLedger(context.Background(), ledger.Criteria{Type: model.TypeIncome, NameQuery: "bud"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "T1", res.Items[0].ID)
}

func TestAllTransactions(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)

	res := env.svc.AllTransactions(context.Background(), ledger.Criteria{From: "2024-05-02"})
	var ids []string
	for _, tx := range res.Items {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"T3", "T2", "T4"}, ids)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)

	res := env.svc.Summary(context.Background())
	assert.Equal(t, ledger.Summary{Income: 100000, Expense: 120000, Balance: -20000}, res.Items)
	assert.False(t, res.Outcome.UsedFallback())
}

func TestSummary_Fallback(t *testing.T) {
	env := newTestEnv(t)

	res := env.svc.Summary(context.Background())
	assert.True(t, res.Outcome.UsedFallback())
	assert.Equal(t, ledger.Summary{Income: 500000, Expense: 0, Balance: 500000}, res.Items)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetTransactions, ledgerRows)

	res := env.svc.Categories(context.Background())
	assert.Equal(t, []string{"Donasi QRIS", "Logistik", model.DefaultCategory}, res.Items)
}

func TestPrograms(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetPrograms, `[{"ID":"P9","Title":"Jumat Berkah","Status":"segera"}]`)

	res := env.svc.Programs(context.Background())
	assert.False(t, res.Outcome.UsedFallback())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Jumat Berkah", res.Items[0].Title)
	assert.Equal(t, model.ProgramComingSoon, res.Items[0].Status)
}

func TestPrograms_Fallback(t *testing.T) {
	env := newTestEnv(t)
	res := env.svc.Programs(context.Background())
	assert.True(t, res.Outcome.UsedFallback())
	assert.Equal(t, fallback.Default().Programs(), res.Items)
}

func TestLocations_ConfiguredAction(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.LocationsAction = "getMapLocations" })
	env.sheet.setGet("getMapLocations", `{"status":"success","data":[{"ID":"L7","Title":"Posko","Lat":"-6,2","Lng":106.8}]}`)

	res := env.svc.Locations(context.Background())
	assert.False(t, res.Outcome.UsedFallback())
	require.Len(t, res.Items, 1)
	assert.InDelta(t, -6.2, res.Items[0].Lat, 1e-9)
	assert.InDelta(t, 106.8, res.Items[0].Lng, 1e-9)
}

func TestLocations_Fallback(t *testing.T) {
	env := newTestEnv(t)
	res := env.svc.Locations(context.Background())
	assert.True(t, res.Outcome.UsedFallback())
	assert.Equal(t, fallback.Default().Locations(), res.Items)
}

func TestConfig_OverlaysCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetConfig, `{"status":"success","data":[{"key":"logoUrl","value":"/baru.png"},{"key":"youtubePlaylistId","value":""}]}`)

	def := fallback.Default().Config()
	res := env.svc.Config(context.Background())
	assert.False(t, res.Outcome.UsedFallback())
	assert.Equal(t, "/baru.png", res.Items.LogoURL)
	assert.Equal(t, def.QrisURL, res.Items.QrisURL)
	assert.Equal(t, def.YoutubePlaylistID, res.Items.YoutubePlaylistID, "blank values do not clear defaults")
	assert.Equal(t, res.Items, env.svc.CurrentConfig())
}

func TestConfig_ReadKeepsAcceptedUpdate(t *testing.T) {
	env := newTestEnv(t)
	logo := "/admin-logo.png"
	_, err := env.svc.UpdateConfig(context.Background(), model.ConfigPatch{LogoURL: &logo})
	require.NoError(t, err)

	env.sheet.setGet(gateway.ActionGetConfig, `{"status":"success","data":{"qrisUrl":"/q.png"}}`)
	res := env.svc.Config(context.Background())

	require.False(t, res.Outcome.UsedFallback())
	assert.Equal(t, "/admin-logo.png", res.Items.LogoURL)
	assert.Equal(t, "/q.png", res.Items.QrisURL)
	assert.Equal(t, res.Items, env.svc.CurrentConfig())
}

func TestConfig_FailureServesCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetConfig, `{"status":"success","data":{"logoUrl":"/baru.png"}}`)
	live := env.svc.Config(context.Background())
	require.False(t, live.Outcome.UsedFallback())

	env.sheet.setGet(gateway.ActionGetConfig, `{"status":"error","message":"quota"}`)
	res := env.svc.Config(context.Background())
	assert.True(t, res.Outcome.UsedFallback())
	assert.Equal(t, gateway.KindRemote, res.Outcome.Reason)
	assert.Equal(t, "/baru.png", res.Items.LogoURL)
}

func TestConfig_BadShape(t *testing.T) {
	env := newTestEnv(t)
	env.sheet.setGet(gateway.ActionGetConfig, `{"status":"success","data":"nope"}`)

	res := env.svc.Config(context.Background())
	assert.True(t, res.Outcome.UsedFallback())
	assert.Equal(t, gateway.KindShape, res.Outcome.Reason)
	assert.Equal(t, fallback.Default().Config(), res.Items)
}

func strPtr(s string) *string { return &s }
