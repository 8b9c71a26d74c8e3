package donations

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ogahribetzz/transparansi/internal/auditlog"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/logging"
)

// fixedNow is 03:00 WIB on 2024-05-11.
var fixedNow = time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

type posted struct {
	Action string
	Data   map[string]any
}

// fakeSheet imitates the Apps Script endpoint. GET actions without a
// configured body answer 500.
type fakeSheet struct {
	mu       sync.Mutex
	get      map[string]string
	postBody string
	posts    []posted
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{get: map[string]string{}, postBody: `{"status":"success"}`}
}

func (f *fakeSheet) setGet(action, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.get[action] = body
}

func (f *fakeSheet) setPost(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postBody = body
}

func (f *fakeSheet) writes() []posted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]posted(nil), f.posts...)
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPost {
		var p posted
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.posts = append(f.posts, p)
		_, _ = io.WriteString(w, f.postBody)
		return
	}

	body, ok := f.get[r.URL.Query().Get("action")]
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

type testEnv struct {
	sheet *fakeSheet
	svc   *Service
	audit *auditlog.Log
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()
	sheet := newFakeSheet()
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)

	audit := auditlog.New(t.TempDir())
	opts := Options{
		Gateway: gateway.NewClient(srv.URL, gateway.WithTimeout(5*time.Second)),
		Audit:   audit,
		Logger:  logging.Discard(),
		Now:     func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return &testEnv{sheet: sheet, svc: NewService(opts), audit: audit}
}
