// Package donations reads the spreadsheet ledger, programs, locations and
// presentation config, and performs the admin and donor writes.
//
// Every read resolves to a Result: either the mapped live data or the
// fallback dataset, never an error. Writes return errors.
package donations

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ogahribetzz/transparansi/internal/auditlog"
	"github.com/ogahribetzz/transparansi/internal/fallback"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/mapper"
	"github.com/ogahribetzz/transparansi/internal/model"
	"github.com/ogahribetzz/transparansi/internal/normalize"
)

// Gateway is the remote spreadsheet endpoint.
type Gateway interface {
	Get(ctx context.Context, action string, params url.Values) (any, error)
	Post(ctx context.Context, action string, data any) error
}

// Options configures a Service. Only Gateway is required.
type Options struct {
	Gateway  Gateway
	Fallback *fallback.Provider
	Store    *Store
	Audit    *auditlog.Log
	Logger   *slog.Logger
	// LocationsAction overrides the getLocations action name.
	LocationsAction string
	// ReadTTL is how long a notification stays marked read.
	ReadTTL time.Duration
	Now     func() time.Time
}

// Service provides the read and write operations.
type Service struct {
	gw              Gateway
	fallback        *fallback.Provider
	store           *Store
	audit           *auditlog.Log
	log             *slog.Logger
	locationsAction string
	read            *cache.Cache
	now             func() time.Time
}

// NewService creates a Service, filling unset options with defaults.
func NewService(opts Options) *Service {
	s := &Service{
		gw:              opts.Gateway,
		fallback:        opts.Fallback,
		store:           opts.Store,
		audit:           opts.Audit,
		log:             opts.Logger,
		locationsAction: opts.LocationsAction,
		now:             opts.Now,
	}
	if s.fallback == nil {
		s.fallback = fallback.Default()
	}
	if s.store == nil {
		s.store = NewStore(s.fallback.Config())
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.locationsAction == "" {
		s.locationsAction = gateway.ActionGetLocations
	}
	if s.now == nil {
		s.now = time.Now
	}
	ttl := opts.ReadTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s.read = cache.New(ttl, 10*time.Minute)
	return s
}

// Transactions reads the ledger in the given scope, in upstream order.
func (s *Service) Transactions(ctx context.Context, scope Scope) Result[[]model.Transaction] {
	action := gateway.ActionGetTransactions
	recs, err := s.fetchRecords(ctx, action, url.Values{"type": {string(scope)}})
	if err != nil {
		out := s.fellBack(action, err)
		return Result[[]model.Transaction]{Items: s.fallback.Transactions(), Outcome: out}
	}
	txns := mapper.Transactions(recs)
	if dups := mapper.DuplicateIDs(txns); len(dups) > 0 {
		s.log.Warn("duplicate transaction ids in sheet", "action", action, "ids", dups)
	}
	return Result[[]model.Transaction]{Items: txns, Outcome: succeeded()}
}

// PublicLedger returns approved transactions newest first, filtered by c.
// Rows the spreadsheet marks pending are dropped even in the public scope.
func (s *Service) PublicLedger(ctx context.Context, c ledger.Criteria) Result[[]model.Transaction] {
	res := s.Transactions(ctx, ScopePublic)
	res.Items = ledger.SortByDateDesc(ledger.Filter(ledger.FilterApproved(res.Items), c))
	return res
}

// AllTransactions returns every transaction newest first, filtered by c.
func (s *Service) AllTransactions(ctx context.Context, c ledger.Criteria) Result[[]model.Transaction] {
	res := s.Transactions(ctx, ScopeAll)
	res.Items = ledger.SortByDateDesc(ledger.Filter(res.Items, c))
	return res
}

// Summary totals the public ledger.
func (s *Service) Summary(ctx context.Context) Result[ledger.Summary] {
	res := s.Transactions(ctx, ScopePublic)
	return Result[ledger.Summary]{Items: ledger.Summarize(res.Items), Outcome: res.Outcome}
}

// Categories lists the categories used by the public ledger.
func (s *Service) Categories(ctx context.Context) Result[[]string] {
	res := s.Transactions(ctx, ScopePublic)
	return Result[[]string]{Items: ledger.Categories(ledger.FilterApproved(res.Items)), Outcome: res.Outcome}
}

// Programs reads the program list.
func (s *Service) Programs(ctx context.Context) Result[[]model.Program] {
	action := gateway.ActionGetPrograms
	recs, err := s.fetchRecords(ctx, action, nil)
	if err != nil {
		return Result[[]model.Program]{Items: s.fallback.Programs(), Outcome: s.fellBack(action, err)}
	}
	return Result[[]model.Program]{Items: mapper.Programs(recs), Outcome: succeeded()}
}

// Locations reads the map locations.
func (s *Service) Locations(ctx context.Context) Result[[]model.MapLocation] {
	action := s.locationsAction
	recs, err := s.fetchRecords(ctx, action, nil)
	if err != nil {
		return Result[[]model.MapLocation]{Items: s.fallback.Locations(), Outcome: s.fellBack(action, err)}
	}
	return Result[[]model.MapLocation]{Items: mapper.Locations(recs), Outcome: succeeded()}
}

// Config reads the presentation config. Fields the spreadsheet provides
// overlay the current config. On failure the current config is served
// unchanged.
func (s *Service) Config(ctx context.Context) Result[model.AppConfig] {
	action := gateway.ActionGetConfig
	data, err := s.gw.Get(ctx, action, nil)
	if err != nil {
		return Result[model.AppConfig]{Items: s.store.Get(), Outcome: s.fellBack(action, err)}
	}
	rec, ok := mapper.ConfigRecord(data)
	if !ok {
		err := gateway.ShapeError(action, errors.New("config is neither an object nor key/value rows"))
		return Result[model.AppConfig]{Items: s.store.Get(), Outcome: s.fellBack(action, err)}
	}
	cfg := s.store.Apply(mapper.ConfigPatch(rec))
	return Result[model.AppConfig]{Items: cfg, Outcome: succeeded()}
}

// CurrentConfig returns the stored config without contacting the spreadsheet.
func (s *Service) CurrentConfig() model.AppConfig {
	return s.store.Get()
}

func (s *Service) fetchRecords(ctx context.Context, action string, params url.Values) ([]normalize.Record, error) {
	data, err := s.gw.Get(ctx, action, params)
	if err != nil {
		return nil, err
	}
	recs, skipped, ok := mapper.Records(data)
	if !ok {
		return nil, gateway.ShapeError(action, errors.New("data is not an array"))
	}
	if skipped > 0 {
		s.log.Warn("skipped non-object rows", "action", action, "skipped", skipped)
	}
	if len(recs) == 0 {
		return nil, gateway.ShapeError(action, errors.New("no rows"))
	}
	return recs, nil
}

func (s *Service) fellBack(action string, err error) Outcome {
	out := usingFallback(err)
	s.log.Warn("serving fallback data", "action", action, "reason", string(out.Reason), "error", err)
	return out
}
