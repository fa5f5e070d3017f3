package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/storage"
)

type fakeCompanies struct {
	rows   map[int64]*models.Company
	nextID int64
	err    error
}

func newFakeCompanies(cs ...models.Company) *fakeCompanies {
	f := &fakeCompanies{rows: map[int64]*models.Company{}, nextID: 1}
	for i := range cs {
		c := cs[i]
		f.rows[c.ID] = &c
		if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
	}
	return f
}

func (f *fakeCompanies) List(_ context.Context, plan *query.Plan) ([]models.Company, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	ids := make([]int64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []models.Company
	for _, id := range ids {
		out = append(out, *f.rows[id])
	}
	return out, len(out), nil
}

func (f *fakeCompanies) Get(_ context.Context, id int64) (*models.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) GetForUpdate(ctx context.Context, id int64) (*models.Company, error) {
	return f.Get(ctx, id)
}

func (f *fakeCompanies) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, f.err
}

func (f *fakeCompanies) tickerTaken(ticker string, except int64) bool {
	for id, c := range f.rows {
		if c.Ticker == ticker && id != except {
			return true
		}
	}
	return false
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	if f.err != nil {
		return f.err
	}
	if f.tickerTaken(c.Ticker, 0) {
		return &pq.Error{Code: "23505", Constraint: "companies_ticker_key"}
	}
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) Update(_ context.Context, c *models.Company) error {
	if f.tickerTaken(c.Ticker, c.ID) {
		return &pq.Error{Code: "23505", Constraint: "companies_ticker_key"}
	}
	c.UpdatedAt = time.Now()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	delete(f.rows, id)
	return ok, nil
}

func (f *fakeCompanies) Upsert(ctx context.Context, c *models.Company) (bool, error) {
	for id, existing := range f.rows {
		if existing.Ticker == c.Ticker {
			c.ID = id
			return false, f.Update(ctx, c)
		}
	}
	if c.ID != 0 {
		cp := *c
		f.rows[c.ID] = &cp
		return true, nil
	}
	return true, f.Create(ctx, c)
}

func (f *fakeCompanies) SyncIDSequence(context.Context) error { return nil }

func (f *fakeCompanies) TickerIndex(context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for id, c := range f.rows {
		out[c.Ticker] = id
	}
	return out, nil
}

type fakeAudit struct {
	rows []models.CompanyAudit
	err  error
}

func (f *fakeAudit) Insert(_ context.Context, a *models.CompanyAudit) error {
	if f.err != nil {
		return f.err
	}
	a.ID = int64(len(f.rows) + 1)
	a.Timestamp = time.Now()
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAudit) List(_ context.Context, plan *query.Plan) ([]models.CompanyAudit, int, error) {
	var out []models.CompanyAudit
	for _, r := range f.rows {
		if len(plan.Args) > 0 && plan.Args[0] == r.CompanyID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type fakeFinancials struct {
	rows     []models.Financial
	lastPlan *query.Plan
	err      error
}

func (f *fakeFinancials) List(_ context.Context, plan *query.Plan) ([]models.Financial, int, error) {
	f.lastPlan = plan
	return f.rows, len(f.rows), f.err
}

func (f *fakeFinancials) Latest(_ context.Context, companyID int64) (*models.Financial, error) {
	var best *models.Financial
	for i := range f.rows {
		r := &f.rows[i]
		if r.CompanyID == companyID && (best == nil || r.Year > best.Year) {
			best = r
		}
	}
	return best, f.err
}

func (f *fakeFinancials) LatestAnnual(_ context.Context, companyID int64) (*models.Financial, error) {
	var best *models.Financial
	for i := range f.rows {
		r := &f.rows[i]
		if r.CompanyID == companyID && r.Period == models.PeriodAnnual && (best == nil || r.Year > best.Year) {
			best = r
		}
	}
	return best, f.err
}

func (f *fakeFinancials) Find(_ context.Context, companyID int64, year int, period string) (*models.Financial, error) {
	for i := range f.rows {
		r := &f.rows[i]
		if r.CompanyID == companyID && r.Year == year && r.Period == period {
			return r, nil
		}
	}
	return nil, f.err
}

func (f *fakeFinancials) Create(_ context.Context, fin *models.Financial) error {
	for _, r := range f.rows {
		if r.CompanyID == fin.CompanyID && r.Year == fin.Year && r.Period == fin.Period {
			return &pq.Error{Code: "23505", Constraint: "financials_company_id_year_period_key"}
		}
	}
	fin.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *fin)
	return nil
}

func (f *fakeFinancials) Upsert(ctx context.Context, fin *models.Financial) error {
	return f.Create(ctx, fin)
}

type fakeStocks struct {
	rows []models.Stock
}

func (f *fakeStocks) List(context.Context, *query.Plan) ([]models.Stock, int, error) {
	return f.rows, len(f.rows), nil
}

func (f *fakeStocks) Create(_ context.Context, s *models.Stock) error {
	s.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeStocks) BulkUpsert(_ context.Context, prices []models.Stock) (int64, error) {
	f.rows = append(f.rows, prices...)
	return int64(len(prices)), nil
}

type fakeMacro struct {
	rows  []models.MacroIndicators // newest first
	stats *storage.MacroStats
}

func (f *fakeMacro) List(context.Context, *query.Plan) ([]models.MacroIndicators, int, error) {
	return f.rows, len(f.rows), nil
}

func (f *fakeMacro) Latest(context.Context) (*models.MacroIndicators, error) {
	if len(f.rows) == 0 {
		return nil, nil
	}
	return &f.rows[0], nil
}

func (f *fakeMacro) OnOrBefore(_ context.Context, date time.Time) (*models.MacroIndicators, error) {
	for i := range f.rows {
		if !f.rows[i].Date.After(date) {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeMacro) Stats(context.Context, *time.Time, *time.Time, []string) (*storage.MacroStats, error) {
	if f.stats == nil {
		return &storage.MacroStats{Columns: map[string]storage.ColumnStats{}}, nil
	}
	return f.stats, nil
}

func (f *fakeMacro) Create(_ context.Context, m *models.MacroIndicators) error {
	for _, r := range f.rows {
		if r.Date.Equal(m.Date) {
			return &pq.Error{Code: "23505", Constraint: "macro_indicators_date_key"}
		}
	}
	m.ID = int64(len(f.rows) + 1)
	f.rows = append([]models.MacroIndicators{*m}, f.rows...)
	return nil
}

func (f *fakeMacro) Upsert(ctx context.Context, m *models.MacroIndicators) error {
	return f.Create(ctx, m)
}

type fakeUsers struct {
	rows    map[int64]*models.User
	touched []int64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[int64]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.rows {
		if existing.Username == u.Username {
			return &pq.Error{Code: "23505", Constraint: "users_username_key"}
		}
	}
	u.ID = int64(len(f.rows) + 1)
	u.CreatedAt = time.Now()
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.rows {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id int64, _ time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeMarket struct {
	total   int
	latest  *time.Time
	points  []storage.PricePoint
	trends  []storage.TrendRow
	window  []storage.WindowRow
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeMarket) CountCompanies(context.Context) (int, error) { return f.total, nil }

func (f *fakeMarket) LatestTradingDate(_ context.Context, onOrBefore *time.Time) (*time.Time, error) {
	if f.latest == nil {
		return nil, nil
	}
	if onOrBefore != nil && onOrBefore.Before(*f.latest) {
		return onOrBefore, nil
	}
	return f.latest, nil
}

func (f *fakeMarket) RecentPrices(context.Context, time.Time) ([]storage.PricePoint, error) {
	return f.points, nil
}

func (f *fakeMarket) Trends(_ context.Context, from, to time.Time) ([]storage.TrendRow, error) {
	f.gotFrom, f.gotTo = from, to
	return f.trends, nil
}

func (f *fakeMarket) Window(_ context.Context, from, to time.Time) ([]storage.WindowRow, error) {
	f.gotFrom, f.gotTo = from, to
	return f.window, nil
}

// fakeTx restores companies and audit rows when fn fails, like a rollback.
type fakeTx struct {
	repos storage.Repos
	runs  int
}

func (t *fakeTx) Run(_ context.Context, fn func(tx storage.DBTX, repos storage.Repos) error) error {
	t.runs++
	companies := t.repos.Companies.(*fakeCompanies)
	audits := t.repos.Audit.(*fakeAudit)
	savedRows := map[int64]*models.Company{}
	for id, c := range companies.rows {
		cp := *c
		savedRows[id] = &cp
	}
	savedAudit := append([]models.CompanyAudit(nil), audits.rows...)

	if err := fn(nil, t.repos); err != nil {
		companies.rows = savedRows
		audits.rows = savedAudit
		return err
	}
	return nil
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (c *recordingCache) Set(context.Context, string, []byte, time.Duration) {}
func (c *recordingCache) Generation(context.Context, string) int64           { return 0 }
func (c *recordingCache) Close() error                                       { return nil }
func (c *recordingCache) Invalidate(_ context.Context, entities ...string) error {
	c.invalidated = append(c.invalidated, entities...)
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	deps       Deps
	companies  *fakeCompanies
	audit      *fakeAudit
	financials *fakeFinancials
	stocks     *fakeStocks
	macro      *fakeMacro
	users      *fakeUsers
	market     *fakeMarket
	tx         *fakeTx
	cache      *recordingCache
	events     *recordingPublisher
}

func newFixture(cs ...models.Company) *fixture {
	f := &fixture{
		companies:  newFakeCompanies(cs...),
		audit:      &fakeAudit{},
		financials: &fakeFinancials{},
		stocks:     &fakeStocks{},
		macro:      &fakeMacro{},
		users:      newFakeUsers(),
		market:     &fakeMarket{},
		cache:      &recordingCache{},
		events:     &recordingPublisher{},
	}
	repos := storage.Repos{
		Companies:  f.companies,
		Financials: f.financials,
		Stocks:     f.stocks,
		Macro:      f.macro,
		Audit:      f.audit,
		Users:      f.users,
		Market:     f.market,
	}
	f.tx = &fakeTx{repos: repos}
	f.deps = Deps{Repos: repos, Tx: f.tx, Cache: f.cache, Events: f.events}
	return f
}

var errBoom = errors.New("boom")
