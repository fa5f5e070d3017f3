package api

import (
	"context"
	"time"

	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/export"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/service"
	"github.com/guttosm/etmarket/internal/validation"
)

type mockCompanies struct {
	list   func(p query.Params) (*dto.ListResponse[dto.CompanyResponse], error)
	get    func(id int64) (*dto.CompanyResponse, error)
	create func(actor *int64, req dto.CompanyRequest) (*dto.CompanyResponse, error)
	batch  func(actor *int64, reqs []dto.CompanyRequest) ([]dto.CompanyResponse, error)
	update func(actor *int64, id int64, req dto.CompanyUpdateRequest) (*dto.CompanyResponse, error)
	del    func(actor *int64, id int64) error
	hist   func(id int64, p query.Params) (*dto.ListResponse[models.CompanyAudit], error)
}

func (m *mockCompanies) List(_ context.Context, p query.Params) (*dto.ListResponse[dto.CompanyResponse], error) {
	return m.list(p)
}
func (m *mockCompanies) Get(_ context.Context, id int64) (*dto.CompanyResponse, error) {
	return m.get(id)
}
func (m *mockCompanies) Create(_ context.Context, actor *int64, req dto.CompanyRequest) (*dto.CompanyResponse, error) {
	return m.create(actor, req)
}
func (m *mockCompanies) CreateBatch(_ context.Context, actor *int64, reqs []dto.CompanyRequest) ([]dto.CompanyResponse, error) {
	return m.batch(actor, reqs)
}
func (m *mockCompanies) Update(_ context.Context, actor *int64, id int64, req dto.CompanyUpdateRequest) (*dto.CompanyResponse, error) {
	return m.update(actor, id, req)
}
func (m *mockCompanies) Delete(_ context.Context, actor *int64, id int64) error {
	return m.del(actor, id)
}
func (m *mockCompanies) History(_ context.Context, id int64, p query.Params) (*dto.ListResponse[models.CompanyAudit], error) {
	return m.hist(id, p)
}

type mockFinancials struct {
	list    func(id int64, p query.Params) (*dto.ListResponse[dto.FinancialResponse], error)
	latest  func(id int64) (*dto.FinancialResponse, error)
	summary func(id int64) (*dto.FinancialSummaryResponse, error)
	create  func(actor *int64, id int64, rec validation.Record) (*dto.FinancialResponse, error)
}

func (m *mockFinancials) List(_ context.Context, id int64, p query.Params) (*dto.ListResponse[dto.FinancialResponse], error) {
	return m.list(id, p)
}
func (m *mockFinancials) Latest(_ context.Context, id int64) (*dto.FinancialResponse, error) {
	return m.latest(id)
}
func (m *mockFinancials) Summary(_ context.Context, id int64) (*dto.FinancialSummaryResponse, error) {
	return m.summary(id)
}
func (m *mockFinancials) Create(_ context.Context, actor *int64, id int64, rec validation.Record) (*dto.FinancialResponse, error) {
	return m.create(actor, id, rec)
}

type mockStocks struct {
	list   func(id int64, p query.Params) (*dto.ListResponse[dto.StockResponse], error)
	create func(id int64, rec validation.Record) (*dto.StockResponse, error)
}

func (m *mockStocks) List(_ context.Context, id int64, p query.Params) (*dto.ListResponse[dto.StockResponse], error) {
	return m.list(id, p)
}
func (m *mockStocks) Create(_ context.Context, id int64, rec validation.Record) (*dto.StockResponse, error) {
	return m.create(id, rec)
}

type mockMacro struct {
	list    func(p query.Params) (*dto.ListResponse[dto.MacroResponse], error)
	latest  func() (*dto.MacroLatestResponse, error)
	summary func(from, to *time.Time) (*dto.MacroSummaryResponse, error)
	create  func(rec validation.Record) (*dto.MacroResponse, error)
}

func (m *mockMacro) List(_ context.Context, p query.Params) (*dto.ListResponse[dto.MacroResponse], error) {
	return m.list(p)
}
func (m *mockMacro) Latest(context.Context) (*dto.MacroLatestResponse, error) { return m.latest() }
func (m *mockMacro) Summary(_ context.Context, from, to *time.Time) (*dto.MacroSummaryResponse, error) {
	return m.summary(from, to)
}
func (m *mockMacro) Create(_ context.Context, rec validation.Record) (*dto.MacroResponse, error) {
	return m.create(rec)
}

type mockMarket struct {
	summary func(date *time.Time) (*dto.MarketSummaryResponse, error)
	trends  func(days int) (*dto.MarketTrendsResponse, error)
	leaders func(days, limit int) (*dto.MarketLeadersResponse, error)
}

func (m *mockMarket) Summary(_ context.Context, date *time.Time) (*dto.MarketSummaryResponse, error) {
	return m.summary(date)
}
func (m *mockMarket) Trends(_ context.Context, days int) (*dto.MarketTrendsResponse, error) {
	return m.trends(days)
}
func (m *mockMarket) Leaders(_ context.Context, days, limit int) (*dto.MarketLeadersResponse, error) {
	return m.leaders(days, limit)
}

type mockExport struct {
	companies  func(p query.Params) (export.Table, error)
	financials func(id int64, p query.Params) (export.Table, error)
	macro      func(p query.Params, variables []string) (export.Table, error)
}

func (m *mockExport) Companies(_ context.Context, p query.Params) (export.Table, error) {
	return m.companies(p)
}
func (m *mockExport) Financials(_ context.Context, id int64, p query.Params) (export.Table, error) {
	return m.financials(id, p)
}
func (m *mockExport) Macro(_ context.Context, p query.Params, variables []string) (export.Table, error) {
	return m.macro(p, variables)
}

type mockUsers struct {
	register func(req dto.RegisterRequest) (*dto.UserResponse, error)
	login    func(req dto.LoginRequest) (*dto.TokenResponse, error)
	refresh  func(req dto.RefreshRequest) (*dto.TokenResponse, error)
}

func (m *mockUsers) Register(_ context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.register(req)
}
func (m *mockUsers) CreateAdmin(_ context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.register(req)
}
func (m *mockUsers) Login(_ context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.login(req)
}
func (m *mockUsers) Refresh(_ context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refresh(req)
}

var (
	_ service.CompanyService   = (*mockCompanies)(nil)
	_ service.FinancialService = (*mockFinancials)(nil)
	_ service.StockService     = (*mockStocks)(nil)
	_ service.MacroService     = (*mockMacro)(nil)
	_ service.MarketService    = (*mockMarket)(nil)
	_ service.ExportService    = (*mockExport)(nil)
	_ service.UserService      = (*mockUsers)(nil)
)
