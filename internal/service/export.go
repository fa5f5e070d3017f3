package service

import (
	"context"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/export"
	"github.com/guttosm/etmarket/internal/query"
)

// ExportService builds download tables from the same filters as the list endpoints.
type ExportService interface {
	Companies(ctx context.Context, p query.Params) (export.Table, error)
	Financials(ctx context.Context, companyID int64, p query.Params) (export.Table, error)
	Macro(ctx context.Context, p query.Params, variables []string) (export.Table, error)
}

type exportService struct {
	Deps
	maxRows int
}

// NewExportService caps every export at maxRows rows.
func NewExportService(d Deps, maxRows int) ExportService {
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &exportService{Deps: d.withDefaults(), maxRows: maxRows}
}

func (s *exportService) plan(spec query.Spec, p query.Params) (*query.Plan, error) {
	plan, err := query.Build(spec, p)
	if err != nil {
		return nil, err
	}
	return plan.Unpaged(s.maxRows), nil
}

func (s *exportService) Companies(ctx context.Context, p query.Params) (export.Table, error) {
	plan, err := s.plan(query.Companies, p)
	if err != nil {
		return export.Table{}, err
	}
	rows, _, err := s.Repos.Companies.List(ctx, plan)
	if err != nil {
		return export.Table{}, apperr.Internal("failed to export companies", err)
	}
	return export.CompanyTable(rows), nil
}

func (s *exportService) Financials(ctx context.Context, companyID int64, p query.Params) (export.Table, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return export.Table{}, err
	}
	p.CompanyID = &companyID
	plan, err := s.plan(query.Financials, p)
	if err != nil {
		return export.Table{}, err
	}
	rows, _, err := s.Repos.Financials.List(ctx, plan)
	if err != nil {
		return export.Table{}, apperr.Internal("failed to export financials", err)
	}
	return export.FinancialTable(rows), nil
}

// Macro exports the requested indicator columns; every unknown name is reported.
func (s *exportService) Macro(ctx context.Context, p query.Params, variables []string) (export.Table, error) {
	columns, err := export.MacroColumns(variables)
	if err != nil {
		return export.Table{}, err
	}
	plan, err := s.plan(query.Macro, p)
	if err != nil {
		return export.Table{}, err
	}
	rows, _, err := s.Repos.Macro.List(ctx, plan)
	if err != nil {
		return export.Table{}, apperr.Internal("failed to export macro indicators", err)
	}
	return export.MacroTable(rows, columns), nil
}
