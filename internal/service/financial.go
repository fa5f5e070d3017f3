package service

import (
	"context"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/serializer"
	"github.com/guttosm/etmarket/internal/validation"
)

// FinancialService defines statement reads, the growth summary and validated inserts.
type FinancialService interface {
	List(ctx context.Context, companyID int64, p query.Params) (*dto.ListResponse[dto.FinancialResponse], error)
	Latest(ctx context.Context, companyID int64) (*dto.FinancialResponse, error)
	Summary(ctx context.Context, companyID int64) (*dto.FinancialSummaryResponse, error)
	Create(ctx context.Context, actor *int64, companyID int64, rec validation.Record) (*dto.FinancialResponse, error)
}

type financialService struct {
	Deps
}

func NewFinancialService(d Deps) FinancialService {
	return &financialService{Deps: d.withDefaults()}
}

func (s *financialService) List(ctx context.Context, companyID int64, p query.Params) (*dto.ListResponse[dto.FinancialResponse], error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	p.CompanyID = &companyID
	plan, err := query.Build(query.Financials, p)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.Repos.Financials.List(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("failed to list financials", err)
	}
	page := serializer.Page(serializer.Financials(rows), total, plan.Page, plan.PerPage)
	return &page, nil
}

func (s *financialService) Latest(ctx context.Context, companyID int64) (*dto.FinancialResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	f, err := s.Repos.Financials.Latest(ctx, companyID)
	if err != nil {
		return nil, apperr.Internal("failed to load financials", err)
	}
	if f == nil {
		return nil, apperr.NotFound("no financial data for company")
	}
	resp := serializer.Financial(*f)
	return &resp, nil
}

// Summary condenses the latest Annual statement and compares it with the
// Annual statement of the previous year when one exists. A company with only
// interim statements gets its latest one without growth figures.
func (s *financialService) Summary(ctx context.Context, companyID int64) (*dto.FinancialSummaryResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	latest, err := s.Repos.Financials.LatestAnnual(ctx, companyID)
	if err != nil {
		return nil, apperr.Internal("failed to load financials", err)
	}
	if latest == nil {
		interim, err := s.Repos.Financials.Latest(ctx, companyID)
		if err != nil {
			return nil, apperr.Internal("failed to load financials", err)
		}
		if interim == nil {
			return nil, apperr.NotFound("no financial data for company")
		}
		resp := serializer.FinancialSummary(*interim, nil)
		return &resp, nil
	}
	prev, err := s.Repos.Financials.Find(ctx, companyID, latest.Year-1, models.PeriodAnnual)
	if err != nil {
		return nil, apperr.Internal("failed to load financials", err)
	}
	resp := serializer.FinancialSummary(*latest, prev)
	return &resp, nil
}

// Create validates the accounting identities of rec and inserts the statement.
// A second statement for the same year and period is a Conflict.
func (s *financialService) Create(ctx context.Context, actor *int64, companyID int64, rec validation.Record) (*dto.FinancialResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	f, res := rec.Financial(companyID)
	if !res.Valid {
		return nil, invalid("invalid financial statement", res)
	}
	if res := validation.ValidateFinancial(rec); !res.Valid {
		return nil, invalid("invalid financial statement", res)
	}
	f.CreatedBy, f.UpdatedBy = actor, actor
	if err := s.Repos.Financials.Create(ctx, f); err != nil {
		return nil, apperr.FromDB(err, "failed to create financial statement")
	}
	resp := serializer.Financial(*f)
	s.changed(ctx, events.NewEvent(events.EntityFinancial, events.ActionCreated, idString(f.ID), resp))
	return &resp, nil
}
