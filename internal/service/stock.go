package service

import (
	"context"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/serializer"
	"github.com/guttosm/etmarket/internal/validation"
)

// StockService defines price history reads and single price inserts.
type StockService interface {
	List(ctx context.Context, companyID int64, p query.Params) (*dto.ListResponse[dto.StockResponse], error)
	Create(ctx context.Context, companyID int64, rec validation.Record) (*dto.StockResponse, error)
}

type stockService struct {
	Deps
}

func NewStockService(d Deps) StockService {
	return &stockService{Deps: d.withDefaults()}
}

func (s *stockService) List(ctx context.Context, companyID int64, p query.Params) (*dto.ListResponse[dto.StockResponse], error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	p.CompanyID = &companyID
	plan, err := query.Build(query.Stocks, p)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.Repos.Stocks.List(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("failed to list stock prices", err)
	}
	page := serializer.Page(serializer.Stocks(rows), total, plan.Page, plan.PerPage)
	return &page, nil
}

func (s *stockService) Create(ctx context.Context, companyID int64, rec validation.Record) (*dto.StockResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if res := validation.ValidateStock(rec); !res.Valid {
		return nil, invalid("invalid stock price", res)
	}
	price, res := rec.Stock(companyID)
	if !res.Valid {
		return nil, invalid("invalid stock price", res)
	}
	if err := s.Repos.Stocks.Create(ctx, price); err != nil {
		return nil, apperr.FromDB(err, "failed to create stock price")
	}
	resp := serializer.Stock(*price)
	s.changed(ctx, events.NewEvent(events.EntityStock, events.ActionCreated, idString(price.ID), resp))
	return &resp, nil
}
