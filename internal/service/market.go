package service

import (
	"context"
	"time"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/serializer"
)

// MarketService defines cross-company aggregations over stock prices.
type MarketService interface {
	Summary(ctx context.Context, date *time.Time) (*dto.MarketSummaryResponse, error)
	Trends(ctx context.Context, days int) (*dto.MarketTrendsResponse, error)
	Leaders(ctx context.Context, days, limit int) (*dto.MarketLeadersResponse, error)
}

type marketService struct {
	Deps
	defaultShares int64
	now           func() time.Time
}

// NewMarketService uses defaultShares for companies without shares_outstanding.
func NewMarketService(d Deps, defaultShares int64) MarketService {
	return &marketService{Deps: d.withDefaults(), defaultShares: defaultShares, now: time.Now}
}

// Summary aggregates the latest closes on or before date, which defaults to
// the latest trading date.
func (s *marketService) Summary(ctx context.Context, date *time.Time) (*dto.MarketSummaryResponse, error) {
	total, err := s.Repos.Market.CountCompanies(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count companies", err)
	}
	ref, err := s.Repos.Market.LatestTradingDate(ctx, date)
	if err != nil {
		return nil, apperr.Internal("failed to resolve trading date", err)
	}
	if ref == nil {
		day := s.today()
		if date != nil {
			day = *date
		}
		resp := serializer.MarketSummary(day, total, nil, s.defaultShares)
		return &resp, nil
	}
	if date != nil {
		ref = date
	}
	points, err := s.Repos.Market.RecentPrices(ctx, *ref)
	if err != nil {
		return nil, apperr.Internal("failed to load prices", err)
	}
	resp := serializer.MarketSummary(*ref, total, points, s.defaultShares)
	return &resp, nil
}

// window returns the inclusive range of days ending at the latest trading date.
func (s *marketService) window(ctx context.Context, days int) (from, to time.Time, ok bool, err error) {
	latest, err := s.Repos.Market.LatestTradingDate(ctx, nil)
	if err != nil || latest == nil {
		return time.Time{}, time.Time{}, false, err
	}
	return latest.AddDate(0, 0, -(days - 1)), *latest, true, nil
}

func (s *marketService) Trends(ctx context.Context, days int) (*dto.MarketTrendsResponse, error) {
	from, to, ok, err := s.window(ctx, days)
	if err != nil {
		return nil, apperr.Internal("failed to resolve trading date", err)
	}
	if !ok {
		resp := serializer.MarketTrends(days, nil)
		return &resp, nil
	}
	rows, err := s.Repos.Market.Trends(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to load market trends", err)
	}
	resp := serializer.MarketTrends(days, rows)
	return &resp, nil
}

func (s *marketService) Leaders(ctx context.Context, days, limit int) (*dto.MarketLeadersResponse, error) {
	if limit < 1 {
		return nil, apperr.Validation("invalid query parameters", "limit must be at least 1")
	}
	from, to, ok, err := s.window(ctx, days)
	if err != nil {
		return nil, apperr.Internal("failed to resolve trading date", err)
	}
	if !ok {
		resp := serializer.MarketLeaders(days, limit, nil)
		return &resp, nil
	}
	rows, err := s.Repos.Market.Window(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to load market leaders", err)
	}
	resp := serializer.MarketLeaders(days, limit, rows)
	return &resp, nil
}

func (s *marketService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
