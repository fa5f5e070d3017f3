package service

import (
	"context"
	"time"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/serializer"
	"github.com/guttosm/etmarket/internal/validation"
)

// MacroService defines macro indicator reads, summaries and validated inserts.
type MacroService interface {
	List(ctx context.Context, p query.Params) (*dto.ListResponse[dto.MacroResponse], error)
	Latest(ctx context.Context) (*dto.MacroLatestResponse, error)
	Summary(ctx context.Context, from, to *time.Time) (*dto.MacroSummaryResponse, error)
	Create(ctx context.Context, rec validation.Record) (*dto.MacroResponse, error)
}

type macroService struct {
	Deps
}

func NewMacroService(d Deps) MacroService {
	return &macroService{Deps: d.withDefaults()}
}

func (s *macroService) List(ctx context.Context, p query.Params) (*dto.ListResponse[dto.MacroResponse], error) {
	plan, err := query.Build(query.Macro, p)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.Repos.Macro.List(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("failed to list macro indicators", err)
	}
	page := serializer.Page(serializer.Macros(rows), total, plan.Page, plan.PerPage)
	return &page, nil
}

// Latest returns the newest snapshot with key indicator changes against the
// most recent snapshot at least 30 days older.
func (s *macroService) Latest(ctx context.Context) (*dto.MacroLatestResponse, error) {
	latest, err := s.Repos.Macro.Latest(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load macro indicators", err)
	}
	if latest == nil {
		return nil, apperr.NotFound("no macro indicators available")
	}
	prior, err := s.Repos.Macro.OnOrBefore(ctx, latest.Date.Add(-serializer.MonthlyLookback))
	if err != nil {
		return nil, apperr.Internal("failed to load macro indicators", err)
	}
	resp := serializer.MacroLatest(*latest, prior)
	return &resp, nil
}

// Summary aggregates the key indicators between from and to (inclusive, both optional).
func (s *macroService) Summary(ctx context.Context, from, to *time.Time) (*dto.MacroSummaryResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperr.Validation("invalid query parameters", "date_to must not be before date_from")
	}
	stats, err := s.Repos.Macro.Stats(ctx, from, to, models.KeyMacroIndicators)
	if err != nil {
		return nil, apperr.Internal("failed to summarise macro indicators", err)
	}

	var latest *models.MacroIndicators
	if stats.Records > 0 && stats.To != nil {
		latest, err = s.Repos.Macro.OnOrBefore(ctx, *stats.To)
		if err != nil {
			return nil, apperr.Internal("failed to load macro indicators", err)
		}
	}
	var current map[string]*float64
	if latest != nil {
		current = models.MetricMap(latest.Metrics())
	}

	resp := &dto.MacroSummaryResponse{
		From:       dto.DatePtr(stats.From),
		To:         dto.DatePtr(stats.To),
		Records:    stats.Records,
		Indicators: make(map[string]dto.IndicatorStats, len(models.KeyMacroIndicators)),
	}
	for _, key := range models.KeyMacroIndicators {
		cs := stats.Columns[key]
		st := dto.IndicatorStats{Min: cs.Min, Max: cs.Max}
		if cs.Average != nil {
			avg := serializer.Round2(*cs.Average)
			st.Average = &avg
		}
		if current != nil {
			st.Latest = current[key]
		}
		resp.Indicators[key] = st
	}
	return resp, nil
}

// Create validates ranges and the trade balance identity, then inserts.
// A second snapshot for the same date is a Conflict.
func (s *macroService) Create(ctx context.Context, rec validation.Record) (*dto.MacroResponse, error) {
	if res := validation.ValidateMacro(rec); !res.Valid {
		return nil, invalid("invalid macro indicators", res)
	}
	m, res := rec.Macro()
	if !res.Valid {
		return nil, invalid("invalid macro indicators", res)
	}
	if err := s.Repos.Macro.Create(ctx, m); err != nil {
		return nil, apperr.FromDB(err, "failed to create macro indicators")
	}
	resp := serializer.Macro(*m)
	s.changed(ctx, events.NewEvent(events.EntityMacro, events.ActionCreated, resp.Date.String(), resp))
	return &resp, nil
}
