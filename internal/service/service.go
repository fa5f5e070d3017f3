// Package service holds the business operations behind each API resource.
//
// Reads go through the repositories bound to the connection pool. Company
// mutations run inside storage.TxRunner together with their audit row. After
// a successful commit the affected entity's cache generation is bumped and a
// change event is published; failures of either are logged, never returned.
package service

import (
	"context"
	"strconv"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/logger"
	"github.com/guttosm/etmarket/internal/storage"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Repos  storage.Repos
	Tx     storage.TxRunner
	Cache  cache.Store
	Events events.Publisher
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	return d
}

// changed invalidates cached reads of entity and publishes the event.
func (d Deps) changed(ctx context.Context, ev events.Event) {
	if err := d.Cache.Invalidate(ctx, ev.Entity); err != nil {
		logger.L().Warn().Err(err).Str("entity", ev.Entity).Msg("cache invalidation failed")
	}
	if err := d.Events.Publish(ctx, ev); err != nil {
		logger.L().Warn().Err(err).Str("event", ev.EventType).Msg("event publish failed")
	}
}

// requireCompany fails with NotFound when the company does not exist.
func (d Deps) requireCompany(ctx context.Context, id int64) error {
	ok, err := d.Repos.Companies.Exists(ctx, id)
	if err != nil {
		return apperr.Internal("failed to look up company", err)
	}
	if !ok {
		return apperr.NotFound("company not found")
	}
	return nil
}

func idString(id int64) string { return strconv.FormatInt(id, 10) }
