package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/audit"
	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/logger"
	"github.com/guttosm/etmarket/internal/storage"
	"github.com/guttosm/etmarket/internal/validation"
)

// Sources are the CSV files to load; an empty path skips that entity.
type Sources struct {
	Companies  string
	Financials string
	Stocks     string
	Macro      string
}

// SourcesIn joins the default file names with dir.
func SourcesIn(dir, companies, financials, stocks, macro string) Sources {
	join := func(name string) string {
		if name == "" {
			return ""
		}
		return filepath.Join(dir, name)
	}
	return Sources{
		Companies:  join(companies),
		Financials: join(financials),
		Stocks:     join(stocks),
		Macro:      join(macro),
	}
}

// Required header columns per file. Financial and price files additionally
// need company_id or ticker, which is checked per line.
var (
	companyColumns   = []string{"name", "ticker", "industry"}
	financialColumns = []string{"year"}
	stockColumns     = []string{"date", "close"}
	macroColumns     = []string{"date"}
)

// Loader bulk loads CSV files. Companies are loaded first so the other files
// can reference them; financials, prices and macro snapshots then load
// concurrently, each in its own transaction.
type Loader struct {
	tx     storage.TxRunner
	cache  cache.Store
	events events.Publisher
}

// NewLoader builds a Loader; nil store and publisher are replaced by no-ops.
func NewLoader(tx storage.TxRunner, store cache.Store, pub events.Publisher) *Loader {
	if store == nil {
		store = cache.Nop{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Loader{tx: tx, cache: store, events: pub}
}

// Run loads every configured source.
//
// Behavior:
//   - A record failing validation or a constraint is skipped; the file continues.
//   - A file that cannot be read, or a transaction that cannot commit, fails
//     the run and cancels the loads still in flight.
//   - After loading, caches of every changed entity are invalidated and one
//     INGESTED event per entity is published.
//
// Returns:
//   - []Report: one per loaded file, companies first.
//   - error: first infrastructure error encountered (if any).
func (l *Loader) Run(ctx context.Context, src Sources) ([]Report, error) {
	start := time.Now()
	logger.L().Info().
		Str("companies", src.Companies).
		Str("financials", src.Financials).
		Str("stocks", src.Stocks).
		Str("macro", src.Macro).
		Msg("ingestion start")

	var reports []Report
	if src.Companies != "" {
		rep, err := l.loadCompanies(ctx, src.Companies)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", src.Companies, err)
		}
		reports = append(reports, rep)
	}

	type job struct {
		path string
		load func(context.Context, string) (Report, error)
	}
	var jobs []job
	for _, j := range []job{
		{src.Financials, l.loadFinancials},
		{src.Stocks, l.loadStocks},
		{src.Macro, l.loadMacro},
	} {
		if j.path != "" {
			jobs = append(jobs, j)
		}
	}

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	results := make([]Report, len(jobs))
	for i, j := range jobs {
		g.Go(func() error {
			rep, err := j.load(gctx, j.path)
			if err != nil {
				logger.L().Error().Str("file", j.path).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", j.path, err)
			}
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	reports = append(reports, results...)

	for _, rep := range reports {
		rep.log()
		l.changed(ctx, rep)
	}
	logger.L().Info().Int("files", len(reports)).Dur("elapsed", time.Since(start)).Msg("ingestion done")
	return reports, nil
}

// changed invalidates the entity cache and announces the load; failures are logged only.
func (l *Loader) changed(ctx context.Context, rep Report) {
	if rep.Loaded == 0 {
		return
	}
	if err := l.cache.Invalidate(ctx, rep.Entity); err != nil {
		logger.L().Warn().Err(err).Str("entity", rep.Entity).Msg("cache invalidation failed")
	}
	ev := events.NewEvent(rep.Entity, events.ActionIngested, "", map[string]any{"file": filepath.Base(rep.File)})
	ev.Count = rep.Loaded
	if err := l.events.Publish(ctx, ev); err != nil {
		logger.L().Warn().Err(err).Str("entity", rep.Entity).Msg("publish ingestion event failed")
	}
}

// rejected turns a per-record storage error into skip reasons.
func rejected(err error) []string {
	ae := apperr.As(err)
	if ae.Kind == apperr.KindInternal {
		return []string{err.Error()}
	}
	return []string{ae.Message}
}

// loadCompanies upserts companies by ticker. New companies get a
// BATCH_CREATE audit row without a user; each line runs in a savepoint.
func (l *Loader) loadCompanies(ctx context.Context, path string) (Report, error) {
	start := time.Now()
	rep := Report{Entity: events.EntityCompany, File: path}
	rows, err := readRows(ctx, path, companyColumns...)
	if err != nil {
		return rep, err
	}
	rep.Total = len(rows)

	err = l.tx.Run(ctx, func(tx storage.DBTX, repos storage.Repos) error {
		rep.Loaded, rep.Skipped = 0, nil
		for _, r := range rows {
			c, reasons := companyFromRecord(r.rec)
			if len(reasons) > 0 {
				rep.skip(r.line, reasons...)
				continue
			}
			explicitID := c.ID > 0
			err := storage.WithSavepoint(ctx, tx, func() error {
				inserted, err := repos.Companies.Upsert(ctx, c)
				if err != nil {
					return apperr.FromDB(err, "upsert company")
				}
				if !inserted {
					return nil
				}
				// later generated ids must not collide with this one
				if explicitID {
					if err := repos.Companies.SyncIDSequence(ctx); err != nil {
						return fmt.Errorf("sync company id sequence: %w", err)
					}
				}
				_, err = audit.Record(ctx, repos.Audit, audit.Entry{
					CompanyID: c.ID,
					Action:    models.AuditBatchCreate,
					After:     c,
					Source:    audit.SourceIngestion,
				})
				return err
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				rep.skip(r.line, rejected(err)...)
				continue
			}
			rep.Loaded++
		}
		return nil
	})
	rep.Elapsed = time.Since(start)
	return rep, err
}

// index loads the ticker to id map inside the caller's transaction.
func index(ctx context.Context, repos storage.Repos) (companyIndex, error) {
	byTicker, err := repos.Companies.TickerIndex(ctx)
	if err != nil {
		return companyIndex{}, fmt.Errorf("load company index: %w", err)
	}
	return newCompanyIndex(byTicker), nil
}

// loadFinancials upserts statements by (company, year, period) after the
// accounting checks pass.
func (l *Loader) loadFinancials(ctx context.Context, path string) (Report, error) {
	start := time.Now()
	rep := Report{Entity: events.EntityFinancial, File: path}
	rows, err := readRows(ctx, path, financialColumns...)
	if err != nil {
		return rep, err
	}
	rep.Total = len(rows)

	err = l.tx.Run(ctx, func(tx storage.DBTX, repos storage.Repos) error {
		rep.Loaded, rep.Skipped = 0, nil
		ix, err := index(ctx, repos)
		if err != nil {
			return err
		}
		for _, r := range rows {
			companyID, err := ix.resolve(r.rec)
			if err != nil {
				rep.skip(r.line, err.Error())
				continue
			}
			f, res := r.rec.Financial(companyID)
			if check := validation.ValidateFinancial(r.rec); !check.Valid {
				res.Valid = false
				res.Reasons = append(res.Reasons, check.Reasons...)
			}
			if !res.Valid {
				rep.skip(r.line, res.Reasons...)
				continue
			}
			if err := storage.WithSavepoint(ctx, tx, func() error {
				return apperr.FromDB(repos.Financials.Upsert(ctx, f), "upsert financial")
			}); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				rep.skip(r.line, rejected(err)...)
				continue
			}
			rep.Loaded++
		}
		return nil
	})
	rep.Elapsed = time.Since(start)
	return rep, err
}

// loadStocks validates every price line and merges the valid ones with a
// single COPY based bulk upsert.
func (l *Loader) loadStocks(ctx context.Context, path string) (Report, error) {
	start := time.Now()
	rep := Report{Entity: events.EntityStock, File: path}
	rows, err := readRows(ctx, path, stockColumns...)
	if err != nil {
		return rep, err
	}
	rep.Total = len(rows)

	err = l.tx.Run(ctx, func(_ storage.DBTX, repos storage.Repos) error {
		rep.Loaded, rep.Skipped = 0, nil
		ix, err := index(ctx, repos)
		if err != nil {
			return err
		}
		prices := make([]models.Stock, 0, len(rows))
		firstLine := make(map[priceKey]int, len(rows))
		for _, r := range rows {
			companyID, err := ix.resolve(r.rec)
			if err != nil {
				rep.skip(r.line, err.Error())
				continue
			}
			if res := validation.ValidateStock(r.rec); !res.Valid {
				rep.skip(r.line, res.Reasons...)
				continue
			}
			price, res := r.rec.Stock(companyID)
			if !res.Valid {
				rep.skip(r.line, res.Reasons...)
				continue
			}
			key := priceKey{companyID: companyID, date: price.Date.Format(time.DateOnly)}
			if first, dup := firstLine[key]; dup {
				rep.skip(r.line, fmt.Sprintf("duplicate price for company %d on %s (first on line %d)", companyID, key.date, first))
				continue
			}
			firstLine[key] = r.line
			prices = append(prices, *price)
		}
		n, err := repos.Stocks.BulkUpsert(ctx, prices)
		if err != nil {
			return fmt.Errorf("bulk upsert stocks: %w", err)
		}
		rep.Loaded = int(n)
		return nil
	})
	rep.Elapsed = time.Since(start)
	return rep, err
}

// priceKey identifies one daily price within a file.
type priceKey struct {
	companyID int64
	date      string
}

// loadMacro upserts snapshots by date after the range checks pass.
func (l *Loader) loadMacro(ctx context.Context, path string) (Report, error) {
	start := time.Now()
	rep := Report{Entity: events.EntityMacro, File: path}
	rows, err := readRows(ctx, path, macroColumns...)
	if err != nil {
		return rep, err
	}
	rep.Total = len(rows)

	err = l.tx.Run(ctx, func(tx storage.DBTX, repos storage.Repos) error {
		rep.Loaded, rep.Skipped = 0, nil
		for _, r := range rows {
			if res := validation.ValidateMacro(r.rec); !res.Valid {
				rep.skip(r.line, res.Reasons...)
				continue
			}
			m, res := r.rec.Macro()
			if !res.Valid {
				rep.skip(r.line, res.Reasons...)
				continue
			}
			if err := storage.WithSavepoint(ctx, tx, func() error {
				return apperr.FromDB(repos.Macro.Upsert(ctx, m), "upsert macro indicators")
			}); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				rep.skip(r.line, rejected(err)...)
				continue
			}
			rep.Loaded++
		}
		return nil
	})
	rep.Elapsed = time.Since(start)
	return rep, err
}
