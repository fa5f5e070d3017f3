package storage

import (
	"context"
	"time"
)

// PricePoint is one of a company's most recent closes on or before a reference date.
// Rank 1 is the latest close, rank 2 the one before it.
type PricePoint struct {
	CompanyID         int64
	Ticker            string
	Name              string
	SharesOutstanding *int64
	Date              time.Time
	Close             *float64
	Volume            *int64
	Rank              int
}

// TrendRow aggregates all prices of one trading date.
type TrendRow struct {
	Date         time.Time
	Companies    int
	AverageClose *float64
	TotalVolume  int64
	Advancing    int
	Declining    int
}

// WindowRow summarises one company's prices inside a date window.
type WindowRow struct {
	CompanyID  int64
	Ticker     string
	Name       string
	FirstClose *float64
	LastClose  *float64
	Volume     int64
}

// MarketRepository runs cross-company price aggregations.
type MarketRepository interface {
	CountCompanies(ctx context.Context) (int, error)
	LatestTradingDate(ctx context.Context, onOrBefore *time.Time) (*time.Time, error)
	RecentPrices(ctx context.Context, ref time.Time) ([]PricePoint, error)
	Trends(ctx context.Context, from, to time.Time) ([]TrendRow, error)
	Window(ctx context.Context, from, to time.Time) ([]WindowRow, error)
}

type marketRepository struct {
	db DBTX
}

func NewMarketRepository(db DBTX) MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) CountCompanies(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n)
	return n, err
}

// LatestTradingDate returns the newest price date, optionally bounded; nil when no prices exist.
func (r *marketRepository) LatestTradingDate(ctx context.Context, onOrBefore *time.Time) (*time.Time, error) {
	var d *time.Time
	var err error
	if onOrBefore != nil {
		err = r.db.QueryRowContext(ctx, `SELECT MAX(date) FROM stocks WHERE date <= $1`, *onOrBefore).Scan(&d)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT MAX(date) FROM stocks`).Scan(&d)
	}
	return d, err
}

// RecentPrices returns up to two most recent prices per company on or before ref.
func (r *marketRepository) RecentPrices(ctx context.Context, ref time.Time) ([]PricePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.ticker, c.name, c.shares_outstanding, p.date, p.close, p.volume, p.rn
		FROM (
			SELECT company_id, date, close, volume,
			       ROW_NUMBER() OVER (PARTITION BY company_id ORDER BY date DESC) AS rn
			FROM stocks
			WHERE date <= $1
		) p
		JOIN companies c ON c.id = p.company_id
		WHERE p.rn <= 2
		ORDER BY c.id, p.rn`, ref)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.CompanyID, &p.Ticker, &p.Name, &p.SharesOutstanding, &p.Date, &p.Close, &p.Volume, &p.Rank); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Trends aggregates each trading date in [from, to]. Advancing and declining
// compare every close with the same company's previous close.
func (r *marketRepository) Trends(ctx context.Context, from, to time.Time) ([]TrendRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH d AS (
			SELECT company_id, date, close, volume,
			       LAG(close) OVER (PARTITION BY company_id ORDER BY date) AS prev_close
			FROM stocks
		)
		SELECT date, COUNT(*), AVG(close), COALESCE(SUM(volume), 0),
		       COUNT(*) FILTER (WHERE close > prev_close),
		       COUNT(*) FILTER (WHERE close < prev_close)
		FROM d
		WHERE date >= $1 AND date <= $2
		GROUP BY date
		ORDER BY date`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []TrendRow
	for rows.Next() {
		var t TrendRow
		if err := rows.Scan(&t.Date, &t.Companies, &t.AverageClose, &t.TotalVolume, &t.Advancing, &t.Declining); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Window returns first close, last close and traded volume per company in [from, to].
func (r *marketRepository) Window(ctx context.Context, from, to time.Time) ([]WindowRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.ticker, c.name, w.first_close, w.last_close, w.volume
		FROM (
			SELECT company_id,
			       (ARRAY_AGG(close ORDER BY date ASC) FILTER (WHERE close IS NOT NULL))[1]  AS first_close,
			       (ARRAY_AGG(close ORDER BY date DESC) FILTER (WHERE close IS NOT NULL))[1] AS last_close,
			       COALESCE(SUM(volume), 0) AS volume
			FROM stocks
			WHERE date >= $1 AND date <= $2
			GROUP BY company_id
		) w
		JOIN companies c ON c.id = w.company_id
		ORDER BY c.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []WindowRow
	for rows.Next() {
		var w WindowRow
		if err := rows.Scan(&w.CompanyID, &w.Ticker, &w.Name, &w.FirstClose, &w.LastClose, &w.Volume); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
