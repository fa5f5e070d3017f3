package storage

import (
	"context"
	"fmt"
	"strings"

	pq "github.com/lib/pq"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

// StockRepository defines DB operations on daily prices.
type StockRepository interface {
	List(ctx context.Context, plan *query.Plan) ([]models.Stock, int, error)
	Create(ctx context.Context, s *models.Stock) error
	BulkUpsert(ctx context.Context, prices []models.Stock) (int64, error)
}

// StockColumns is the select list scanned by scanStock.
var StockColumns = []string{"id", "company_id", "date", "open", "high", "low", "close", "volume", "created_at"}

type stockRepository struct {
	db DBTX
}

func NewStockRepository(db DBTX) StockRepository {
	return &stockRepository{db: db}
}

func scanStock(s rowScanner) (*models.Stock, error) {
	var st models.Stock
	if err := s.Scan(&st.ID, &st.CompanyID, &st.Date, &st.Open, &st.High, &st.Low, &st.Close, &st.Volume, &st.CreatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *stockRepository) List(ctx context.Context, plan *query.Plan) ([]models.Stock, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, plan.SelectSQL(StockColumns), plan.SelectArgs()...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Stock, 0, plan.Limit)
	for rows.Next() {
		st, err := scanStock(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *st)
	}
	return out, total, rows.Err()
}

// Create inserts one price; a second row for the same (company_id, date) is a unique violation.
func (r *stockRepository) Create(ctx context.Context, s *models.Stock) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO stocks (company_id, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		s.CompanyID, s.Date, s.Open, s.High, s.Low, s.Close, s.Volume,
	).Scan(&s.ID, &s.CreatedAt)
}

// BulkUpsert streams prices into a temporary staging table with COPY and then
// merges them into stocks, replacing existing (company_id, date) rows.
// It must run inside a transaction: the staging table is dropped on commit.
func (r *stockRepository) BulkUpsert(ctx context.Context, prices []models.Stock) (int64, error) {
	if len(prices) == 0 {
		return 0, nil
	}
	if _, err := r.db.ExecContext(ctx, `
		CREATE TEMP TABLE IF NOT EXISTS stocks_staging (
			company_id BIGINT, date DATE, open DOUBLE PRECISION, high DOUBLE PRECISION,
			low DOUBLE PRECISION, close DOUBLE PRECISION, volume BIGINT
		) ON COMMIT DROP`); err != nil {
		return 0, fmt.Errorf("create staging: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `TRUNCATE stocks_staging`); err != nil {
		return 0, fmt.Errorf("truncate staging: %w", err)
	}

	stmt, err := r.db.PrepareContext(ctx, pq.CopyIn("stocks_staging",
		"company_id", "date", "open", "high", "low", "close", "volume"))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}
	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.CompanyID, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("copy row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close copy: %w", err)
	}

	// The loader reports repeated (company, date) rows; DISTINCT ON keeps the merge
	// valid for any other caller that stages them.
	res, err := r.db.ExecContext(ctx, strings.TrimSpace(`
		INSERT INTO stocks (company_id, date, open, high, low, close, volume)
		SELECT DISTINCT ON (company_id, date) company_id, date, open, high, low, close, volume
		FROM stocks_staging
		ORDER BY company_id, date, ctid DESC
		ON CONFLICT (company_id, date) DO UPDATE
		SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
		    close = EXCLUDED.close, volume = EXCLUDED.volume`))
	if err != nil {
		return 0, fmt.Errorf("merge staging: %w", err)
	}
	return res.RowsAffected()
}
