package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

// CompanyRepository defines DB operations on companies.
type CompanyRepository interface {
	List(ctx context.Context, plan *query.Plan) ([]models.Company, int, error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Company, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, c *models.Company) error
	Update(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id int64) (bool, error)
	Upsert(ctx context.Context, c *models.Company) (inserted bool, err error)
	SyncIDSequence(ctx context.Context) error
	TickerIndex(ctx context.Context) (map[string]int64, error)
}

// CompanyColumns is the select list scanned by scanCompany.
var CompanyColumns = []string{
	"id", "name", "ticker", "industry", "sector", "description", "website",
	"established_date", "shares_outstanding", "created_at", "updated_at", "created_by", "updated_by",
}

type companyRepository struct {
	db DBTX
}

func NewCompanyRepository(db DBTX) CompanyRepository {
	return &companyRepository{db: db}
}

func scanCompany(s rowScanner) (*models.Company, error) {
	var c models.Company
	err := s.Scan(&c.ID, &c.Name, &c.Ticker, &c.Industry, &c.Sector, &c.Description, &c.Website,
		&c.EstablishedDate, &c.SharesOutstanding, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns one page of companies matching plan and the total match count.
func (r *companyRepository) List(ctx context.Context, plan *query.Plan) ([]models.Company, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, plan.SelectSQL(CompanyColumns), plan.SelectArgs()...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Company, 0, plan.Limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// Get returns the company or nil when it does not exist.
func (r *companyRepository) Get(ctx context.Context, id int64) (*models.Company, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the company row until the surrounding transaction ends.
func (r *companyRepository) GetForUpdate(ctx context.Context, id int64) (*models.Company, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *companyRepository) get(ctx context.Context, id int64, suffix string) (*models.Company, error) {
	q := "SELECT " + strings.Join(CompanyColumns, ", ") + " FROM companies WHERE id = $1" + suffix
	c, err := scanCompany(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *companyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Create inserts c and fills its generated id and timestamps.
func (r *companyRepository) Create(ctx context.Context, c *models.Company) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO companies (name, ticker, industry, sector, description, website, established_date, shares_outstanding, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Ticker, c.Industry, c.Sector, c.Description, c.Website, c.EstablishedDate, c.SharesOutstanding, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update overwrites the mutable columns of c and refreshes UpdatedAt.
func (r *companyRepository) Update(ctx context.Context, c *models.Company) error {
	return r.db.QueryRowContext(ctx, `
		UPDATE companies
		SET name = $2, ticker = $3, industry = $4, sector = $5, description = $6, website = $7,
		    established_date = $8, shares_outstanding = $9, updated_by = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Name, c.Ticker, c.Industry, c.Sector, c.Description, c.Website, c.EstablishedDate, c.SharesOutstanding, c.UpdatedBy,
	).Scan(&c.UpdatedAt)
}

// Delete removes the company; dependent financials, prices and news cascade.
func (r *companyRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Upsert inserts or refreshes a company keyed by ticker. An explicit ID is
// kept when provided so that related CSV files can reference it.
func (r *companyRepository) Upsert(ctx context.Context, c *models.Company) (bool, error) {
	const set = `
		ON CONFLICT (ticker) DO UPDATE
		SET name = EXCLUDED.name, industry = EXCLUDED.industry, sector = EXCLUDED.sector,
		    description = EXCLUDED.description, website = EXCLUDED.website,
		    established_date = EXCLUDED.established_date,
		    shares_outstanding = COALESCE(EXCLUDED.shares_outstanding, companies.shares_outstanding),
		    updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var inserted bool
	var row *sql.Row
	if c.ID > 0 {
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO companies (id, name, ticker, industry, sector, description, website, established_date, shares_outstanding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`+set,
			c.ID, c.Name, c.Ticker, c.Industry, c.Sector, c.Description, c.Website, c.EstablishedDate, c.SharesOutstanding)
	} else {
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO companies (name, ticker, industry, sector, description, website, established_date, shares_outstanding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`+set,
			c.Name, c.Ticker, c.Industry, c.Sector, c.Description, c.Website, c.EstablishedDate, c.SharesOutstanding)
	}
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &inserted)
	return inserted, err
}

// SyncIDSequence moves the id sequence past explicitly inserted ids.
func (r *companyRepository) SyncIDSequence(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('companies', 'id'), COALESCE((SELECT MAX(id) FROM companies), 0) + 1, false)`)
	return err
}

// TickerIndex maps every ticker to its company id.
func (r *companyRepository) TickerIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, ticker FROM companies`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var ticker string
		if err := rows.Scan(&id, &ticker); err != nil {
			return nil, err
		}
		out[ticker] = id
	}
	return out, rows.Err()
}
