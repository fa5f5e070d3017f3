package storage

import (
	"context"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

// AuditRepository appends and reads company audit rows. Rows are never updated or deleted.
type AuditRepository interface {
	Insert(ctx context.Context, a *models.CompanyAudit) error
	List(ctx context.Context, plan *query.Plan) ([]models.CompanyAudit, int, error)
}

var auditColumns = []string{"id", "company_id", "action", "user_id", "details", "timestamp"}

type auditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, a *models.CompanyAudit) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO company_audit (company_id, action, user_id, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`,
		a.CompanyID, a.Action, a.UserID, []byte(a.Details),
	).Scan(&a.ID, &a.Timestamp)
}

func (r *auditRepository) List(ctx context.Context, plan *query.Plan) ([]models.CompanyAudit, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, plan.SelectSQL(auditColumns), plan.SelectArgs()...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.CompanyAudit, 0, plan.Limit)
	for rows.Next() {
		var a models.CompanyAudit
		var details []byte
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Action, &a.UserID, &details, &a.Timestamp); err != nil {
			return nil, 0, err
		}
		a.Details = details
		out = append(out, a)
	}
	return out, total, rows.Err()
}
