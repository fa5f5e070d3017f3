package service

import (
	"context"
	"strings"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/audit"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/logger"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/serializer"
	"github.com/guttosm/etmarket/internal/storage"
	"github.com/guttosm/etmarket/internal/validation"
)

// CompanyService defines company reads, audited mutations and audit history.
type CompanyService interface {
	List(ctx context.Context, p query.Params) (*dto.ListResponse[dto.CompanyResponse], error)
	Get(ctx context.Context, id int64) (*dto.CompanyResponse, error)
	Create(ctx context.Context, actor *int64, req dto.CompanyRequest) (*dto.CompanyResponse, error)
	CreateBatch(ctx context.Context, actor *int64, reqs []dto.CompanyRequest) ([]dto.CompanyResponse, error)
	Update(ctx context.Context, actor *int64, id int64, req dto.CompanyUpdateRequest) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, actor *int64, id int64) error
	History(ctx context.Context, id int64, p query.Params) (*dto.ListResponse[models.CompanyAudit], error)
}

type companyService struct {
	Deps
}

func NewCompanyService(d Deps) CompanyService {
	return &companyService{Deps: d.withDefaults()}
}

func (s *companyService) List(ctx context.Context, p query.Params) (*dto.ListResponse[dto.CompanyResponse], error) {
	plan, err := query.Build(query.Companies, p)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.Repos.Companies.List(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	page := serializer.Page(serializer.Companies(rows), total, plan.Page, plan.PerPage)
	return &page, nil
}

func (s *companyService) Get(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	c, err := s.Repos.Companies.Get(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load company", err)
	}
	if c == nil {
		return nil, apperr.NotFound("company not found")
	}
	resp := serializer.Company(*c)
	return &resp, nil
}

func newCompany(req dto.CompanyRequest, actor *int64) *models.Company {
	c := &models.Company{
		Name:              strings.TrimSpace(req.Name),
		Ticker:            strings.TrimSpace(req.Ticker),
		Industry:          strings.TrimSpace(req.Industry),
		Sector:            req.Sector,
		Description:       req.Description,
		Website:           req.Website,
		SharesOutstanding: req.SharesOutstanding,
		CreatedBy:         actor,
		UpdatedBy:         actor,
	}
	if req.EstablishedDate != nil {
		t := req.EstablishedDate.Time()
		c.EstablishedDate = &t
	}
	return c
}

func invalid(msg string, res validation.Result) error {
	return apperr.Validation(msg, res.Reasons...)
}

// Create validates req, inserts the company and its CREATE audit row atomically.
func (s *companyService) Create(ctx context.Context, actor *int64, req dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if res := validation.ValidateCompany(req); !res.Valid {
		return nil, invalid("invalid company", res)
	}
	c := newCompany(req, actor)
	err := s.Tx.Run(ctx, func(_ storage.DBTX, repos storage.Repos) error {
		if err := repos.Companies.Create(ctx, c); err != nil {
			return apperr.FromDB(err, "failed to create company")
		}
		_, err := audit.Record(ctx, repos.Audit, audit.Entry{
			CompanyID: c.ID, Action: models.AuditCreate, UserID: actor, After: c,
		})
		return err
	})
	if err != nil {
		return nil, apperr.FromDB(err, "failed to create company")
	}
	resp := serializer.Company(*c)
	s.changed(ctx, events.NewEvent(events.EntityCompany, events.ActionCreated, idString(c.ID), resp))
	return &resp, nil
}

// CreateBatch is all-or-nothing: every item is validated up front and any
// insert failure rolls the whole batch back.
func (s *companyService) CreateBatch(ctx context.Context, actor *int64, reqs []dto.CompanyRequest) ([]dto.CompanyResponse, error) {
	if len(reqs) == 0 {
		return nil, apperr.Validation("invalid company batch", "batch must contain at least one company")
	}
	var details []string
	seen := map[string]int{}
	for i, req := range reqs {
		res := validation.ValidateCompany(req)
		for _, r := range res.Reasons {
			details = append(details, "item "+idString(int64(i))+": "+r)
		}
		t := strings.TrimSpace(req.Ticker)
		if j, dup := seen[t]; dup && t != "" {
			details = append(details, "item "+idString(int64(i))+": ticker duplicates item "+idString(int64(j)))
		}
		seen[t] = i
	}
	if len(details) > 0 {
		return nil, apperr.Validation("invalid company batch", details...)
	}

	created := make([]*models.Company, len(reqs))
	err := s.Tx.Run(ctx, func(_ storage.DBTX, repos storage.Repos) error {
		for i, req := range reqs {
			c := newCompany(req, actor)
			if err := repos.Companies.Create(ctx, c); err != nil {
				return apperr.FromDB(err, "failed to create company")
			}
			if _, err := audit.Record(ctx, repos.Audit, audit.Entry{
				CompanyID: c.ID, Action: models.AuditBatchCreate, UserID: actor, After: c,
			}); err != nil {
				return err
			}
			created[i] = c
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "failed to create companies")
	}

	out := make([]dto.CompanyResponse, len(created))
	for i, c := range created {
		out[i] = serializer.Company(*c)
	}
	ev := events.NewEvent(events.EntityCompany, events.ActionBatchCreated, "", out)
	ev.Count = len(out)
	s.changed(ctx, ev)
	return out, nil
}

// applyUpdate copies the non-nil fields of req onto c.
func applyUpdate(c *models.Company, req dto.CompanyUpdateRequest) {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Ticker != nil {
		c.Ticker = strings.TrimSpace(*req.Ticker)
	}
	if req.Industry != nil {
		c.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Sector != nil {
		c.Sector = req.Sector
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Website != nil {
		c.Website = req.Website
	}
	if req.EstablishedDate != nil {
		t := req.EstablishedDate.Time()
		c.EstablishedDate = &t
	}
	if req.SharesOutstanding != nil {
		c.SharesOutstanding = req.SharesOutstanding
	}
}

func asRequest(c *models.Company) dto.CompanyRequest {
	return dto.CompanyRequest{
		Name:              c.Name,
		Ticker:            c.Ticker,
		Industry:          c.Industry,
		Sector:            c.Sector,
		Description:       c.Description,
		Website:           c.Website,
		EstablishedDate:   dto.DatePtr(c.EstablishedDate),
		SharesOutstanding: c.SharesOutstanding,
	}
}

// Update locks the row, applies the partial update, validates the merged
// result and records before/after in the same transaction.
func (s *companyService) Update(ctx context.Context, actor *int64, id int64, req dto.CompanyUpdateRequest) (*dto.CompanyResponse, error) {
	var after *models.Company
	err := s.Tx.Run(ctx, func(_ storage.DBTX, repos storage.Repos) error {
		before, err := repos.Companies.GetForUpdate(ctx, id)
		if err != nil {
			return apperr.Internal("failed to load company", err)
		}
		if before == nil {
			return apperr.NotFound("company not found")
		}
		next := *before
		applyUpdate(&next, req)
		if res := validation.ValidateCompany(asRequest(&next)); !res.Valid {
			return invalid("invalid company", res)
		}
		next.UpdatedBy = actor
		if err := repos.Companies.Update(ctx, &next); err != nil {
			return apperr.FromDB(err, "failed to update company")
		}
		if _, err := audit.Record(ctx, repos.Audit, audit.Entry{
			CompanyID: id, Action: models.AuditUpdate, UserID: actor, Before: before, After: &next,
		}); err != nil {
			return err
		}
		after = &next
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "failed to update company")
	}
	resp := serializer.Company(*after)
	s.changed(ctx, events.NewEvent(events.EntityCompany, events.ActionUpdated, idString(id), resp))
	return &resp, nil
}

// Delete writes the DELETE audit row then removes the company; prices,
// statements and news cascade. Dependent caches are invalidated too.
func (s *companyService) Delete(ctx context.Context, actor *int64, id int64) error {
	err := s.Tx.Run(ctx, func(_ storage.DBTX, repos storage.Repos) error {
		before, err := repos.Companies.GetForUpdate(ctx, id)
		if err != nil {
			return apperr.Internal("failed to load company", err)
		}
		if before == nil {
			return apperr.NotFound("company not found")
		}
		if _, err := audit.Record(ctx, repos.Audit, audit.Entry{
			CompanyID: id, Action: models.AuditDelete, UserID: actor, Before: before,
		}); err != nil {
			return err
		}
		if _, err := repos.Companies.Delete(ctx, id); err != nil {
			return apperr.FromDB(err, "failed to delete company")
		}
		return nil
	})
	if err != nil {
		return apperr.FromDB(err, "failed to delete company")
	}
	if err := s.Cache.Invalidate(ctx, events.EntityFinancial, events.EntityStock); err != nil {
		logger.L().Warn().Err(err).Int64("company_id", id).Msg("cache invalidation failed")
	}
	s.changed(ctx, events.NewEvent(events.EntityCompany, events.ActionDeleted, idString(id), nil))
	return nil
}

// History lists the audit rows of a company, newest first. Rows of deleted
// companies remain readable.
func (s *companyService) History(ctx context.Context, id int64, p query.Params) (*dto.ListResponse[models.CompanyAudit], error) {
	p.CompanyID = &id
	plan, err := query.Build(query.Audit, p)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.Repos.Audit.List(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("failed to list audit history", err)
	}
	page := serializer.Page(rows, total, plan.Page, plan.PerPage)
	return &page, nil
}
