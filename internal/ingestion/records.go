package ingestion

import (
	"fmt"
	"strconv"

	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/validation"
)

// companyFromRecord maps a companies.csv line. An explicit id column is kept
// so files exported from another instance load with stable ids.
func companyFromRecord(rec validation.Record) (*models.Company, []string) {
	var reasons []string

	req := dto.CompanyRequest{
		Name:     rec.String("name"),
		Ticker:   rec.String("ticker"),
		Industry: rec.String("industry"),
	}
	for key, dst := range map[string]**string{"sector": &req.Sector, "description": &req.Description, "website": &req.Website} {
		if v := rec.String(key); v != "" {
			*dst = &v
		}
	}
	established, err := rec.Date("established_date")
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	shares, err := rec.Int("shares_outstanding")
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	req.SharesOutstanding = shares
	id, err := rec.Int("id")
	if err != nil {
		reasons = append(reasons, err.Error())
	}

	if res := validation.ValidateCompany(req); !res.Valid {
		reasons = append(reasons, res.Reasons...)
	}
	if len(reasons) > 0 {
		return nil, reasons
	}

	c := &models.Company{
		Name:              req.Name,
		Ticker:            req.Ticker,
		Industry:          req.Industry,
		Sector:            req.Sector,
		Description:       req.Description,
		Website:           req.Website,
		EstablishedDate:   established,
		SharesOutstanding: req.SharesOutstanding,
	}
	if id != nil {
		c.ID = *id
	}
	return c, nil
}

// companyIndex resolves the company of a financial or price line by
// company_id or, when absent, by ticker.
type companyIndex struct {
	byTicker map[string]int64
	ids      map[int64]bool
}

func newCompanyIndex(byTicker map[string]int64) companyIndex {
	ids := make(map[int64]bool, len(byTicker))
	for _, id := range byTicker {
		ids[id] = true
	}
	return companyIndex{byTicker: byTicker, ids: ids}
}

func (ix companyIndex) resolve(rec validation.Record) (int64, error) {
	if s := rec.String("company_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid company_id: %s", s)
		}
		if !ix.ids[id] {
			return 0, fmt.Errorf("unknown company_id: %d", id)
		}
		return id, nil
	}
	ticker := rec.String("ticker")
	if ticker == "" {
		return 0, fmt.Errorf("missing field: company_id or ticker")
	}
	id, ok := ix.byTicker[ticker]
	if !ok {
		return 0, fmt.Errorf("unknown ticker: %s", ticker)
	}
	return id, nil
}
