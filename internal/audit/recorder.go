// Package audit builds and appends CompanyAudit rows. Callers pass the
// repository bound to the mutation's transaction so both commit together.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/storage"
)

// SourceIngestion marks rows written by the CSV loader.
const SourceIngestion = "ingestion"

// Entry describes one company mutation.
//
// CREATE and BATCH_CREATE carry After, DELETE carries Before, UPDATE carries both.
type Entry struct {
	CompanyID int64
	Action    string
	UserID    *int64
	Before    *models.Company
	After     *models.Company
	Source    string
}

// fields that change on every write and are left out of "changed".
var bookkeeping = map[string]bool{"updated_at": true, "updated_by": true}

type details struct {
	Snapshot *models.Company `json:"snapshot,omitempty"`
	Before   *models.Company `json:"before,omitempty"`
	After    *models.Company `json:"after,omitempty"`
	Changed  []string        `json:"changed,omitempty"`
	Source   string          `json:"source,omitempty"`
}

// Details renders the JSON payload stored with the audit row.
func Details(e Entry) (json.RawMessage, error) {
	d := details{Source: e.Source}
	switch e.Action {
	case models.AuditUpdate:
		d.Before, d.After = e.Before, e.After
		changed, err := ChangedFields(e.Before, e.After)
		if err != nil {
			return nil, err
		}
		d.Changed = changed
		if d.Changed == nil {
			d.Changed = []string{}
		}
	case models.AuditDelete:
		d.Snapshot = e.Before
	case models.AuditCreate, models.AuditBatchCreate:
		d.Snapshot = e.After
	default:
		return nil, fmt.Errorf("audit: unknown action %q", e.Action)
	}
	return json.Marshal(d)
}

// ChangedFields lists the JSON fields whose values differ, sorted.
func ChangedFields(before, after *models.Company) ([]string, error) {
	b, err := toMap(before)
	if err != nil {
		return nil, err
	}
	a, err := toMap(after)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]bool{}
	for k, v := range a {
		seen[k] = true
		if !bookkeeping[k] && !reflect.DeepEqual(v, b[k]) {
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] && !bookkeeping[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func toMap(c *models.Company) (map[string]any, error) {
	m := map[string]any{}
	if c == nil {
		return m, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return m, json.Unmarshal(raw, &m)
}

// Record appends the audit row for e.
func Record(ctx context.Context, repo storage.AuditRepository, e Entry) (*models.CompanyAudit, error) {
	payload, err := Details(e)
	if err != nil {
		return nil, err
	}
	row := &models.CompanyAudit{
		CompanyID: e.CompanyID,
		Action:    e.Action,
		UserID:    e.UserID,
		Details:   payload,
	}
	if err := repo.Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("insert audit row: %w", err)
	}
	return row, nil
}
