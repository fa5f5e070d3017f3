package models

import (
	"encoding/json"
	"time"
)

// Audit actions recorded for company mutations.
const (
	AuditCreate      = "CREATE"
	AuditUpdate      = "UPDATE"
	AuditDelete      = "DELETE"
	AuditBatchCreate = "BATCH_CREATE"
)

// CompanyAudit is an append-only record of one company mutation.
type CompanyAudit struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	Action    string          `json:"action"`
	UserID    *int64          `json:"user_id,omitempty"`
	Details   json.RawMessage `json:"details"`
	Timestamp time.Time       `json:"timestamp"`
}
