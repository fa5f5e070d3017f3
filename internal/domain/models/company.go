package models

import "time"

// Company is a listed company and the owner of its financial, price and news rows.
type Company struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Ticker            string     `json:"ticker"`
	Industry          string     `json:"industry"`
	Sector            *string    `json:"sector,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Website           *string    `json:"website,omitempty"`
	EstablishedDate   *time.Time `json:"established_date,omitempty"`
	SharesOutstanding *int64     `json:"shares_outstanding,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CreatedBy         *int64     `json:"created_by,omitempty"`
	UpdatedBy         *int64     `json:"updated_by,omitempty"`
}
