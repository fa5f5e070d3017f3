package dto

import "time"

// CompanyRequest is the body of POST /companies and each item of POST /companies/batch.
type CompanyRequest struct {
	Name              string  `json:"name" example:"Ethio Telecom"`
	Ticker            string  `json:"ticker" example:"ETEL"`
	Industry          string  `json:"industry" example:"Telecommunications"`
	Sector            *string `json:"sector,omitempty" example:"Services"`
	Description       *string `json:"description,omitempty"`
	Website           *string `json:"website,omitempty" example:"https://www.ethiotelecom.et"`
	EstablishedDate   *Date   `json:"established_date,omitempty" swaggertype:"string" example:"1894-01-01"`
	SharesOutstanding *int64  `json:"shares_outstanding,omitempty" example:"100000000"`
}

// CompanyUpdateRequest is the partial body of PUT /companies/{id}; nil fields are left unchanged.
type CompanyUpdateRequest struct {
	Name              *string `json:"name,omitempty"`
	Ticker            *string `json:"ticker,omitempty"`
	Industry          *string `json:"industry,omitempty"`
	Sector            *string `json:"sector,omitempty"`
	Description       *string `json:"description,omitempty"`
	Website           *string `json:"website,omitempty"`
	EstablishedDate   *Date   `json:"established_date,omitempty" swaggertype:"string"`
	SharesOutstanding *int64  `json:"shares_outstanding,omitempty"`
}

// CompanyResponse is the public representation of a company.
type CompanyResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Ticker            string    `json:"ticker"`
	Industry          string    `json:"industry"`
	Sector            *string   `json:"sector,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Website           *string   `json:"website,omitempty"`
	EstablishedDate   *Date     `json:"established_date,omitempty" swaggertype:"string"`
	SharesOutstanding *int64    `json:"shares_outstanding,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
