package dto

// Pagination describes the page returned by list endpoints.
type Pagination struct {
	TotalItems  int `json:"total_items" example:"57"`
	TotalPages  int `json:"total_pages" example:"3"`
	CurrentPage int `json:"current_page" example:"1"`
	PerPage     int `json:"per_page" example:"20"`
}

// NewPagination derives total pages from the item count.
func NewPagination(total, page, perPage int) Pagination {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Pagination{TotalItems: total, TotalPages: pages, CurrentPage: page, PerPage: perPage}
}

// ListResponse is the envelope for paginated collections.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
