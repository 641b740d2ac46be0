package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortField string

const (
	SortByName            SortField = "name"
	SortByApplicationDate SortField = "applicationDate"
	SortByStatus          SortField = "status"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PaginationOptions selects one page of a listing. Sorting applies only to
// the items of the fetched page, never across pages.
type PaginationOptions struct {
	PageSize          int           `form:"pageSize" json:"pageSize,omitempty"`
	ContinuationToken string        `form:"continuationToken" json:"continuationToken,omitempty"`
	SortBy            SortField     `form:"sortBy" json:"sortBy,omitempty"`
	SortDirection     SortDirection `form:"sortDirection" json:"sortDirection,omitempty"`
}

// EffectivePageSize returns PageSize, or DefaultPageSize when unset.
func (o PaginationOptions) EffectivePageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

type PaginatedResult[T any] struct {
	Items             []T    `json:"items"`
	TotalCount        *int   `json:"totalCount,omitempty"`
	ContinuationToken string `json:"continuationToken,omitempty"`
	PageSize          int    `json:"pageSize"`
}
