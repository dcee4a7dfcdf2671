package dto

// PaginationResponse carries paging metadata for list endpoints.
type PaginationResponse struct {
	Total  int64 `json:"total"`
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

// PaginatedListResponse is the envelope for paginated list endpoints.
type PaginatedListResponse struct {
	Data       any                `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}
