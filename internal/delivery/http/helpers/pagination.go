package helpers

import (
	"net/http"
	"strconv"

	"cityevents/internal/domain"
)

// Pagination query parameter defaults.
const (
	DefaultFrom = 0
	DefaultSize = 10
)

// ParsePagination reads from and size from the request query string and
// returns domain.PaginationParams. Missing values fall back to defaults;
// out-of-range values are kept so the service can reject them with a
// bad-request error.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	params := domain.PaginationParams{From: DefaultFrom, Size: DefaultSize}
	if s := r.URL.Query().Get("from"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return params, domain.ErrInvalidInput
		}
		params.From = v
	}
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return params, domain.ErrInvalidInput
		}
		params.Size = v
	}
	return params, nil
}
