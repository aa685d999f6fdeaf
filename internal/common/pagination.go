package common

import (
	"fmt"
	"net/url"
	"strconv"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads the page and limit query parameters, applying the
// default page size and capping at maxPerPage. Malformed or non-positive
// values are an error so handlers can reply 400 instead of silently
// serving page one.
func ParsePagination(values url.Values, defaultPerPage, maxPerPage int) (page, perPage int, err error) {
	page, perPage = 1, defaultPerPage
	if raw := values.Get("page"); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", raw)
		}
		page = p
	}
	if raw := values.Get("limit"); raw != "" {
		l, convErr := strconv.Atoi(raw)
		if convErr != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		if maxPerPage > 0 && l > maxPerPage {
			l = maxPerPage
		}
		perPage = l
	}
	return page, perPage, nil
}
