// Package listutil parses and bounds list-view query parameters.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultLimit is the number of rows returned when no limit is given.
const DefaultLimit = 20

// MaxLimit caps the rows a single request may ask for.
const MaxLimit = 200

// PageParams carries windowing parameters parsed from a request.
type PageParams struct {
	Limit  int // rows to return
	Offset int // rows to skip
}

// ParsePageParams extracts limit and offset from URL query values.
// PRE: none
// POST: returns PageParams with defaults applied; Limit in [1, MaxLimit], Offset >= 0
func ParsePageParams(q url.Values) PageParams {
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return PageParams{Limit: limit, Offset: offset}
}

// ParseMonthParams extracts year and month from URL query values, falling
// back to the given defaults when absent or malformed. Out-of-range months
// are passed through so callers can normalise them into adjacent years.
func ParseMonthParams(q url.Values, defaultYear, defaultMonth int) (year, month int) {
	year, month = defaultYear, defaultMonth
	if v := q.Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	if v := q.Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			month = n
		}
	}
	return year, month
}
