package catalog

import (
	"math"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortKey string

const (
	SortCreateDate SortKey = "createDate"
	SortUpdateDate SortKey = "updateDate"
)

func (s SortKey) OrDefault() SortKey {
	if s == SortUpdateDate {
		return s
	}
	return SortCreateDate
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) OrDefault() Order {
	if o == OrderAsc {
		return o
	}
	return OrderDesc
}

// NormalizePagination substitutes defaults for non-finite or non-positive
// values and truncates fractions. pageSize is clamped to MaxPageSize.
func NormalizePagination(page, pageSize float64) (int, int) {
	p, ps := DefaultPage, DefaultPageSize
	if usable(page) {
		p = int(math.Floor(page))
	}
	if usable(pageSize) {
		ps = int(math.Floor(pageSize))
	}
	if ps > MaxPageSize {
		ps = MaxPageSize
	}
	return p, ps
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 1 && v <= math.MaxInt32
}

// FetchCount is the over-fetch size for a page: every row up to the end of the
// page plus one probe row.
func FetchCount(page, pageSize int) int {
	return pageSize*page + 1
}

// Window slices the page out of an over-fetched prefix and reports whether a
// further row exists.
func Window[T any](fetched []T, page, pageSize int) ([]T, bool) {
	start := (page - 1) * pageSize
	end := start + pageSize
	if start >= len(fetched) {
		return []T{}, false
	}
	if end > len(fetched) {
		return fetched[start:], false
	}
	return fetched[start:end], len(fetched) > end
}
