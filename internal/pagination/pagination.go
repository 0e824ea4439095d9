// Package pagination slices fully-loaded collections into pages.
// Paging is purely in memory; the fund API has no server-side paging.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// Common page sizes.
const (
	SearchResultsSize = 9
	HistorySize       = 10
	MembersSize       = 5
)

// MemberSizes are the selectable page sizes on the member list.
var MemberSizes = []int{5, 10, 25}

// Page is one slice of a collection plus the numbers a pager needs.
// Index is zero-based.
type Page[T any] struct {
	Items      []T
	Index      int
	Size       int
	TotalItems int
	TotalPages int
}

// Empty drives the zero-state message instead of an empty table.
func (p Page[T]) Empty() bool {
	return p.TotalItems == 0
}

// Number is the one-based page number shown to users.
func (p Page[T]) Number() int {
	return p.Index + 1
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Index > 0
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Index+1 < p.TotalPages
}

// FirstRow is the one-based position of the first visible row (0 when empty).
func (p Page[T]) FirstRow() int {
	if p.Empty() {
		return 0
	}
	return p.Index*p.Size + 1
}

// LastRow is the one-based position of the last visible row.
func (p Page[T]) LastRow() int {
	return p.Index*p.Size + len(p.Items)
}

// Numbers lists one-based page numbers for the pager.
func (p Page[T]) Numbers() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// TotalPages is ceil(n/size); zero for an empty collection.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns items[index*size : index*size+size]. The index is
// clamped into range and a non-positive size falls back to 10.
func Paginate[T any](items []T, index, size int) Page[T] {
	if size <= 0 {
		size = HistorySize
	}
	n := len(items)
	pages := TotalPages(n, size)

	if index >= pages {
		index = pages - 1
	}
	if index < 0 {
		index = 0
	}

	start := index * size
	end := start + size
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}

	return Page[T]{
		Items:      items[start:end:end],
		Index:      index,
		Size:       size,
		TotalItems: n,
		TotalPages: pages,
	}
}

// Request is the paging input parsed from a query string.
type Request struct {
	Index int
	Size  int
}

// ParseRequest reads the one-based "page" and "size" query parameters.
// A size outside allowed (when allowed is non-empty) falls back to defaultSize.
func ParseRequest(r *http.Request, defaultSize int, allowed ...int) Request {
	q := r.URL.Query()
	req := Request{Index: 0, Size: defaultSize}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		req.Index = v - 1
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		if len(allowed) == 0 || contains(allowed, v) {
			req.Size = v
		}
	}
	return req
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Link builds a pager URL for page number n (one-based), keeping other params.
func Link(base *url.URL, n, size int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
