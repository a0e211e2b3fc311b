// Package pagination implements bidirectional keyset (cursor) pagination.
// Every list endpoint pages by "last seen id" rather than offset, which keeps
// pages stable while rows are inserted and avoids skip-based scans.  The
// engine is generic over any row type exposing a monotonically increasing
// integer id; fetching is delegated to a caller-supplied function so the same
// logic serves users, authors, books and reservations.
package pagination

import (
	"context"
	"strconv"
)

const (
	// DefaultPageSize is used when the caller does not ask for a size.
	DefaultPageSize = 10
	// MaxPageSize caps the page size regardless of caller input.
	MaxPageSize = 100
)

// Direction selects which side of the cursor a page is taken from.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Item is any row with a monotonically increasing integer identity.
type Item interface {
	ItemID() uint64
}

// Request carries the raw, still-unparsed paging query parameters.  Cursor
// and PageSize arrive as strings straight from the URL; values that do not
// parse as positive integers are treated as absent rather than rejected.
type Request struct {
	Cursor    string
	PageSize  string
	Direction Direction
}

// Info describes the neighbourhood of a returned page.  A cursor field is nil
// whenever its flag is false or the page is empty.
type Info struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	NextCursor      *uint64 `json:"nextCursor"`
	PreviousCursor  *uint64 `json:"previousCursor"`
}

// Page is one page of rows in ascending id order plus its paging info.
type Page[T Item] struct {
	Data       []T  `json:"data"`
	Pagination Info `json:"pagination"`
}

// Fetch loads up to limit rows adjacent to cursor, in ascending id order.
// With backward=false it returns rows with id strictly greater than cursor
// (from the start of the collection when cursor is nil).  With backward=true
// it returns the limit rows immediately preceding cursor (the tail of the
// collection when cursor is nil).  Implementations honour any filter they
// were built with.
type Fetch[T Item] func(ctx context.Context, cursor *uint64, limit int, backward bool) ([]T, error)

// Paginate resolves the request and fetches one page.
//
// It always asks for pageSize+1 rows: the extra row only signals that more
// data exists on that side and is dropped from the result.  The flag for the
// opposite side is derived purely from whether a cursor was supplied, so a
// cursor pointing at a deleted row still reports the side it came from even
// though the page itself may be empty.
func Paginate[T Item](ctx context.Context, req Request, fetch Fetch[T]) (Page[T], error) {
	pageSize := resolvePageSize(req.PageSize)
	cursor := resolveCursor(req.Cursor)

	var (
		items   []T
		hasNext bool
		hasPrev bool
		err     error
	)

	if req.Direction == Backward {
		items, err = fetch(ctx, cursor, pageSize+1, true)
		if err != nil {
			return Page[T]{}, err
		}
		hasPrev = len(items) > pageSize
		if hasPrev {
			items = items[1:]
		}
		hasNext = cursor != nil
	} else {
		items, err = fetch(ctx, cursor, pageSize+1, false)
		if err != nil {
			return Page[T]{}, err
		}
		hasNext = len(items) > pageSize
		if hasNext {
			items = items[:pageSize]
		}
		hasPrev = cursor != nil
	}

	info := Info{HasNextPage: hasNext, HasPreviousPage: hasPrev}
	if hasNext && len(items) > 0 {
		id := items[len(items)-1].ItemID()
		info.NextCursor = &id
	}
	if hasPrev && len(items) > 0 {
		id := items[0].ItemID()
		info.PreviousCursor = &id
	}

	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Pagination: info}, nil
}

// resolvePageSize clamps the requested size to [1, MaxPageSize], falling back
// to DefaultPageSize when the value is missing or not a positive integer.
func resolvePageSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// resolveCursor parses the cursor, treating anything unparsable (or zero) as
// "no cursor".  Listing simply starts from the first page; no error is raised.
func resolveCursor(raw string) *uint64 {
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// ParseDirection maps the query parameter onto a Direction, defaulting to
// Forward for anything unrecognised.
func ParseDirection(raw string) Direction {
	if raw == string(Backward) {
		return Backward
	}
	return Forward
}
