package pagination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct{ ID uint64 }

func (r row) ItemID() uint64 { return r.ID }

// memFetch pages over a fixed ascending id sequence with the same contract a
// SQL fetcher honours: forward reads strictly after the cursor, backward
// reads the rows strictly before it and returns them in ascending order.
func memFetch(rows []row) Fetch[row] {
	return func(_ context.Context, cursor *uint64, limit int, backward bool) ([]row, error) {
		var out []row
		if backward {
			for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
				if cursor == nil || rows[i].ID < *cursor {
					out = append(out, rows[i])
				}
			}
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
			return out, nil
		}
		for _, r := range rows {
			if cursor != nil && r.ID <= *cursor {
				continue
			}
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
		return out, nil
	}
}

func fifteenRows() []row {
	rows := make([]row, 0, 15)
	for id := uint64(1); id <= 15; id++ {
		rows = append(rows, row{ID: id})
	}
	return rows
}

func ids(rows []row) []uint64 {
	out := make([]uint64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestPaginateForwardFirstPage(t *testing.T) {
	page, err := Paginate(context.Background(), Request{Direction: Forward}, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(page.Data))
	require.True(t, page.Pagination.HasNextPage)
	require.False(t, page.Pagination.HasPreviousPage)
	require.NotNil(t, page.Pagination.NextCursor)
	require.Equal(t, uint64(10), *page.Pagination.NextCursor)
	require.Nil(t, page.Pagination.PreviousCursor)
}

func TestPaginateForwardLastPage(t *testing.T) {
	req := Request{Cursor: "10", PageSize: "10", Direction: Forward}
	page, err := Paginate(context.Background(), req, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Equal(t, []uint64{11, 12, 13, 14, 15}, ids(page.Data))
	require.False(t, page.Pagination.HasNextPage)
	require.Nil(t, page.Pagination.NextCursor)
	require.True(t, page.Pagination.HasPreviousPage)
	require.NotNil(t, page.Pagination.PreviousCursor)
	require.Equal(t, uint64(11), *page.Pagination.PreviousCursor)
}

func TestPaginateBackwardMiddlePage(t *testing.T) {
	req := Request{Cursor: "11", PageSize: "5", Direction: Backward}
	page, err := Paginate(context.Background(), req, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Equal(t, []uint64{6, 7, 8, 9, 10}, ids(page.Data))
	require.True(t, page.Pagination.HasNextPage)
	require.NotNil(t, page.Pagination.NextCursor)
	require.Equal(t, uint64(10), *page.Pagination.NextCursor)
	require.True(t, page.Pagination.HasPreviousPage)
	require.NotNil(t, page.Pagination.PreviousCursor)
	require.Equal(t, uint64(6), *page.Pagination.PreviousCursor)
}

func TestPaginateBackwardWithoutCursorReturnsTail(t *testing.T) {
	req := Request{PageSize: "5", Direction: Backward}
	page, err := Paginate(context.Background(), req, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Equal(t, []uint64{11, 12, 13, 14, 15}, ids(page.Data))
	// No cursor was supplied, so the forward flag stays down even though
	// newer rows obviously exist relative to nothing.
	require.False(t, page.Pagination.HasNextPage)
	require.True(t, page.Pagination.HasPreviousPage)
	require.Equal(t, uint64(11), *page.Pagination.PreviousCursor)
}

func TestPaginateVanishedCursor(t *testing.T) {
	req := Request{Cursor: "999", Direction: Forward}
	page, err := Paginate(context.Background(), req, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Empty(t, page.Data)
	require.False(t, page.Pagination.HasNextPage)
	// The flag reflects that a cursor was supplied, not that rows were found.
	require.True(t, page.Pagination.HasPreviousPage)
	require.Nil(t, page.Pagination.NextCursor)
	require.Nil(t, page.Pagination.PreviousCursor)
}

func TestPaginatePageSizeClamped(t *testing.T) {
	rows := make([]row, 0, MaxPageSize+50)
	for id := uint64(1); id <= MaxPageSize+50; id++ {
		rows = append(rows, row{ID: id})
	}
	req := Request{PageSize: "150", Direction: Forward}
	page, err := Paginate(context.Background(), req, memFetch(rows))
	require.NoError(t, err)
	require.Len(t, page.Data, MaxPageSize)
}

func TestPaginatePermissiveParsing(t *testing.T) {
	// A non-numeric cursor or page size falls back silently.
	req := Request{Cursor: "abc", PageSize: "zero", Direction: Forward}
	page, err := Paginate(context.Background(), req, memFetch(fifteenRows()))
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(page.Data))
	require.False(t, page.Pagination.HasPreviousPage)
}

func TestParseDirection(t *testing.T) {
	require.Equal(t, Backward, ParseDirection("backward"))
	require.Equal(t, Forward, ParseDirection("forward"))
	require.Equal(t, Forward, ParseDirection(""))
	require.Equal(t, Forward, ParseDirection("sideways"))
}
