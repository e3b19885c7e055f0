// internal/app/system/paging/paging.go
package paging

import (
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of rows returned by paged list endpoints.
const PageSize = 50

// LimitPlusOne fetches one extra row to detect a following page.
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// Result reports whether pages exist on either side of the current one.
type Result struct {
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// TrimPage trims a slice fetched with LimitPlusOne.
//
// Paging backwards (before != "") drops the surplus first row and always has
// a next page. Paging forwards drops the surplus last row and has a previous
// page only when after was given.
func TrimPage[T any](rows *[]T, before, after string) Result {
	var res Result
	if before != "" {
		if len(*rows) > PageSize {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
		return res
	}
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		res.HasNext = true
	}
	res.HasPrev = after != ""
	return res
}

// Keyset is a decoded cursor plus the sort direction it implies.
type Keyset struct {
	Backward bool
	Cursor   *wafflemongo.Cursor
}

// ConfigureKeyset decodes the before/after cursors. before wins when both
// are present. Undecodable cursors restart from the first page.
func ConfigureKeyset(before, after string) Keyset {
	if before != "" {
		k := Keyset{Backward: true}
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			k.Cursor = &c
		}
		return k
	}
	var k Keyset
	if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			k.Cursor = &c
		}
	}
	return k
}

func (k Keyset) order() int {
	if k.Backward {
		return -1
	}
	return 1
}

// ApplyToFind sets sort (sortField, _id) and the look-ahead limit.
func (k Keyset) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: k.order()},
		{Key: "_id", Value: k.order()},
	}).SetLimit(LimitPlusOne())
}

// Window returns the filter clause selecting rows past the cursor, or nil.
func (k Keyset) Window(sortField string) bson.M {
	if k.Cursor == nil {
		return nil
	}
	dir := "gt"
	if k.Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, k.Cursor.CI, k.Cursor.ID)
}

// Reverse restores display order after a backward fetch.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors encodes cursors for the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first, last := rows[0], rows[len(rows)-1]
	return wafflemongo.EncodeCursor(keyFn(first), idFn(first)),
		wafflemongo.EncodeCursor(keyFn(last), idFn(last))
}
