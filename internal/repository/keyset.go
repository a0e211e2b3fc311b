package repository

// keysetWhere builds the cursor condition and scan order for a keyset page
// query. Forward pages read ascending starting strictly after the cursor.
// Backward pages read descending starting strictly before the cursor (the
// whole tail of the table when no cursor is given) and are flipped back to
// ascending by the caller via reverse().
func keysetWhere(cursor *uint64, backward bool) (cond string, args []any, order string) {
	order = "ASC"
	if backward {
		order = "DESC"
	}
	if cursor == nil {
		return "1=1", nil, order
	}
	if backward {
		return "id < ?", []any{*cursor}, order
	}
	return "id > ?", []any{*cursor}, order
}

func reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
