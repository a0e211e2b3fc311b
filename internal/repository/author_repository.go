package repository

import (
	"context"
	"database/sql"
	"time"
)

// Author mirrors the 'authors' table.
type Author struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemID implements pagination.Item.
func (a Author) ItemID() uint64 { return a.ID }

type AuthorRepo struct{ db *sql.DB }

func NewAuthorRepo(db *sql.DB) *AuthorRepo { return &AuthorRepo{db: db} }

// Create inserts an author and returns the stored row.
func (r *AuthorRepo) Create(ctx context.Context, firstName, lastName string) (Author, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO authors (first_name, last_name) VALUES (?,?)", firstName, lastName)
	if err != nil {
		return Author{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Author{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an author by id. Missing rows surface as ErrNotFound.
func (r *AuthorRepo) GetByID(ctx context.Context, id uint64) (Author, error) {
	var a Author
	err := r.db.QueryRowContext(ctx,
		"SELECT id,first_name,last_name,created_at FROM authors WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.FirstName, &a.LastName, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return Author{}, ErrNotFound
	}
	return a, err
}

// Delete removes an author. Missing rows surface as ErrNotFound.
func (r *AuthorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM authors WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPage fetches one keyset page of authors in ascending id order.
func (r *AuthorRepo) ListPage(ctx context.Context, cursor *uint64, limit int, backward bool) ([]Author, error) {
	cond, args, order := keysetWhere(cursor, backward)
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,first_name,last_name,created_at FROM authors WHERE "+cond+" ORDER BY id "+order+" LIMIT ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if backward {
		reverse(out)
	}
	return out, nil
}
