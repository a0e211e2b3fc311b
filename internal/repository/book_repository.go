package repository

import (
	"context"
	"database/sql"
	"time"
)

// Book mirrors the 'books' table.
type Book struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    uint64    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemID implements pagination.Item.
func (b Book) ItemID() uint64 { return b.ID }

type BookRepo struct{ db *sql.DB }

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// Create inserts a book and returns the stored row.
func (r *BookRepo) Create(ctx context.Context, title, description string, authorID uint64) (Book, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO books (title, description, author_id) VALUES (?,?,?)",
		title, description, authorID)
	if err != nil {
		return Book{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Book{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a book by id. Missing rows surface as ErrNotFound.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (Book, error) {
	var b Book
	err := r.db.QueryRowContext(ctx,
		"SELECT id,title,description,author_id,created_at FROM books WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return Book{}, ErrNotFound
	}
	return b, err
}

// Delete removes a book. Missing rows surface as ErrNotFound.
func (r *BookRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id=?", id)
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

// ListPage fetches one keyset page of books in ascending id order.
func (r *BookRepo) ListPage(ctx context.Context, cursor *uint64, limit int, backward bool) ([]Book, error) {
	cond, args, order := keysetWhere(cursor, backward)
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,title,description,author_id,created_at FROM books WHERE "+cond+" ORDER BY id "+order+" LIMIT ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if backward {
		reverse(out)
	}
	return out, nil
}
