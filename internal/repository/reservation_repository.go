package repository

import (
	"context"
	"database/sql"
	"time"
)

// Reservation status values. A reservation counts as active while it is
// pending or approved; rejected and returned reservations free the book for
// the user again.
const (
	ReservationPending  = "PENDING"
	ReservationApproved = "APPROVED"
	ReservationRejected = "REJECTED"
	ReservationReturned = "RETURNED"
)

// ValidReservationStatus reports whether s is one of the known status values.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationApproved, ReservationRejected, ReservationReturned:
		return true
	}
	return false
}

// Reservation mirrors the 'reservations' table.
type Reservation struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"userId"`
	BookID    uint64     `json:"bookId"`
	Status    string     `json:"status"`
	DueDate   *time.Time `json:"dueDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ItemID implements pagination.Item.
func (r Reservation) ItemID() uint64 { return r.ID }

// ReservationRepo provides CRUD operations for reservations. All timestamp
// fields are stored in UTC.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id,user_id,book_id,status,due_date,created_at,updated_at"

func scanReservation(scan func(dest ...any) error) (Reservation, error) {
	var (
		res Reservation
		due sql.NullTime
	)
	err := scan(&res.ID, &res.UserID, &res.BookID, &res.Status, &due, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return Reservation{}, err
	}
	if due.Valid {
		res.DueDate = &due.Time
	}
	return res, nil
}

// Create inserts a reservation for the user unless they already hold an
// active (pending or approved) one for the same book, in which case
// ErrConflict is returned.
func (r *ReservationRepo) Create(ctx context.Context, userID, bookID uint64, dueDate *time.Time) (Reservation, error) {
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM reservations WHERE user_id=? AND book_id=? AND status IN (?,?) LIMIT 1",
		userID, bookID, ReservationPending, ReservationApproved).Scan(&existing)
	if err == nil {
		return Reservation{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return Reservation{}, err
	}

	var due any
	if dueDate != nil {
		due = dueDate.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reservations (user_id, book_id, status, due_date) VALUES (?,?,?,?)",
		userID, bookID, ReservationPending, due)
	if err != nil {
		return Reservation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Reservation{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a reservation by id. Missing rows surface as ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id)
	res, err := scanReservation(row.Scan)
	if err == sql.ErrNoRows {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

// DeleteOwn removes a reservation that belongs to userID. Reservations of
// other users are invisible here, so both "does not exist" and "not yours"
// surface as ErrNotFound.
func (r *ReservationRepo) DeleteOwn(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE id=? AND user_id=?", id, userID)
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

// UpdateStatusOwn changes the status of the caller's own reservation.
// Updating a reservation owned by someone else (or a missing one) returns
// ErrForbidden, matching the ownership rule enforced by the handlers.
func (r *ReservationRepo) UpdateStatusOwn(ctx context.Context, id, userID uint64, status string) (Reservation, error) {
	existing, err := r.GetByID(ctx, id)
	if err == ErrNotFound {
		return Reservation{}, ErrForbidden
	}
	if err != nil {
		return Reservation{}, err
	}
	if existing.UserID != userID {
		return Reservation{}, ErrForbidden
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?", status, id); err != nil {
		return Reservation{}, err
	}
	return r.GetByID(ctx, id)
}

// ListPage fetches one keyset page of all reservations in ascending id order.
func (r *ReservationRepo) ListPage(ctx context.Context, cursor *uint64, limit int, backward bool) ([]Reservation, error) {
	return r.listPage(ctx, cursor, limit, backward, 0)
}

// ListPageForUser is ListPage restricted to a single user's reservations.
func (r *ReservationRepo) ListPageForUser(ctx context.Context, userID uint64, cursor *uint64, limit int, backward bool) ([]Reservation, error) {
	return r.listPage(ctx, cursor, limit, backward, userID)
}

func (r *ReservationRepo) listPage(ctx context.Context, cursor *uint64, limit int, backward bool, userID uint64) ([]Reservation, error) {
	cond, args, order := keysetWhere(cursor, backward)
	if userID != 0 {
		cond += " AND user_id=?"
		args = append(args, userID)
	}
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE "+cond+" ORDER BY id "+order+" LIMIT ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if backward {
		reverse(out)
	}
	return out, nil
}
