package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Role values stored in the users.role column.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User mirrors the 'users' table. RefreshTokenHash is nil when the user has
// no active session; at most one hashed refresh token exists per user.
type User struct {
	ID               uint64
	Email            string
	FirstName        string
	LastName         string
	PasswordHash     string
	RefreshTokenHash *string
	Role             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ItemID implements pagination.Item.
func (u User) ItemID() uint64 { return u.ID }

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id,email,first_name,last_name,password_hash,refresh_token_hash,role,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var (
		u    User
		hash sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&hash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if hash.Valid {
		u.RefreshTokenHash = &hash.String
	}
	return u, nil
}

// CreateTx inserts a user within the scope of an existing transaction and
// returns the generated id. A duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, email, firstName, lastName, passwordHash string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password_hash, role) VALUES (?,?,?,?,?)",
		email, firstName, lastName, passwordHash, RoleUser)
	if err != nil {
		// 1062 = ER_DUP_ENTRY on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by email. Emails are compared exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetForUpdateTx fetches a user inside tx with a row lock so that concurrent
// refresh attempts against the same user serialize on the database.
func (r *UserRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (User, error) {
	return scanUser(tx.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1 FOR UPDATE", id))
}

// SetRefreshTokenHash overwrites the stored refresh token hash. Passing nil
// clears it (logout); the update is unconditional and therefore idempotent.
func (r *UserRepo) SetRefreshTokenHash(ctx context.Context, id uint64, hash *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", nullable(hash), id)
	return err
}

// SetRefreshTokenHashTx is SetRefreshTokenHash within an existing transaction.
func (r *UserRepo) SetRefreshTokenHashTx(ctx context.Context, tx *sql.Tx, id uint64, hash *string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", nullable(hash), id)
	return err
}

// Delete removes a user. Missing rows surface as ErrNotFound.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
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

// ListPage fetches one keyset page of users in ascending id order.
func (r *UserRepo) ListPage(ctx context.Context, cursor *uint64, limit int, backward bool) ([]User, error) {
	cond, args, order := keysetWhere(cursor, backward)
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond+" ORDER BY id "+order+" LIMIT ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var (
			u    User
			hash sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
			&hash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if hash.Valid {
			u.RefreshTokenHash = &hash.String
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if backward {
		reverse(out)
	}
	return out, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
