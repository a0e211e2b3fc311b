package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/book-library/internal/repository"
)

// sqlUserStore implements UserStore over MySQL. Multi-step sequences run in
// a database/sql transaction; the driver's unique index on users.email and
// the FOR UPDATE row read provide all the serialization register and refresh
// need.
type sqlUserStore struct {
	db    *sql.DB
	users *repository.UserRepo
}

// NewSQLUserStore binds a UserStore to the database.
func NewSQLUserStore(db *sql.DB, users *repository.UserRepo) UserStore {
	return &sqlUserStore{db: db, users: users}
}

func (s *sqlUserStore) InTx(ctx context.Context, fn func(UserTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&sqlUserTx{tx: tx, users: s.users}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *sqlUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *sqlUserStore) GetByID(ctx context.Context, id uint64) (repository.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *sqlUserStore) SetRefreshTokenHash(ctx context.Context, id uint64, hash *string) error {
	return s.users.SetRefreshTokenHash(ctx, id, hash)
}

type sqlUserTx struct {
	tx    *sql.Tx
	users *repository.UserRepo
}

func (t *sqlUserTx) CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (uint64, error) {
	return t.users.CreateTx(ctx, t.tx, email, firstName, lastName, passwordHash)
}

func (t *sqlUserTx) GetForUpdate(ctx context.Context, id uint64) (repository.User, error) {
	return t.users.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlUserTx) SetRefreshTokenHash(ctx context.Context, id uint64, hash *string) error {
	return t.users.SetRefreshTokenHashTx(ctx, t.tx, id, hash)
}
