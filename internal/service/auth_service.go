// Package service holds the auth session lifecycle. Per user the states are
// NoSession -> Active (register/login) -> Active (refresh, token rotated) ->
// NoSession (logout); every transition that must be atomic runs inside one
// storage transaction and mutual exclusion is delegated entirely to the
// database (row locks and the unique email index), never to in-process locks.
package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/book-library/internal/repository"
	"github.com/iliyamo/book-library/internal/utils"
)

// UserTx is the slice of user persistence visible inside a transaction.
type UserTx interface {
	CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (uint64, error)
	GetForUpdate(ctx context.Context, id uint64) (repository.User, error)
	SetRefreshTokenHash(ctx context.Context, id uint64, hash *string) error
}

// UserStore abstracts user persistence for the auth service. The production
// implementation wraps *sql.DB and repository.UserRepo; tests substitute an
// in-memory store.
type UserStore interface {
	InTx(ctx context.Context, fn func(UserTx) error) error
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	SetRefreshTokenHash(ctx context.Context, id uint64, hash *string) error
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	UserID uint64
	Tokens utils.TokenPair
}

// Profile is the read-only view returned by GetProfile.
type Profile struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthService orchestrates register, login, refresh, logout and profile
// reads over the hasher, the token issuer and the user store.
type AuthService struct {
	store  UserStore
	issuer *utils.Issuer
	cost   int
}

func NewAuthService(store UserStore, issuer *utils.Issuer, bcryptCost int) *AuthService {
	return &AuthService{store: store, issuer: issuer, cost: bcryptCost}
}

// Register creates a user and opens their first session. User row, token pair
// and stored refresh hash commit together: a crash between steps never leaves
// a registered user without a valid session. A taken email surfaces as
// repository.ErrEmailExists; anything unexpected collapses to ErrInternal.
func (s *AuthService) Register(ctx context.Context, email, firstName, lastName, password string) (AuthResult, error) {
	passwordHash, err := utils.HashSecret(password, s.cost)
	if err != nil {
		return AuthResult{}, ErrInternal
	}

	var out AuthResult
	err = s.store.InTx(ctx, func(tx UserTx) error {
		id, err := tx.CreateUser(ctx, email, firstName, lastName, passwordHash)
		if err != nil {
			return err
		}
		pair, err := s.issuer.IssuePair(id, email)
		if err != nil {
			return err
		}
		refreshHash, err := utils.HashToken(pair.RefreshToken, s.cost)
		if err != nil {
			return err
		}
		if err := tx.SetRefreshTokenHash(ctx, id, &refreshHash); err != nil {
			return err
		}
		out = AuthResult{UserID: id, Tokens: pair}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, err
		}
		return AuthResult{}, ErrInternal
	}
	return out, nil
}

// Login verifies credentials and replaces any previous session. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, ErrInternal
	}
	if !utils.VerifySecret(u.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	refreshHash, err := utils.HashToken(pair.RefreshToken, s.cost)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	// Single-statement overwrite; the previous refresh token dies here.
	if err := s.store.SetRefreshTokenHash(ctx, u.ID, &refreshHash); err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{UserID: u.ID, Tokens: pair}, nil
}

// RefreshTokens rotates the session. The read-check-write runs under a row
// lock so that two concurrent refresh calls with the same token cannot both
// succeed: the loser re-reads a hash that no longer matches. The presented
// token is permanently invalid afterwards, even before its expiry.
func (s *AuthService) RefreshTokens(ctx context.Context, userID uint64, presented string) (utils.TokenPair, error) {
	var pair utils.TokenPair
	err := s.store.InTx(ctx, func(tx UserTx) error {
		u, err := tx.GetForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound) {
				return ErrAccessDenied
			}
			return err
		}
		if u.RefreshTokenHash == nil {
			return ErrAccessDenied
		}
		if !utils.VerifyToken(*u.RefreshTokenHash, presented) {
			return ErrAccessDenied
		}

		pair, err = s.issuer.IssuePair(u.ID, u.Email)
		if err != nil {
			return err
		}
		refreshHash, err := utils.HashToken(pair.RefreshToken, s.cost)
		if err != nil {
			return err
		}
		return tx.SetRefreshTokenHash(ctx, u.ID, &refreshHash)
	})
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return utils.TokenPair{}, ErrAccessDenied
		}
		return utils.TokenPair{}, ErrInternal
	}
	return pair, nil
}

// Logout clears the stored refresh token hash. The update is unconditional,
// so logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	if err := s.store.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return ErrInternal
	}
	return nil
}

// GetProfile returns the user's public profile.
func (s *AuthService) GetProfile(ctx context.Context, userID uint64) (Profile, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, ErrInternal
	}
	return Profile{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}, nil
}
