package utils // package utils provides helpers for token issuance and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned when a token fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenPair bundles a freshly signed access token and refresh token.  Both
// carry the same claim set (subject and email) but are signed with distinct
// secrets and distinct lifetimes.  The raw refresh token is returned to the
// client once; the database keeps only a bcrypt hash of it.
type TokenPair struct {
	AccessToken  string // short-lived, sent in the Authorization header
	RefreshToken string // long-lived, exchanged for a new pair on rotation
}

// Claims is the decoded payload shared by both token kinds.
type Claims struct {
	UserID uint64
	Email  string
}

// Issuer signs and verifies access and refresh tokens.  It is constructed
// once from configuration; secrets are injected here and never read from the
// environment at call sites.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer builds an Issuer from the two signing secrets and the configured
// lifetimes (access in minutes, refresh in days).
func NewIssuer(accessSecret, refreshSecret string, accessTTLMin, refreshTTLDays int) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Duration(accessTTLMin) * time.Minute,
		refreshTTL:    time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// IssuePair signs an access token and a refresh token for the user.  The
// claims are identical; only the secret and the expiry differ.
func (i *Issuer) IssuePair(userID uint64, email string) (TokenPair, error) {
	access, err := sign(i.accessSecret, userID, email, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(i.refreshSecret, userID, email, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess validates an access token and returns its claims.
func (i *Issuer) ParseAccess(token string) (Claims, error) {
	return parse(i.accessSecret, token)
}

// ParseRefresh validates a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(token string) (Claims, error) {
	return parse(i.refreshSecret, token)
}

// sign builds an HS256 JWT with sub, email, exp and iat claims.
func sign(secret []byte, userID uint64, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// parse verifies signature and expiry against the given secret.  Any failure
// collapses to ErrInvalidToken so callers can map it to a single 401.
func parse(secret []byte, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(sub)
	default:
		return Claims{}, ErrInvalidToken
	}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	return c, nil
}
