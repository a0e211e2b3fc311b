package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-library/internal/middleware"
	"github.com/iliyamo/book-library/internal/repository"
	"github.com/iliyamo/book-library/internal/service"
	"github.com/iliyamo/book-library/internal/utils"
)

// mockAuthAPI lets each test plug in just the behavior it needs.
type mockAuthAPI struct {
	registerFn func(ctx context.Context, email, firstName, lastName, password string) (service.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (service.AuthResult, error)
	refreshFn  func(ctx context.Context, userID uint64, presented string) (utils.TokenPair, error)
	logoutFn   func(ctx context.Context, userID uint64) error
	profileFn  func(ctx context.Context, userID uint64) (service.Profile, error)
}

func (m *mockAuthAPI) Register(ctx context.Context, email, firstName, lastName, password string) (service.AuthResult, error) {
	return m.registerFn(ctx, email, firstName, lastName, password)
}
func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockAuthAPI) RefreshTokens(ctx context.Context, userID uint64, presented string) (utils.TokenPair, error) {
	return m.refreshFn(ctx, userID, presented)
}
func (m *mockAuthAPI) Logout(ctx context.Context, userID uint64) error {
	return m.logoutFn(ctx, userID)
}
func (m *mockAuthAPI) GetProfile(ctx context.Context, userID uint64) (service.Profile, error) {
	return m.profileFn(ctx, userID)
}

func testIssuer() *utils.Issuer {
	return utils.NewIssuer("test-access-secret", "test-refresh-secret", 15, 7)
}

func doJSON(h echo.HandlerFunc, method, target, body string, userID uint64) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.CtxUserID, userID)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandlerRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     service.AuthResult
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       `{"email":"alice@example.com","firstName":"Alice","lastName":"Smith","password":"password-123"}`,
			result:     service.AuthResult{UserID: 7, Tokens: utils.TokenPair{AccessToken: "acc", RefreshToken: "ref"}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"alice@example.com","firstName":"Alice","lastName":"Smith","password":"password-123"}`,
			err:        repository.ErrEmailExists,
			wantStatus: http.StatusConflict,
			wantError:  "User with this email already exists",
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","firstName":"Alice","lastName":"Smith","password":"password-123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing names",
			body:       `{"email":"alice@example.com","password":"password-123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       `{"email":"alice@example.com","firstName":"Alice","lastName":"Smith","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewAuthHandler(&mockAuthAPI{
				registerFn: func(_ context.Context, email, firstName, lastName, password string) (service.AuthResult, error) {
					called = true
					return tt.result, tt.err
				},
			}, testIssuer())

			rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", tt.body, 0)
			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusCreated {
				require.True(t, called)
				require.Equal(t, float64(7), body["user"].(map[string]any)["id"])
				require.Equal(t, "acc", body["accessToken"])
				require.Equal(t, "ref", body["refreshToken"])
			}
			if tt.wantStatus == http.StatusBadRequest {
				require.False(t, called)
			}
			if tt.wantError != "" {
				require.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     service.AuthResult
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "ok",
			body:       `{"email":"alice@example.com","password":"password-123"}`,
			result:     service.AuthResult{UserID: 7, Tokens: utils.TokenPair{AccessToken: "acc", RefreshToken: "ref"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad credentials",
			body:       `{"email":"alice@example.com","password":"wrong"}`,
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "missing password",
			body:       `{"email":"alice@example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthAPI{
				loginFn: func(_ context.Context, email, password string) (service.AuthResult, error) {
					return tt.result, tt.err
				},
			}, testIssuer())

			rec := doJSON(h.Login, http.MethodPost, "/v1/auth/login", tt.body, 0)
			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				require.Equal(t, "acc", body["accessToken"])
			}
			if tt.wantError != "" {
				require.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestAuthHandlerRefresh(t *testing.T) {
	issuer := testIssuer()
	valid, err := issuer.IssuePair(7, "alice@example.com")
	require.NoError(t, err)

	t.Run("rotates", func(t *testing.T) {
		var gotUser uint64
		var gotToken string
		h := NewAuthHandler(&mockAuthAPI{
			refreshFn: func(_ context.Context, userID uint64, presented string) (utils.TokenPair, error) {
				gotUser, gotToken = userID, presented
				return utils.TokenPair{AccessToken: "newacc", RefreshToken: "newref"}, nil
			},
		}, issuer)

		rec := doJSON(h.Refresh, http.MethodPost, "/v1/auth/refresh",
			`{"refreshToken":"`+valid.RefreshToken+`"}`, 0)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, uint64(7), gotUser)
		require.Equal(t, valid.RefreshToken, gotToken)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "newacc", body["accessToken"])
		require.Equal(t, "newref", body["refreshToken"])
	})

	t.Run("garbage token never reaches the service", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{
			refreshFn: func(context.Context, uint64, string) (utils.TokenPair, error) {
				t.Fatal("service called with an unverifiable token")
				return utils.TokenPair{}, nil
			},
		}, issuer)

		rec := doJSON(h.Refresh, http.MethodPost, "/v1/auth/refresh",
			`{"refreshToken":"not.a.jwt"}`, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Access denied")
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{
			refreshFn: func(context.Context, uint64, string) (utils.TokenPair, error) {
				t.Fatal("service called with an access token")
				return utils.TokenPair{}, nil
			},
		}, issuer)

		rec := doJSON(h.Refresh, http.MethodPost, "/v1/auth/refresh",
			`{"refreshToken":"`+valid.AccessToken+`"}`, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rotated token rejected by the service", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{
			refreshFn: func(context.Context, uint64, string) (utils.TokenPair, error) {
				return utils.TokenPair{}, service.ErrAccessDenied
			},
		}, issuer)

		rec := doJSON(h.Refresh, http.MethodPost, "/v1/auth/refresh",
			`{"refreshToken":"`+valid.RefreshToken+`"}`, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Access denied")
	})

	t.Run("missing token", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{}, issuer)
		rec := doJSON(h.Refresh, http.MethodPost, "/v1/auth/refresh", `{}`, 0)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var got uint64
		h := NewAuthHandler(&mockAuthAPI{
			logoutFn: func(_ context.Context, userID uint64) error {
				got = userID
				return nil
			},
		}, testIssuer())

		rec := doJSON(h.Logout, http.MethodPost, "/v1/auth/logout", "", 7)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, uint64(7), got)
		require.Contains(t, rec.Body.String(), "Logged out successfully")
	})

	t.Run("no principal", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{}, testIssuer())
		rec := doJSON(h.Logout, http.MethodPost, "/v1/auth/logout", "", 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandlerProfile(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{
			profileFn: func(_ context.Context, userID uint64) (service.Profile, error) {
				return service.Profile{ID: userID, Email: "alice@example.com", FirstName: "Alice", LastName: "Smith"}, nil
			},
		}, testIssuer())

		rec := doJSON(h.Profile, http.MethodGet, "/v1/auth/profile", "", 7)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, float64(7), body["id"])
		require.Equal(t, "alice@example.com", body["email"])
	})

	t.Run("vanished user", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthAPI{
			profileFn: func(context.Context, uint64) (service.Profile, error) {
				return service.Profile{}, service.ErrUserNotFound
			},
		}, testIssuer())

		rec := doJSON(h.Profile, http.MethodGet, "/v1/auth/profile", "", 7)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "User not found")
	})
}
