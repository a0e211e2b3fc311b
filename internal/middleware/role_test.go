package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-library/internal/repository"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     any // nil means JWTAuth never ran
		allowed  []string
		wantCode int
	}{
		{"admin allowed", repository.RoleAdmin, []string{repository.RoleAdmin}, http.StatusOK},
		{"user rejected on admin route", repository.RoleUser, []string{repository.RoleAdmin}, http.StatusForbidden},
		{"either role", repository.RoleUser, []string{repository.RoleUser, repository.RoleAdmin}, http.StatusOK},
		{"no principal", nil, []string{repository.RoleAdmin}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set(CtxRole, tt.role)
			}

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			err := RequireRole(tt.allowed...)(next)(c)
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
