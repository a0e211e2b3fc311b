package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-library/internal/middleware"
	"github.com/iliyamo/book-library/internal/pagination"
	"github.com/iliyamo/book-library/internal/repository"
	"github.com/iliyamo/book-library/internal/service"
)

// dbTimeout bounds every storage call issued from a handler.
const dbTimeout = 5 * time.Second

// pageRequest pulls the raw paging parameters from the query string. Parsing
// and clamping happen inside the pagination engine.
func pageRequest(c echo.Context) pagination.Request {
	return pagination.Request{
		Cursor:    c.QueryParam("cursor"),
		PageSize:  c.QueryParam("pageSize"),
		Direction: pagination.ParseDirection(c.QueryParam("direction")),
	}
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// principalID extracts the authenticated user's id put in place by JWTAuth.
func principalID(c echo.Context) (uint64, bool) {
	return middleware.UserID(c)
}

// writeError maps domain errors onto stable HTTP responses. Messages are
// fixed strings: storage details never leak to the caller.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "User with this email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrAccessDenied):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access denied"})
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "User not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can update only your own reservations"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "You already have an active reservation for this book"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
