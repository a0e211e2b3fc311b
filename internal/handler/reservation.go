package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-library/internal/pagination"
	"github.com/iliyamo/book-library/internal/queue"
	"github.com/iliyamo/book-library/internal/repository"
)

// ReservationHandler exposes reservation endpoints for authenticated users
// plus the admin-only full listing.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Books        *repository.BookRepo
	RabbitURL    string
}

func NewReservationHandler(reservations *repository.ReservationRepo, books *repository.BookRepo, rabbitURL string) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations, Books: books, RabbitURL: rabbitURL}
}

type createReservationReq struct {
	BookID  uint64 `json:"bookId"`
	DueDate string `json:"dueDate"` // optional, RFC 3339
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create reserves a book for the authenticated user. At most one active
// (pending or approved) reservation per user and book is allowed.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := principalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil || req.BookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookId required"})
	}

	var due *time.Time
	if s := strings.TrimSpace(req.DueDate); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dueDate must be RFC 3339"})
		}
		due = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	book, err := h.Books.GetByID(ctx, req.BookID)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Book with id %d not found", req.BookID)})
	}
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.Reservations.Create(ctx, uid, req.BookID, due)
	if err != nil {
		return writeError(c, err)
	}

	// Best-effort event; the reservation stands even if the broker is down.
	go func(res repository.Reservation, title string) {
		ev := queue.ReservationCreatedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			BookID:        res.BookID,
			BookTitle:     title,
			Status:        res.Status,
			CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
		}
		if res.DueDate != nil {
			d := res.DueDate.UTC().Format(time.RFC3339)
			ev.DueDate = &d
		}
		if err := queue.PublishReservationCreated(context.Background(), h.RabbitURL, ev); err != nil {
			log.Printf("reservation %d: publish event failed: %v", res.ID, err)
		}
	}(res, book.Title)

	return c.JSON(http.StatusCreated, res)
}

// Get returns one reservation by id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Reservation with id %d not found", id)})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete cancels the caller's own reservation.
func (h *ReservationHandler) Delete(c echo.Context) error {
	uid, ok := principalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Reservations.DeleteOwn(ctx, id, uid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus changes the status of the caller's own reservation.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	uid, ok := principalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !repository.ValidReservationStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.UpdateStatusOwn(ctx, id, uid, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List returns one cursor page over all reservations (admin only).
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	page, err := pagination.Paginate(ctx, pageRequest(c), h.Reservations.ListPage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListMine returns one cursor page over the caller's reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, ok := principalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	fetch := func(ctx context.Context, cursor *uint64, limit int, backward bool) ([]repository.Reservation, error) {
		return h.Reservations.ListPageForUser(ctx, uid, cursor, limit, backward)
	}
	page, err := pagination.Paginate(ctx, pageRequest(c), fetch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
