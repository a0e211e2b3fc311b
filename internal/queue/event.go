// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for them.
package queue

// ReservationCreatedEvent is published when a user reserves a book. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	BookID        uint64  `json:"book_id"`
	BookTitle     string  `json:"book_title"`
	Status        string  `json:"status"`
	DueDate       *string `json:"due_date,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
