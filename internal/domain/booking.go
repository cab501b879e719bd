package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus tracks an enquiry through the sales pipeline.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every valid status.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled}

// Valid reports whether s is a known BookingStatus.
func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts s into a BookingStatus.
// Returns an error wrapping ErrValidation when s is not a known status.
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: status must be one of pending, confirmed, cancelled", ErrValidation)
	}
	return st, nil
}

// Booking is a customer's booking request for a trip package.
// TravelDate is nil when the customer has not picked a date yet.
type Booking struct {
	ID           uuid.UUID
	CustomerName string
	Email        string
	Phone        string
	TripName     string
	TravelDate   *time.Time
	Travelers    int
	Message      string
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingFilter narrows a booking listing. Nil fields do not filter.
type BookingFilter struct {
	Status *BookingStatus
}

// BookingStats holds booking counts per status for the admin dashboard.
type BookingStats struct {
	Total    int
	ByStatus map[BookingStatus]int
}
