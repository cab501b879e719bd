package handler

import (
	"net/http"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

const bookingNotFound = "no booking found with that ID"

// bookingRequest accepts every field name the site's booking forms have used.
// normalize collapses the aliases into one canonical booking; the first
// non-empty alias wins.
type bookingRequest struct {
	Name          string `json:"name"`
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	CustomerEmail string `json:"customerEmail"`
	Phone         string `json:"phone"`
	CustomerPhone string `json:"customerPhone"`
	ContactNumber string `json:"contactNumber"`
	TripName      string `json:"tripName"`
	Trip          string `json:"trip"`
	PackageName   string `json:"packageName"`
	Travelers     *int   `json:"travelers"`
	NumTravelers  *int   `json:"numberOfTravelers"`
	People        *int   `json:"people"`
	TravelDate    string `json:"travelDate"`
	Date          string `json:"date"`
	Message       string `json:"message"`
	Notes         string `json:"notes"`
}

type bookingResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customerName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	TripName     string              `json:"tripName"`
	TravelDate   *openapi_types.Date `json:"travelDate,omitempty"`
	Travelers    int                 `json:"travelers"`
	Message      string              `json:"message,omitempty"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

type bookingStatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// CreateBooking handles POST /api/bookings. Public and rate limited.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := req.normalize()
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}

	created, err := s.bookings.Create(r.Context(), b)
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Status:  statusSuccess,
		Message: "Booking request received. We will contact you shortly.",
		Data:    map[string]any{"booking": bookingToResponse(created)},
	})
}

// ListBookings handles GET /api/bookings. Supports ?page=, ?limit= and ?status=.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := pagination(w, r)
	if !ok {
		return
	}

	var f domain.BookingFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			writeError(w, r, err, bookingNotFound)
			return
		}
		f.Status = &status
	}

	bookings, total, err := s.bookings.List(r.Context(), f, p)
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	writePage(w, "bookings", out, total, p)
}

// GetBooking handles GET /api/bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	writeData(w, http.StatusOK, "booking", bookingToResponse(b))
}

// UpdateBookingStatus handles PATCH /api/bookings/{id}/status.
func (s *Server) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req bookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := s.bookings.UpdateStatus(r.Context(), id, domain.BookingStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	writeData(w, http.StatusOK, "booking", bookingToResponse(b))
}

// DeleteBooking handles DELETE /api/bookings/{id}.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.bookings.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	writeMessage(w, "Booking deleted successfully")
}

// BookingStats handles GET /api/bookings/admin/stats.
func (s *Server) BookingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bookings.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}
	byStatus := make(map[string]int, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}
	writeData(w, http.StatusOK, "stats", bookingStatsResponse{Total: stats.Total, ByStatus: byStatus})
}

// normalize maps the aliased request fields onto one domain.Booking.
func (req bookingRequest) normalize() (domain.Booking, error) {
	b := domain.Booking{
		CustomerName: firstNonEmpty(req.Name, req.CustomerName),
		Email:        firstNonEmpty(req.Email, req.CustomerEmail),
		Phone:        firstNonEmpty(req.Phone, req.CustomerPhone, req.ContactNumber),
		TripName:     firstNonEmpty(req.TripName, req.Trip, req.PackageName),
		Message:      firstNonEmpty(req.Message, req.Notes),
	}
	for _, n := range []*int{req.Travelers, req.NumTravelers, req.People} {
		if n != nil {
			b.Travelers = *n
			break
		}
	}
	if raw := firstNonEmpty(req.TravelDate, req.Date); raw != "" {
		d, err := time.Parse(openapi_types.DateFormat, raw)
		if err != nil {
			return domain.Booking{}, validationError("travelDate must be a date in YYYY-MM-DD format")
		}
		b.TravelDate = &d
	}
	return b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func bookingToResponse(b domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:           b.ID.String(),
		CustomerName: b.CustomerName,
		Email:        b.Email,
		Phone:        b.Phone,
		TripName:     b.TripName,
		Travelers:    b.Travelers,
		Message:      b.Message,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.TravelDate != nil {
		resp.TravelDate = &openapi_types.Date{Time: *b.TravelDate}
	}
	return resp
}
