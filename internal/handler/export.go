package handler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// bookingCSVHeaders is the first row of a CSV booking export.
var bookingCSVHeaders = []string{
	"id", "customer_name", "email", "phone", "trip_name",
	"travel_date", "travelers", "status", "message", "created_at",
}

// ExportBookings handles GET /api/bookings/export.
// Supports ?status= and ?format=json|csv; JSON is the default.
func (s *Server) ExportBookings(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err, bookingNotFound)
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

	bookings, err := s.bookings.Export(r.Context(), f)
	if err != nil {
		writeError(w, r, err, bookingNotFound)
		return
	}

	if format == domain.ExportCSV {
		writeBookingsCSV(w, r, bookings)
		return
	}
	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	writeList(w, "bookings", out)
}

// writeBookingsCSV streams bookings as an attachment. Headers are already
// sent when a write fails, so failures are only logged.
func writeBookingsCSV(w http.ResponseWriter, r *http.Request, bookings []domain.Booking) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings-`+time.Now().UTC().Format(openapi_types.DateFormat)+`.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	records := make([][]string, 0, len(bookings)+1)
	records = append(records, bookingCSVHeaders)
	for _, b := range bookings {
		records = append(records, bookingToCSVRecord(b))
	}
	if err := cw.WriteAll(records); err != nil {
		slog.ErrorContext(r.Context(), "write bookings csv", "error", err)
	}
}

// bookingToCSVRecord flattens a booking. A missing travel date is an empty cell.
func bookingToCSVRecord(b domain.Booking) []string {
	travelDate := ""
	if b.TravelDate != nil {
		travelDate = b.TravelDate.Format(openapi_types.DateFormat)
	}
	return []string{
		b.ID.String(),
		b.CustomerName,
		b.Email,
		b.Phone,
		b.TripName,
		travelDate,
		strconv.Itoa(b.Travelers),
		string(b.Status),
		b.Message,
		b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
