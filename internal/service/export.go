package service

import (
	"context"
	"fmt"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// Export returns every booking matching f, newest first, without pagination.
// Used by the admin spreadsheet download.
func (s *BookingService) Export(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	if f.Status != nil {
		if _, err := domain.ParseBookingStatus(string(*f.Status)); err != nil {
			return nil, fmt.Errorf("service.BookingService.Export: %w", err)
		}
	}

	bookings, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Export: %w", err)
	}
	return bookings, nil
}
