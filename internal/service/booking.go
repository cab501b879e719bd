package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
)

// BookingService implements business logic for booking requests.
type BookingService struct {
	repo repo.BookingRepo
}

// NewBookingService constructs a BookingService.
func NewBookingService(r repo.BookingRepo) *BookingService {
	return &BookingService{repo: r}
}

// Create validates and stores a booking request. New bookings always start
// as pending, whatever status the caller supplied.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.Phone = strings.TrimSpace(b.Phone)
	b.TripName = strings.TrimSpace(b.TripName)
	b.Message = strings.TrimSpace(b.Message)
	if b.Travelers == 0 {
		b.Travelers = 1
	}
	b.Status = domain.BookingPending

	err := firstError(
		requireText("customerName", b.CustomerName),
		requireText("email", b.Email),
		validEmail(b.Email),
		requireText("phone", b.Phone),
		requireText("tripName", b.TripName),
		validTravelers(b.Travelers),
	)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, f domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.List: %w", err)
	}
	return bookings, total, nil
}

// UpdateStatus moves a booking to status. Any known status may follow any other.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if _, err := domain.ParseBookingStatus(string(status)); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}

	b, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	return nil
}

func (s *BookingService) Stats(ctx context.Context) (domain.BookingStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("service.BookingService.Stats: %w", err)
	}
	return stats, nil
}
