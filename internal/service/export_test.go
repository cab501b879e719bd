package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/service"
)

func TestBookingService_Export_PassesFilter(t *testing.T) {
	confirmed := domain.BookingConfirmed
	var got domain.BookingFilter
	svc := service.NewBookingService(&mockBookingRepo{
		listAll: func(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
			got = f
			return []domain.Booking{validBooking()}, nil
		},
	})

	out, err := svc.Export(context.Background(), domain.BookingFilter{Status: &confirmed})

	require.NoError(t, err)
	assert.Len(t, out, 1)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.BookingConfirmed, *got.Status)
}

func TestBookingService_Export_UnknownStatus(t *testing.T) {
	bogus := domain.BookingStatus("archived")
	svc := service.NewBookingService(&mockBookingRepo{})

	_, err := svc.Export(context.Background(), domain.BookingFilter{Status: &bogus})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Export_RepoError(t *testing.T) {
	svc := service.NewBookingService(&mockBookingRepo{
		listAll: func(context.Context, domain.BookingFilter) ([]domain.Booking, error) {
			return nil, errors.New("db down")
		},
	})

	_, err := svc.Export(context.Background(), domain.BookingFilter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.BookingService.Export")
}
