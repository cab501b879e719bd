// Package handler implements the HTTP handlers for the Pureland travel API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (explore_destination.go, agent.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// ExploreDestinationServicer defines the business operations the Explore
// destination handlers depend on. Defining the interface here (in the consumer
// package) lets handler tests inject a mock without a database.
type ExploreDestinationServicer interface {
	Create(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error)
	List(ctx context.Context, f domain.ExploreDestinationFilter) ([]domain.ExploreDestination, error)
	ListActive(ctx context.Context, t *domain.DestinationType) ([]domain.ExploreDestination, error)
	Update(ctx context.Context, id uuid.UUID, p domain.ExploreDestinationPatch) (domain.ExploreDestination, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) ([]domain.ExploreDestination, error)
	Stats(ctx context.Context) (domain.ExploreDestinationStats, error)
}

// TrendingDestinationServicer defines the operations the Trending destination
// handlers depend on.
type TrendingDestinationServicer interface {
	Create(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error)
	List(ctx context.Context, f domain.TrendingDestinationFilter) ([]domain.TrendingDestination, error)
	ListActive(ctx context.Context) ([]domain.TrendingDestination, error)
	Update(ctx context.Context, id uuid.UUID, p domain.TrendingDestinationPatch) (domain.TrendingDestination, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) ([]domain.TrendingDestination, error)
	Stats(ctx context.Context) (domain.TrendingDestinationStats, error)
}

// AgentServicer defines the operations the agent handlers depend on.
type AgentServicer interface {
	Create(ctx context.Context, a domain.Agent) (domain.Agent, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error)
	List(ctx context.Context, f domain.AgentFilter, p domain.PaginationParams) ([]domain.Agent, int64, error)
	Update(ctx context.Context, id uuid.UUID, p domain.AgentPatch) (domain.Agent, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (domain.Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (domain.AgentStats, error)
}

// BookingServicer defines the operations the booking handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, f domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)
	Export(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (domain.BookingStats, error)
}

// Pinger is a dependency checked by GET /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the Server's dependencies. Nil servicers leave their
// routes unmounted, which keeps single-resource tests small.
type Services struct {
	Explore  ExploreDestinationServicer
	Trending TrendingDestinationServicer
	Agents   AgentServicer
	Bookings BookingServicer

	// Ready maps a dependency name ("postgres", "redis") to its health check.
	Ready map[string]Pinger
}

// Server holds every handler's dependencies.
type Server struct {
	explore  ExploreDestinationServicer
	trending TrendingDestinationServicer
	agents   AgentServicer
	bookings BookingServicer
	ready    map[string]Pinger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(s Services) *Server {
	return &Server{
		explore:  s.Explore,
		trending: s.Trending,
		agents:   s.Agents,
		bookings: s.Bookings,
		ready:    s.Ready,
	}
}

// NewHealthHandler returns a Server with no resources, for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{})
}
