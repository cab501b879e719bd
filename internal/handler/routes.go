package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Guards are the middleware the router wraps around protected and
// throttled routes. Nil fields pass requests straight through.
type Guards struct {
	// Admin authenticates and authorizes admin-only routes.
	Admin func(http.Handler) http.Handler
	// PublicWrite throttles unauthenticated writes such as booking requests.
	PublicWrite func(http.Handler) http.Handler
}

func (g Guards) admin() func(http.Handler) http.Handler {
	if g.Admin == nil {
		return passthrough
	}
	return g.Admin
}

func (g Guards) publicWrite() func(http.Handler) http.Handler {
	if g.PublicWrite == nil {
		return passthrough
	}
	return g.PublicWrite
}

func passthrough(next http.Handler) http.Handler { return next }

// Routes returns a router serving every endpoint whose servicer is set.
// Literal segments (/active, /reorder, /admin/stats) are registered alongside
// /{id}; chi matches static segments before parameters.
func (s *Server) Routes(g Guards) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.explore != nil {
		r.Route("/api/explore-destinations", func(r chi.Router) {
			r.Get("/active", s.ListActiveExploreDestinations)

			r.Group(func(r chi.Router) {
				r.Use(g.admin())
				r.Get("/", s.ListExploreDestinations)
				r.Post("/", s.CreateExploreDestination)
				r.Patch("/reorder", s.ReorderExploreDestinations)
				r.Get("/admin/stats", s.ExploreDestinationStats)
				r.Get("/{id}", s.GetExploreDestination)
				r.Patch("/{id}", s.UpdateExploreDestination)
				r.Delete("/{id}", s.DeleteExploreDestination)
				r.Patch("/{id}/toggle-active", s.ToggleExploreDestination)
			})
		})
	}

	if s.trending != nil {
		r.Route("/api/trending-destinations", func(r chi.Router) {
			r.Get("/active", s.ListActiveTrendingDestinations)

			r.Group(func(r chi.Router) {
				r.Use(g.admin())
				r.Get("/", s.ListTrendingDestinations)
				r.Post("/", s.CreateTrendingDestination)
				r.Patch("/reorder", s.ReorderTrendingDestinations)
				r.Get("/admin/stats", s.TrendingDestinationStats)
				r.Get("/{id}", s.GetTrendingDestination)
				r.Patch("/{id}", s.UpdateTrendingDestination)
				r.Delete("/{id}", s.DeleteTrendingDestination)
				r.Patch("/{id}/toggle-active", s.ToggleTrendingDestination)
			})
		})
	}

	if s.agents != nil {
		r.Route("/api/agents", func(r chi.Router) {
			r.Use(g.admin())
			r.Get("/", s.ListAgents)
			r.Post("/", s.CreateAgent)
			r.Get("/admin/stats", s.AgentStats)
			r.Get("/{id}", s.GetAgent)
			r.Patch("/{id}", s.UpdateAgent)
			r.Delete("/{id}", s.DeleteAgent)
			r.Patch("/{id}/toggle-active", s.ToggleAgent)
		})
	}

	if s.bookings != nil {
		r.Route("/api/bookings", func(r chi.Router) {
			r.With(g.publicWrite()).Post("/", s.CreateBooking)

			r.Group(func(r chi.Router) {
				r.Use(g.admin())
				r.Get("/", s.ListBookings)
				r.Get("/admin/stats", s.BookingStats)
				r.Get("/export", s.ExportBookings)
				r.Get("/{id}", s.GetBooking)
				r.Patch("/{id}/status", s.UpdateBookingStatus)
				r.Delete("/{id}", s.DeleteBooking)
			})
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "can't find "+r.URL.Path+" on this server")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	})

	return r
}
