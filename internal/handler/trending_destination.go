package handler

import (
	"net/http"
	"time"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

const trendingNotFound = "no trending destination found with that ID"

type trendingDestinationRequest struct {
	Name     *string  `json:"name"`
	Image    *string  `json:"image"`
	URL      *string  `json:"url"`
	Price    *float64 `json:"price"`
	Order    *int     `json:"order"`
	IsActive *bool    `json:"isActive"`
}

type trendingDestinationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	URL       string    `json:"url"`
	Price     float64   `json:"price"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type trendingStatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// ListActiveTrendingDestinations handles GET /api/trending-destinations/active.
func (s *Server) ListActiveTrendingDestinations(w http.ResponseWriter, r *http.Request) {
	out, err := s.trending.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeList(w, "trendingDestinations", trendingResponses(out))
}

// ListTrendingDestinations handles GET /api/trending-destinations. Supports ?active=.
func (s *Server) ListTrendingDestinations(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if !queryParam(w, r, "active", &active) {
		return
	}
	out, err := s.trending.List(r.Context(), domain.TrendingDestinationFilter{Active: active})
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeList(w, "trendingDestinations", trendingResponses(out))
}

// CreateTrendingDestination handles POST /api/trending-destinations.
func (s *Server) CreateTrendingDestination(w http.ResponseWriter, r *http.Request) {
	var req trendingDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Price == nil {
		writeFail(w, http.StatusBadRequest, "price is required")
		return
	}

	created, err := s.trending.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeData(w, http.StatusCreated, "trendingDestination", trendingToResponse(created))
}

// GetTrendingDestination handles GET /api/trending-destinations/{id}.
func (s *Server) GetTrendingDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.trending.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeData(w, http.StatusOK, "trendingDestination", trendingToResponse(d))
}

// UpdateTrendingDestination handles PATCH /api/trending-destinations/{id}.
func (s *Server) UpdateTrendingDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req trendingDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.trending.Update(r.Context(), id, domain.TrendingDestinationPatch{
		Name:     req.Name,
		Image:    req.Image,
		URL:      req.URL,
		Price:    req.Price,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeData(w, http.StatusOK, "trendingDestination", trendingToResponse(updated))
}

// ToggleTrendingDestination handles PATCH /api/trending-destinations/{id}/toggle-active.
func (s *Server) ToggleTrendingDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.trending.ToggleActive(r.Context(), id)
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeData(w, http.StatusOK, "trendingDestination", trendingToResponse(d))
}

// DeleteTrendingDestination handles DELETE /api/trending-destinations/{id}.
func (s *Server) DeleteTrendingDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.trending.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeMessage(w, "Trending destination deleted successfully")
}

// ReorderTrendingDestinations handles PATCH /api/trending-destinations/reorder.
func (s *Server) ReorderTrendingDestinations(w http.ResponseWriter, r *http.Request) {
	ids, ok := reorderIDs(w, r)
	if !ok {
		return
	}
	out, err := s.trending.Reorder(r.Context(), ids)
	if err != nil {
		writeError(w, r, err, "one or more trending destinations were not found")
		return
	}
	writeList(w, "trendingDestinations", trendingResponses(out))
}

// TrendingDestinationStats handles GET /api/trending-destinations/admin/stats.
func (s *Server) TrendingDestinationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.trending.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, trendingNotFound)
		return
	}
	writeData(w, http.StatusOK, "stats", trendingStatsResponse(stats))
}

func (req trendingDestinationRequest) toDomain() domain.TrendingDestination {
	d := domain.TrendingDestination{IsActive: true}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Image != nil {
		d.Image = *req.Image
	}
	if req.URL != nil {
		d.URL = *req.URL
	}
	if req.Price != nil {
		d.Price = *req.Price
	}
	if req.Order != nil {
		d.Order = *req.Order
		if d.Order == 0 {
			d.Order = -1
		}
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	return d
}

func trendingToResponse(d domain.TrendingDestination) trendingDestinationResponse {
	return trendingDestinationResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		Image:     d.Image,
		URL:       d.URL,
		Price:     d.Price,
		Order:     d.Order,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func trendingResponses(in []domain.TrendingDestination) []trendingDestinationResponse {
	out := make([]trendingDestinationResponse, len(in))
	for i, d := range in {
		out[i] = trendingToResponse(d)
	}
	return out
}
