package handler

import (
	"net/http"
	"time"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

const exploreNotFound = "no explore destination found with that ID"

// exploreDestinationRequest is the body of POST and PATCH. Pointer fields
// tell "absent" apart from zero values.
type exploreDestinationRequest struct {
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	URL      *string `json:"url"`
	Type     *string `json:"type"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
}

type exploreDestinationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type exploreStatsResponse struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
	ByType   map[string]int `json:"byType"`
}

// ListActiveExploreDestinations handles GET /api/explore-destinations/active.
// Public; supports ?type=.
func (s *Server) ListActiveExploreDestinations(w http.ResponseWriter, r *http.Request) {
	t, ok := destinationType(w, r)
	if !ok {
		return
	}
	out, err := s.explore.ListActive(r.Context(), t)
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeList(w, "exploreDestinations", exploreResponses(out))
}

// ListExploreDestinations handles GET /api/explore-destinations.
// Supports ?type= and ?active=.
func (s *Server) ListExploreDestinations(w http.ResponseWriter, r *http.Request) {
	t, ok := destinationType(w, r)
	if !ok {
		return
	}
	var active *bool
	if !queryParam(w, r, "active", &active) {
		return
	}

	out, err := s.explore.List(r.Context(), domain.ExploreDestinationFilter{Type: t, Active: active})
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeList(w, "exploreDestinations", exploreResponses(out))
}

// CreateExploreDestination handles POST /api/explore-destinations.
func (s *Server) CreateExploreDestination(w http.ResponseWriter, r *http.Request) {
	var req exploreDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.explore.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeData(w, http.StatusCreated, "exploreDestination", exploreToResponse(created))
}

// GetExploreDestination handles GET /api/explore-destinations/{id}.
func (s *Server) GetExploreDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.explore.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeData(w, http.StatusOK, "exploreDestination", exploreToResponse(d))
}

// UpdateExploreDestination handles PATCH /api/explore-destinations/{id}.
func (s *Server) UpdateExploreDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req exploreDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.explore.Update(r.Context(), id, req.toPatch())
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeData(w, http.StatusOK, "exploreDestination", exploreToResponse(updated))
}

// ToggleExploreDestination handles PATCH /api/explore-destinations/{id}/toggle-active.
func (s *Server) ToggleExploreDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.explore.ToggleActive(r.Context(), id)
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeData(w, http.StatusOK, "exploreDestination", exploreToResponse(d))
}

// DeleteExploreDestination handles DELETE /api/explore-destinations/{id}.
func (s *Server) DeleteExploreDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.explore.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	writeMessage(w, "Explore destination deleted successfully")
}

// ReorderExploreDestinations handles PATCH /api/explore-destinations/reorder.
func (s *Server) ReorderExploreDestinations(w http.ResponseWriter, r *http.Request) {
	ids, ok := reorderIDs(w, r)
	if !ok {
		return
	}
	out, err := s.explore.Reorder(r.Context(), ids)
	if err != nil {
		writeError(w, r, err, "one or more explore destinations were not found")
		return
	}
	writeList(w, "exploreDestinations", exploreResponses(out))
}

// ExploreDestinationStats handles GET /api/explore-destinations/admin/stats.
func (s *Server) ExploreDestinationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.explore.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, exploreNotFound)
		return
	}
	byType := make(map[string]int, len(stats.ByType))
	for t, n := range stats.ByType {
		byType[string(t)] = n
	}
	writeData(w, http.StatusOK, "stats", exploreStatsResponse{
		Total:    stats.Total,
		Active:   stats.Active,
		Inactive: stats.Inactive,
		ByType:   byType,
	})
}

// --- mapping helpers --------------------------------------------------------

// toDomain builds a new destination. Absent isActive defaults to true and
// absent order to 0, which the service treats as "append".
func (req exploreDestinationRequest) toDomain() domain.ExploreDestination {
	d := domain.ExploreDestination{IsActive: true}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Image != nil {
		d.Image = *req.Image
	}
	if req.URL != nil {
		d.URL = *req.URL
	}
	if req.Type != nil {
		d.Type = domain.DestinationType(*req.Type)
	}
	if req.Order != nil {
		d.Order = *req.Order
		if d.Order == 0 {
			// An explicit 0 is invalid, not "append".
			d.Order = -1
		}
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	return d
}

func (req exploreDestinationRequest) toPatch() domain.ExploreDestinationPatch {
	p := domain.ExploreDestinationPatch{
		Name:     req.Name,
		Image:    req.Image,
		URL:      req.URL,
		Order:    req.Order,
		IsActive: req.IsActive,
	}
	if req.Type != nil {
		t := domain.DestinationType(*req.Type)
		p.Type = &t
	}
	return p
}

func exploreToResponse(d domain.ExploreDestination) exploreDestinationResponse {
	return exploreDestinationResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		Image:     d.Image,
		URL:       d.URL,
		Type:      string(d.Type),
		Order:     d.Order,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func exploreResponses(in []domain.ExploreDestination) []exploreDestinationResponse {
	out := make([]exploreDestinationResponse, len(in))
	for i, d := range in {
		out[i] = exploreToResponse(d)
	}
	return out
}
