package handler

import (
	"net/http"
	"time"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

const agentNotFound = "no agent found with that ID"

type agentRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type agentResponse struct {
	ID        string    `json:"id"`
	AgentCode string    `json:"agentCode"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type agentStatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// ListAgents handles GET /api/agents.
// Supports ?page=, ?limit=, ?search= and ?active=.
func (s *Server) ListAgents(w http.ResponseWriter, r *http.Request) {
	p, ok := pagination(w, r)
	if !ok {
		return
	}
	var active *bool
	if !queryParam(w, r, "active", &active) {
		return
	}

	agents, total, err := s.agents.List(r.Context(), domain.AgentFilter{
		Search: r.URL.Query().Get("search"),
		Active: active,
	}, p)
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}

	out := make([]agentResponse, len(agents))
	for i, a := range agents {
		out[i] = agentToResponse(a)
	}
	writePage(w, "agents", out, total, p)
}

// CreateAgent handles POST /api/agents.
func (s *Server) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a := domain.AgentPatch(req).Apply(domain.Agent{IsActive: true})
	created, err := s.agents.Create(r.Context(), a)
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeData(w, http.StatusCreated, "agent", agentToResponse(created))
}

// GetAgent handles GET /api/agents/{id}.
func (s *Server) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.agents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeData(w, http.StatusOK, "agent", agentToResponse(a))
}

// UpdateAgent handles PATCH /api/agents/{id}.
func (s *Server) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req agentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.agents.Update(r.Context(), id, domain.AgentPatch(req))
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeData(w, http.StatusOK, "agent", agentToResponse(updated))
}

// ToggleAgent handles PATCH /api/agents/{id}/toggle-active.
func (s *Server) ToggleAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.agents.ToggleActive(r.Context(), id)
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeData(w, http.StatusOK, "agent", agentToResponse(a))
}

// DeleteAgent handles DELETE /api/agents/{id}.
func (s *Server) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.agents.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeMessage(w, "Agent deleted successfully")
}

// AgentStats handles GET /api/agents/admin/stats.
func (s *Server) AgentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.agents.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, agentNotFound)
		return
	}
	writeData(w, http.StatusOK, "stats", agentStatsResponse(stats))
}

func agentToResponse(a domain.Agent) agentResponse {
	return agentResponse{
		ID:        a.ID.String(),
		AgentCode: a.Code,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Company:   a.Company,
		Address:   a.Address,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
