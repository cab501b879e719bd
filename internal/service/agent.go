package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
)

const maxAgentNameLen = 100

// AgentService implements business logic for partner agents.
type AgentService struct {
	tx   repo.Transactor
	repo repo.AgentRepo
}

// NewAgentService constructs an AgentService.
func NewAgentService(tx repo.Transactor, r repo.AgentRepo) *AgentService {
	return &AgentService{tx: tx, repo: r}
}

// Create validates a and persists it under the next sequential agent code.
// The code sequence is locked for the duration of the transaction so two
// concurrent creates never compute the same code.
func (s *AgentService) Create(ctx context.Context, a domain.Agent) (domain.Agent, error) {
	a = normalizeAgent(a)
	if err := validateAgent(a); err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Create: %w", err)
	}

	var created domain.Agent
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCodeSequence(ctx); err != nil {
			return err
		}
		last, err := s.repo.LastCode(ctx)
		if err != nil {
			return err
		}
		a.Code, err = domain.NextAgentCode(last)
		if err != nil {
			return err
		}
		created, err = s.repo.Create(ctx, a)
		return err
	})
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Create: %w", err)
	}
	return created, nil
}

func (s *AgentService) GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.GetByID: %w", err)
	}
	return a, nil
}

// List returns one page of agents and the total match count.
func (s *AgentService) List(ctx context.Context, f domain.AgentFilter, p domain.PaginationParams) ([]domain.Agent, int64, error) {
	f.Search = strings.TrimSpace(f.Search)
	agents, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.AgentService.List: %w", err)
	}
	return agents, total, nil
}

// Update applies a partial update. The agent code is never changed.
func (s *AgentService) Update(ctx context.Context, id uuid.UUID, p domain.AgentPatch) (domain.Agent, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Update: %w", err)
	}

	next := normalizeAgent(p.Apply(current))
	if err := validateAgent(next); err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Update: %w", err)
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Update: %w", err)
	}
	return updated, nil
}

func (s *AgentService) ToggleActive(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.ToggleActive: %w", err)
	}
	current.IsActive = !current.IsActive

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.ToggleActive: %w", err)
	}
	return updated, nil
}

func (s *AgentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.AgentService.Delete: %w", err)
	}
	return nil
}

func (s *AgentService) Stats(ctx context.Context) (domain.AgentStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.AgentStats{}, fmt.Errorf("service.AgentService.Stats: %w", err)
	}
	return stats, nil
}

func normalizeAgent(a domain.Agent) domain.Agent {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	a.Company = strings.TrimSpace(a.Company)
	a.Address = strings.TrimSpace(a.Address)
	return a
}

func validateAgent(a domain.Agent) error {
	return firstError(
		requireText("name", a.Name),
		maxLen("name", a.Name, maxAgentNameLen),
		requireText("email", a.Email),
		validEmail(a.Email),
		requireText("phone", a.Phone),
	)
}
