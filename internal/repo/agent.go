package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// AgentRepo defines the persistence operations for Agents.
type AgentRepo interface {
	// Create inserts an agent with an already-assigned code.
	// Returns domain.ErrDuplicate when the email or code is already in use.
	Create(ctx context.Context, a domain.Agent) (domain.Agent, error)

	// GetByID retrieves an agent by id.
	// Returns domain.ErrNotFound if no agent with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error)

	// ListPaged returns one page of agents matching f, newest first, and the
	// total number of matching agents.
	ListPaged(ctx context.Context, f domain.AgentFilter, p domain.PaginationParams) ([]domain.Agent, int64, error)

	// Update overwrites the mutable fields of an agent. The code never changes.
	Update(ctx context.Context, a domain.Agent) (domain.Agent, error)

	// Delete removes an agent. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats returns total, active and inactive counts.
	Stats(ctx context.Context) (domain.AgentStats, error)

	// LockCodeSequence serializes code assignment until the surrounding
	// transaction ends.
	LockCodeSequence(ctx context.Context) error

	// LastCode returns the highest assigned agent code, or "" when there are none.
	LastCode(ctx context.Context) (string, error)
}

// agentUniqueFields maps unique constraint names to API field names.
var agentUniqueFields = map[string]string{
	"agents_email_key":      "email",
	"agents_agent_code_key": "agentCode",
}

const agentColumns = `id, agent_code, name, email, phone, company, address, is_active, created_at, updated_at`

type pgAgentRepo struct {
	db db
}

// NewAgentRepo constructs an AgentRepo backed by db.
func NewAgentRepo(db db) AgentRepo {
	return &pgAgentRepo{db: db}
}

func (r *pgAgentRepo) Create(ctx context.Context, a domain.Agent) (domain.Agent, error) {
	const q = `
		INSERT INTO agents (agent_code, name, email, phone, company, address, is_active)
		VALUES (@code, @name, @email, @phone, @company, @address, @is_active)
		RETURNING ` + agentColumns

	args := pgx.NamedArgs{
		"code":      a.Code,
		"name":      a.Name,
		"email":     a.Email,
		"phone":     a.Phone,
		"company":   a.Company,
		"address":   a.Address,
		"is_active": a.IsActive,
	}

	result, err := scanAgent(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.Agent{}, fmt.Errorf("repo.AgentRepo.Create: %w", mapWriteError(err, agentUniqueFields))
	}
	return result, nil
}

func (r *pgAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	const q = `SELECT ` + agentColumns + ` FROM agents WHERE id = @id`

	result, err := scanAgent(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Agent{}, fmt.Errorf("repo.AgentRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAgentRepo) ListPaged(ctx context.Context, f domain.AgentFilter, p domain.PaginationParams) ([]domain.Agent, int64, error) {
	const filter = `
		WHERE (@search = '' OR name ILIKE '%' || @search || '%'
		                    OR email ILIKE '%' || @search || '%'
		                    OR agent_code ILIKE '%' || @search || '%')
		  AND (@active::boolean IS NULL OR is_active = @active::boolean)`

	const countQ = `SELECT COUNT(*) FROM agents` + filter

	const q = `
		SELECT ` + agentColumns + `
		FROM agents` + filter + `
		ORDER BY created_at DESC, agent_code DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"search": f.Search,
		"active": f.Active,
		"limit":  p.Limit,
		"offset": p.Offset(),
	}

	conn := executor(ctx, r.db)

	var total int64
	if err := conn.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AgentRepo.ListPaged: count: %w", err)
	}

	rows, err := conn.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AgentRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	agents := []domain.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.AgentRepo.ListPaged: scan: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.AgentRepo.ListPaged: rows: %w", err)
	}
	return agents, total, nil
}

func (r *pgAgentRepo) Update(ctx context.Context, a domain.Agent) (domain.Agent, error) {
	const q = `
		UPDATE agents
		SET name       = @name,
		    email      = @email,
		    phone      = @phone,
		    company    = @company,
		    address    = @address,
		    is_active  = @is_active,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + agentColumns

	args := pgx.NamedArgs{
		"id":        a.ID,
		"name":      a.Name,
		"email":     a.Email,
		"phone":     a.Phone,
		"company":   a.Company,
		"address":   a.Address,
		"is_active": a.IsActive,
	}

	result, err := scanAgent(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.Agent{}, fmt.Errorf("repo.AgentRepo.Update: %w", mapWriteError(err, agentUniqueFields))
	}
	return result, nil
}

func (r *pgAgentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM agents WHERE id = @id`

	tag, err := executor(ctx, r.db).Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AgentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AgentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAgentRepo) Stats(ctx context.Context) (domain.AgentStats, error) {
	const q = `SELECT COUNT(*)::int, (COUNT(*) FILTER (WHERE is_active))::int FROM agents`

	var stats domain.AgentStats
	if err := executor(ctx, r.db).QueryRow(ctx, q).Scan(&stats.Total, &stats.Active); err != nil {
		return domain.AgentStats{}, fmt.Errorf("repo.AgentRepo.Stats: %w", err)
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

func (r *pgAgentRepo) LockCodeSequence(ctx context.Context) error {
	const q = `SELECT pg_advisory_xact_lock(hashtext('agents:code'))`

	if _, err := executor(ctx, r.db).Exec(ctx, q); err != nil {
		return fmt.Errorf("repo.AgentRepo.LockCodeSequence: %w", err)
	}
	return nil
}

// LastCode relies on codes being zero-padded, so lexical order is numeric order.
func (r *pgAgentRepo) LastCode(ctx context.Context) (string, error) {
	const q = `SELECT agent_code FROM agents ORDER BY agent_code DESC LIMIT 1`

	var code string
	err := executor(ctx, r.db).QueryRow(ctx, q).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("repo.AgentRepo.LastCode: %w", err)
	}
	return code, nil
}

// scanAgent maps a single database row into a domain.Agent.
func scanAgent(s scanner) (domain.Agent, error) {
	var (
		a  domain.Agent
		id pgtype.UUID
	)
	err := s.Scan(&id, &a.Code, &a.Name, &a.Email, &a.Phone, &a.Company, &a.Address, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Agent{}, domain.ErrNotFound
		}
		return domain.Agent{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	return a, nil
}
