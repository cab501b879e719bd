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

// ExploreDestinationRepo defines the persistence operations for Explore destinations.
// The ordering primitives (LockPartition, OrderTaken, ShiftUp, ShiftDown, MaxOrder,
// SetOrder) are exposed separately so the service layer can compose them into
// explicit, transactional resequencing steps.
type ExploreDestinationRepo interface {
	// Create inserts a destination exactly as given, including its order,
	// and returns the persisted record.
	Create(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error)

	// GetByID retrieves a destination by id.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error)

	// GetForUpdate retrieves a destination and holds its row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error)

	// List returns destinations matching f, ordered by type then order.
	List(ctx context.Context, f domain.ExploreDestinationFilter) ([]domain.ExploreDestination, error)

	// Update overwrites every mutable field and returns the updated record.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	Update(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error)

	// Delete removes a destination and returns the row as it was before removal.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error)

	// Stats returns total, active, inactive and per-type counts.
	Stats(ctx context.Context) (domain.ExploreDestinationStats, error)

	// LockPartition serializes writers to one type partition until the
	// surrounding transaction ends.
	LockPartition(ctx context.Context, t domain.DestinationType) error

	// OrderTaken reports whether an active destination of type t other than
	// exclude holds order.
	OrderTaken(ctx context.Context, t domain.DestinationType, order int, exclude uuid.UUID) (bool, error)

	// ShiftUp increments order for active destinations of type t with
	// order >= from, skipping exclude. Returns the number of rows moved.
	ShiftUp(ctx context.Context, t domain.DestinationType, from int, exclude uuid.UUID) (int64, error)

	// ShiftDown decrements order for active destinations of type t with
	// order > after. Returns the number of rows moved.
	ShiftDown(ctx context.Context, t domain.DestinationType, after int) (int64, error)

	// MaxOrder returns the highest active order in partition t, or 0.
	MaxOrder(ctx context.Context, t domain.DestinationType) (int, error)

	// SetOrder overwrites the order of a single destination.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	SetOrder(ctx context.Context, id uuid.UUID, order int) error
}

var exploreScope = orderScope{table: "explore_destinations", partition: "type"}

const exploreColumns = `id, name, image, url, type, "order", is_active, created_at, updated_at`

// pgExploreDestinationRepo is the Postgres implementation of ExploreDestinationRepo.
type pgExploreDestinationRepo struct {
	db db
}

// NewExploreDestinationRepo constructs an ExploreDestinationRepo backed by db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation or a pgxmock pool.
func NewExploreDestinationRepo(db db) ExploreDestinationRepo {
	return &pgExploreDestinationRepo{db: db}
}

func (r *pgExploreDestinationRepo) Create(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error) {
	const q = `
		INSERT INTO explore_destinations (name, image, url, type, "order", is_active)
		VALUES (@name, @image, @url, @type, @order, @is_active)
		RETURNING ` + exploreColumns

	args := pgx.NamedArgs{
		"name":      d.Name,
		"image":     d.Image,
		"url":       d.URL,
		"type":      string(d.Type),
		"order":     d.Order,
		"is_active": d.IsActive,
	}

	result, err := scanExploreDestination(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("repo.ExploreDestinationRepo.Create: %w", mapWriteError(err, nil))
	}
	return result, nil
}

func (r *pgExploreDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	const q = `SELECT ` + exploreColumns + ` FROM explore_destinations WHERE id = @id`

	result, err := scanExploreDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("repo.ExploreDestinationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgExploreDestinationRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	const q = `SELECT ` + exploreColumns + ` FROM explore_destinations WHERE id = @id FOR UPDATE`

	result, err := scanExploreDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("repo.ExploreDestinationRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgExploreDestinationRepo) List(ctx context.Context, f domain.ExploreDestinationFilter) ([]domain.ExploreDestination, error) {
	const q = `
		SELECT ` + exploreColumns + `
		FROM explore_destinations
		WHERE (@type::text IS NULL OR type = @type::text)
		  AND (@active::boolean IS NULL OR is_active = @active::boolean)
		ORDER BY type, "order", created_at`

	var typ *string
	if f.Type != nil {
		s := string(*f.Type)
		typ = &s
	}

	rows, err := executor(ctx, r.db).Query(ctx, q, pgx.NamedArgs{"type": typ, "active": f.Active})
	if err != nil {
		return nil, fmt.Errorf("repo.ExploreDestinationRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.ExploreDestination{}
	for rows.Next() {
		d, err := scanExploreDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExploreDestinationRepo.List: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExploreDestinationRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgExploreDestinationRepo) Update(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error) {
	const q = `
		UPDATE explore_destinations
		SET name       = @name,
		    image      = @image,
		    url        = @url,
		    type       = @type,
		    "order"    = @order,
		    is_active  = @is_active,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + exploreColumns

	args := pgx.NamedArgs{
		"id":        d.ID,
		"name":      d.Name,
		"image":     d.Image,
		"url":       d.URL,
		"type":      string(d.Type),
		"order":     d.Order,
		"is_active": d.IsActive,
	}

	result, err := scanExploreDestination(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("repo.ExploreDestinationRepo.Update: %w", mapWriteError(err, nil))
	}
	return result, nil
}

func (r *pgExploreDestinationRepo) Delete(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	const q = `DELETE FROM explore_destinations WHERE id = @id RETURNING ` + exploreColumns

	result, err := scanExploreDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("repo.ExploreDestinationRepo.Delete: %w", err)
	}
	return result, nil
}

func (r *pgExploreDestinationRepo) Stats(ctx context.Context) (domain.ExploreDestinationStats, error) {
	const q = `
		SELECT type, COUNT(*)::int, (COUNT(*) FILTER (WHERE is_active))::int
		FROM explore_destinations
		GROUP BY type`

	rows, err := executor(ctx, r.db).Query(ctx, q)
	if err != nil {
		return domain.ExploreDestinationStats{}, fmt.Errorf("repo.ExploreDestinationRepo.Stats: %w", err)
	}
	defer rows.Close()

	stats := domain.ExploreDestinationStats{ByType: make(map[domain.DestinationType]int, len(domain.DestinationTypes))}
	for _, t := range domain.DestinationTypes {
		stats.ByType[t] = 0
	}
	for rows.Next() {
		var (
			typ           string
			total, active int
		)
		if err := rows.Scan(&typ, &total, &active); err != nil {
			return domain.ExploreDestinationStats{}, fmt.Errorf("repo.ExploreDestinationRepo.Stats: scan: %w", err)
		}
		stats.ByType[domain.DestinationType(typ)] = total
		stats.Total += total
		stats.Active += active
	}
	if err := rows.Err(); err != nil {
		return domain.ExploreDestinationStats{}, fmt.Errorf("repo.ExploreDestinationRepo.Stats: rows: %w", err)
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

func (r *pgExploreDestinationRepo) LockPartition(ctx context.Context, t domain.DestinationType) error {
	if err := exploreScope.lock(ctx, executor(ctx, r.db), string(t)); err != nil {
		return fmt.Errorf("repo.ExploreDestinationRepo.LockPartition: %w", err)
	}
	return nil
}

func (r *pgExploreDestinationRepo) OrderTaken(ctx context.Context, t domain.DestinationType, order int, exclude uuid.UUID) (bool, error) {
	taken, err := exploreScope.taken(ctx, executor(ctx, r.db), string(t), order, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.ExploreDestinationRepo.OrderTaken: %w", err)
	}
	return taken, nil
}

func (r *pgExploreDestinationRepo) ShiftUp(ctx context.Context, t domain.DestinationType, from int, exclude uuid.UUID) (int64, error) {
	n, err := exploreScope.shiftUp(ctx, executor(ctx, r.db), string(t), from, exclude)
	if err != nil {
		return 0, fmt.Errorf("repo.ExploreDestinationRepo.ShiftUp: %w", err)
	}
	return n, nil
}

func (r *pgExploreDestinationRepo) ShiftDown(ctx context.Context, t domain.DestinationType, after int) (int64, error) {
	n, err := exploreScope.shiftDown(ctx, executor(ctx, r.db), string(t), after)
	if err != nil {
		return 0, fmt.Errorf("repo.ExploreDestinationRepo.ShiftDown: %w", err)
	}
	return n, nil
}

func (r *pgExploreDestinationRepo) MaxOrder(ctx context.Context, t domain.DestinationType) (int, error) {
	n, err := exploreScope.maxOrder(ctx, executor(ctx, r.db), string(t))
	if err != nil {
		return 0, fmt.Errorf("repo.ExploreDestinationRepo.MaxOrder: %w", err)
	}
	return n, nil
}

func (r *pgExploreDestinationRepo) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	if err := exploreScope.setOrder(ctx, executor(ctx, r.db), id, order); err != nil {
		return fmt.Errorf("repo.ExploreDestinationRepo.SetOrder: %w", err)
	}
	return nil
}

// scanExploreDestination maps a single database row into a domain.ExploreDestination.
func scanExploreDestination(s scanner) (domain.ExploreDestination, error) {
	var (
		d   domain.ExploreDestination
		id  pgtype.UUID
		typ string
	)

	err := s.Scan(&id, &d.Name, &d.Image, &d.URL, &typ, &d.Order, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExploreDestination{}, domain.ErrNotFound
		}
		return domain.ExploreDestination{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.Type = domain.DestinationType(typ)
	return d, nil
}
