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

// TrendingDestinationRepo defines the persistence operations for Trending
// destinations. The table is a single order partition.
type TrendingDestinationRepo interface {
	Create(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error)
	List(ctx context.Context, f domain.TrendingDestinationFilter) ([]domain.TrendingDestination, error)
	Update(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error)
	Delete(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error)
	Stats(ctx context.Context) (domain.TrendingDestinationStats, error)

	LockPartition(ctx context.Context) error
	OrderTaken(ctx context.Context, order int, exclude uuid.UUID) (bool, error)
	ShiftUp(ctx context.Context, from int, exclude uuid.UUID) (int64, error)
	ShiftDown(ctx context.Context, after int) (int64, error)
	MaxOrder(ctx context.Context) (int, error)
	SetOrder(ctx context.Context, id uuid.UUID, order int) error
}

var trendingScope = orderScope{table: "trending_destinations"}

const trendingColumns = `id, name, image, url, price, "order", is_active, created_at, updated_at`

type pgTrendingDestinationRepo struct {
	db db
}

// NewTrendingDestinationRepo constructs a TrendingDestinationRepo backed by db.
func NewTrendingDestinationRepo(db db) TrendingDestinationRepo {
	return &pgTrendingDestinationRepo{db: db}
}

func (r *pgTrendingDestinationRepo) Create(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error) {
	const q = `
		INSERT INTO trending_destinations (name, image, url, price, "order", is_active)
		VALUES (@name, @image, @url, @price, @order, @is_active)
		RETURNING ` + trendingColumns

	args := pgx.NamedArgs{
		"name":      d.Name,
		"image":     d.Image,
		"url":       d.URL,
		"price":     d.Price,
		"order":     d.Order,
		"is_active": d.IsActive,
	}

	result, err := scanTrendingDestination(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("repo.TrendingDestinationRepo.Create: %w", mapWriteError(err, nil))
	}
	return result, nil
}

func (r *pgTrendingDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	const q = `SELECT ` + trendingColumns + ` FROM trending_destinations WHERE id = @id`

	result, err := scanTrendingDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("repo.TrendingDestinationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTrendingDestinationRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	const q = `SELECT ` + trendingColumns + ` FROM trending_destinations WHERE id = @id FOR UPDATE`

	result, err := scanTrendingDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("repo.TrendingDestinationRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgTrendingDestinationRepo) List(ctx context.Context, f domain.TrendingDestinationFilter) ([]domain.TrendingDestination, error) {
	const q = `
		SELECT ` + trendingColumns + `
		FROM trending_destinations
		WHERE (@active::boolean IS NULL OR is_active = @active::boolean)
		ORDER BY "order", created_at`

	rows, err := executor(ctx, r.db).Query(ctx, q, pgx.NamedArgs{"active": f.Active})
	if err != nil {
		return nil, fmt.Errorf("repo.TrendingDestinationRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.TrendingDestination{}
	for rows.Next() {
		d, err := scanTrendingDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TrendingDestinationRepo.List: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TrendingDestinationRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgTrendingDestinationRepo) Update(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error) {
	const q = `
		UPDATE trending_destinations
		SET name       = @name,
		    image      = @image,
		    url        = @url,
		    price      = @price,
		    "order"    = @order,
		    is_active  = @is_active,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + trendingColumns

	args := pgx.NamedArgs{
		"id":        d.ID,
		"name":      d.Name,
		"image":     d.Image,
		"url":       d.URL,
		"price":     d.Price,
		"order":     d.Order,
		"is_active": d.IsActive,
	}

	result, err := scanTrendingDestination(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("repo.TrendingDestinationRepo.Update: %w", mapWriteError(err, nil))
	}
	return result, nil
}

func (r *pgTrendingDestinationRepo) Delete(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	const q = `DELETE FROM trending_destinations WHERE id = @id RETURNING ` + trendingColumns

	result, err := scanTrendingDestination(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("repo.TrendingDestinationRepo.Delete: %w", err)
	}
	return result, nil
}

func (r *pgTrendingDestinationRepo) Stats(ctx context.Context) (domain.TrendingDestinationStats, error) {
	const q = `
		SELECT COUNT(*)::int, (COUNT(*) FILTER (WHERE is_active))::int
		FROM trending_destinations`

	var stats domain.TrendingDestinationStats
	if err := executor(ctx, r.db).QueryRow(ctx, q).Scan(&stats.Total, &stats.Active); err != nil {
		return domain.TrendingDestinationStats{}, fmt.Errorf("repo.TrendingDestinationRepo.Stats: %w", err)
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

func (r *pgTrendingDestinationRepo) LockPartition(ctx context.Context) error {
	if err := trendingScope.lock(ctx, executor(ctx, r.db), ""); err != nil {
		return fmt.Errorf("repo.TrendingDestinationRepo.LockPartition: %w", err)
	}
	return nil
}

func (r *pgTrendingDestinationRepo) OrderTaken(ctx context.Context, order int, exclude uuid.UUID) (bool, error) {
	taken, err := trendingScope.taken(ctx, executor(ctx, r.db), "", order, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.TrendingDestinationRepo.OrderTaken: %w", err)
	}
	return taken, nil
}

func (r *pgTrendingDestinationRepo) ShiftUp(ctx context.Context, from int, exclude uuid.UUID) (int64, error) {
	n, err := trendingScope.shiftUp(ctx, executor(ctx, r.db), "", from, exclude)
	if err != nil {
		return 0, fmt.Errorf("repo.TrendingDestinationRepo.ShiftUp: %w", err)
	}
	return n, nil
}

func (r *pgTrendingDestinationRepo) ShiftDown(ctx context.Context, after int) (int64, error) {
	n, err := trendingScope.shiftDown(ctx, executor(ctx, r.db), "", after)
	if err != nil {
		return 0, fmt.Errorf("repo.TrendingDestinationRepo.ShiftDown: %w", err)
	}
	return n, nil
}

func (r *pgTrendingDestinationRepo) MaxOrder(ctx context.Context) (int, error) {
	n, err := trendingScope.maxOrder(ctx, executor(ctx, r.db), "")
	if err != nil {
		return 0, fmt.Errorf("repo.TrendingDestinationRepo.MaxOrder: %w", err)
	}
	return n, nil
}

func (r *pgTrendingDestinationRepo) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	if err := trendingScope.setOrder(ctx, executor(ctx, r.db), id, order); err != nil {
		return fmt.Errorf("repo.TrendingDestinationRepo.SetOrder: %w", err)
	}
	return nil
}

// scanTrendingDestination maps a single database row into a domain.TrendingDestination.
func scanTrendingDestination(s scanner) (domain.TrendingDestination, error) {
	var (
		d  domain.TrendingDestination
		id pgtype.UUID
	)

	err := s.Scan(&id, &d.Name, &d.Image, &d.URL, &d.Price, &d.Order, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrendingDestination{}, domain.ErrNotFound
		}
		return domain.TrendingDestination{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
