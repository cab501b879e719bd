package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/metrics"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
)

const trendingCachePrefix = "trending:"

// TrendingDestinationService implements business logic for Trending destinations.
// The ordering rules match ExploreDestinationService, with the whole collection
// acting as one partition.
type TrendingDestinationService struct {
	tx    repo.Transactor
	repo  repo.TrendingDestinationRepo
	cache ListingCache
}

// NewTrendingDestinationService constructs a TrendingDestinationService.
func NewTrendingDestinationService(tx repo.Transactor, r repo.TrendingDestinationRepo, cache ListingCache) *TrendingDestinationService {
	return &TrendingDestinationService{tx: tx, repo: r, cache: orNoop(cache)}
}

// Create validates and persists a new destination. A zero Order appends it.
func (s *TrendingDestinationService) Create(ctx context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Image = strings.TrimSpace(d.Image)
	d.URL = strings.TrimSpace(d.URL)

	if err := validateTrendingDestination(d); err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.Create: %w", err)
	}

	var created domain.TrendingDestination
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPartition(ctx); err != nil {
			return err
		}

		if d.Order == 0 {
			last, err := s.repo.MaxOrder(ctx)
			if err != nil {
				return err
			}
			d.Order = last + 1
		} else if d.IsActive {
			if err := s.resolveCollision(ctx, d.Order, uuid.Nil); err != nil {
				return err
			}
		}

		var err error
		created, err = s.repo.Create(ctx, d)
		return err
	})
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.Create: %w", err)
	}

	invalidate(ctx, s.cache, trendingCachePrefix)
	return created, nil
}

func (s *TrendingDestinationService) GetByID(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.GetByID: %w", err)
	}
	return d, nil
}

func (s *TrendingDestinationService) List(ctx context.Context, f domain.TrendingDestinationFilter) ([]domain.TrendingDestination, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.TrendingDestinationService.List: %w", err)
	}
	if out == nil {
		return []domain.TrendingDestination{}, nil
	}
	return out, nil
}

// ListActive returns the cached public listing ordered by order.
func (s *TrendingDestinationService) ListActive(ctx context.Context) ([]domain.TrendingDestination, error) {
	active := true
	out, err := cachedList(ctx, s.cache, trendingCachePrefix+"active", func(ctx context.Context) ([]domain.TrendingDestination, error) {
		return s.List(ctx, domain.TrendingDestinationFilter{Active: &active})
	})
	if err != nil {
		return nil, fmt.Errorf("service.TrendingDestinationService.ListActive: %w", err)
	}
	return out, nil
}

// Update applies a partial update, resolving order collisions when p carries
// an order and the result is active.
func (s *TrendingDestinationService) Update(ctx context.Context, id uuid.UUID, p domain.TrendingDestinationPatch) (domain.TrendingDestination, error) {
	trimPtr(p.Name)
	trimPtr(p.Image)
	trimPtr(p.URL)

	if err := validateTrendingPatch(p); err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.Update: %w", err)
	}

	var updated domain.TrendingDestination
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if p.Order != nil {
			if err := s.repo.LockPartition(ctx); err != nil {
				return err
			}
		}

		current, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next := p.Apply(current)

		if p.Order != nil && next.IsActive {
			if err := s.resolveCollision(ctx, next.Order, next.ID); err != nil {
				return err
			}
		}

		updated, err = s.repo.Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.Update: %w", err)
	}

	invalidate(ctx, s.cache, trendingCachePrefix)
	return updated, nil
}

// ToggleActive flips IsActive without touching Order.
func (s *TrendingDestinationService) ToggleActive(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	var updated domain.TrendingDestination
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		current.IsActive = !current.IsActive
		updated, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return domain.TrendingDestination{}, fmt.Errorf("service.TrendingDestinationService.ToggleActive: %w", err)
	}

	invalidate(ctx, s.cache, trendingCachePrefix)
	return updated, nil
}

// Delete removes a destination and shifts every active destination above it
// down by one.
func (s *TrendingDestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPartition(ctx); err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repo.ShiftDown(ctx, deleted.Order)
		if err != nil {
			return err
		}
		metrics.RecordShift("trending_destinations", "down", n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.TrendingDestinationService.Delete: %w", err)
	}

	invalidate(ctx, s.cache, trendingCachePrefix)
	return nil
}

// Reorder assigns order i+1 to the destination at ids[i] in one transaction
// and returns the full collection sorted by order.
func (s *TrendingDestinationService) Reorder(ctx context.Context, ids []uuid.UUID) ([]domain.TrendingDestination, error) {
	if err := distinctIDs(ids); err != nil {
		return nil, fmt.Errorf("service.TrendingDestinationService.Reorder: %w", err)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPartition(ctx); err != nil {
			return err
		}
		for i, id := range ids {
			if err := s.repo.SetOrder(ctx, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.TrendingDestinationService.Reorder: %w", err)
	}

	invalidate(ctx, s.cache, trendingCachePrefix)
	return s.List(ctx, domain.TrendingDestinationFilter{})
}

func (s *TrendingDestinationService) Stats(ctx context.Context) (domain.TrendingDestinationStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.TrendingDestinationStats{}, fmt.Errorf("service.TrendingDestinationService.Stats: %w", err)
	}
	return stats, nil
}

func (s *TrendingDestinationService) resolveCollision(ctx context.Context, order int, self uuid.UUID) error {
	taken, err := s.repo.OrderTaken(ctx, order, self)
	if err != nil || !taken {
		return err
	}
	n, err := s.repo.ShiftUp(ctx, order, self)
	if err != nil {
		return err
	}
	metrics.RecordShift("trending_destinations", "up", n)
	return nil
}

func validateTrendingDestination(d domain.TrendingDestination) error {
	errs := []error{
		requireText("name", d.Name),
		maxLen("name", d.Name, domain.MaxDestinationNameLen),
		requireText("image", d.Image),
		requireText("url", d.URL),
		validPrice(d.Price),
	}
	if d.Order != 0 {
		errs = append(errs, validOrder(d.Order))
	}
	return firstError(errs...)
}

func validateTrendingPatch(p domain.TrendingDestinationPatch) error {
	var errs []error
	if p.Name != nil {
		errs = append(errs, requireText("name", *p.Name), maxLen("name", *p.Name, domain.MaxDestinationNameLen))
	}
	if p.Image != nil {
		errs = append(errs, requireText("image", *p.Image))
	}
	if p.URL != nil {
		errs = append(errs, requireText("url", *p.URL))
	}
	if p.Price != nil {
		errs = append(errs, validPrice(*p.Price))
	}
	if p.Order != nil {
		errs = append(errs, validOrder(*p.Order))
	}
	return firstError(errs...)
}
