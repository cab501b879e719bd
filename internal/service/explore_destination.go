// Package service contains the business logic for the Pureland travel API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// Services depend on repo interfaces and hold no SQL.
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

const exploreCachePrefix = "explore:"

// ExploreDestinationService implements business logic for Explore destinations.
//
// Display order is kept unique among active destinations of one type:
//   - writing an active destination at an occupied order first shifts every
//     active destination at or above that order up by one;
//   - deleting a destination shifts every active destination above it down by one.
//
// Each of these runs in one transaction holding the partition's advisory lock,
// so concurrent writers to one partition cannot interleave.
type ExploreDestinationService struct {
	tx    repo.Transactor
	repo  repo.ExploreDestinationRepo
	cache ListingCache
}

// NewExploreDestinationService constructs an ExploreDestinationService.
// cache may be nil, in which case public listings are always read from the repo.
func NewExploreDestinationService(tx repo.Transactor, r repo.ExploreDestinationRepo, cache ListingCache) *ExploreDestinationService {
	return &ExploreDestinationService{tx: tx, repo: r, cache: orNoop(cache)}
}

// Create validates and persists a new destination.
// A zero Order appends the destination after the last active one of its type.
// Returns domain.ErrValidation if input violates business rules; nothing is
// written in that case.
func (s *ExploreDestinationService) Create(ctx context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Image = strings.TrimSpace(d.Image)
	d.URL = strings.TrimSpace(d.URL)

	if err := validateExploreDestination(d, true); err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.Create: %w", err)
	}

	var created domain.ExploreDestination
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPartition(ctx, d.Type); err != nil {
			return err
		}

		if d.Order == 0 {
			last, err := s.repo.MaxOrder(ctx, d.Type)
			if err != nil {
				return err
			}
			d.Order = last + 1
		} else if d.IsActive {
			if err := s.resolveCollision(ctx, d.Type, d.Order, uuid.Nil); err != nil {
				return err
			}
		}

		var err error
		created, err = s.repo.Create(ctx, d)
		return err
	})
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.Create: %w", err)
	}

	invalidate(ctx, s.cache, exploreCachePrefix)
	return created, nil
}

// GetByID returns a single destination, active or not.
func (s *ExploreDestinationService) GetByID(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.GetByID: %w", err)
	}
	return d, nil
}

// List returns every destination matching f for the admin dashboard.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExploreDestinationService) List(ctx context.Context, f domain.ExploreDestinationFilter) ([]domain.ExploreDestination, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.ExploreDestinationService.List: %w", err)
	}
	if out == nil {
		return []domain.ExploreDestination{}, nil
	}
	return out, nil
}

// ListActive returns the public listing: active destinations only, optionally
// restricted to one type, ordered by type then order. Results are cached
// until the next write.
func (s *ExploreDestinationService) ListActive(ctx context.Context, t *domain.DestinationType) ([]domain.ExploreDestination, error) {
	key := exploreCachePrefix + "active:all"
	if t != nil {
		key = exploreCachePrefix + "active:" + string(*t)
	}

	active := true
	out, err := cachedList(ctx, s.cache, key, func(ctx context.Context) ([]domain.ExploreDestination, error) {
		return s.List(ctx, domain.ExploreDestinationFilter{Type: t, Active: &active})
	})
	if err != nil {
		return nil, fmt.Errorf("service.ExploreDestinationService.ListActive: %w", err)
	}
	return out, nil
}

// Update applies a partial update. Only fields present in p are validated.
// When p carries an order and the resulting destination is active, any active
// destination of the same type already at that order is shifted up first.
func (s *ExploreDestinationService) Update(ctx context.Context, id uuid.UUID, p domain.ExploreDestinationPatch) (domain.ExploreDestination, error) {
	trimPtr(p.Name)
	trimPtr(p.Image)
	trimPtr(p.URL)

	if err := validateExplorePatch(p); err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.Update: %w", err)
	}

	var updated domain.ExploreDestination
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// Advisory locks are always taken before row locks.
		if p.Order != nil {
			if err := s.lockPartitions(ctx, current.Type, p.Apply(current).Type); err != nil {
				return err
			}
		}

		current, err = s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next := p.Apply(current)

		if p.Order != nil && next.IsActive {
			if err := s.resolveCollision(ctx, next.Type, next.Order, next.ID); err != nil {
				return err
			}
		}

		updated, err = s.repo.Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.Update: %w", err)
	}

	invalidate(ctx, s.cache, exploreCachePrefix)
	return updated, nil
}

// ToggleActive flips IsActive. Order is left untouched and no shifting happens,
// so toggling twice restores the original state.
func (s *ExploreDestinationService) ToggleActive(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	var updated domain.ExploreDestination
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
		return domain.ExploreDestination{}, fmt.Errorf("service.ExploreDestinationService.ToggleActive: %w", err)
	}

	invalidate(ctx, s.cache, exploreCachePrefix)
	return updated, nil
}

// Delete removes a destination and closes the gap it leaves: every active
// destination of the same type with a higher order moves down by one. The gap
// is closed whether or not the deleted destination was active.
// Returns domain.ErrNotFound if the destination does not exist.
func (s *ExploreDestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.LockPartition(ctx, current.Type); err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repo.ShiftDown(ctx, deleted.Type, deleted.Order)
		if err != nil {
			return err
		}
		metrics.RecordShift("explore_destinations", "down", n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.ExploreDestinationService.Delete: %w", err)
	}

	invalidate(ctx, s.cache, exploreCachePrefix)
	return nil
}

// Reorder assigns order i+1 to the destination at ids[i]. Destinations not in
// ids keep their order, so a partial list can leave duplicates or gaps.
// The whole batch commits or none of it does: an unknown id returns
// domain.ErrNotFound and no order changes.
// Returns the full collection sorted by type then order.
func (s *ExploreDestinationService) Reorder(ctx context.Context, ids []uuid.UUID) ([]domain.ExploreDestination, error) {
	if err := distinctIDs(ids); err != nil {
		return nil, fmt.Errorf("service.ExploreDestinationService.Reorder: %w", err)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockPartitions(ctx, domain.DestinationTypes...); err != nil {
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
		return nil, fmt.Errorf("service.ExploreDestinationService.Reorder: %w", err)
	}

	invalidate(ctx, s.cache, exploreCachePrefix)
	return s.List(ctx, domain.ExploreDestinationFilter{})
}

// Stats returns aggregate counts for the admin dashboard.
func (s *ExploreDestinationService) Stats(ctx context.Context) (domain.ExploreDestinationStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.ExploreDestinationStats{}, fmt.Errorf("service.ExploreDestinationService.Stats: %w", err)
	}
	return stats, nil
}

// resolveCollision makes room at order in partition t. It is a no-op when no
// other active destination holds order.
func (s *ExploreDestinationService) resolveCollision(ctx context.Context, t domain.DestinationType, order int, self uuid.UUID) error {
	taken, err := s.repo.OrderTaken(ctx, t, order, self)
	if err != nil || !taken {
		return err
	}
	n, err := s.repo.ShiftUp(ctx, t, order, self)
	if err != nil {
		return err
	}
	metrics.RecordShift("explore_destinations", "up", n)
	return nil
}

// lockPartitions locks each distinct partition in types in canonical order,
// so two transactions never wait on each other's partition locks.
func (s *ExploreDestinationService) lockPartitions(ctx context.Context, types ...domain.DestinationType) error {
	for _, t := range domain.DestinationTypes {
		for _, want := range types {
			if want == t {
				if err := s.repo.LockPartition(ctx, t); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// validateExploreDestination enforces the rules for a complete destination.
// allowUnsetOrder permits Order == 0, meaning "append".
func validateExploreDestination(d domain.ExploreDestination, allowUnsetOrder bool) error {
	errs := []error{
		requireText("name", d.Name),
		maxLen("name", d.Name, domain.MaxDestinationNameLen),
		requireText("image", d.Image),
		requireText("url", d.URL),
	}
	if !d.Type.Valid() {
		_, err := domain.ParseDestinationType(string(d.Type))
		errs = append(errs, err)
	}
	if !(allowUnsetOrder && d.Order == 0) {
		errs = append(errs, validOrder(d.Order))
	}
	return firstError(errs...)
}

// validateExplorePatch validates only the fields present in p.
func validateExplorePatch(p domain.ExploreDestinationPatch) error {
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
	if p.Type != nil {
		_, err := domain.ParseDestinationType(string(*p.Type))
		errs = append(errs, err)
	}
	if p.Order != nil {
		errs = append(errs, validOrder(*p.Order))
	}
	return firstError(errs...)
}

// distinctIDs rejects a reorder list that names the same destination twice.
func distinctIDs(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: destinationIds must not contain duplicates (%s)", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
