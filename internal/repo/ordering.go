package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// orderScope describes a table whose rows carry a display "order" and the
// column, if any, that partitions that order. Only active rows take part in
// collision checks and shifts; inactive rows keep whatever order they hold.
type orderScope struct {
	table     string
	partition string // empty when the whole table is one partition
}

// where returns the predicate selecting active rows of one partition.
func (s orderScope) where() string {
	if s.partition == "" {
		return `is_active`
	}
	return s.partition + ` = @partition AND is_active`
}

// lock takes a transaction-scoped advisory lock for one partition. Concurrent
// writers to the same partition queue behind it until commit or rollback.
// Must be called inside a transaction; outside one the lock is released at once.
func (s orderScope) lock(ctx context.Context, q db, partition string) error {
	const sql = `SELECT pg_advisory_xact_lock(hashtext(@key))`

	key := s.table + ":" + partition
	if _, err := q.Exec(ctx, sql, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	return nil
}

// taken reports whether an active row other than exclude already holds order.
func (s orderScope) taken(ctx context.Context, q db, partition string, order int, exclude uuid.UUID) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1 FROM ` + s.table + `
			WHERE ` + s.where() + `
			  AND "order" = @order
			  AND id <> @exclude_id
		)`

	var exists bool
	err := q.QueryRow(ctx, sql, pgx.NamedArgs{
		"partition":  partition,
		"order":      order,
		"exclude_id": exclude,
	}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("order taken: %w", err)
	}
	return exists, nil
}

// shiftUp moves every active row at or above from up by one, except exclude.
// Returns the number of rows moved.
func (s orderScope) shiftUp(ctx context.Context, q db, partition string, from int, exclude uuid.UUID) (int64, error) {
	sql := `
		UPDATE ` + s.table + `
		SET "order" = "order" + 1,
		    updated_at = now()
		WHERE ` + s.where() + `
		  AND "order" >= @from
		  AND id <> @exclude_id`

	tag, err := q.Exec(ctx, sql, pgx.NamedArgs{
		"partition":  partition,
		"from":       from,
		"exclude_id": exclude,
	})
	if err != nil {
		return 0, fmt.Errorf("shift up: %w", err)
	}
	return tag.RowsAffected(), nil
}

// shiftDown moves every active row strictly above after down by one, closing
// the gap left at after. Returns the number of rows moved.
func (s orderScope) shiftDown(ctx context.Context, q db, partition string, after int) (int64, error) {
	sql := `
		UPDATE ` + s.table + `
		SET "order" = "order" - 1,
		    updated_at = now()
		WHERE ` + s.where() + `
		  AND "order" > @after`

	tag, err := q.Exec(ctx, sql, pgx.NamedArgs{
		"partition": partition,
		"after":     after,
	})
	if err != nil {
		return 0, fmt.Errorf("shift down: %w", err)
	}
	return tag.RowsAffected(), nil
}

// maxOrder returns the highest order held by an active row, or 0 when the
// partition has no active rows.
func (s orderScope) maxOrder(ctx context.Context, q db, partition string) (int, error) {
	sql := `
		SELECT COALESCE(MAX("order"), 0)::int
		FROM ` + s.table + `
		WHERE ` + s.where()

	var highest int
	if err := q.QueryRow(ctx, sql, pgx.NamedArgs{"partition": partition}).Scan(&highest); err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}
	return highest, nil
}

// setOrder overwrites one row's order without touching any other row.
// Returns domain.ErrNotFound when id does not exist.
func (s orderScope) setOrder(ctx context.Context, q db, id uuid.UUID, order int) error {
	sql := `
		UPDATE ` + s.table + `
		SET "order" = @order,
		    updated_at = now()
		WHERE id = @id`

	tag, err := q.Exec(ctx, sql, pgx.NamedArgs{"id": id, "order": order})
	if err != nil {
		return fmt.Errorf("set order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
