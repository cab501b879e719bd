package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/service"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/testutil"
)

// emptyTx returns a rolled-back-on-cleanup transaction in which table starts empty.
func emptyTx(t *testing.T, table string) pgx.Tx {
	t.Helper()
	tx := testutil.NewTx(t)
	_, err := tx.Exec(context.Background(), `DELETE FROM `+table)
	require.NoError(t, err)
	return tx
}

// newExploreIntegration wires the real service over a test transaction.
// TxManager on a pgx.Tx opens savepoints, so service rollbacks stay local.
func newExploreIntegration(t *testing.T) (*service.ExploreDestinationService, repo.ExploreDestinationRepo) {
	t.Helper()
	tx := emptyTx(t, "explore_destinations")
	r := repo.NewExploreDestinationRepo(tx)
	return service.NewExploreDestinationService(repo.NewTxManager(tx), r, nil), r
}

func exploreRow(name string, typ domain.DestinationType, order int) domain.ExploreDestination {
	return domain.ExploreDestination{
		Name:     name,
		Image:    "https://cdn.example.com/" + name + ".jpg",
		URL:      "/trips/" + name,
		Type:     typ,
		Order:    order,
		IsActive: true,
	}
}

// activeOrder lists names of active rows in partition typ, by order.
func activeOrder(t *testing.T, r repo.ExploreDestinationRepo, typ domain.DestinationType) map[string]int {
	t.Helper()
	active := true
	rows, err := r.List(context.Background(), domain.ExploreDestinationFilter{Type: &typ, Active: &active})
	require.NoError(t, err)
	out := make(map[string]int, len(rows))
	for _, d := range rows {
		out[d.Name] = d.Order
	}
	return out
}

func TestExploreRepo_CreateAndGet(t *testing.T) {
	tx := emptyTx(t, "explore_destinations")
	r := repo.NewExploreDestinationRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, exploreRow("pokhara", domain.DestinationDomestic, 1))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, domain.DestinationDomestic, got.Type)
}

func TestExploreRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewExploreDestinationRepo(testutil.NewTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExploreRepo_ShiftsIgnoreInactiveAndOtherTypes(t *testing.T) {
	tx := emptyTx(t, "explore_destinations")
	r := repo.NewExploreDestinationRepo(tx)
	ctx := context.Background()

	_, err := r.Create(ctx, exploreRow("a", domain.DestinationDomestic, 1))
	require.NoError(t, err)
	_, err = r.Create(ctx, exploreRow("b", domain.DestinationDomestic, 2))
	require.NoError(t, err)
	hidden := exploreRow("hidden", domain.DestinationDomestic, 2)
	hidden.IsActive = false
	_, err = r.Create(ctx, hidden)
	require.NoError(t, err)
	other, err := r.Create(ctx, exploreRow("other", domain.DestinationWeekend, 2))
	require.NoError(t, err)

	n, err := r.ShiftUp(ctx, domain.DestinationDomestic, 2, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, map[string]int{"a": 1, "b": 3}, activeOrder(t, r, domain.DestinationDomestic))

	gotOther, err := r.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotOther.Order)

	n, err = r.ShiftDown(ctx, domain.DestinationDomestic, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, activeOrder(t, r, domain.DestinationDomestic))

	highest, err := r.MaxOrder(ctx, domain.DestinationDomestic)
	require.NoError(t, err)
	assert.Equal(t, 2, highest)
}

func TestExploreRepo_StatsCoversEveryType(t *testing.T) {
	tx := emptyTx(t, "explore_destinations")
	r := repo.NewExploreDestinationRepo(tx)
	ctx := context.Background()

	_, err := r.Create(ctx, exploreRow("a", domain.DestinationDomestic, 1))
	require.NoError(t, err)
	off := exploreRow("b", domain.DestinationDomestic, 2)
	off.IsActive = false
	_, err = r.Create(ctx, off)
	require.NoError(t, err)

	stats, err := r.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Len(t, stats.ByType, len(domain.DestinationTypes))
	assert.Equal(t, 2, stats.ByType[domain.DestinationDomestic])
	assert.Equal(t, 0, stats.ByType[domain.DestinationRetreats])
}

func TestExploreService_Integration_InsertShiftsAndDeleteCompacts(t *testing.T) {
	svc, r := newExploreIntegration(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, exploreRow("a", domain.DestinationInternational, 0))
	require.NoError(t, err)
	_, err = svc.Create(ctx, exploreRow("b", domain.DestinationInternational, 0))
	require.NoError(t, err)
	_, err = svc.Create(ctx, exploreRow("c", domain.DestinationInternational, 1))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"c": 1, "a": 2, "b": 3}, activeOrder(t, r, domain.DestinationInternational))

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Equal(t, map[string]int{"c": 1, "b": 2}, activeOrder(t, r, domain.DestinationInternational))
}

func TestExploreService_Integration_ReorderUnknownIDRollsBack(t *testing.T) {
	svc, r := newExploreIntegration(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, exploreRow("a", domain.DestinationWeekend, 0))
	require.NoError(t, err)
	b, err := svc.Create(ctx, exploreRow("b", domain.DestinationWeekend, 0))
	require.NoError(t, err)

	_, err = svc.Reorder(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, activeOrder(t, r, domain.DestinationWeekend))

	out, err := svc.Reorder(ctx, []uuid.UUID{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, map[string]int{"b": 1, "a": 2}, activeOrder(t, r, domain.DestinationWeekend))
}
