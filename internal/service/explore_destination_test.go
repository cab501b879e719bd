package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/service"
)

// memTx is a Transactor that snapshots a store before fn and restores the
// snapshot when fn fails, giving tests the same all-or-nothing behaviour a
// Postgres transaction would.
type memTx struct {
	snapshot func() func()
	calls    int
}

func (m *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	restore := func() {}
	if m.snapshot != nil {
		restore = m.snapshot()
	}
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

var _ repo.Transactor = (*memTx)(nil)

// memExploreRepo is an in-memory repo.ExploreDestinationRepo implementing the
// same ordering SQL semantics as the Postgres repo.
type memExploreRepo struct {
	rows   map[uuid.UUID]domain.ExploreDestination
	locked []domain.DestinationType
	clock  time.Time

	// failShiftDown makes ShiftDown fail, simulating a broken compaction step.
	failShiftDown error
}

func newMemExploreRepo() *memExploreRepo {
	return &memExploreRepo{
		rows:  map[uuid.UUID]domain.ExploreDestination{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memExploreRepo) snapshot() func() {
	saved := make(map[uuid.UUID]domain.ExploreDestination, len(m.rows))
	for k, v := range m.rows {
		saved[k] = v
	}
	return func() { m.rows = saved }
}

func (m *memExploreRepo) Create(_ context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error) {
	m.clock = m.clock.Add(time.Second)
	d.ID = uuid.New()
	d.CreatedAt, d.UpdatedAt = m.clock, m.clock
	m.rows[d.ID] = d
	return d, nil
}

func (m *memExploreRepo) GetByID(_ context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	d, ok := m.rows[id]
	if !ok {
		return domain.ExploreDestination{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *memExploreRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	return m.GetByID(ctx, id)
}

func (m *memExploreRepo) List(_ context.Context, f domain.ExploreDestinationFilter) ([]domain.ExploreDestination, error) {
	out := []domain.ExploreDestination{}
	for _, d := range m.rows {
		if f.Type != nil && d.Type != *f.Type {
			continue
		}
		if f.Active != nil && d.IsActive != *f.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memExploreRepo) Update(_ context.Context, d domain.ExploreDestination) (domain.ExploreDestination, error) {
	if _, ok := m.rows[d.ID]; !ok {
		return domain.ExploreDestination{}, domain.ErrNotFound
	}
	m.rows[d.ID] = d
	return d, nil
}

func (m *memExploreRepo) Delete(_ context.Context, id uuid.UUID) (domain.ExploreDestination, error) {
	d, ok := m.rows[id]
	if !ok {
		return domain.ExploreDestination{}, domain.ErrNotFound
	}
	delete(m.rows, id)
	return d, nil
}

func (m *memExploreRepo) Stats(context.Context) (domain.ExploreDestinationStats, error) {
	return domain.ExploreDestinationStats{}, nil
}

func (m *memExploreRepo) LockPartition(_ context.Context, t domain.DestinationType) error {
	m.locked = append(m.locked, t)
	return nil
}

func (m *memExploreRepo) OrderTaken(_ context.Context, t domain.DestinationType, order int, exclude uuid.UUID) (bool, error) {
	for _, d := range m.rows {
		if d.Type == t && d.IsActive && d.Order == order && d.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memExploreRepo) ShiftUp(_ context.Context, t domain.DestinationType, from int, exclude uuid.UUID) (int64, error) {
	var n int64
	for id, d := range m.rows {
		if d.Type == t && d.IsActive && d.Order >= from && id != exclude {
			d.Order++
			m.rows[id] = d
			n++
		}
	}
	return n, nil
}

func (m *memExploreRepo) ShiftDown(_ context.Context, t domain.DestinationType, after int) (int64, error) {
	if m.failShiftDown != nil {
		return 0, m.failShiftDown
	}
	var n int64
	for id, d := range m.rows {
		if d.Type == t && d.IsActive && d.Order > after {
			d.Order--
			m.rows[id] = d
			n++
		}
	}
	return n, nil
}

func (m *memExploreRepo) MaxOrder(_ context.Context, t domain.DestinationType) (int, error) {
	highest := 0
	for _, d := range m.rows {
		if d.Type == t && d.IsActive && d.Order > highest {
			highest = d.Order
		}
	}
	return highest, nil
}

func (m *memExploreRepo) SetOrder(_ context.Context, id uuid.UUID, order int) error {
	d, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Order = order
	m.rows[id] = d
	return nil
}

var _ repo.ExploreDestinationRepo = (*memExploreRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func newExploreService() (*service.ExploreDestinationService, *memExploreRepo, *memTx) {
	r := newMemExploreRepo()
	tx := &memTx{snapshot: r.snapshot}
	return service.NewExploreDestinationService(tx, r, nil), r, tx
}

func exploreInput(name string, t domain.DestinationType, order int) domain.ExploreDestination {
	return domain.ExploreDestination{
		Name:     name,
		Image:    "http://x/" + name + ".jpg",
		URL:      "/trip/" + name,
		Type:     t,
		Order:    order,
		IsActive: true,
	}
}

func mustCreate(t *testing.T, svc *service.ExploreDestinationService, d domain.ExploreDestination) domain.ExploreDestination {
	t.Helper()
	got, err := svc.Create(context.Background(), d)
	require.NoError(t, err)
	return got
}

func orderOf(t *testing.T, r *memExploreRepo, id uuid.UUID) int {
	t.Helper()
	d, ok := r.rows[id]
	require.True(t, ok, "destination %s missing", id)
	return d.Order
}

// activeOrders returns the orders of active rows in partition p, keyed by id.
func activeOrders(r *memExploreRepo, p domain.DestinationType) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for id, d := range r.rows {
		if d.Type == p && d.IsActive {
			out[id] = d.Order
		}
	}
	return out
}

// ---- Create / Resolver -----------------------------------------------------

func TestExploreService_Create_CollisionShiftsExisting(t *testing.T) {
	svc, r, _ := newExploreService()

	bali := mustCreate(t, svc, exploreInput("bali", domain.DestinationInternational, 1))
	assert.Equal(t, 1, bali.Order)

	tokyo := mustCreate(t, svc, exploreInput("tokyo", domain.DestinationInternational, 1))

	assert.Equal(t, 1, tokyo.Order)
	assert.Equal(t, 2, orderOf(t, r, bali.ID))
}

func TestExploreService_Create_RepeatedSameOrderKeepsOrdersUnique(t *testing.T) {
	svc, r, _ := newExploreService()

	for i := 0; i < 5; i++ {
		before := activeOrders(r, domain.DestinationDomestic)

		created := mustCreate(t, svc, exploreInput(fmt.Sprintf("d%d", i), domain.DestinationDomestic, 2))

		after := activeOrders(r, domain.DestinationDomestic)
		seen := map[int]bool{}
		for _, o := range after {
			require.False(t, seen[o], "order %d held twice", o)
			seen[o] = true
		}
		assert.Equal(t, 2, after[created.ID])
		for id, old := range before {
			if old >= 2 {
				assert.Equal(t, old+1, after[id])
			} else {
				assert.Equal(t, old, after[id])
			}
		}
	}
}

func TestExploreService_Create_FreeOrderHasNoSideEffects(t *testing.T) {
	svc, r, _ := newExploreService()
	first := mustCreate(t, svc, exploreInput("a", domain.DestinationWeekend, 1))

	mustCreate(t, svc, exploreInput("b", domain.DestinationWeekend, 3))

	assert.Equal(t, 1, orderOf(t, r, first.ID))
}

func TestExploreService_Create_OtherPartitionUntouched(t *testing.T) {
	svc, r, _ := newExploreService()
	dom := mustCreate(t, svc, exploreInput("kathmandu", domain.DestinationDomestic, 1))

	mustCreate(t, svc, exploreInput("bali", domain.DestinationInternational, 1))

	assert.Equal(t, 1, orderOf(t, r, dom.ID))
}

func TestExploreService_Create_InactiveNeitherShiftsNorIsShifted(t *testing.T) {
	svc, r, _ := newExploreService()

	hidden := exploreInput("hidden", domain.DestinationDomestic, 1)
	hidden.IsActive = false
	h := mustCreate(t, svc, hidden)
	active := mustCreate(t, svc, exploreInput("pokhara", domain.DestinationDomestic, 1))

	inactive := exploreInput("also-hidden", domain.DestinationDomestic, 1)
	inactive.IsActive = false
	mustCreate(t, svc, inactive)

	assert.Equal(t, 1, orderOf(t, r, h.ID))
	assert.Equal(t, 1, orderOf(t, r, active.ID))
}

func TestExploreService_Create_WithoutOrderAppends(t *testing.T) {
	svc, _, _ := newExploreService()
	mustCreate(t, svc, exploreInput("a", domain.DestinationRetreats, 1))
	mustCreate(t, svc, exploreInput("b", domain.DestinationRetreats, 2))

	got := mustCreate(t, svc, exploreInput("c", domain.DestinationRetreats, 0))

	assert.Equal(t, 3, got.Order)
}

func TestExploreService_Create_WithoutOrderOnEmptyPartitionStartsAtOne(t *testing.T) {
	svc, _, _ := newExploreService()

	got := mustCreate(t, svc, exploreInput("a", domain.DestinationRetreats, 0))

	assert.Equal(t, 1, got.Order)
}

func TestExploreService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ExploreDestination)
	}{
		{"invalid type", func(d *domain.ExploreDestination) { d.Type = "invalid-value" }},
		{"empty name", func(d *domain.ExploreDestination) { d.Name = "   " }},
		{"long name", func(d *domain.ExploreDestination) { d.Name = string(make([]rune, 101)) }},
		{"missing image", func(d *domain.ExploreDestination) { d.Image = "" }},
		{"missing url", func(d *domain.ExploreDestination) { d.URL = "" }},
		{"negative order", func(d *domain.ExploreDestination) { d.Order = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, r, tx := newExploreService()
			d := exploreInput("bali", domain.DestinationInternational, 1)
			tc.mutate(&d)

			_, err := svc.Create(context.Background(), d)

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, r.rows)
			assert.Zero(t, tx.calls, "no transaction may start on invalid input")
		})
	}
}

func TestExploreService_Create_TrimsFields(t *testing.T) {
	svc, _, _ := newExploreService()
	d := exploreInput("bali", domain.DestinationInternational, 1)
	d.Name = "  Bali  "

	got := mustCreate(t, svc, d)

	assert.Equal(t, "Bali", got.Name)
}

// ---- Update ----------------------------------------------------------------

func TestExploreService_Update_OrderCollisionShifts(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))
	c := mustCreate(t, svc, exploreInput("c", domain.DestinationDomestic, 3))

	order := 1
	got, err := svc.Update(context.Background(), c.ID, domain.ExploreDestinationPatch{Order: &order})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Order)
	assert.Equal(t, 2, orderOf(t, r, a.ID))
	assert.Equal(t, 3, orderOf(t, r, b.ID))
}

func TestExploreService_Update_SameOrderIsNoop(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))

	order := 2
	_, err := svc.Update(context.Background(), b.ID, domain.ExploreDestinationPatch{Order: &order})

	require.NoError(t, err)
	assert.Equal(t, 1, orderOf(t, r, a.ID))
	assert.Equal(t, 2, orderOf(t, r, b.ID))
}

func TestExploreService_Update_WithoutOrderNeverShifts(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationInternational, 1))

	// Moving b into a's partition without an order keeps both at 1.
	typ := domain.DestinationDomestic
	got, err := svc.Update(context.Background(), b.ID, domain.ExploreDestinationPatch{Type: &typ})

	require.NoError(t, err)
	assert.Equal(t, domain.DestinationDomestic, got.Type)
	assert.Equal(t, 1, orderOf(t, r, a.ID))
	assert.Equal(t, 1, got.Order)
}

func TestExploreService_Update_TypeChangeResolvesInNewPartition(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationInternational, 1))
	r.locked = nil

	typ := domain.DestinationDomestic
	order := 1
	_, err := svc.Update(context.Background(), b.ID, domain.ExploreDestinationPatch{Type: &typ, Order: &order})

	require.NoError(t, err)
	assert.Equal(t, 2, orderOf(t, r, a.ID))
	assert.Equal(t, 1, orderOf(t, r, b.ID))
	// Both partitions are locked, in canonical order.
	assert.Equal(t, []domain.DestinationType{domain.DestinationInternational, domain.DestinationDomestic}, r.locked)
}

func TestExploreService_Update_InactiveResultDoesNotShift(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))

	order, inactive := 1, false
	_, err := svc.Update(context.Background(), b.ID, domain.ExploreDestinationPatch{Order: &order, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, 1, orderOf(t, r, a.ID))
	assert.Equal(t, 1, orderOf(t, r, b.ID))
}

func TestExploreService_Update_InvalidTypeRejected(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))

	typ := domain.DestinationType("moon")
	_, err := svc.Update(context.Background(), a.ID, domain.ExploreDestinationPatch{Type: &typ})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.DestinationDomestic, r.rows[a.ID].Type)
}

func TestExploreService_Update_NotFound(t *testing.T) {
	svc, _, _ := newExploreService()

	name := "x"
	_, err := svc.Update(context.Background(), uuid.New(), domain.ExploreDestinationPatch{Name: &name})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ToggleActive ----------------------------------------------------------

func TestExploreService_ToggleActive_TwiceRestores(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationWeekend, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationWeekend, 2))

	off, err := svc.ToggleActive(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	assert.Equal(t, 1, off.Order)

	on, err := svc.ToggleActive(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
	assert.Equal(t, 1, on.Order)
	assert.Equal(t, 2, orderOf(t, r, b.ID))
}

// ---- Delete / Compactor ----------------------------------------------------

func TestExploreService_Delete_ClosesGap(t *testing.T) {
	svc, r, _ := newExploreService()
	bali := mustCreate(t, svc, exploreInput("bali", domain.DestinationInternational, 1))
	tokyo := mustCreate(t, svc, exploreInput("tokyo", domain.DestinationInternational, 1))
	require.Equal(t, 2, orderOf(t, r, bali.ID))

	require.NoError(t, svc.Delete(context.Background(), tokyo.ID))

	assert.Equal(t, 1, orderOf(t, r, bali.ID))
	assert.NotContains(t, r.rows, tokyo.ID)
}

func TestExploreService_Delete_DecrementsOnlyHigherOrders(t *testing.T) {
	svc, r, _ := newExploreService()
	var ids []uuid.UUID
	for i := 1; i <= 5; i++ {
		ids = append(ids, mustCreate(t, svc, exploreInput(fmt.Sprintf("d%d", i), domain.DestinationDomestic, i)).ID)
	}
	before := activeOrders(r, domain.DestinationDomestic)

	require.NoError(t, svc.Delete(context.Background(), ids[2]))

	after := activeOrders(r, domain.DestinationDomestic)
	for id, old := range before {
		if id == ids[2] {
			continue
		}
		if old > 3 {
			assert.Equal(t, old-1, after[id])
		} else {
			assert.Equal(t, old, after[id])
		}
	}
	for _, o := range after {
		assert.NotEqual(t, 5, o, "gap must be closed at the top")
	}
}

func TestExploreService_Delete_InactiveStillCompacts(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))
	_, err := svc.ToggleActive(context.Background(), a.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), a.ID))

	assert.Equal(t, 1, orderOf(t, r, b.ID))
}

func TestExploreService_Delete_NotFound(t *testing.T) {
	svc, _, _ := newExploreService()

	err := svc.Delete(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExploreService_Delete_CompactionFailureRollsBack(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	r.failShiftDown = errors.New("connection reset")

	err := svc.Delete(context.Background(), a.ID)

	require.Error(t, err)
	assert.Contains(t, r.rows, a.ID, "delete must roll back with the failed shift")
}

// ---- Reorder ---------------------------------------------------------------

func TestExploreService_Reorder_AssignsPositions(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))
	c := mustCreate(t, svc, exploreInput("c", domain.DestinationDomestic, 3))
	other := mustCreate(t, svc, exploreInput("other", domain.DestinationDomestic, 4))

	got, err := svc.Reorder(context.Background(), []uuid.UUID{c.ID, a.ID, b.ID})

	require.NoError(t, err)
	assert.Equal(t, 1, orderOf(t, r, c.ID))
	assert.Equal(t, 2, orderOf(t, r, a.ID))
	assert.Equal(t, 3, orderOf(t, r, b.ID))
	assert.Equal(t, 4, orderOf(t, r, other.ID), "unlisted records are untouched")
	require.Len(t, got, 4)
	assert.Equal(t, c.ID, got[0].ID)
}

func TestExploreService_Reorder_SubsetCanLeaveDuplicates(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))

	_, err := svc.Reorder(context.Background(), []uuid.UUID{b.ID})

	require.NoError(t, err)
	assert.Equal(t, 1, orderOf(t, r, a.ID))
	assert.Equal(t, 1, orderOf(t, r, b.ID))
}

func TestExploreService_Reorder_UnknownIDRollsBack(t *testing.T) {
	svc, r, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	b := mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))

	_, err := svc.Reorder(context.Background(), []uuid.UUID{b.ID, uuid.New(), a.ID})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, orderOf(t, r, a.ID))
	assert.Equal(t, 2, orderOf(t, r, b.ID))
}

func TestExploreService_Reorder_DuplicateIDsRejected(t *testing.T) {
	svc, _, tx := newExploreService()
	id := uuid.New()

	_, err := svc.Reorder(context.Background(), []uuid.UUID{id, id})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, tx.calls)
}

func TestExploreService_Reorder_LocksEveryPartition(t *testing.T) {
	svc, r, _ := newExploreService()

	_, err := svc.Reorder(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DestinationTypes, r.locked)
}

// ---- ListActive ------------------------------------------------------------

func TestExploreService_ListActive_EmptyPartition(t *testing.T) {
	svc, _, _ := newExploreService()
	mustCreate(t, svc, exploreInput("bali", domain.DestinationInternational, 1))

	typ := domain.DestinationDomestic
	got, err := svc.ListActive(context.Background(), &typ)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExploreService_ListActive_ExcludesInactive(t *testing.T) {
	svc, _, _ := newExploreService()
	a := mustCreate(t, svc, exploreInput("a", domain.DestinationDomestic, 1))
	mustCreate(t, svc, exploreInput("b", domain.DestinationDomestic, 2))
	_, err := svc.ToggleActive(context.Background(), a.ID)
	require.NoError(t, err)

	got, err := svc.ListActive(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)
}
