package service_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/service"
)

// memTrendingRepo is an in-memory repo.TrendingDestinationRepo.
type memTrendingRepo struct {
	rows  map[uuid.UUID]domain.TrendingDestination
	locks int
}

func newMemTrendingRepo() *memTrendingRepo {
	return &memTrendingRepo{rows: map[uuid.UUID]domain.TrendingDestination{}}
}

func (m *memTrendingRepo) snapshot() func() {
	saved := make(map[uuid.UUID]domain.TrendingDestination, len(m.rows))
	for k, v := range m.rows {
		saved[k] = v
	}
	return func() { m.rows = saved }
}

func (m *memTrendingRepo) Create(_ context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error) {
	d.ID = uuid.New()
	m.rows[d.ID] = d
	return d, nil
}

func (m *memTrendingRepo) GetByID(_ context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	d, ok := m.rows[id]
	if !ok {
		return domain.TrendingDestination{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *memTrendingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	return m.GetByID(ctx, id)
}

func (m *memTrendingRepo) List(_ context.Context, f domain.TrendingDestinationFilter) ([]domain.TrendingDestination, error) {
	out := []domain.TrendingDestination{}
	for _, d := range m.rows {
		if f.Active != nil && d.IsActive != *f.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memTrendingRepo) Update(_ context.Context, d domain.TrendingDestination) (domain.TrendingDestination, error) {
	m.rows[d.ID] = d
	return d, nil
}

func (m *memTrendingRepo) Delete(_ context.Context, id uuid.UUID) (domain.TrendingDestination, error) {
	d, ok := m.rows[id]
	if !ok {
		return domain.TrendingDestination{}, domain.ErrNotFound
	}
	delete(m.rows, id)
	return d, nil
}

func (m *memTrendingRepo) Stats(context.Context) (domain.TrendingDestinationStats, error) {
	return domain.TrendingDestinationStats{Total: len(m.rows)}, nil
}

func (m *memTrendingRepo) LockPartition(context.Context) error {
	m.locks++
	return nil
}

func (m *memTrendingRepo) OrderTaken(_ context.Context, order int, exclude uuid.UUID) (bool, error) {
	for id, d := range m.rows {
		if d.IsActive && d.Order == order && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTrendingRepo) ShiftUp(_ context.Context, from int, exclude uuid.UUID) (int64, error) {
	var n int64
	for id, d := range m.rows {
		if d.IsActive && d.Order >= from && id != exclude {
			d.Order++
			m.rows[id] = d
			n++
		}
	}
	return n, nil
}

func (m *memTrendingRepo) ShiftDown(_ context.Context, after int) (int64, error) {
	var n int64
	for id, d := range m.rows {
		if d.IsActive && d.Order > after {
			d.Order--
			m.rows[id] = d
			n++
		}
	}
	return n, nil
}

func (m *memTrendingRepo) MaxOrder(context.Context) (int, error) {
	highest := 0
	for _, d := range m.rows {
		if d.IsActive && d.Order > highest {
			highest = d.Order
		}
	}
	return highest, nil
}

func (m *memTrendingRepo) SetOrder(_ context.Context, id uuid.UUID, order int) error {
	d, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Order = order
	m.rows[id] = d
	return nil
}

var _ repo.TrendingDestinationRepo = (*memTrendingRepo)(nil)

func newTrendingService() (*service.TrendingDestinationService, *memTrendingRepo) {
	r := newMemTrendingRepo()
	return service.NewTrendingDestinationService(&memTx{snapshot: r.snapshot}, r, nil), r
}

func trendingInput(name string, price float64, order int) domain.TrendingDestination {
	return domain.TrendingDestination{
		Name:     name,
		Image:    "http://x/" + name + ".jpg",
		URL:      "/trip/" + name,
		Price:    price,
		Order:    order,
		IsActive: true,
	}
}

func TestTrendingService_Create_NegativePriceRejected(t *testing.T) {
	svc, r := newTrendingService()

	_, err := svc.Create(context.Background(), trendingInput("bali", -1, 1))

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, r.rows)
	assert.Zero(t, r.locks)
}

func TestTrendingService_Create_ZeroPriceAllowed(t *testing.T) {
	svc, _ := newTrendingService()

	got, err := svc.Create(context.Background(), trendingInput("free-walk", 0, 1))

	require.NoError(t, err)
	assert.Zero(t, got.Price)
}

func TestTrendingService_Create_CollisionShifts(t *testing.T) {
	svc, r := newTrendingService()
	first, err := svc.Create(context.Background(), trendingInput("a", 100, 1))
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), trendingInput("b", 200, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 2, r.rows[first.ID].Order)
}

func TestTrendingService_Create_WithoutOrderAppends(t *testing.T) {
	svc, _ := newTrendingService()
	_, err := svc.Create(context.Background(), trendingInput("a", 100, 4))
	require.NoError(t, err)

	got, err := svc.Create(context.Background(), trendingInput("b", 100, 0))

	require.NoError(t, err)
	assert.Equal(t, 5, got.Order)
}

func TestTrendingService_Update_NegativePriceRejected(t *testing.T) {
	svc, r := newTrendingService()
	d, err := svc.Create(context.Background(), trendingInput("a", 100, 1))
	require.NoError(t, err)

	price := -0.01
	_, err = svc.Update(context.Background(), d.ID, domain.TrendingDestinationPatch{Price: &price})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 100.0, r.rows[d.ID].Price)
}

func TestTrendingService_Update_OrderCollisionShifts(t *testing.T) {
	svc, r := newTrendingService()
	a, err := svc.Create(context.Background(), trendingInput("a", 1, 1))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), trendingInput("b", 1, 2))
	require.NoError(t, err)

	order := 1
	got, err := svc.Update(context.Background(), b.ID, domain.TrendingDestinationPatch{Order: &order})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Order)
	assert.Equal(t, 2, r.rows[a.ID].Order)
}

func TestTrendingService_Delete_ClosesGap(t *testing.T) {
	svc, r := newTrendingService()
	a, err := svc.Create(context.Background(), trendingInput("a", 1, 1))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), trendingInput("b", 1, 2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), a.ID))

	assert.Equal(t, 1, r.rows[b.ID].Order)
}

func TestTrendingService_Reorder(t *testing.T) {
	svc, r := newTrendingService()
	a, err := svc.Create(context.Background(), trendingInput("a", 1, 1))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), trendingInput("b", 1, 2))
	require.NoError(t, err)

	got, err := svc.Reorder(context.Background(), []uuid.UUID{b.ID, a.ID})

	require.NoError(t, err)
	assert.Equal(t, 1, r.rows[b.ID].Order)
	assert.Equal(t, 2, r.rows[a.ID].Order)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestTrendingService_Reorder_UnknownIDRollsBack(t *testing.T) {
	svc, r := newTrendingService()
	a, err := svc.Create(context.Background(), trendingInput("a", 1, 1))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), trendingInput("b", 1, 2))
	require.NoError(t, err)

	_, err = svc.Reorder(context.Background(), []uuid.UUID{b.ID, uuid.New()})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, r.rows[a.ID].Order)
	assert.Equal(t, 2, r.rows[b.ID].Order)
}

func TestTrendingService_ToggleActive_KeepsOrder(t *testing.T) {
	svc, _ := newTrendingService()
	a, err := svc.Create(context.Background(), trendingInput("a", 1, 3))
	require.NoError(t, err)

	got, err := svc.ToggleActive(context.Background(), a.ID)

	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 3, got.Order)
}
