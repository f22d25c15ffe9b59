package order

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"laundry-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keeps orders in memory and mirrors the conditional writes of the
// postgres repository.
type fakeRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeRepo) get(id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) Create(ctx context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeRepo) filter(keep func(*models.Order) bool) []*models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Order{}
	for _, o := range f.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) ListByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	return f.filter(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (f *fakeRepo) ListByStatuses(ctx context.Context, statuses []string) ([]*models.Order, error) {
	return f.filter(func(o *models.Order) bool {
		for _, s := range statuses {
			if o.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeRepo) ListByDeliveryPerson(ctx context.Context, id string) ([]*models.Order, error) {
	return f.filter(func(o *models.Order) bool { return o.DeliveryPersonID != nil && *o.DeliveryPersonID == id }), nil
}

func (f *fakeRepo) mutate(id, from string, fn func(*models.Order)) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || (from != "" && o.Status != from) {
		return nil, models.ErrConflict
	}
	fn(o)
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id, from, to string) (*models.Order, error) {
	return f.mutate(id, from, func(o *models.Order) { o.Status = to })
}

func (f *fakeRepo) Reject(ctx context.Context, id, reason string) (*models.Order, error) {
	return f.mutate(id, models.OrderStatusPending, func(o *models.Order) {
		o.Status = models.OrderStatusCancelled
		o.CancelReason = &reason
	})
}

func (f *fakeRepo) Assign(ctx context.Context, id string, p models.DeliveryPerson) (*models.Order, error) {
	return f.mutate(id, models.OrderStatusPending, func(o *models.Order) {
		o.DeliveryPersonID, o.DeliveryPersonName, o.DeliveryPersonPhone = &p.ID, &p.Name, &p.Phone
		o.Status = models.OrderStatusPicked
	})
}

func (f *fakeRepo) UpdateItems(ctx context.Context, id string, items []models.OrderItem, total decimal.Decimal) (*models.Order, error) {
	o, err := f.mutate(id, "", func(o *models.Order) { o.Items, o.Total = items, total })
	if err != nil {
		return nil, models.ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) DeletePending(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Status != models.OrderStatusPending {
		return models.ErrOrderNotPending
	}
	delete(f.orders, id)
	return nil
}

type fakeCatalog map[string]*models.LaundryItem

func (c fakeCatalog) GetItem(ctx context.Context, id string) (*models.LaundryItem, error) {
	it, ok := c[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return it, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func newTestService() (*Service, *fakeRepo, *recordingPublisher) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	catalog := fakeCatalog{
		"shirt": {ID: "shirt", Name: "Shirt", Price: decimal.NewFromInt(20), Category: models.CategoryRegular},
		"saree": {ID: "saree", Name: "Saree", Price: decimal.RequireFromString("149.50"), Category: models.CategoryPremium},
	}
	return NewService(repo, catalog, pub), repo, pub
}

func createTestOrder(t *testing.T, svc *Service, userID string) *models.Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), userID, models.CreateOrderRequest{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		ServiceType:   models.ServiceRegular,
		PickupAddress: "12 MG Road",
		PickupDate:    time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrderStartsPendingWithoutItems(t *testing.T) {
	svc, _, pub := newTestService()

	o := createTestOrder(t, svc, "u1")

	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Empty(t, o.Items)
	assert.True(t, o.Total.IsZero())
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, []string{"order.created"}, pub.keys)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusPicked, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPicked, models.OrderStatusProcessing, true},
		{models.OrderStatusProcessing, models.OrderStatusReady, true},
		{models.OrderStatusReady, models.OrderStatusDelivering, true},
		{models.OrderStatusDelivering, models.OrderStatusDelivered, true},
		{models.OrderStatusPending, models.OrderStatusReady, false},
		{models.OrderStatusPicked, models.OrderStatusCancelled, false},
		{models.OrderStatusReady, models.OrderStatusProcessing, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestUpdateOrderStatusWalksLifecycle(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	for _, next := range []string{
		models.OrderStatusPicked,
		models.OrderStatusProcessing,
		models.OrderStatusReady,
		models.OrderStatusDelivering,
		models.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateOrderStatus(ctx, o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)

		stored, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, next, stored.Status)
	}

	_, err := svc.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateOrderStatusRejectsSkippedStep(t *testing.T) {
	svc, repo, _ := newTestService()
	o := createTestOrder(t, svc, "u1")

	_, err := svc.UpdateOrderStatus(context.Background(), o.ID, models.OrderStatusReady)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	stored, _ := repo.FindByID(context.Background(), o.ID)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateOrderStatus(context.Background(), "missing", models.OrderStatusPicked)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRejectOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	rejected, err := svc.RejectOrder(ctx, o.ID, "  outside service area ")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, rejected.Status)
	require.NotNil(t, rejected.CancelReason)
	assert.Equal(t, "outside service area", *rejected.CancelReason)

	_, err = svc.RejectOrder(ctx, o.ID, "again")
	assert.ErrorIs(t, err, models.ErrOrderNotPending)
}

func TestCancelOrderChecksOwnershipAndStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	_, err := svc.CancelOrder(ctx, o.ID, "someone-else")
	assert.ErrorIs(t, err, models.ErrNotFound)

	cancelled, err := svc.CancelOrder(ctx, o.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	_, err = svc.CancelOrder(ctx, o.ID, "u1")
	assert.ErrorIs(t, err, models.ErrOrderNotPending)
}

func TestDeletePendingOrderRemovesItFromUserList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	keep := createTestOrder(t, svc, "u1")
	drop := createTestOrder(t, svc, "u1")

	require.NoError(t, svc.DeleteOrder(ctx, drop.ID, "u1", models.RoleCustomer))

	orders, err := svc.ListUserOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, keep.ID, orders[0].ID)
}

func TestDeleteOrderGuardsNonPending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	delivered := createTestOrder(t, svc, "u1")
	for _, s := range []string{"picked", "processing", "ready", "delivering", "delivered"} {
		_, err := svc.UpdateOrderStatus(ctx, delivered.ID, s)
		require.NoError(t, err)
	}
	cancelled := createTestOrder(t, svc, "u1")
	_, err := svc.CancelOrder(ctx, cancelled.ID, "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, delivered.ID, "u1", models.RoleCustomer), models.ErrOrderNotPending)
	assert.ErrorIs(t, svc.DeleteOrder(ctx, cancelled.ID, "u1", models.RoleCustomer), models.ErrOrderNotPending)

	orders, _ := svc.ListUserOrders(ctx, "u1")
	assert.Len(t, orders, 2)
}

func TestAcceptOrderAssignsDeliveryPerson(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	accepted, err := svc.AcceptOrder(ctx, o.ID, models.DeliveryPerson{ID: "staff-1", Name: "Ravi", Phone: "9000000001"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPicked, accepted.Status)
	require.NotNil(t, accepted.DeliveryPersonID)
	assert.Equal(t, "staff-1", *accepted.DeliveryPersonID)

	assigned, err := svc.ListDeliveryOrders(ctx, "staff-1")
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	_, err = svc.AcceptOrder(ctx, o.ID, models.DeliveryPerson{ID: "staff-2"})
	assert.ErrorIs(t, err, models.ErrOrderNotPending)
}

func TestUpdateOrderItemsUnknownCatalogItem(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	_, err := svc.UpdateOrderItems(ctx, o.ID, []models.ItemSelection{{ItemID: "blanket", Quantity: 1}})

	assert.ErrorIs(t, err, models.ErrUnknownItem)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateOrderItemsPricesFromCatalog(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOrder(t, svc, "u1")

	updated, err := svc.UpdateOrderItems(ctx, o.ID, []models.ItemSelection{
		{ItemID: "shirt", Quantity: 3},
		{ItemID: "saree", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Items[0].Total.Equal(decimal.NewFromInt(60)))
	assert.True(t, updated.Items[1].Total.Equal(decimal.RequireFromString("299")))
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("359")), "total = %s", updated.Total)

	_, err = svc.UpdateOrderItems(ctx, o.ID, []models.ItemSelection{{ItemID: "unknown", Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListOrdersByStatusDefaultsToQueue(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	pending := createTestOrder(t, svc, "u1")
	picked := createTestOrder(t, svc, "u2")
	_, err := svc.UpdateOrderStatus(ctx, picked.ID, models.OrderStatusPicked)
	require.NoError(t, err)

	queue, err := svc.ListOrdersByStatus(ctx, nil)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)

	pickedOnly, err := svc.ListOrdersByStatus(ctx, []string{models.OrderStatusPicked})
	require.NoError(t, err)
	require.Len(t, pickedOnly, 1)
	assert.Equal(t, picked.ID, pickedOnly[0].ID)
}
