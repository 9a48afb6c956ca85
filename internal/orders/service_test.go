package orders

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	user *types.Identity
}

func (s stubSession) RequireAuthenticated(message string) (types.Identity, error) {
	if s.user == nil {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, message)
	}
	return *s.user, nil
}

func (s stubSession) RequireAdmin() (types.Identity, error) {
	user, err := s.RequireAuthenticated("login")
	if err != nil {
		return user, err
	}
	if !user.HasAdminRights() {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required")
	}
	return user, nil
}

type stubOrderAPI struct {
	orders   map[string]types.Order
	listErr  error
	getErr   error
	replaced []types.Order
}

func (s *stubOrderAPI) ListOrders(_ context.Context, _ string) ([]types.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]types.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrderAPI) GetOrder(_ context.Context, id string) (types.Order, error) {
	if s.getErr != nil {
		return types.Order{}, s.getErr
	}
	order, ok := s.orders[id]
	if !ok {
		return types.Order{}, pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusNotFound, "orders", errors.New("404"), "Not Found")
	}
	return order, nil
}

func (s *stubOrderAPI) ReplaceOrder(_ context.Context, id string, order types.Order) (types.Order, error) {
	s.replaced = append(s.replaced, order)
	s.orders[id] = order
	return order, nil
}

var (
	shopper = &types.Identity{ID: "u1", Email: "asha@example.com", Role: enums.RoleUser}
	admin   = &types.Identity{ID: "a1", Email: "ops@example.com", Role: enums.RoleAdmin}
	base    = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
)

func order(id, userID string, status enums.OrderStatus, hoursAgo int, itemName string) types.Order {
	return types.Order{
		ID:              id,
		UserID:          userID,
		Status:          status,
		Date:            base.Add(-time.Duration(hoursAgo) * time.Hour),
		ShippingAddress: types.ShippingAddress{Name: "Ship " + id},
		Items:           []types.LineItem{{Product: types.Product{ID: "p-" + id, Name: itemName}, Quantity: 1}},
	}
}

func seeded() *stubOrderAPI {
	legacy := order("ORD3", "", enums.OrderStatusDelivered, 30, "Leather Wallet")
	legacy.ShippingAddress.Email = "ASHA@example.com"
	return &stubOrderAPI{orders: map[string]types.Order{
		"ORD1": order("ORD1", "u1", enums.OrderStatusPending, 5, "Travel Bag"),
		"ORD2": order("ORD2", "u1", enums.OrderStatusShipped, 1, "Laptop Sleeve"),
		"ORD3": legacy,
		"ORD4": order("ORD4", "u2", enums.OrderStatusPending, 2, "Travel Bag"),
	}}
}

func newService(t *testing.T, api API, user *types.Identity) Service {
	t.Helper()
	svc, err := NewService(api, stubSession{user: user}, nil)
	require.NoError(t, err)
	return svc
}

func ids(orders []types.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestHistoryOwnOrdersNewestFirst(t *testing.T) {
	svc := newService(t, seeded(), shopper)

	got, err := svc.History(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD2", "ORD1", "ORD3"}, ids(got))
}

func TestHistorySearchAndStatus(t *testing.T) {
	svc := newService(t, seeded(), shopper)

	got, err := svc.History(context.Background(), Filter{Search: "wallet"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD3"}, ids(got))

	got, err = svc.History(context.Background(), Filter{Search: "ord1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD1"}, ids(got))

	got, err = svc.History(context.Background(), Filter{Status: enums.OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD2"}, ids(got))
}

func TestHistoryRequiresLogin(t *testing.T) {
	_, err := newService(t, seeded(), nil).History(context.Background(), Filter{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated))
}

func TestGetChecksOwnership(t *testing.T) {
	api := seeded()
	_, err := newService(t, api, shopper).Get(context.Background(), "ORD4")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	got, err := newService(t, api, admin).Get(context.Background(), "ORD4")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)
}

func TestAdminListFiltersAndSorts(t *testing.T) {
	svc := newService(t, seeded(), admin)

	got, err := svc.AdminList(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD2", "ORD4", "ORD1", "ORD3"}, ids(got))

	got, err = svc.AdminList(context.Background(), Filter{Status: enums.OrderStatusPending, Search: "ship ord4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD4"}, ids(got))

	_, err = newService(t, seeded(), shopper).AdminList(context.Background(), Filter{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
}

func TestAdvanceScenario(t *testing.T) {
	api := seeded()
	svc := newService(t, api, admin)
	ctx := context.Background()

	for _, want := range []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusShipped, enums.OrderStatusDelivered} {
		got, err := svc.Advance(ctx, "ORD1")
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
	require.Len(t, api.replaced, 3)

	got, err := svc.Advance(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, got.Status)
	assert.Len(t, api.replaced, 3, "delivered is a no-op")
}

func TestSetStatusUsesTable(t *testing.T) {
	api := seeded()
	svc := newService(t, api, admin)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, "ORD3", enums.OrderStatusShipped)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
	assert.Empty(t, api.replaced)

	got, err := svc.SetStatus(ctx, "ORD2", enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, got.Status)

	got, err = svc.SetStatus(ctx, "ORD2", enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, got.Status)
}

func TestStatusChangesAreAdminOnly(t *testing.T) {
	api := seeded()
	_, err := newService(t, api, shopper).Advance(context.Background(), "ORD1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
	assert.Empty(t, api.replaced)
}

func TestAdminRemoteFailureWording(t *testing.T) {
	api := seeded()
	api.getErr = pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusBadGateway, "orders", errors.New("bad gateway"), "Bad Gateway")
	_, err := newService(t, api, admin).Advance(context.Background(), "ORD1")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "Server error. Please try again later.", typed.Message())

	api.getErr = nil
	_, err = newService(t, api, admin).Advance(context.Background(), "missing")
	assert.Equal(t, "Error: 404 - Not Found", pkgerrors.As(err).Message())
}
