// Package orders covers order history for shoppers and status management for
// admins. Status changes go through the transition table in fsm.go.
package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

const msgLoginToView = "Please login to view your orders"

// API is the slice of the store the order service needs.
type API interface {
	ListOrders(ctx context.Context, userID string) ([]types.Order, error)
	GetOrder(ctx context.Context, id string) (types.Order, error)
	ReplaceOrder(ctx context.Context, id string, order types.Order) (types.Order, error)
}

type sessionSource interface {
	RequireAuthenticated(message string) (types.Identity, error)
	RequireAdmin() (types.Identity, error)
}

// Filter narrows an order listing. Zero values match everything.
type Filter struct {
	Status enums.OrderStatus
	Search string
}

// Service defines order reads and admin status changes.
type Service interface {
	History(ctx context.Context, filter Filter) ([]types.Order, error)
	Get(ctx context.Context, id string) (types.Order, error)
	AdminList(ctx context.Context, filter Filter) ([]types.Order, error)
	Advance(ctx context.Context, orderID string) (types.Order, error)
	SetStatus(ctx context.Context, orderID string, status enums.OrderStatus) (types.Order, error)
}

type service struct {
	api     API
	session sessionSource
	logg    *logger.Logger
}

// NewService builds the order service.
func NewService(api API, session sessionSource, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("orders api required")
	}
	if session == nil {
		return nil, fmt.Errorf("session required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, session: session, logg: logg}, nil
}

// History returns the acting identity's orders, newest first. An order
// belongs to the identity by user id or by the shipping email.
func (s *service) History(ctx context.Context, filter Filter) ([]types.Order, error) {
	user, err := s.session.RequireAuthenticated(msgLoginToView)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithUserID(ctx, user.ID)

	all, err := s.api.ListOrders(ctx, user.ID)
	if err != nil {
		s.logg.Error(ctx, "load order history failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "Failed to load orders")
	}

	out := make([]types.Order, 0, len(all))
	for _, order := range all {
		if !ownedBy(order, user) {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if !matchesShopperSearch(order, filter.Search) {
			continue
		}
		out = append(out, order)
	}
	sortNewestFirst(out)
	return out, nil
}

// Get returns one order to its owner or to an admin.
func (s *service) Get(ctx context.Context, id string) (types.Order, error) {
	user, err := s.session.RequireAuthenticated(msgLoginToView)
	if err != nil {
		return types.Order{}, err
	}
	ctx = s.logg.WithOrderID(s.logg.WithUserID(ctx, user.ID), id)

	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return types.Order{}, s.remoteFailure(ctx, "load order failed", err)
	}
	if !user.HasAdminRights() && !ownedBy(order, user) {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have access to this order")
	}
	return order, nil
}

// AdminList lists every order, newest first, filtered by status and searched
// by order id or shipping name.
func (s *service) AdminList(ctx context.Context, filter Filter) ([]types.Order, error) {
	admin, err := s.session.RequireAdmin()
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithActorRole(s.logg.WithUserID(ctx, admin.ID), string(enums.RoleAdmin))

	all, err := s.api.ListOrders(ctx, "")
	if err != nil {
		return nil, s.remoteFailure(ctx, "admin order list failed", err)
	}

	query := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]types.Order, 0, len(all))
	for _, order := range all {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(order.ID), query) &&
			!strings.Contains(strings.ToLower(order.ShippingAddress.Name), query) {
			continue
		}
		out = append(out, order)
	}
	sortNewestFirst(out)
	return out, nil
}

// Advance moves an order one step along the shortcut path. A delivered
// order stays delivered and nothing is written.
func (s *service) Advance(ctx context.Context, orderID string) (types.Order, error) {
	return s.update(ctx, orderID, func(order types.Order) (enums.OrderStatus, error) {
		return Next(order.Status), nil
	})
}

// SetStatus moves an order directly to status when the transition table
// allows it.
func (s *service) SetStatus(ctx context.Context, orderID string, status enums.OrderStatus) (types.Order, error) {
	return s.update(ctx, orderID, func(order types.Order) (enums.OrderStatus, error) {
		return Transition(order.Status, status)
	})
}

func (s *service) update(ctx context.Context, orderID string, target func(types.Order) (enums.OrderStatus, error)) (types.Order, error) {
	admin, err := s.session.RequireAdmin()
	if err != nil {
		return types.Order{}, err
	}
	ctx = s.logg.WithOrderID(s.logg.WithActorRole(s.logg.WithUserID(ctx, admin.ID), string(enums.RoleAdmin)), orderID)

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return types.Order{}, s.remoteFailure(ctx, "load order failed", err)
	}
	next, err := target(order)
	if err != nil {
		return types.Order{}, err
	}
	if next == order.Status {
		return order, nil
	}

	from := order.Status
	order.Status = next
	saved, err := s.api.ReplaceOrder(ctx, order.ID, order)
	if err != nil {
		return types.Order{}, s.remoteFailure(ctx, "order status update failed", err)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"from": from, "to": next}), "order status changed")
	return saved, nil
}

func (s *service) remoteFailure(ctx context.Context, logMsg string, err error) error {
	s.logg.Error(ctx, logMsg, err)
	if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeRemote {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeRemote, err, pkgerrors.RemoteMessage(err))
}

func ownedBy(order types.Order, user types.Identity) bool {
	if order.UserID != "" && order.UserID == user.ID {
		return true
	}
	return user.Email != "" && strings.EqualFold(order.ShippingAddress.Email, user.Email)
}

func matchesShopperSearch(order types.Order, search string) bool {
	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(order.ID), query) {
		return true
	}
	for _, item := range order.Items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			return true
		}
	}
	return false
}

func sortNewestFirst(orders []types.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
}
