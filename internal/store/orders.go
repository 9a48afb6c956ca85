package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/orders"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db/models"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/pagination"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"gorm.io/gorm"
)

type OrderRepository struct {
	base
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{base{db: db}}
}

// OrderScope selects whose orders a listing returns. Orders match on
// UserID or, when Email is set, on the shipping email. The zero scope
// matches every order.
type OrderScope struct {
	UserID string
	Email  string
}

// List returns orders newest first. A paged request resumes after the cursor
// and returns the next cursor, empty on the last page.
func (r *OrderRepository) List(ctx context.Context, scope OrderScope, page pagination.Params) ([]models.Order, string, error) {
	q := r.conn(ctx).Order("placed_at DESC").Order("id DESC")
	email := normalizeEmail(scope.Email)
	switch {
	case scope.UserID != "" && email != "":
		q = q.Where("user_id = ? OR shipping_email = ?", scope.UserID, email)
	case scope.UserID != "":
		q = q.Where("user_id = ?", scope.UserID)
	case email != "":
		q = q.Where("shipping_email = ?", email)
	}
	if page.Paged() {
		cursor, err := pagination.ParseCursor(page.Cursor)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		if cursor != nil {
			q = q.Where("placed_at < ? OR (placed_at = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
		}
		q = q.Limit(pagination.LimitWithBuffer(page.Limit))
	}
	var rows []models.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", err
	}
	if !page.Paged() {
		return rows, "", nil
	}
	rows, more := pagination.Trim(rows, page.Limit)
	if !more {
		return rows, "", nil
	}
	last := rows[len(rows)-1]
	return rows, pagination.EncodeCursor(pagination.Cursor{At: last.PlacedAt, ID: last.ID}), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var row models.Order
	if err := r.conn(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrderRepository) Create(ctx context.Context, row *models.Order) error {
	if row == nil {
		return fmt.Errorf("order is required")
	}
	return r.conn(ctx).Create(row).Error
}

func (r *OrderRepository) Save(ctx context.Context, row *models.Order) error {
	if row == nil {
		return fmt.Errorf("order is required")
	}
	return r.conn(ctx).Save(row).Error
}

// Orders is the order collection. Status changes on replace follow the
// order status machine.
type Orders struct {
	repo *OrderRepository
	logg *logger.Logger
	now  func() time.Time
}

func NewOrders(repo *OrderRepository, logg *logger.Logger) (*Orders, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Orders{repo: repo, logg: logg, now: time.Now}, nil
}

// List returns every order for admins, filtered by userID when set. Other
// callers see the orders placed under their id or shipped to their email.
func (s *Orders) List(ctx context.Context, actor Actor, userID string) ([]types.Order, error) {
	out, _, err := s.ListPage(ctx, actor, userID, pagination.Params{})
	return out, err
}

// ListPage is List with cursor paging. The returned cursor is empty on the
// last page.
func (s *Orders) ListPage(ctx context.Context, actor Actor, userID string, page pagination.Params) ([]types.Order, string, error) {
	scope := OrderScope{UserID: strings.TrimSpace(userID)}
	if !actor.Admin() {
		if scope.UserID == "" {
			scope.UserID = actor.UserID
		}
		if scope.UserID != actor.UserID || scope.UserID == "" {
			return nil, "", denied()
		}
		scope.Email = actor.Email
	}
	rows, next, err := s.repo.List(ctx, scope, page)
	if err != nil {
		return nil, "", translate(err, "order")
	}
	out := make([]types.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToType())
	}
	return out, next, nil
}

func (s *Orders) Get(ctx context.Context, actor Actor, id string) (types.Order, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Order{}, translate(err, "order")
	}
	if !actor.OwnsOrder(row.UserID, row.ShippingEmail) {
		return types.Order{}, denied()
	}
	return row.ToType(), nil
}

// Create stores a placed order. The caller must be the order's owner.
func (s *Orders) Create(ctx context.Context, actor Actor, order types.Order) (types.Order, error) {
	if order.UserID == "" || !actor.Owns(order.UserID) {
		return types.Order{}, denied()
	}
	if err := checkOrder(order); err != nil {
		return types.Order{}, err
	}
	row := models.OrderFromType(order)
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	if row.PlacedAt.IsZero() {
		row.PlacedAt = s.now().UTC()
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return types.Order{}, translate(err, "order")
	}
	s.logg.Info(s.logg.WithOrderID(s.logg.WithUserID(ctx, row.UserID), row.ID), "order created")
	return row.ToType(), nil
}

// Replace overwrites an order. A status change must be allowed from the
// stored status.
func (s *Orders) Replace(ctx context.Context, actor Actor, id string, order types.Order) (types.Order, error) {
	if !actor.Admin() {
		return types.Order{}, denied()
	}
	if err := checkOrder(order); err != nil {
		return types.Order{}, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Order{}, translate(err, "order")
	}
	if _, err := orders.Transition(existing.Status, order.Status); err != nil {
		return types.Order{}, err
	}

	row := models.OrderFromType(order)
	row.ID = id
	if row.UserID == "" {
		row.UserID = existing.UserID
	}
	if row.PlacedAt.IsZero() {
		row.PlacedAt = existing.PlacedAt
	}
	if err := s.repo.Save(ctx, &row); err != nil {
		return types.Order{}, translate(err, "order")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, id), map[string]any{
		"from": existing.Status,
		"to":   row.Status,
	}), "order replaced")
	return row.ToType(), nil
}

func checkOrder(o types.Order) error {
	details := map[string]string{}
	if len(o.Items) == 0 {
		details["items"] = "must not be empty"
	}
	if !o.Status.IsValid() {
		details["status"] = "unknown status"
	}
	if !o.PaymentMethod.IsValid() {
		details["paymentMethod"] = "unknown payment method"
	}
	if !o.PaymentStatus.IsValid() {
		details["paymentStatus"] = "unknown payment status"
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "Please correct the highlighted fields").WithDetails(details)
}
