package checkout

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sethvargo/go-retry"
	rules "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/metrics"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	msgLoginToCheckout = "Please login to place an order"
	msgEmptyCart       = "Your cart is empty"
	msgPlaceFailed     = "Failed to place order. Please try again."

	defaultClearBackoff = 200 * time.Millisecond
)

type identitySource interface {
	RequireAuthenticated(message string) (types.Identity, error)
}

type cartSource interface {
	Refresh(ctx context.Context) error
	Items() []types.LineItem
	ClearOrdered(ctx context.Context, ordered []types.LineItem) ([]types.LineItem, error)
}

type orderWriter interface {
	CreateOrder(ctx context.Context, order types.Order) (types.Order, error)
}

// Receipt is what the shopper sees once the order is recorded.
type Receipt struct {
	OrderID     string       `json:"orderId"`
	Subtotal    types.Amount `json:"subtotal"`
	Tax         types.Amount `json:"tax"`
	CODFee      types.Amount `json:"codFee"`
	Total       types.Amount `json:"total"`
	CartCleared bool         `json:"cartCleared"`
	Order       types.Order  `json:"order"`
}

// Totals is the priced breakdown of a set of line items.
type Totals struct {
	Subtotal types.Amount
	Tax      types.Amount
	CODFee   types.Amount
	Total    types.Amount
}

// Service places orders from the acting identity's cart.
type Service interface {
	PlaceOrder(ctx context.Context, shipping types.ShippingAddress, payment rules.Payment) (Receipt, error)
	Quote(items []types.LineItem, method enums.PaymentMethod) Totals
}

type service struct {
	identity identitySource
	cart     cartSource
	orders   orderWriter
	cfg      config.CheckoutConfig
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics

	now          func() time.Time
	suffix       func() int
	clearBackoff time.Duration
}

// Option adjusts a checkout service.
type Option func(*service)

// WithClock overrides the time source used for order ids and dates.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithClearBackoff sets the pause between cart clear attempts.
func WithClearBackoff(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.clearBackoff = d
		}
	}
}

// WithMetrics records placement outcomes.
func WithMetrics(m *metrics.OperationMetrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// NewService builds the checkout service.
func NewService(identity identitySource, cart cartSource, orders orderWriter, cfg config.CheckoutConfig, logg *logger.Logger, opts ...Option) (Service, error) {
	if identity == nil {
		return nil, fmt.Errorf("identity source required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if cfg.ClearAttempts < 1 {
		cfg.ClearAttempts = 1
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &service{
		identity:     identity,
		cart:         cart,
		orders:       orders,
		cfg:          cfg,
		logg:         logg,
		now:          time.Now,
		suffix:       func() int { return rand.IntN(10000) },
		clearBackoff: defaultClearBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PlaceOrder validates the submission, writes an order built from a fresh
// snapshot of the cart, then removes the ordered lines. The order write
// happens first; clearing is retried on its own and a failed clear does not
// undo the placement. Lines added elsewhere after the snapshot stay.
func (s *service) PlaceOrder(ctx context.Context, shipping types.ShippingAddress, payment rules.Payment) (receipt Receipt, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("checkout.place", started, err) }()

	user, err := s.identity.RequireAuthenticated(msgLoginToCheckout)
	if err != nil {
		return Receipt{}, err
	}
	ctx = s.logg.WithUserID(ctx, user.ID)

	if err := s.cart.Refresh(ctx); err != nil {
		return Receipt{}, err
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, msgEmptyCart)
	}

	if shipping.Email == "" {
		shipping.Email = user.Email
	}
	shipping, payment, err = rules.Validate(shipping, payment)
	if err != nil {
		return Receipt{}, err
	}

	totals := s.Quote(items, payment.Method)
	now := s.now().UTC()
	order := types.Order{
		ID:              fmt.Sprintf("ORD%d%d", now.UnixMilli(), s.suffix()),
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: shipping,
		PaymentMethod:   payment.Method,
		PaymentStatus:   paymentStatusFor(payment.Method),
		Status:          initialStatusFor(payment.Method),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		CODFee:          totals.CODFee,
		Total:           totals.Total,
		Date:            now,
	}
	ctx = s.logg.WithOrderID(ctx, order.ID)

	created, err := s.orders.CreateOrder(ctx, order.Clone())
	if err != nil {
		s.logg.Error(ctx, "order write failed", err)
		return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeRemote, err, msgPlaceFailed)
	}
	if created.ID == "" {
		created = order
	}

	cleared := s.clearCart(ctx, items)
	s.logg.Info(ctx, "order placed")
	return Receipt{
		OrderID:     created.ID,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		CODFee:      totals.CODFee,
		Total:       totals.Total,
		CartCleared: cleared,
		Order:       created,
	}, nil
}

// clearCart retries only the clear step, each attempt on the lines still
// unsettled. The order is already recorded.
func (s *service) clearCart(ctx context.Context, ordered []types.LineItem) bool {
	backoff := retry.WithMaxRetries(uint64(s.cfg.ClearAttempts-1), retry.NewConstant(s.clearBackoff))
	pending := ordered
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var err error
		pending, err = s.cart.ClearOrdered(ctx, pending)
		if len(pending) == 0 {
			if err != nil {
				s.logg.Warn(ctx, "cart reload after checkout failed")
			}
			return nil
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"attempt": attempt, "pending": len(pending)}), "cart clear after checkout failed")
		if err == nil {
			err = fmt.Errorf("%d ordered lines still in cart", len(pending))
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		s.logg.Error(ctx, "cart still holds ordered items", err)
		return false
	}
	return true
}

// Quote prices items the way PlaceOrder does.
func (s *service) Quote(items []types.LineItem, method enums.PaymentMethod) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal().Decimal)
	}
	tax := subtotal.Mul(s.cfg.TaxRate)
	fee := decimal.Zero
	if method.IsCashOnDelivery() {
		fee = s.cfg.CODFee
	}
	return Totals{
		Subtotal: types.NewAmount(subtotal),
		Tax:      types.NewAmount(tax),
		CODFee:   types.NewAmount(fee),
		Total:    types.NewAmount(subtotal.Add(tax).Add(fee)),
	}
}

func paymentStatusFor(method enums.PaymentMethod) enums.PaymentStatus {
	if method.IsCashOnDelivery() {
		return enums.PaymentStatusPending
	}
	return enums.PaymentStatusCompleted
}

func initialStatusFor(method enums.PaymentMethod) enums.OrderStatus {
	if method.IsCashOnDelivery() {
		return enums.OrderStatusPending
	}
	return enums.OrderStatusConfirmed
}
