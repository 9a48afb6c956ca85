// Package cart keeps the acting identity's remote cart rows joined with the
// product catalog. Every mutation writes to the store and then re-reads both
// collections; local state is only ever replaced by a complete fresh join.
// Mutations for one identity are serialized.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/metrics"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	msgLoginToAdd    = "Please login to add items to cart"
	msgLoginToModify = "Please login to modify cart"
	msgLoginToClear  = "Please login to clear cart"
	msgAddFailed     = "Failed to add item to cart"
	msgRemoveFailed  = "Failed to remove item from cart"
	msgUpdateFailed  = "Failed to update quantity"
	msgClearFailed   = "Failed to clear cart"
	msgLoadFailed    = "Failed to load cart. Please try again."
	msgUnknownItem   = "Product not found"
)

// API is the slice of the store the cart needs.
type API interface {
	ListCartRows(ctx context.Context, userID string) ([]types.CartRow, error)
	CreateCartRow(ctx context.Context, row types.CartRow) (types.CartRow, error)
	PatchCartRow(ctx context.Context, id string, patch types.CartRowPatch) (types.CartRow, error)
	DeleteCartRow(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]types.Product, error)
}

// IdentitySource reports the acting identity.
type IdentitySource interface {
	Current() *types.Identity
}

// Summary is the priced view of the cart.
type Summary struct {
	Subtotal  types.Amount `json:"subtotal"`
	Tax       types.Amount `json:"tax"`
	Shipping  types.Amount `json:"shipping"`
	Total     types.Amount `json:"total"`
	ItemCount int          `json:"itemCount"`
}

type Coordinator struct {
	api      API
	identity IdentitySource
	taxRate  decimal.Decimal
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics
	now      func() time.Time
	locks    *keyedMutex

	mu       sync.RWMutex
	owner    string
	items    []types.LineItem
	products map[string]types.Product
	lastErr  string
}

func New(api API, identity IdentitySource, cfg config.CheckoutConfig, logg *logger.Logger, m *metrics.OperationMetrics) *Coordinator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Coordinator{
		api:      api,
		identity: identity,
		taxRate:  cfg.TaxRate,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
		locks:    newKeyedMutex(),
	}
}

// acting returns the identity allowed to touch the cart, or nil.
func (c *Coordinator) acting() *types.Identity {
	if c.identity == nil {
		return nil
	}
	current := c.identity.Current()
	if current == nil || current.IsBlocked || current.ID == "" {
		return nil
	}
	return current
}

// Refresh re-derives local state from the store. Without an acting identity
// the cart becomes empty. On failure the previous state is kept.
func (c *Coordinator) Refresh(ctx context.Context) error {
	user := c.acting()
	if user == nil {
		c.Reset()
		return nil
	}
	unlock := c.locks.Lock(user.ID)
	defer unlock()
	return c.refreshLocked(ctx, user.ID)
}

func (c *Coordinator) refreshLocked(ctx context.Context, userID string) (err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("cart.refresh", started, err) }()

	var (
		rows     []types.CartRow
		products []types.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = c.api.ListCartRows(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = c.api.ListProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail(c.logg.WithUserID(ctx, userID), msgLoadFailed, err)
		return err
	}

	byID := make(map[string]types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]types.LineItem, 0, len(rows))
	for _, row := range rows {
		product, ok := byID[row.ProductID]
		if !ok {
			c.logg.Debug(c.logg.WithProductID(c.logg.WithUserID(ctx, userID), row.ProductID), "dropping cart row for missing product")
			continue
		}
		items = append(items, types.LineItem{
			Product:    product.Clone(),
			Quantity:   row.Quantity,
			CartItemID: row.ID,
			AddedAt:    row.AddedAt,
		})
	}

	c.mu.Lock()
	c.owner = userID
	c.items = items
	c.products = byID
	c.mu.Unlock()
	return nil
}

// ensureOwner refreshes when local state belongs to someone else.
func (c *Coordinator) ensureOwner(ctx context.Context, userID string) error {
	c.mu.RLock()
	owner := c.owner
	c.mu.RUnlock()
	if owner == userID {
		return nil
	}
	return c.refreshLocked(ctx, userID)
}

// Add puts qty of productID in the cart, incrementing the existing row when
// there is one so each product has at most one row.
func (c *Coordinator) Add(ctx context.Context, productID string, qty int) (err error) {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	user := c.acting()
	if user == nil {
		c.setError(msgLoginToAdd)
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginToAdd)
	}

	unlock := c.locks.Lock(user.ID)
	defer unlock()
	started := time.Now()
	defer func() { c.metrics.Observe("cart.add", started, err) }()

	ctx = c.logg.WithProductID(c.logg.WithUserID(ctx, user.ID), productID)
	if err := c.ensureOwner(ctx, user.ID); err != nil {
		return err
	}
	if !c.knowsProduct(productID) {
		if err := c.refreshLocked(ctx, user.ID); err != nil {
			return err
		}
		if !c.knowsProduct(productID) {
			c.setError(msgAddFailed)
			return pkgerrors.New(pkgerrors.CodeNotFound, msgUnknownItem)
		}
	}

	if err := c.writeAdd(ctx, user.ID, productID, qty); err != nil {
		c.fail(ctx, msgAddFailed, err)
		return err
	}
	return c.refreshLocked(ctx, user.ID)
}

func (c *Coordinator) writeAdd(ctx context.Context, userID, productID string, qty int) error {
	if existing, ok := c.line(productID); ok {
		_, err := c.api.PatchCartRow(ctx, existing.CartItemID, types.CartRowPatch{Quantity: existing.Quantity + qty})
		return err
	}
	_, err := c.api.CreateCartRow(ctx, types.CartRow{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   c.now().UTC(),
	})
	return err
}

// Remove deletes the product's row. A product that is not in the cart, or a
// row the store no longer has, is not an error.
func (c *Coordinator) Remove(ctx context.Context, productID string) (err error) {
	user := c.acting()
	if user == nil {
		c.setError(msgLoginToModify)
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginToModify)
	}

	unlock := c.locks.Lock(user.ID)
	defer unlock()
	started := time.Now()
	defer func() { c.metrics.Observe("cart.remove", started, err) }()

	ctx = c.logg.WithProductID(c.logg.WithUserID(ctx, user.ID), productID)
	if err := c.ensureOwner(ctx, user.ID); err != nil {
		return err
	}
	if existing, ok := c.line(productID); ok {
		if err := c.api.DeleteCartRow(ctx, existing.CartItemID); err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			c.fail(ctx, msgRemoveFailed, err)
			return err
		}
	}
	return c.refreshLocked(ctx, user.ID)
}

// UpdateQuantity sets the product's quantity. Below 1 it removes the product;
// with no existing row it adds one.
func (c *Coordinator) UpdateQuantity(ctx context.Context, productID string, qty int) (err error) {
	if qty < 1 {
		return c.Remove(ctx, productID)
	}
	user := c.acting()
	if user == nil {
		c.setError(msgLoginToModify)
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginToModify)
	}

	unlock := c.locks.Lock(user.ID)
	defer unlock()
	started := time.Now()
	defer func() { c.metrics.Observe("cart.update", started, err) }()

	ctx = c.logg.WithProductID(c.logg.WithUserID(ctx, user.ID), productID)
	if err := c.ensureOwner(ctx, user.ID); err != nil {
		return err
	}

	existing, ok := c.line(productID)
	switch {
	case ok:
		_, err = c.api.PatchCartRow(ctx, existing.CartItemID, types.CartRowPatch{Quantity: qty})
	case c.knowsProduct(productID):
		err = c.writeAdd(ctx, user.ID, productID, qty)
	default:
		c.setError(msgUpdateFailed)
		return pkgerrors.New(pkgerrors.CodeNotFound, msgUnknownItem)
	}
	if err != nil {
		c.fail(ctx, msgUpdateFailed, err)
		return err
	}
	return c.refreshLocked(ctx, user.ID)
}

// Clear deletes every remote row for the identity, one call per row, then
// refreshes. Rows that are already gone count as deleted, so clearing twice
// is safe. A partial failure leaves the remaining rows in place.
func (c *Coordinator) Clear(ctx context.Context) (err error) {
	user := c.acting()
	if user == nil {
		c.setError(msgLoginToClear)
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginToClear)
	}

	unlock := c.locks.Lock(user.ID)
	defer unlock()
	started := time.Now()
	defer func() { c.metrics.Observe("cart.clear", started, err) }()

	ctx = c.logg.WithUserID(ctx, user.ID)
	rows, err := c.api.ListCartRows(ctx, user.ID)
	if err != nil {
		c.fail(ctx, msgClearFailed, err)
		return err
	}

	var deleteErr error
	for _, row := range rows {
		if err := c.api.DeleteCartRow(ctx, row.ID); err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			deleteErr = multierr.Append(deleteErr, err)
		}
	}

	refreshErr := c.refreshLocked(ctx, user.ID)
	if deleteErr != nil {
		failed := len(multierr.Errors(deleteErr))
		wrapped := pkgerrors.Wrap(pkgerrors.CodeRemote, deleteErr, msgClearFailed).
			WithDetails(map[string]int{"failed": failed, "total": len(rows)})
		c.fail(ctx, msgClearFailed, wrapped)
		return wrapped
	}
	return refreshErr
}

// ClearOrdered takes ordered lines out of the remote cart. Rows that are not
// in ordered are left alone, and a row whose quantity grew since the order
// was taken keeps the difference. The lines that could not be settled are
// returned so a retry only touches those.
func (c *Coordinator) ClearOrdered(ctx context.Context, ordered []types.LineItem) (pending []types.LineItem, err error) {
	user := c.acting()
	if user == nil {
		c.setError(msgLoginToClear)
		return ordered, pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginToClear)
	}

	unlock := c.locks.Lock(user.ID)
	defer unlock()
	started := time.Now()
	defer func() { c.metrics.Observe("cart.clear", started, err) }()

	ctx = c.logg.WithUserID(ctx, user.ID)
	rows, err := c.api.ListCartRows(ctx, user.ID)
	if err != nil {
		c.fail(ctx, msgClearFailed, err)
		return ordered, err
	}
	remote := make(map[string]types.CartRow, len(rows))
	for _, row := range rows {
		remote[row.ID] = row
	}

	var writeErr error
	for _, item := range ordered {
		row, ok := remote[item.CartItemID]
		if !ok {
			continue
		}
		if row.Quantity > item.Quantity {
			_, err = c.api.PatchCartRow(ctx, row.ID, types.CartRowPatch{Quantity: row.Quantity - item.Quantity})
		} else if err = c.api.DeleteCartRow(ctx, row.ID); pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			err = nil
		}
		if err != nil {
			writeErr = multierr.Append(writeErr, err)
			pending = append(pending, item)
		}
	}

	refreshErr := c.refreshLocked(ctx, user.ID)
	if writeErr != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeRemote, writeErr, msgClearFailed).
			WithDetails(map[string]int{"failed": len(pending), "total": len(ordered)})
		c.fail(ctx, msgClearFailed, wrapped)
		return pending, wrapped
	}
	return nil, refreshErr
}

// Reset drops local state. Used when the session ends.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.owner = ""
	c.items = nil
	c.products = nil
	c.lastErr = ""
	c.mu.Unlock()
}

// Owner is the identity the local state belongs to.
func (c *Coordinator) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Items returns a deep copy of the line items.
func (c *Coordinator) Items() []types.LineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CloneLineItems(c.items)
}

func (c *Coordinator) IsInCart(productID string) bool {
	_, ok := c.line(productID)
	return ok
}

// Quantity returns the product's quantity, or 0.
func (c *Coordinator) Quantity(productID string) int {
	item, _ := c.line(productID)
	return item.Quantity
}

func (c *Coordinator) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) == 0
}

// TotalItemCount sums quantities.
func (c *Coordinator) TotalItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity.
func (c *Coordinator) TotalPrice() types.Amount {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return subtotal(c.items)
}

// Summary prices the cart. Shipping is free.
func (c *Coordinator) Summary() Summary {
	c.mu.RLock()
	items := c.items
	sub := subtotal(items)
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	c.mu.RUnlock()

	tax := types.NewAmount(sub.Mul(c.taxRate))
	return Summary{
		Subtotal:  sub,
		Tax:       tax.Rounded(),
		Shipping:  types.Amount{},
		Total:     sub.Plus(tax).Rounded(),
		ItemCount: count,
	}
}

func (c *Coordinator) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Coordinator) ClearError() {
	c.setError("")
}

func (c *Coordinator) line(productID string) (types.LineItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == productID {
			return item, true
		}
	}
	return types.LineItem{}, false
}

func (c *Coordinator) knowsProduct(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.products[productID]
	return ok
}

func (c *Coordinator) fail(ctx context.Context, msg string, err error) {
	c.logg.Error(ctx, msg, err)
	c.setError(msg)
}

func (c *Coordinator) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

func subtotal(items []types.LineItem) types.Amount {
	total := types.Amount{}
	for _, item := range items {
		total = total.Plus(item.LineTotal())
	}
	return total
}
