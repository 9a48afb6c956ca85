// Package wishlist keeps a per-identity favorites set in local storage.
package wishlist

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

const (
	msgLoginRequired  = "Please login to add items to wishlist"
	msgAlreadyPresent = "Item already in wishlist"
	msgSaveFailed     = "Failed to update wishlist"
)

// Entry is a wishlisted product copy.
type Entry struct {
	types.Product
	AddedAt time.Time `json:"addedAt"`
}

// Key returns the storage key for an identity's wishlist.
func Key(identityID string) string {
	return "wishlist_" + identityID
}

// Coordinator owns the active identity's wishlist.
type Coordinator struct {
	local storage.Store
	logg  *logger.Logger
	now   func() time.Time

	mu      sync.RWMutex
	owner   string
	entries []Entry
}

func New(local storage.Store, logg *logger.Logger) *Coordinator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Coordinator{local: local, logg: logg, now: time.Now}
}

// Switch loads the wishlist of identity. A nil identity, or a blocked one,
// leaves the coordinator empty. Unreadable stored data loads as empty.
func (c *Coordinator) Switch(ctx context.Context, identity *types.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if identity == nil || identity.IsBlocked || identity.ID == "" {
		c.owner = ""
		c.entries = nil
		return
	}
	if identity.ID == c.owner {
		return
	}

	c.owner = identity.ID
	c.entries = nil

	var stored []Entry
	err := storage.GetJSON(ctx, c.local, Key(identity.ID), &stored)
	switch {
	case err == nil:
		c.entries = stored
	case errors.Is(err, storage.ErrNotFound):
	default:
		c.logg.Warn(c.logg.WithUserID(ctx, identity.ID), "stored wishlist unreadable; starting empty")
	}
}

// Add appends product. A duplicate id fails with ALREADY_PRESENT.
func (c *Coordinator) Add(ctx context.Context, product types.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner == "" {
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginRequired)
	}
	if product.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if c.indexOf(product.ID) >= 0 {
		return pkgerrors.New(pkgerrors.CodeAlreadyPresent, msgAlreadyPresent)
	}

	next := append(c.cloneEntries(), Entry{Product: product.Clone(), AddedAt: c.now().UTC()})
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.entries = next
	return nil
}

// Remove drops productID. Removing an absent product is not an error.
func (c *Coordinator) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner == "" {
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, msgLoginRequired)
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return nil
	}
	next := make([]Entry, 0, len(c.entries)-1)
	next = append(next, c.entries[:idx]...)
	next = append(next, c.entries[idx+1:]...)
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.entries = next
	return nil
}

// Clear empties the active wishlist.
func (c *Coordinator) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner == "" {
		c.entries = nil
		return nil
	}
	if err := c.persist(ctx, []Entry{}); err != nil {
		return err
	}
	c.entries = nil
	return nil
}

func (c *Coordinator) IsPresent(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(productID) >= 0
}

func (c *Coordinator) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Items returns a copy of the entries in insertion order.
func (c *Coordinator) Items() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cloneEntries()
}

func (c *Coordinator) persist(ctx context.Context, entries []Entry) error {
	if err := storage.SetJSON(ctx, c.local, Key(c.owner), entries); err != nil {
		c.logg.Error(c.logg.WithUserID(ctx, c.owner), "persist wishlist failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgSaveFailed)
	}
	return nil
}

func (c *Coordinator) indexOf(productID string) int {
	for i, entry := range c.entries {
		if entry.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Coordinator) cloneEntries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = Entry{Product: entry.Product.Clone(), AddedAt: entry.AddedAt}
	}
	return out
}
