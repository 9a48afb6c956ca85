package main

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/storefront"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/storetest"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs commands the way separate invocations would, sharing one
// local store between them.
type harness struct {
	t     *testing.T
	open  opener
	local *storage.Memory
}

func newHarness(t *testing.T) *harness {
	srv := storetest.New(t)
	h := &harness{t: t, local: storage.NewMemory()}
	cfg := config.Config{
		Store:    config.StoreConfig{BaseURL: srv.URL, UserAgent: "bagzo-cli-test"},
		Checkout: config.DefaultCheckout(),
	}
	h.open = func(context.Context) (*storefront.Shop, error) {
		return storefront.New(cfg, storefront.Deps{Local: h.local})
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	var out, errw bytes.Buffer
	cmd := newRootCmd(h.open, &out, &errw)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) must(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "bagzo %v", args)
	return out
}

func TestShopperJourney(t *testing.T) {
	h := newHarness(t)

	h.must("login", "--email", storetest.AdminEmail, "--password", storetest.AdminPassword)
	created := h.must("admin", "products", "create", "--name", "Slim Wallet", "--category", "Wallets", "--price", "900", "--stock", "5")
	productID := regexp.MustCompile(`prod_\S+`).FindString(created)
	require.NotEmpty(t, productID)
	h.must("logout")

	assert.Contains(t, h.must("whoami"), "Not signed in")
	assert.Contains(t, h.must("register", "--name", "Asha", "--email", "asha@example.com", "--password", "secret123"), "Welcome, Asha")
	assert.Contains(t, h.must("whoami"), "asha@example.com")

	assert.Contains(t, h.must("products", "--category", "wallets"), "Slim Wallet")

	h.must("wishlist", "add", productID)
	assert.Contains(t, h.must("wishlist", "show"), "Slim Wallet")

	h.must("cart", "add", productID, "--qty", "2")
	assert.Contains(t, h.must("cart", "show"), "Rs 1800.00")

	placed := h.must("checkout", "--method", "cod", "--name", "Asha", "--phone", "9876543210",
		"--address", "1 MG Road", "--city", "Kochi", "--pincode", "682001")
	assert.Contains(t, placed, "pending")
	assert.Contains(t, placed, "Rs 2030.00")
	orderID := regexp.MustCompile(`ORD\d+`).FindString(placed)
	require.NotEmpty(t, orderID)

	assert.Contains(t, h.must("cart", "show"), "Your cart is empty")
	assert.Contains(t, h.must("orders", "list"), orderID)
	assert.Contains(t, h.must("orders", "show", orderID), "Ship to Asha, 1 MG Road, Kochi 682001")

	_, err := h.run("admin", "users", "list")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	h.must("logout")
	h.must("login", "--email", storetest.AdminEmail, "--password", storetest.AdminPassword)
	assert.Contains(t, h.must("admin", "orders", "advance", orderID), "confirmed")
	assert.Contains(t, h.must("admin", "users", "stats"), "total=2")
}

func TestCheckoutRejectsUnknownMethod(t *testing.T) {
	h := newHarness(t)
	h.must("register", "--name", "Ravi", "--email", "ravi@example.com", "--password", "secret123")
	_, err := h.run("checkout", "--method", "cheque")
	assert.Error(t, err)
}

func TestBadPriceFlag(t *testing.T) {
	_, err := buildQuery("", "", "", "ten", "")
	assert.EqualError(t, err, `invalid price "ten"`)

	q, err := buildQuery("Travel", "", "price-low", "100", "2000")
	require.NoError(t, err)
	assert.Equal(t, "100", q.MinPrice.String())
	assert.Equal(t, "2000", q.MaxPrice.String())
}
