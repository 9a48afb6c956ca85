// Package storefront assembles the client-side services around one resource
// client and one session, and keeps the cart and wishlist in step with the
// session as it starts, changes and ends.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/accounts"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/cart"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/catalog"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/orders"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/resource"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/session"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/wishlist"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/metrics"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"go.uber.org/multierr"
)

// Deps are the collaborators a Shop cannot build itself.
type Deps struct {
	Local      storage.Store
	Logger     *logger.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

// Shop is the storefront as the presentation layer sees it.
type Shop struct {
	Client   *resource.Client
	Session  *session.Store
	Cart     *cart.Coordinator
	Wishlist *wishlist.Coordinator
	Checkout checkout.Service
	Orders   orders.Service
	Catalog  catalog.Service
	Accounts accounts.Service

	local storage.Store
	logg  *logger.Logger
}

// New wires every service against cfg.Store. deps.Local is required.
func New(cfg config.Config, deps Deps) (*Shop, error) {
	if deps.Local == nil {
		return nil, fmt.Errorf("local storage required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	opts := []resource.Option{resource.WithUserAgent(cfg.Store.UserAgent)}
	if deps.HTTPClient != nil {
		opts = append(opts, resource.WithHTTPClient(deps.HTTPClient))
	} else if cfg.Store.Timeout > 0 {
		opts = append(opts, resource.WithHTTPClient(&http.Client{Timeout: cfg.Store.Timeout}))
	}
	var ops *metrics.OperationMetrics
	if deps.Registerer != nil {
		opts = append(opts, resource.WithMetrics(metrics.NewRemoteMetrics(deps.Registerer)))
		ops = metrics.NewOperationMetrics(deps.Registerer)
	}

	client, err := resource.NewClient(cfg.Store.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	sess := session.New(client, client, deps.Local, logg)
	cartCoord := cart.New(client, sess, cfg.Checkout, logg, ops)
	wish := wishlist.New(deps.Local, logg)

	checkoutSvc, err := checkout.NewService(sess, cartCoord, client, cfg.Checkout, logg, checkout.WithMetrics(ops))
	if err != nil {
		return nil, err
	}
	orderSvc, err := orders.NewService(client, sess, logg)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := catalog.NewService(client, sess, logg)
	if err != nil {
		return nil, err
	}
	accountSvc, err := accounts.NewService(client, sess, logg)
	if err != nil {
		return nil, err
	}

	return &Shop{
		Client:   client,
		Session:  sess,
		Cart:     cartCoord,
		Wishlist: wish,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Catalog:  catalogSvc,
		Accounts: accountSvc,
		local:    deps.Local,
		logg:     logg,
	}, nil
}

// Start restores a persisted session and loads its cart and wishlist. A
// purged session is reported through the returned error.
func (s *Shop) Start(ctx context.Context) error {
	user, err := s.Session.Restore(ctx)
	s.sync(ctx, user)
	return err
}

func (s *Shop) Login(ctx context.Context, email, password string) (types.Identity, error) {
	user, err := s.Session.Login(ctx, email, password)
	if err != nil {
		return types.Identity{}, err
	}
	s.sync(ctx, &user)
	return user, nil
}

func (s *Shop) Register(ctx context.Context, in types.NewIdentity) (types.Identity, error) {
	user, err := s.Session.Register(ctx, in)
	if err != nil {
		return types.Identity{}, err
	}
	s.sync(ctx, &user)
	return user, nil
}

// Logout ends the session and drops cart and wishlist state.
func (s *Shop) Logout(ctx context.Context) error {
	err := s.Session.Logout(ctx)
	s.Cart.Reset()
	s.Wishlist.Switch(ctx, nil)
	return err
}

// Close releases local storage.
func (s *Shop) Close() error {
	return s.local.Close()
}

// sync points the wishlist and cart at user. A cart load failure is kept on
// the cart as its last error.
func (s *Shop) sync(ctx context.Context, user *types.Identity) {
	s.Wishlist.Switch(ctx, user)
	if user == nil {
		s.Cart.Reset()
		return
	}
	if err := s.Cart.Refresh(ctx); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID), "cart load after sign-in failed")
	}
}

// Errors collects the retained messages of the session and the cart.
func (s *Shop) Errors() error {
	var err error
	for _, msg := range []string{s.Session.LastError(), s.Cart.LastError()} {
		if msg != "" {
			err = multierr.Append(err, errors.New(msg))
		}
	}
	return err
}
