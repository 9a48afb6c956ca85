// Command bagzo is a terminal storefront: it signs in against the store
// server and drives the cart, wishlist, checkout and admin flows.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/storefront"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openFromEnv, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// opener builds the shop a command runs against.
type opener func(ctx context.Context) (*storefront.Shop, error)

func openFromEnv(ctx context.Context) (*storefront.Shop, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "bagzo-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	local, err := storage.Open(ctx, cfg.Local, cfg.Redis, logg)
	if err != nil {
		return nil, err
	}
	shop, err := storefront.New(*cfg, storefront.Deps{Local: local, Logger: logg})
	if err != nil {
		_ = local.Close()
		return nil, err
	}
	return shop, nil
}

// cli carries the open shop between cobra hooks and command bodies.
type cli struct {
	open opener
	shop *storefront.Shop
	out  io.Writer
	errw io.Writer
}

func newRootCmd(open opener, out, errw io.Writer) *cobra.Command {
	c := &cli{open: open, out: out, errw: errw}
	root := &cobra.Command{
		Use:           "bagzo",
		Short:         "Bagzo storefront CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			shop, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.shop = shop
			if err := shop.Start(cmd.Context()); err != nil {
				fmt.Fprintln(c.errw, "session ended:", err)
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.shop == nil {
				return nil
			}
			return c.shop.Close()
		},
	}
	root.SetOut(out)
	root.SetErr(errw)

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.productsCmd(),
		c.cartCmd(),
		c.wishlistCmd(),
		c.checkoutCmd(),
		c.ordersCmd(),
		c.adminCmd(),
	)
	return root
}
