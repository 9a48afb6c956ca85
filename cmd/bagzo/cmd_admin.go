package main

import (
	"fmt"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/accounts"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/catalog"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/orders"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "admin", Short: "Store administration"}
	cmd.AddCommand(c.adminProductsCmd(), c.adminUsersCmd(), c.adminOrdersCmd())
	return cmd
}

// productForm binds the product flags shared by create and update.
type productForm struct {
	in    catalog.ProductInput
	price string
	stock int
}

func (f *productForm) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.in.Name, "name", "", "product name")
	fl.StringVar(&f.in.Category, "category", "", "category")
	fl.StringVar(&f.price, "price", "0", "price")
	fl.Float64Var(&f.in.Rating, "rating", 0, "rating 0-5")
	fl.StringVar(&f.in.Description, "description", "", "description")
	fl.StringVar(&f.in.Image, "image", "", "image URL")
	fl.BoolVar(&f.in.IsNew, "new", false, "mark as new")
	fl.BoolVar(&f.in.IsOnSale, "sale", false, "mark as on sale")
	fl.BoolVar(&f.in.Featured, "featured", false, "feature on the storefront")
	fl.IntVar(&f.stock, "stock", -1, "units in stock, -1 leaves it unset")
	fl.StringSliceVar(&f.in.Tags, "tag", nil, "search tag, repeatable")
}

func (f *productForm) input() (catalog.ProductInput, error) {
	price, err := decimal.NewFromString(f.price)
	if err != nil {
		return catalog.ProductInput{}, fmt.Errorf("invalid price %q", f.price)
	}
	in := f.in
	in.Price = types.NewAmount(price)
	if f.stock >= 0 {
		stock := f.stock
		in.Stock = &stock
	}
	return in, nil
}

func (c *cli) adminProductsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage products"}

	var createForm productForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := createForm.input()
			if err != nil {
				return err
			}
			p, err := c.shop.Catalog.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Created", p.ID)
			return nil
		},
	}
	createForm.bind(create)

	var updateForm productForm
	update := &cobra.Command{
		Use:   "update <productId>",
		Short: "Replace a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := updateForm.input()
			if err != nil {
				return err
			}
			p, err := c.shop.Catalog.Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Updated", p.ID)
			return nil
		},
	}
	updateForm.bind(update)

	del := &cobra.Command{
		Use:   "delete <productId>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.shop.Catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

func (c *cli) adminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage accounts"}

	var role, status, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := accounts.Filter{Search: search}
			if role != "" {
				r, err := enums.ParseRole(role)
				if err != nil {
					return err
				}
				filter.Role = r
			}
			if status != "" {
				s, err := enums.ParseAccountStatus(status)
				if err != nil {
					return err
				}
				filter.Status = s
			}
			users, err := c.shop.Accounts.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			table(c.out, "ID\tNAME\tEMAIL\tROLE\tSTATUS", identityRows(users))
			return nil
		},
	}
	list.Flags().StringVar(&role, "role", "", "admin|user|customer")
	list.Flags().StringVar(&status, "status", "", "active|blocked|inactive")
	list.Flags().StringVar(&search, "search", "", "match name or email")

	setBlocked := func(use, short string, apply func(*cobra.Command, string) (types.Identity, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <userId>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := apply(cmd, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s is now %s\n", u.Email, u.Status())
				return nil
			},
		}
	}
	block := setBlocked("block", "Block an account", func(cmd *cobra.Command, id string) (types.Identity, error) {
		return c.shop.Accounts.Block(cmd.Context(), id)
	})
	unblock := setBlocked("unblock", "Unblock an account", func(cmd *cobra.Command, id string) (types.Identity, error) {
		return c.shop.Accounts.Unblock(cmd.Context(), id)
	})

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Count accounts by role and status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.shop.Accounts.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "total=%d admins=%d customers=%d active=%d blocked=%d inactive=%d\n",
				s.Total, s.Admins, s.Customers, s.Active, s.Blocked, s.Inactive)
			return nil
		},
	}

	cmd.AddCommand(list, block, unblock, stats)
	return cmd
}

func (c *cli) adminOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Manage orders"}

	var filter orders.Filter
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List every order, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseStatus(status, &filter); err != nil {
				return err
			}
			all, err := c.shop.Orders.AdminList(cmd.Context(), filter)
			if err != nil {
				return err
			}
			table(c.out, "ID\tDATE\tSTATUS\tPAYMENT\tITEMS\tTOTAL", orderRows(all))
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&filter.Search, "search", "", "match order id, customer or email")

	advance := &cobra.Command{
		Use:   "advance <orderId>",
		Short: "Move an order to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.shop.Orders.Advance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s is now %s\n", o.ID, o.Status)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <orderId> <status>",
		Short: "Set an order status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := enums.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			o, err := c.shop.Orders.SetStatus(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s is now %s\n", o.ID, o.Status)
			return nil
		},
	}

	cmd.AddCommand(list, advance, set)
	return cmd
}
