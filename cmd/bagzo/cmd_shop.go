package main

import (
	"fmt"
	"strconv"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/catalog"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) productsCmd() *cobra.Command {
	var category, search, sortBy, minPrice, maxPrice string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := buildQuery(category, search, sortBy, minPrice, maxPrice)
			if err != nil {
				return err
			}
			products, err := c.shop.Catalog.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			table(c.out, "ID\tNAME\tCATEGORY\tPRICE", productRows(products))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category, or all")
	cmd.Flags().StringVar(&search, "search", "", "match name, category or description")
	cmd.Flags().StringVar(&sortBy, "sort", "", "featured|name|price-low|price-high|rating")
	cmd.Flags().StringVar(&minPrice, "min", "", "minimum price")
	cmd.Flags().StringVar(&maxPrice, "max", "", "maximum price")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <productId>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.shop.Catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s\n%s | %s | rating %.1f\n%s\n", p.Name, p.Category, rupees(p.Price), p.Rating, p.Description)
			return nil
		},
	}, &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.shop.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, cat := range cats {
				fmt.Fprintln(c.out, cat)
			}
			return nil
		},
	})
	return cmd
}

func buildQuery(category, search, sortBy, minPrice, maxPrice string) (catalog.Query, error) {
	q := catalog.Query{Category: category, Search: search}
	if sortBy != "" {
		s, err := enums.ParseProductSort(sortBy)
		if err != nil {
			return q, err
		}
		q.Sort = s
	}
	for _, bound := range []struct {
		raw string
		dst **decimal.Decimal
	}{{minPrice, &q.MinPrice}, {maxPrice, &q.MaxPrice}} {
		if bound.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(bound.raw)
		if err != nil {
			return q, fmt.Errorf("invalid price %q", bound.raw)
		}
		*bound.dst = &d
	}
	return q, nil
}

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Manage the cart"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		RunE: func(*cobra.Command, []string) error {
			items := c.shop.Cart.Items()
			if len(items) == 0 {
				fmt.Fprintln(c.out, "Your cart is empty")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{item.ID, item.Name, strconv.Itoa(item.Quantity), rupees(item.LineTotal())})
			}
			table(c.out, "PRODUCT\tNAME\tQTY\tLINE TOTAL", rows)
			sum := c.shop.Cart.Summary()
			fmt.Fprintf(c.out, "Subtotal %s  Tax %s  Total %s  (%d items)\n", rupees(sum.Subtotal), rupees(sum.Tax), rupees(sum.Total), sum.ItemCount)
			return nil
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.shop.Cart.Add(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added. %d items in cart\n", c.shop.Cart.TotalItemCount())
			return nil
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "quantity")

	remove := &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.shop.Cart.Remove(cmd.Context(), args[0])
		},
	}

	set := &cobra.Command{
		Use:   "set <productId> <qty>",
		Short: "Set a quantity; 0 removes the product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return c.shop.Cart.UpdateQuantity(cmd.Context(), args[0], n)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.shop.Cart.Clear(cmd.Context())
		},
	}

	cmd.AddCommand(show, add, remove, set, clearCmd)
	return cmd
}

func (c *cli) wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "wishlist", Short: "Manage the wishlist"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "List wishlisted products",
			RunE: func(*cobra.Command, []string) error {
				entries := c.shop.Wishlist.Items()
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.ID, e.Name, rupees(e.Price), e.AddedAt.Format("2006-01-02")})
				}
				table(c.out, "ID\tNAME\tPRICE\tADDED", rows)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <productId>",
			Short: "Wishlist a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := c.shop.Catalog.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.shop.Wishlist.Add(cmd.Context(), p)
			},
		},
		&cobra.Command{
			Use:   "remove <productId>",
			Short: "Drop a product from the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.shop.Wishlist.Remove(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the wishlist",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.shop.Wishlist.Clear(cmd.Context())
			},
		},
	)
	return cmd
}
