package main

import (
	"fmt"
	"strconv"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/orders"
	rules "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/spf13/cobra"
)

func (c *cli) checkoutCmd() *cobra.Command {
	var (
		method   string
		shipping types.ShippingAddress
		card     rules.CardDetails
		upiID    string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pm, err := enums.ParsePaymentMethod(method)
			if err != nil {
				return err
			}
			payment := rules.Payment{Method: pm}
			switch pm {
			case enums.PaymentMethodCard:
				payment.Card = &card
			case enums.PaymentMethodUPI:
				payment.UPIID = upiID
			}
			receipt, err := c.shop.Checkout.PlaceOrder(cmd.Context(), shipping, payment)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Order %s placed: %s (%s)\n", receipt.OrderID, receipt.Order.Status, rupees(receipt.Total))
			if !receipt.CartCleared {
				fmt.Fprintln(c.errw, "The order was placed but the cart could not be emptied.")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&method, "method", "", "card|upi|cod")
	f.StringVar(&shipping.Name, "name", "", "recipient name")
	f.StringVar(&shipping.Email, "email", "", "contact email, defaults to the account email")
	f.StringVar(&shipping.Phone, "phone", "", "10 digit mobile number")
	f.StringVar(&shipping.Address, "address", "", "street address")
	f.StringVar(&shipping.City, "city", "", "city")
	f.StringVar(&shipping.Pincode, "pincode", "", "6 digit pincode")
	f.StringVar(&card.Number, "card-number", "", "card number")
	f.StringVar(&card.Expiry, "card-expiry", "", "card expiry MM/YY")
	f.StringVar(&card.CVV, "card-cvv", "", "card CVV")
	f.StringVar(&card.Holder, "card-holder", "", "name on card")
	f.StringVar(&upiID, "upi-id", "", "UPI id")
	return cmd
}

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Order history"}

	var filter orders.Filter
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseStatus(status, &filter); err != nil {
				return err
			}
			history, err := c.shop.Orders.History(cmd.Context(), filter)
			if err != nil {
				return err
			}
			table(c.out, "ID\tDATE\tSTATUS\tPAYMENT\tITEMS\tTOTAL", orderRows(history))
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&filter.Search, "search", "", "match order id or item name")

	show := &cobra.Command{
		Use:   "show <orderId>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.shop.Orders.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOrder(c, o)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func parseStatus(raw string, filter *orders.Filter) error {
	if raw == "" {
		return nil
	}
	s, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	filter.Status = s
	return nil
}

func printOrder(c *cli, o types.Order) {
	fmt.Fprintf(c.out, "Order %s  %s  %s/%s\n", o.ID, o.Date.Format("2006-01-02 15:04"), o.Status, o.PaymentStatus)
	rows := make([][]string, 0, len(o.Items))
	for _, item := range o.Items {
		rows = append(rows, []string{item.Name, strconv.Itoa(item.Quantity), rupees(item.LineTotal())})
	}
	table(c.out, "ITEM\tQTY\tAMOUNT", rows)
	fmt.Fprintf(c.out, "Subtotal %s  Tax %s  COD fee %s  Total %s\n", rupees(o.Subtotal), rupees(o.Tax), rupees(o.CODFee), rupees(o.Total))
	a := o.ShippingAddress
	fmt.Fprintf(c.out, "Ship to %s, %s, %s %s (%s)\n", a.Name, a.Address, a.City, a.Pincode, a.Phone)
}
