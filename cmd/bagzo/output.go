package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

func table(w io.Writer, header string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func rupees(a types.Amount) string {
	return "Rs " + a.StringFixed(2)
}

func productRows(products []types.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.ID, p.Name, p.Category, rupees(p.Price)})
	}
	return rows
}

func orderRows(orders []types.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			o.Date.Format("2006-01-02 15:04"),
			string(o.Status),
			string(o.PaymentMethod),
			fmt.Sprint(o.ItemCount()),
			rupees(o.Total),
		})
	}
	return rows
}

func identityRows(users []types.Identity) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), string(u.Status())})
	}
	return rows
}
