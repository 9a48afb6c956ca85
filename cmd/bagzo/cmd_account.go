package main

import (
	"fmt"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/spf13/cobra"
)

func (c *cli) registerCmd() *cobra.Command {
	var in types.NewIdentity
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.shop.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Welcome, %s (%s)\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "10 digit mobile number")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.shop.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Signed in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.shop.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(*cobra.Command, []string) error {
			user := c.shop.Session.Current()
			if user == nil {
				fmt.Fprintln(c.out, "Not signed in")
				return nil
			}
			fmt.Fprintf(c.out, "%s <%s> role=%s status=%s\n", user.Name, user.Email, user.Role, user.Status())
			return nil
		},
	}
}
