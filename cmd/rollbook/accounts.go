package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/model"
	"github.com/rollbook/rollbook/internal/repository"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage staff accounts",
	}
	cmd.AddCommand(newAccountAddCmd(), newAccountListCmd(), newAccountRemoveCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var account model.Account
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				err := repository.NewAccounts(env.session).Save(cmd.Context(), &account)
				if db.IsConstraintViolation(err) {
					return fmt.Errorf("username %q is taken or empty", account.Username)
				}
				if err != nil {
					return fmt.Errorf("adding account: %w", err)
				}
				green.Fprintf(cmd.OutOrStdout(), "Added account %d: %s\n", account.ID, account.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&account.Username, "user", "", "username")
	cmd.Flags().StringVar(&account.Password, "pass", "", "password")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List staff accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				accounts, err := repository.NewAccounts(env.session).QueryAll(cmd.Context(), repository.AccountSelect+` ORDER BY acc_user`)
				if err != nil {
					return err
				}
				if len(accounts) == 0 {
					yellow.Fprintln(cmd.OutOrStdout(), "No accounts.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME")
				fmt.Fprintln(w, "--\t--------")
				for _, a := range accounts {
					fmt.Fprintf(w, "%d\t%s\n", a.ID, a.Username)
				}
				return w.Flush()
			})
		},
	}
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <username>",
		Aliases: []string{"remove"},
		Short:   "Remove a staff account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				accounts := repository.NewAccounts(env.session)
				account, err := accounts.FindByUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if account == nil {
					yellow.Fprintf(cmd.OutOrStdout(), "No account named %s\n", args[0])
					return nil
				}
				if err := accounts.Remove(cmd.Context(), account); err != nil {
					return err
				}
				green.Fprintf(cmd.OutOrStdout(), "Removed account %s\n", account.Username)
				return nil
			})
		},
	}
}
