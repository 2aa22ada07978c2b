package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/services"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the users tasks can be created by and assigned to",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user and print its id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap()
		defer a.close()

		if err := a.migrate(); err != nil {
			return err
		}

		user, err := services.NewUserService(a.store, a.clock, a.log).Create(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap()
		defer a.close()

		if err := a.migrate(); err != nil {
			return err
		}

		users, err := services.NewUserService(a.store, a.clock, a.log).List(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return nil
	},
}

func init() {
	usersCmd.AddCommand(userCreateCmd, userListCmd)
	rootCmd.AddCommand(usersCmd)
}
