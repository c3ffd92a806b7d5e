package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edmedpublic-hub/Reading-Platform/internal/users"
)

var (
	userRole     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a local account",
	Long: `Add creates a user with a bcrypt-hashed password. The password comes from
--password or the READINGCTL_PASSWORD environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userHashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Print a bcrypt hash, e.g. for ADMIN_PASS_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := users.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userRole, "role", "r", users.RoleStudent, "student, teacher or admin")
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password (default: $READINGCTL_PASSWORD)")
	userCmd.AddCommand(userAddCmd, userHashCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	if !users.ValidRole(userRole) {
		return fmt.Errorf("invalid role %q", userRole)
	}
	pw := userPassword
	if pw == "" {
		pw = os.Getenv("READINGCTL_PASSWORD")
	}
	if pw == "" {
		return errors.New("password required")
	}
	hash, err := users.HashPassword(pw)
	if err != nil {
		return err
	}

	dbh, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer dbh.Close()

	u, err := users.NewSQLStore(dbh).Create(cmd.Context(), users.User{Username: args[0], PasswordHash: hash, Role: userRole})
	if errors.Is(err, users.ErrConflict) {
		return fmt.Errorf("user %q already exists", args[0])
	}
	if err != nil {
		return err
	}
	log.Info("user created", "user_id", u.ID, "role", u.Role)
	fmt.Fprintln(cmd.OutOrStdout(), u.ID)
	return nil
}
