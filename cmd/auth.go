package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/api"
	"github.com/Rorical/RoriBoard/internal/app"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session for this profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			email := strings.TrimSpace(loginEmail)
			var err error
			if email == "" {
				if email, err = promptText("Email", false); err != nil {
					return err
				}
			}
			password, err := promptText("Password", true)
			if err != nil {
				return err
			}

			user, err := env.Client.Login(ctx, email, password)
			if err != nil {
				return errors.New(api.LoginFailureMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", displayName(user.Username, email))
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			email, err := promptText("Email", false)
			if err != nil {
				return err
			}
			username, err := promptText("Username", false)
			if err != nil {
				return err
			}
			password, err := promptText("Password", true)
			if err != nil {
				return err
			}

			if _, err := env.Client.Signup(ctx, email, username, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed up. Please log in.")
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session of this profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			if !env.Session.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			err := env.Client.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			// the local session is gone even when the server call failed
			if err != nil {
				env.Logger.Warn("server logout failed", zap.Error(err))
			}
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			user, err := env.Client.Me(ctx)
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Username, user.Email, env.Config.ActiveProfile)
			return nil
		})
	},
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}
	return email
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}
