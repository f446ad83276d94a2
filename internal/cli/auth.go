package cli

import (
	"errors"
	"strings"

	"storyweave/internal/session"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Accounts and sessions",
	}
	cmd.AddCommand(newAuthSignUpCmd(app))
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if err := rt.ctrl.Logout(cmd.Context()); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"signedIn": false}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user (null when signed out)",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				return writeOut(cmd, app, map[string]any{"data": rt.ctrl.User()})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	cmd.AddCommand(newAuthConfirmCmd(app))
	return cmd
}

type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.password, "password", envOr("STORYWEAVE_PASSWORD", ""), "Account password (or STORYWEAVE_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
}

func (c credentials) validate() error {
	if strings.TrimSpace(c.password) == "" {
		return errors.New("missing --password")
	}
	return nil
}

func newAuthSignUpCmd(app *App) *cobra.Command {
	var (
		creds credentials
		admin bool
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return writeErr(cmd, err)
			}
			var meta map[string]string
			if admin {
				meta = map[string]string{"role": "admin"}
			}
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				res, err := rt.auth.SignUp(cmd.Context(), creds.email, creds.password, meta)
				if err != nil {
					return err
				}
				out := map[string]any{
					"id":                res.UserID,
					"email":             res.Email,
					"needsConfirmation": res.NeedsConfirmation(),
					"user":              session.UserFromSession(res.Session),
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	creds.bind(cmd)
	cmd.Flags().BoolVar(&admin, "admin", false, "Create an admin account (CMS access)")
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return writeErr(cmd, err)
			}
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				s, err := rt.auth.SignInWithPassword(cmd.Context(), creds.email, creds.password)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": session.UserFromSession(s)})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newAuthConfirmCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm a pending account (stands in for the confirmation email)",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if err := rt.auth.Confirm(cmd.Context(), email); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"email": strings.ToLower(strings.TrimSpace(email)), "confirmed": true}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
