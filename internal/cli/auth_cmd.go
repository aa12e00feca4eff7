// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/session"
	"github.com/jeranaias/lintara-tui/internal/storage"
)

// =============================================================================
// LOGIN
// =============================================================================

func (a *App) newLoginCommand() *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in to the analysis service. The token is stored in
~/.lintara/session.json, readable only by you, and is sent only to the
service it was issued by.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = a.readLine("Username: "); err != nil {
					return err
				}
			}
			username = strings.TrimSpace(username)
			if username == "" {
				return NewValidationError("username", "", "must not be empty")
			}
			password, err := a.readPassword("Password: ", passwordStdin)
			if err != nil {
				return err
			}
			if password == "" {
				return NewValidationError("password", "", "must not be empty")
			}

			resp, err := a.newClient("").Login(cmd.Context(), username, password)
			if err != nil {
				return NewCommandError("login", "sign in failed", err)
			}
			sess := &session.Session{
				Token:    resp.AccessToken,
				Username: resp.Username,
				UserID:   resp.UserID,
				BaseURL:  a.cfg.API.BaseURL,
				LoggedIn: a.Now().UTC(),
			}
			if sess.Username == "" {
				sess.Username = username
			}
			if err := a.store.Save(sess); err != nil {
				return err
			}
			a.logger.Info("logged in", zap.String("username", sess.Username), zap.String("base_url", sess.BaseURL))

			if a.jsonOut {
				return a.printJSON("login", map[string]interface{}{"username": sess.Username, "user_id": sess.UserID, "base_url": sess.BaseURL})
			}
			fmt.Fprintf(a.Stdout, "%s as %s\n", a.out.Success.Render("Logged in"), sess.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// =============================================================================
// LOGOUT
// =============================================================================

func (a *App) newLogoutCommand() *cobra.Command {
	var keepCache bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.store.Load()
			if errors.Is(err, session.ErrNoSession) {
				if a.jsonOut {
					return a.printJSON("logout", map[string]bool{"logged_out": false})
				}
				fmt.Fprintln(a.Stdout, "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}

			// the server side is best effort: the local token goes either way
			if sess.Valid(a.cfg.API.BaseURL) {
				if err := a.newClient(sess.Token).Logout(ctx); err != nil && !api.IsUnauthorized(err) {
					a.logger.Warn("server logout failed", zap.Error(err))
				}
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			if !keepCache {
				scope := storage.Scope{BaseURL: sess.BaseURL, Username: sess.Username}
				a.withCache(func(c *storage.Cache) error {
					return c.Clear(ctx, scope)
				})
			}

			if a.jsonOut {
				return a.printJSON("logout", map[string]bool{"logged_out": true})
			}
			fmt.Fprintf(a.Stdout, "%s %s\n", a.out.Success.Render("Logged out"), sess.Username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepCache, "keep-cache", false, "keep this account's offline cache")
	return cmd
}

// =============================================================================
// REGISTER
// =============================================================================

func (a *App) newRegisterCommand() *cobra.Command {
	var (
		in            api.RegisterInput
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Email == "" {
				if in.Email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			if in.Username == "" {
				if in.Username, err = a.readLine("Username: "); err != nil {
					return err
				}
			}
			in.Email = strings.TrimSpace(in.Email)
			in.Username = strings.TrimSpace(in.Username)

			if in.Password, err = a.readPassword("Password: ", passwordStdin); err != nil {
				return err
			}
			if !passwordStdin && a.Interactive() {
				again, err := a.ReadPassword("Repeat password: ")
				if err != nil {
					return err
				}
				if again != in.Password {
					return NewValidationError("password", "", "passwords do not match")
				}
			}
			if err := in.Validate(); err != nil {
				return err
			}

			user, err := a.newClient("").Register(cmd.Context(), in)
			if err != nil {
				return NewCommandError("register", "the service rejected the account", err)
			}
			if a.jsonOut {
				return a.printJSON("register", user)
			}
			fmt.Fprintf(a.Stdout, "%s %s\n", a.out.Success.Render("Registered"), user.Username)
			fmt.Fprintln(a.Stdout, a.out.Dim.Render("Sign in with `lintara login -u "+user.Username+"`."))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address (prompted when empty)")
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "account name (prompted when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}
