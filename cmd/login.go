// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"discoverybridge/cli/internal/bootstrap"
	"discoverybridge/cli/internal/httperrors"
	"discoverybridge/cli/internal/server"
)

var forceLogin bool

// loginCmd runs the browser authorization-code flow. A loopback server on the
// configured redirect address sends the browser to the identity provider and
// completes the code exchange when it is redirected back.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate via browser and store the refresh credential",
	Long: `The login command opens the identity provider's sign-in page in your browser.
After you sign in, the provider redirects back to a local callback address where the
authorization code is exchanged for a refresh credential. The credential is stored in
the OS keychain; access tokens are only ever held in memory.

The callback address is DISCOVERY_AUTH_REDIRECT_URL (default http://localhost:9001/callback).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if a.session.HasRefreshCredential() && !forceLogin {
			if st, _ := a.session.State(); st.Account != "" {
				fmt.Printf("Already logged in as %s\n", st.Account)
			} else {
				fmt.Println("Already logged in")
			}
			fmt.Println("Use --force to sign in again.")
			return nil
		}

		redirect, err := url.Parse(a.cfg.Auth.RedirectURL)
		if err != nil || redirect.Host == "" {
			return fmt.Errorf("invalid DISCOVERY_AUTH_REDIRECT_URL %q", a.cfg.Auth.RedirectURL)
		}
		if redirect.Path != "/callback" {
			return fmt.Errorf("DISCOVERY_AUTH_REDIRECT_URL must end in /callback, got %s", redirect.Path)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		var srv *server.Server
		rt, err := a.runtime(bootstrap.AlertFunc(func(msg string) { srv.Alert(msg) }))
		if err != nil {
			return err
		}
		done := make(chan error, 1)
		srv = server.New(server.Config{
			Runtime:     rt,
			AuthCodeURL: a.exchanger.AuthCodeURL,
			OnCallback: func(err error) {
				select {
				case done <- err:
				default:
				}
			},
			Logger: a.log,
		})

		srvCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()
		serveErr := make(chan error, 1)
		go func() { serveErr <- srv.Run(srvCtx, redirect.Host) }()

		loginURL := fmt.Sprintf("%s://%s/login", redirect.Scheme, redirect.Host)
		fmt.Println("Open this link to complete login:")
		fmt.Printf("%s\n\n", loginURL)
		openBrowser(loginURL)

		stopSpinner := startInlineSpinner(os.Stdout, "Waiting for sign-in", spinnerFrames, 120*time.Millisecond)
		defer stopSpinner()

		select {
		case err := <-done:
			stopSpinner()
			if err != nil {
				return httperrors.Present(err, "signing in", redirect.Host)
			}
		case err := <-serveErr:
			stopSpinner()
			if err == nil {
				err = errors.New("callback server stopped")
			}
			return fmt.Errorf("callback server on %s: %w", redirect.Host, err)
		case <-ctx.Done():
			stopSpinner()
			return fmt.Errorf("login timed out")
		}

		st, _ := a.session.State()
		showLoginGreeting(st.Account)
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&forceLogin, "force", false, "Sign in again even if a credential is stored")
	rootCmd.AddCommand(loginCmd)
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It starts the browser process but does not wait for it.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

func showLoginGreeting(account string) {
	if account == "" {
		fmt.Println("✅ Login successful!")
		return
	}
	fmt.Println(getRandomLoginGreeting(account))
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to explore?",
		"💫 Successfully authenticated as %s",
		"⚡ Logged in as %s - let's go!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
