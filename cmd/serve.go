// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"discoverybridge/cli/internal/bootstrap"
	"discoverybridge/cli/internal/server"
)

var serveListen string

// serveCmd exposes the adapter over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schemas and rows over HTTP",
	Long: `The serve command runs the HTTP host surface:

  GET /healthz            liveness
  GET /login              redirect to the identity provider
  GET /callback           complete a login (the redirect target)
  GET /schema             run a schema pass
  GET /tables/:id/rows    run a data pass (?format=csv for CSV)

The listen address is --listen or DISCOVERY_LISTEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		addr := serveListen
		if addr == "" {
			addr = a.cfg.Listen
		}

		var srv *server.Server
		rt, err := a.runtime(bootstrap.AlertFunc(func(msg string) { srv.Alert(msg) }))
		if err != nil {
			return err
		}
		srv = server.New(server.Config{
			Runtime:     rt,
			AuthCodeURL: a.exchanger.AuthCodeURL,
			Logger:      a.log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		pterm.Info.Printf("Listening on %s\n", addr)
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default DISCOVERY_LISTEN)")
	rootCmd.AddCommand(serveCmd)
}
