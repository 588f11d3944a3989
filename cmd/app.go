// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"

	"discoverybridge/cli/internal/auth"
	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/bootstrap"
	"discoverybridge/cli/internal/config"
	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/httperrors"
	"discoverybridge/cli/internal/keychain"
	"discoverybridge/cli/internal/logging"
)

// app holds the collaborators every command is built from.
type app struct {
	cfg       config.Config
	log       *pterm.Logger
	exchanger *auth.Exchanger
	session   *auth.Session
	api       backend.API
	conns     *connection.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logging.New(level)

	// A nil Store interface means no credential; never pass a nil *Manager.
	var store auth.Store
	if km, err := keychain.GetManager(); err == nil {
		store = km
	} else {
		log.Warn("OS keychain unavailable, requests will be unauthenticated", log.Args("error", err))
	}

	ex := auth.NewExchanger(auth.ExchangerConfig{
		AuthorizeURL: cfg.Auth.AuthorizeURL,
		TokenURL:     cfg.Auth.TokenURL,
		ClientID:     cfg.Auth.ClientID,
		RedirectURL:  cfg.Auth.RedirectURL,
		Audience:     cfg.Auth.Audience,
	})
	session := auth.NewSession(ex, store,
		auth.WithTimeout(cfg.HTTPTimeout),
		auth.WithLogger(log),
	)

	conns, err := connection.DefaultStore()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:       cfg,
		log:       log,
		exchanger: ex,
		session:   session,
		api:       backend.New(cfg.APIURL, session),
		conns:     conns,
	}, nil
}

// runtime builds a local host loaded with the stored connection data and
// registers the adapter with it. A nil alerter prints alerts as errors.
func (a *app) runtime(alerter bootstrap.Alerter) (*host.Local, error) {
	data, err := a.conns.Load()
	if err != nil {
		return nil, err
	}
	if alerter == nil {
		alerter = bootstrap.AlertFunc(func(msg string) { pterm.Error.Println(logging.Mask(msg)) })
	}
	rt := host.NewLocal(data)
	bootstrap.Setup(rt, bootstrap.Deps{
		Session:      a.session,
		API:          a.api,
		Alerter:      alerter,
		DatasetLimit: a.cfg.DatasetLimit,
		Concurrency:  a.cfg.Concurrency,
		Logger:       a.log,
	})
	return rt, nil
}

// apiHost is the API host name used in error messages.
func (a *app) apiHost() string {
	return httperrors.ExtractHostFromURL(a.cfg.APIURL)
}
