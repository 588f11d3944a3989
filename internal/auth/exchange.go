// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	apperrors "discoverybridge/cli/internal/errors"
)

// Grant types sent to the token endpoint.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
)

// ExchangerConfig describes the identity provider.
type ExchangerConfig struct {
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	RedirectURL  string
	Audience     string
	// HTTPClient is used for token endpoint calls. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Exchanger performs the two token endpoint exchanges against the identity
// provider. Requests are form-urlencoded with the client id in the body.
type Exchanger struct {
	oauth    oauth2.Config
	audience string
	client   *http.Client
}

// NewExchanger builds an Exchanger for the given provider.
func NewExchanger(c ExchangerConfig) *Exchanger {
	return &Exchanger{
		oauth: oauth2.Config{
			ClientID: c.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:   c.AuthorizeURL,
				TokenURL:  c.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: c.RedirectURL,
			Scopes:      []string{"openid", "profile", "email", "offline_access"},
		},
		audience: c.Audience,
		client:   c.HTTPClient,
	}
}

// AuthCodeURL returns the provider's authorize URL carrying state.
func (e *Exchanger) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{}
	if e.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", e.audience))
	}
	return e.oauth.AuthCodeURL(state, opts...)
}

// ExchangeCode trades a one-time authorization code for tokens.
// The response must carry a refresh token.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (Tokens, error) {
	tok, err := e.oauth.Exchange(e.withClient(ctx), code)
	if err != nil {
		return Tokens{}, exchangeError(GrantAuthorizationCode, err)
	}
	if tok.RefreshToken == "" {
		return Tokens{}, fmt.Errorf("%s exchange: response carried no refresh_token", GrantAuthorizationCode)
	}
	return Tokens{Access: tok.AccessToken, Refresh: tok.RefreshToken}, nil
}

// ExchangeRefresh trades a refresh credential for a new access token.
func (e *Exchanger) ExchangeRefresh(ctx context.Context, refreshToken string) (string, error) {
	src := e.oauth.TokenSource(e.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return "", exchangeError(GrantRefreshToken, err)
	}
	return tok.AccessToken, nil
}

func (e *Exchanger) withClient(ctx context.Context) context.Context {
	if e.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, e.client)
}

// exchangeError maps a rejected token response to AuthExchangeFailed.
// Transport failures are wrapped as they are.
func exchangeError(grant string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return apperrors.NewAuthExchangeFailed(grant, re.Response.StatusCode, reasonPhrase(re.Response))
	}
	return fmt.Errorf("%s exchange: %w", grant, err)
}

// reasonPhrase strips the numeric code from a response status line.
func reasonPhrase(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
}
