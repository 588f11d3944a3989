// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// State represents persisted authentication state for the current user.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
}

// StateStore is the subset of Store used for display state.
type StateStore interface {
	LoadAuthState() ([]byte, error)
	SaveAuthState(data []byte) error
}

// LoadState reads the auth state. Missing state yields zero value.
func LoadState(st StateStore) (State, error) {
	var s State
	data, err := st.LoadAuthState()
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// SaveState writes the auth state.
func SaveState(st StateStore, s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return st.SaveAuthState(b)
}

// AccountFromToken reads a display identity from a JWT access token without
// verifying it. The email claim wins over sub.
func AccountFromToken(accessToken string) (string, error) {
	if accessToken == "" {
		return "", errors.New("empty token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", err
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
