// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns API, identity provider and network failures into
// user-friendly terminal messages.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/logging"
)

// Category is the user-facing class of a failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	SignInRejected
	Unauthorized
	NotFound
	ServerError
	NotLoggedIn
	InvalidConnection
)

// Classify maps err to a Category. Typed errors win over network inspection.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}

	var ae *apperrors.AuthExchangeFailed
	if errors.As(err, &ae) {
		return SignInRejected
	}
	var rf *apperrors.RequestFailed
	if errors.As(err, &rf) {
		switch {
		case rf.Status == 401 || rf.Status == 403:
			return Unauthorized
		case rf.Status == 404:
			return NotFound
		case rf.Status >= 500:
			return ServerError
		default:
			return Generic
		}
	}
	var e *apperrors.E
	if errors.As(err, &e) {
		switch e.Kind {
		case apperrors.NotLoggedIn:
			return NotLoggedIn
		case apperrors.InvalidConnection:
			return InvalidConnection
		}
	}

	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	}
	return Generic
}

// Present displays a message for err and returns it wrapped with action.
// host names the server being contacted and may be empty.
func Present(err error, action, host string) error {
	if err == nil {
		return nil
	}
	if host == "" {
		host = "the server"
	}
	display(Classify(err), err, action, host)
	return fmt.Errorf("%s: %w", action, err)
}

func display(c Category, err error, action, host string) {
	detail := logging.Mask(err.Error())
	switch c {
	case Timeout:
		pterm.Printf("⏱️  Connection timeout while %s\n", action)
		pterm.Println()
		pterm.Printf("%s took too long to respond. Check your connection or raise DISCOVERY_HTTP_TIMEOUT.\n", host)
	case DNS:
		pterm.Printf("🌐 Cannot resolve %s while %s\n", host, action)
		pterm.Println()
		pterm.Println("Check DISCOVERY_API_URL and your DNS settings.")
	case ConnectionRefused:
		pterm.Printf("🚫 Connection refused by %s while %s\n", host, action)
		pterm.Println()
		pterm.Println("The Discovery API is not accepting connections. Is it running on the configured address?")
	case TLS:
		pterm.Printf("🔒 Secure connection to %s failed while %s\n", host, action)
		pterm.Println()
		pterm.Println("Check the server certificate, proxy settings and your system clock.")
	case SignInRejected:
		pterm.Printf("🔑 The identity provider rejected the sign-in while %s\n", action)
		pterm.Println()
		pterm.Printf("  %s\n", detail)
		pterm.Println("Run 'discovery-bridge login' to sign in again.")
	case Unauthorized:
		pterm.Printf("🔑 %s refused the request while %s\n", host, action)
		pterm.Println()
		pterm.Println("Your account may lack access to this data. Run 'discovery-bridge login' and try again.")
	case NotFound:
		pterm.Printf("❓ Not found while %s\n", action)
		pterm.Println()
		pterm.Println("The dataset or endpoint does not exist. Run 'discovery-bridge schema' to list tables.")
	case ServerError:
		pterm.Printf("⚠️  Server error while %s\n", action)
		pterm.Println()
		pterm.Printf("%s encountered an internal error (%s). Please try again later.\n", host, detail)
	case NotLoggedIn:
		pterm.Println("🔐 Not logged in. Run 'discovery-bridge login' first.")
	case InvalidConnection:
		pterm.Println("🧭 No usable connection. Run 'discovery-bridge connect catalog' or 'discovery-bridge connect query \"...\"'.")
	default:
		pterm.Printf("❌ Failed while %s\n", action)
		pterm.Println()
		pterm.Printf("  %s\n", truncate(detail, 200))
	}
	pterm.Println()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
