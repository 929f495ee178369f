// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/constants"
	"github.com/flightdeck-aero/flightdeck/internal/platform/ctxkey"
	"github.com/flightdeck-aero/flightdeck/internal/platform/ctxutil"
	"github.com/flightdeck-aero/flightdeck/internal/platform/respond"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec.TokenService]
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// The token is minted by the external identity service; the engine trusts the
// claims as already authenticated and only performs authorization downstream.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyActor, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetActor(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests unless the authenticated actor's role
// owns the given permission or is the master role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN).
//  2. Check the static permission table via [sec.HasPermission] (fail-closed).
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequirePermission(permission sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetActor(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			role := claims.StaffRole()
			if role != sec.RoleMaster && !sec.HasPermission(role, permission) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireIngestKey authenticates machine callers (the anomaly-detection
// collaborator) by comparing the X-Ingest-Key header against the configured
// bcrypt hash. It is the only non-JWT authentication path in the engine.
func RequireIngestKey(configuredHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			presented := request.Header.Get(constants.HeaderIngestKey)
			if presented == "" || configuredHash == "" || !sec.VerifyIngestKey(presented, configuredHash) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid ingest key"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
