// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/ctxutil"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// It returns validate.ErrInvalidJSON if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter (UUID) from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Actor extracts the authenticated staff claims from the request context.
// Returns nil if the request is not authenticated.
func Actor(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetActor(request.Context())
}

// RequiredActor ensures the request is authenticated and returns the staff
// claims, or apperr.Unauthorized when the request is anonymous.
func RequiredActor(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetActor(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredActorID returns the actor ID of the currently authenticated staff
// member, or apperr.Unauthorized when anonymous.
func RequiredActorID(request *http.Request) (string, error) {
	claims, err := RequiredActor(request)
	if err != nil {
		return "", err
	}
	return claims.ActorID, nil
}
