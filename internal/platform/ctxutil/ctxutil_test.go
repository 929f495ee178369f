// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/ctxutil"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

func TestLogger_DefaultFallback(t *testing.T) {
	// An empty context must never yield a nil logger.
	logger := ctxutil.GetLogger(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, slog.Default(), logger)
}

func TestActor_RoundTrip(t *testing.T) {
	claims := &sec.AuthClaims{ActorID: "actor-1", Role: string(sec.RoleMaster)}
	ctx := ctxutil.WithActor(context.Background(), claims)

	got := ctxutil.GetActor(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "actor-1", got.ActorID)
	assert.Equal(t, sec.RoleMaster, got.StaffRole())
}

func TestActor_Anonymous(t *testing.T) {
	assert.Nil(t, ctxutil.GetActor(context.Background()))
}
