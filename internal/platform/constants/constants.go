// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and ingest-key headers.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "flightdeck-trust-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim expected in staff JWTs.
	AuthIssuer = "flightdeck.aero"

	// HeaderIngestKey carries the shared secret used by the anomaly-detection
	// collaborator when posting bad-conduct alerts.
	HeaderIngestKey = "X-Ingest-Key"

	// HeaderIdempotencyKey carries the client-supplied key that makes
	// moderation action submission safe to retry at the transport layer.
	HeaderIdempotencyKey = "Idempotency-Key"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Key Taxonomy

const (
	// RedisPrefixIdempotency maps an Idempotency-Key to the moderation action
	// id it produced, so retried submissions never double-append the ledger.
	RedisPrefixIdempotency = "trust:idempotency:"

	// RedisStreamNotifications is the outbox stream consumed by the
	// external messaging service.
	RedisStreamNotifications = "notify:outbox"
)

// # Idempotency

const (
	// IdempotencyKeyTTL bounds how long a moderation submission can be
	// retried with the same key.
	IdempotencyKeyTTL = 24 * time.Hour
)
