// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashIngestKey hashes a plain-text ingest key using the bcrypt algorithm.
// The resulting hash is what operators place into ALERT_INGEST_KEY_HASH, so
// the plain key never lives in configuration.
func HashIngestKey(plainKey string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash ingest key: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyIngestKey compares a presented ingest key with the configured hash.
func VerifyIngestKey(presentedKey, configuredHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(configuredHash), []byte(presentedKey))
	return err == nil
}
