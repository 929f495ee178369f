// Package directory is a read-only view of portal member accounts.
//
// Accounts are owned and written by the external identity service; the
// trust engine reads them only to resolve moderation targets and to label
// histories in the admin UI. There is deliberately no write path here.
package directory

import (
	"context"
	"time"
)

// User is the subset of a member account the trust engine needs.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository is the lookup contract for member accounts.
type Repository interface {
	// FindByID returns the account, or apperr.NotFound when the id is
	// unknown or the account has been soft-deleted.
	FindByID(ctx context.Context, id string) (*User, error)
}
