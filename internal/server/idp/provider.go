// Package idp talks to the external identity provider that issues the tokens
// this service consumes. The provider owns credentials and the password
// policy; this service only provisions and removes accounts alongside its own
// records.
package idp

import (
	"context"

	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// AccountProvider provisions and removes identity-provider accounts. Both
// operations are companions to a record mutation and must be idempotent:
// DeleteAccount on a missing account is a success.
type AccountProvider interface {
	CreateAccount(ctx context.Context, username string, role models.Role, password string) error
	DeleteAccount(ctx context.Context, username string) error
}
