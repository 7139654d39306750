// Package users contains the user record store: a single contract with
// DynamoDB, Postgres and in-memory implementations.
//
// The store enforces no ordering on List: callers get whatever the underlying
// scan yields plus an opaque continuation cursor. Username uniqueness is
// enforced by the service through GetByUsername before Create; the check and
// the write are separate calls, so concurrent creates of the same username
// can race (a uniqueness constraint on the secondary index would close this).
package users

import (
	"context"

	"github.com/dmitrijs2005/userdir/internal/server/models"
)

type Repository interface {
	// Create persists a fully-populated record. The write is conditional on
	// the primary key not existing yet.
	Create(ctx context.Context, user *models.User) error

	// GetByID looks a record up by primary key. Returns common.ErrorNotFound
	// when no record exists.
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// GetByUsername looks a record up through the username secondary index.
	// Returns common.ErrorNotFound when no record exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns up to limit records starting strictly after cursor, plus
	// a cursor for the next page. An empty next cursor means the scan is
	// exhausted. An empty input cursor starts from the beginning.
	List(ctx context.Context, limit int32, cursor string) ([]*models.User, string, error)

	// Delete permanently removes a record. Returns common.ErrorNotFound when
	// no record exists.
	Delete(ctx context.Context, userID string) error
}
