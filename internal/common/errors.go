// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")

	// Credential errors (malformed or incomplete bearer token).
	ErrMalformedToken = errors.New("invalid or malformed token")
	ErrInvalidRole    = errors.New("invalid user role")

	// Request validation and authorization errors.
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")

	// Upstream dependency failures (table service, identity provider, object storage).
	ErrorUpstream = errors.New("upstream failure")
)
