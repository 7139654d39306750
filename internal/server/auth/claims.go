// Package auth turns bearer tokens into request-scoped identity claims and
// holds the authorization decision functions.
//
// Signature and expiry verification happen at the boundary that terminates the
// trust chain before a request reaches this service; this package only decodes
// the claim set.
package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claim names as issued by the identity provider.
const (
	claimUsername = "cognito:username"
	claimSubject  = "sub"
	claimRole     = "custom:role"
)

// IdentityClaims is the request-scoped identity derived from a credential.
// It is constructed once per request and threaded explicitly into every
// decision and store call; it is never persisted or shared between requests.
// A nil *IdentityClaims means the request is anonymous.
type IdentityClaims struct {
	Username string
	Subject  string
	Role     models.Role
}

func (c *IdentityClaims) String() string {
	if c == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", c.Username, c.Role)
}

// ExtractClaims decodes the payload segment of a three-part bearer token into
// IdentityClaims. No cryptographic verification is performed. It fails with
// common.ErrMalformedToken when the token structure or a required claim is
// broken, and with common.ErrInvalidRole when the role claim is present but
// not one of the recognized values.
func ExtractClaims(raw string) (*IdentityClaims, error) {
	claims := jwt.MapClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	}

	username, err := stringClaim(claims, claimUsername)
	if err != nil {
		return nil, err
	}
	subject, err := stringClaim(claims, claimSubject)
	if err != nil {
		return nil, err
	}
	roleValue, err := stringClaim(claims, claimRole)
	if err != nil {
		return nil, err
	}

	role, err := models.ParseRole(roleValue)
	if err != nil {
		return nil, err
	}

	return &IdentityClaims{Username: username, Subject: subject, Role: role}, nil
}

func stringClaim(claims jwt.MapClaims, name string) (string, error) {
	v, ok := claims[name]
	if !ok {
		return "", fmt.Errorf("%w: %s claim not found", common.ErrMalformedToken, name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s claim is not a string", common.ErrMalformedToken, name)
	}
	return s, nil
}

const bearerPrefix = "Bearer "

// IdentityFromHeader resolves the Authorization header into an identity.
// An absent header yields (nil, nil): the anonymous identity. Whether
// anonymous access is acceptable is the caller's decision, per endpoint.
func IdentityFromHeader(authorization string) (*IdentityClaims, error) {
	if authorization == "" {
		return nil, nil
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, fmt.Errorf("%w: expected 'Bearer <token>'", common.ErrMalformedToken)
	}
	return ExtractClaims(strings.TrimPrefix(authorization, bearerPrefix))
}
