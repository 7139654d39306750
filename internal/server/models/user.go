package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/common"
)

// User is the identity record owned by the user store. Timestamps are
// millisecond epoch values; CreatedAt is set once, UpdatedAt changes on
// mutation (only creation mutates in the current API).
type User struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// CreateUserRequest is the create-endpoint body. The password is forwarded to
// the identity provider; it is never persisted with the record.
type CreateUserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

const minPasswordLength = 8

// Validate checks the request against the store preconditions: non-empty
// username, recognized role, password of at least 8 characters. The identity
// provider enforces its own stronger password policy on top of this.
func (r *CreateUserRequest) Validate() (Role, error) {
	if strings.TrimSpace(r.Username) == "" {
		return 0, fmt.Errorf("%w: username is required and cannot be empty", common.ErrorInvalidArgument)
	}
	if strings.TrimSpace(r.Role) == "" {
		return 0, fmt.Errorf("%w: role is required and cannot be empty", common.ErrorInvalidArgument)
	}
	if len(r.Password) < minPasswordLength {
		return 0, fmt.Errorf("%w: password is required and must be at least %d characters", common.ErrorInvalidArgument, minPasswordLength)
	}
	role, err := ParseRole(r.Role)
	if err != nil {
		return 0, err
	}
	return role, nil
}
