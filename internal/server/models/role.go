package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/common"
)

// Role is the closed set of roles a user record may carry. The zero value is
// not a valid role; every string entering the system must pass through
// ParseRole.
type Role int

const (
	RoleGuest Role = iota + 1
	RoleUser
	RoleSuperUser
	RoleGlobalAdmin
)

var roleNames = map[Role]string{
	RoleGuest:       "guest",
	RoleUser:        "user",
	RoleSuperUser:   "superuser",
	RoleGlobalAdmin: "globaladmin",
}

// ParseRole is the single canonical string-to-role mapping. Matching is
// case-insensitive; anything outside the four known values is rejected.
func ParseRole(s string) (Role, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == n {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid values: guest, user, superuser, globaladmin)", common.ErrInvalidRole, s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: cannot marshal role %d", common.ErrInvalidRole, int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
