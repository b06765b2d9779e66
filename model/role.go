package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of caller roles. Compare roles only through this type.
type Role string

const (
	RoleGlobalAdmin Role = "global-admin"
	RoleTenantAdmin Role = "tenant-admin"
	RoleManager     Role = "manager"
	RoleStaff       Role = "staff"
	RoleCustomer    Role = "customer"
)

var roles = []Role{RoleGlobalAdmin, RoleTenantAdmin, RoleManager, RoleStaff, RoleCustomer}

// StaffRoles are the tenant-bound roles that receive order notifications.
var StaffRoles = []Role{RoleTenantAdmin, RoleManager, RoleStaff}

// ParseRole maps any casing and "_" or " " separators onto the canonical form,
// so "TENANT_ADMIN" and "Tenant Admin" both become RoleTenantAdmin.
func ParseRole(s string) (Role, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, r := range roles {
		if string(r) == norm {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool { return r.In(roles...) }

func (r Role) IsGlobal() bool { return r == RoleGlobalAdmin }

func (r Role) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
