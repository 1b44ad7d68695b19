package domain

import (
	"encoding/json"
	"fmt"
)

// UserRole enumerates the three account kinds.
type UserRole string

const (
	RoleUser   UserRole = "USER"
	RoleExpert UserRole = "EXPERT"
	RoleAdmin  UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleExpert, RoleAdmin:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown roles.
func (r *UserRole) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !UserRole(raw).Valid() {
		return fmt.Errorf("unknown role %q", raw)
	}
	*r = UserRole(raw)
	return nil
}

// Permissions are independent capability flags. None implies another.
type Permissions struct {
	CanView      bool `json:"canView"`
	CanReply     bool `json:"canReply"`
	CanCreate    bool `json:"canCreate"`
	IsAdminPanel bool `json:"isAdminPanel"`
}

// AllPermissions grants every flag.
func AllPermissions() Permissions {
	return Permissions{CanView: true, CanReply: true, CanCreate: true, IsAdminPanel: true}
}

// DefaultPermissionsFor returns the flags an admin-created account starts with.
// Only USER and EXPERT accounts are created through the admin panel.
func DefaultPermissionsFor(role UserRole) Permissions {
	switch role {
	case RoleUser:
		return Permissions{CanView: true, CanReply: true, CanCreate: true}
	case RoleExpert:
		return Permissions{CanView: true, CanReply: true}
	case RoleAdmin:
		return AllPermissions()
	}
	return Permissions{}
}

// ManagedUser is an account defined by an administrator. Username is the key
// and Role never changes after creation.
type ManagedUser struct {
	Username       string      `json:"username"`
	Password       string      `json:"password"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	Role           UserRole    `json:"role"`
	AssignedUnitID string      `json:"assignedUnitId,omitempty"`
	Permissions    Permissions `json:"permissions"`
}

// DefaultUsers is the bootstrap account list.
func DefaultUsers() []ManagedUser {
	return []ManagedUser{{
		Username:    "admin",
		Password:    "123",
		Name:        "System Administrator",
		Phone:       "09120000000",
		Role:        RoleAdmin,
		Permissions: AllPermissions(),
	}}
}

// FindUser returns the index of the user with the given username, or -1.
func FindUser(users []ManagedUser, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}
