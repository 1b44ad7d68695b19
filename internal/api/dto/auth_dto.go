package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PermissionsDTO mirrors the four capability flags.
type PermissionsDTO struct {
	CanView      bool `json:"can_view"`
	CanReply     bool `json:"can_reply"`
	CanCreate    bool `json:"can_create"`
	IsAdminPanel bool `json:"is_admin_panel"`
}

// SessionResponse describes the active session.
type SessionResponse struct {
	IsLoggedIn       bool           `json:"is_logged_in"`
	Username         string         `json:"username"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone,omitempty"`
	Role             string         `json:"role"`
	AssignedUnitID   string         `json:"assigned_unit_id,omitempty"`
	AssignedUnitName string         `json:"assigned_unit_name,omitempty"`
	Permissions      PermissionsDTO `json:"permissions"`
	LoggedInAt       *time.Time     `json:"logged_in_at,omitempty"`
}

// LoginResponse carries the bearer token and the new session.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}
