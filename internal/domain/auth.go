package domain

import "time"

// AuthState is the active session. It is a copy of the matched ManagedUser
// taken at login: admin edits to the account (permissions, unit assignment,
// name) do not reach a running session until the user logs in again.
type AuthState struct {
	IsLoggedIn     bool        `json:"isLoggedIn"`
	Username       string      `json:"username"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	Role           UserRole    `json:"role"`
	AssignedUnitID string      `json:"assignedUnitId,omitempty"`
	Permissions    Permissions `json:"permissions"`
	SessionID      string      `json:"sessionId,omitempty"`
	LoggedInAt     *time.Time  `json:"loggedInAt,omitempty"`
}

// LoggedOut is the session value used before login and after logout.
func LoggedOut() AuthState {
	return AuthState{Role: RoleUser}
}

// SessionFor snapshots user into a logged-in session.
func SessionFor(user ManagedUser, sessionID string, now time.Time) AuthState {
	return AuthState{
		IsLoggedIn:     true,
		Username:       user.Username,
		Name:           user.Name,
		Phone:          user.Phone,
		Role:           user.Role,
		AssignedUnitID: user.AssignedUnitID,
		Permissions:    user.Permissions,
		SessionID:      sessionID,
		LoggedInAt:     &now,
	}
}
