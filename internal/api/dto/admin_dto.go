package dto

// CreateUnitRequest payload.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,oneof=SUPPORT CUSTOMER"`
}

// UnitResponse describes a unit.
type UnitResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateUserRequest payload. Admin accounts cannot be created here.
type CreateUserRequest struct {
	Username       string `json:"username" validate:"required,max=64"`
	Password       string `json:"password" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone"`
	Role           string `json:"role" validate:"required,oneof=USER EXPERT"`
	AssignedUnitID string `json:"assigned_unit_id"`
}

// UpdateUserRequest payload. Absent fields and absent permission flags stay
// unchanged; an empty assigned_unit_id clears the assignment.
type UpdateUserRequest struct {
	Name           *string              `json:"name" validate:"omitempty,min=1"`
	Phone          *string              `json:"phone"`
	AssignedUnitID *string              `json:"assigned_unit_id"`
	Permissions    *PermissionsPatchDTO `json:"permissions"`
}

// PermissionsPatchDTO changes only the flags present in the request.
type PermissionsPatchDTO struct {
	CanView      *bool `json:"can_view"`
	CanReply     *bool `json:"can_reply"`
	CanCreate    *bool `json:"can_create"`
	IsAdminPanel *bool `json:"is_admin_panel"`
}

// UserResponse describes an account. Passwords are never returned.
type UserResponse struct {
	Username       string         `json:"username"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone,omitempty"`
	Role           string         `json:"role"`
	AssignedUnitID string         `json:"assigned_unit_id,omitempty"`
	Permissions    PermissionsDTO `json:"permissions"`
}
