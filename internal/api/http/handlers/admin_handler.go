package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/api/dto"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/service"
)

// AdminHandler serves unit and account management.
type AdminHandler struct {
	directory *service.DirectoryService
	validator *Validator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService, validator *Validator) *AdminHandler {
	return &AdminHandler{directory: directory, validator: validator}
}

// ListUnits GET /admin/units.
func (h *AdminHandler) ListUnits(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": unitResponses(h.directory.ListUnits())})
}

// CreateUnit POST /admin/units.
func (h *AdminHandler) CreateUnit(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUnitRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	unit, err := h.directory.CreateUnit(c.UserContext(), actor, req.Name, domain.UnitType(req.Type))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": unitResponse(unit)})
}

// DeleteUnit DELETE /admin/units/:id.
func (h *AdminHandler) DeleteUnit(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteUnit(c.UserContext(), actor, param(c, "id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users := h.directory.ListUsers()
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	user, err := h.directory.CreateUser(c.UserContext(), actor, service.UserCreateInput{
		Username:       req.Username,
		Password:       req.Password,
		Name:           req.Name,
		Phone:          req.Phone,
		Role:           domain.UserRole(req.Role),
		AssignedUnitID: req.AssignedUnitID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUser PATCH /admin/users/:username.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	input := service.UserUpdateInput{
		Name:           req.Name,
		Phone:          req.Phone,
		AssignedUnitID: req.AssignedUnitID,
	}
	if req.Permissions != nil {
		input.Permissions = &service.PermissionsPatch{
			CanView:      req.Permissions.CanView,
			CanReply:     req.Permissions.CanReply,
			CanCreate:    req.Permissions.CanCreate,
			IsAdminPanel: req.Permissions.IsAdminPanel,
		}
	}
	user, err := h.directory.UpdateUser(c.UserContext(), actor, param(c, "username"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /admin/users/:username.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteUser(c.UserContext(), actor, param(c, "username")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
