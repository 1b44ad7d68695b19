package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/events"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

// DirectoryService manages units and managed user accounts.
type DirectoryService struct {
	state         *State
	events        publisher
	hashPasswords bool
	bcryptCost    int
	newID         func() string
}

// UserCreateInput describes a new account. Only USER and EXPERT can be created.
type UserCreateInput struct {
	Username       string
	Password       string
	Name           string
	Phone          string
	Role           domain.UserRole
	AssignedUnitID string
}

// UserUpdateInput carries the editable fields. Nil leaves a field unchanged;
// an empty AssignedUnitID clears the assignment.
type UserUpdateInput struct {
	Name           *string
	Phone          *string
	AssignedUnitID *string
	Permissions    *PermissionsPatch
}

// PermissionsPatch changes individual flags. Nil flags keep their value.
type PermissionsPatch struct {
	CanView      *bool
	CanReply     *bool
	CanCreate    *bool
	IsAdminPanel *bool
}

// ReplacePermissions is a patch that sets every flag to the values of p.
func ReplacePermissions(p domain.Permissions) *PermissionsPatch {
	return &PermissionsPatch{
		CanView:      &p.CanView,
		CanReply:     &p.CanReply,
		CanCreate:    &p.CanCreate,
		IsAdminPanel: &p.IsAdminPanel,
	}
}

func (p PermissionsPatch) apply(current domain.Permissions) domain.Permissions {
	if p.CanView != nil {
		current.CanView = *p.CanView
	}
	if p.CanReply != nil {
		current.CanReply = *p.CanReply
	}
	if p.CanCreate != nil {
		current.CanCreate = *p.CanCreate
	}
	if p.IsAdminPanel != nil {
		current.IsAdminPanel = *p.IsAdminPanel
	}
	return current
}

// NewDirectoryService builds the service.
func NewDirectoryService(cfg config.AuthConfig, state *State, dispatcher events.Dispatcher) *DirectoryService {
	return &DirectoryService{
		state:         state,
		events:        publisher{dispatcher: dispatcher, logger: state.logger, now: state.now},
		hashPasswords: cfg.HashPasswords,
		bcryptCost:    cfg.BcryptCost,
		newID:         uuid.NewString,
	}
}

// ListUnits returns every unit in insertion order.
func (s *DirectoryService) ListUnits() []domain.Unit {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]domain.Unit{}, s.state.units...)
}

// SupportUnits returns the units a ticket can be filed against.
func (s *DirectoryService) SupportUnits() []domain.Unit {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]domain.Unit, 0, len(s.state.units))
	for _, u := range s.state.units {
		if u.Type == domain.UnitTypeSupport {
			out = append(out, u)
		}
	}
	return out
}

// CreateUnit appends a unit with a generated id.
func (s *DirectoryService) CreateUnit(ctx context.Context, actor domain.AuthState, name string, unitType domain.UnitType) (domain.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Unit{}, apperrors.NewValidationError("unit name is required", nil)
	}
	if !unitType.Valid() {
		return domain.Unit{}, apperrors.NewValidationError("unknown unit type", map[string]any{"type": unitType})
	}

	s.state.mu.Lock()
	unit := domain.Unit{ID: s.unitID(), Name: name, Type: unitType}
	units := append(append(make([]domain.Unit, 0, len(s.state.units)+1), s.state.units...), unit)
	err := s.state.setUnits(ctx, units)
	s.state.mu.Unlock()
	if err != nil {
		return domain.Unit{}, err
	}

	s.state.logger.Info("unit created", zap.String("unit_id", unit.ID), zap.String("type", string(unit.Type)))
	s.events.publish(ctx, events.Event{
		Type:    events.EventUnitCreated,
		Subject: unit.ID,
		Actor:   actorOf(actor),
		Payload: events.UnitPayload{UnitID: unit.ID, Name: unit.Name, Type: unit.Type},
	})
	return unit, nil
}

// DeleteUnit removes a unit. Tickets and accounts pointing at it keep the
// dangling reference.
func (s *DirectoryService) DeleteUnit(ctx context.Context, actor domain.AuthState, unitID string) error {
	s.state.mu.Lock()
	units := make([]domain.Unit, 0, len(s.state.units))
	for _, u := range s.state.units {
		if u.ID != unitID {
			units = append(units, u)
		}
	}
	if len(units) == len(s.state.units) {
		s.state.mu.Unlock()
		return apperrors.NewNotFound("unit", map[string]any{"id": unitID})
	}
	err := s.state.setUnits(ctx, units)
	s.state.mu.Unlock()
	if err != nil {
		return err
	}

	s.state.logger.Info("unit deleted", zap.String("unit_id", unitID))
	s.events.publish(ctx, events.Event{
		Type:    events.EventUnitDeleted,
		Subject: unitID,
		Actor:   actorOf(actor),
		Payload: events.UnitPayload{UnitID: unitID},
	})
	return nil
}

// ListUsers returns every account in insertion order.
func (s *DirectoryService) ListUsers() []domain.ManagedUser {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]domain.ManagedUser{}, s.state.users...)
}

// CreateUser adds an account with the default flags of its role.
func (s *DirectoryService) CreateUser(ctx context.Context, actor domain.AuthState, input UserCreateInput) (domain.ManagedUser, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Name = strings.TrimSpace(input.Name)
	if input.Username == "" || input.Password == "" || input.Name == "" {
		return domain.ManagedUser{}, apperrors.NewValidationError("username, password and name are required", nil)
	}
	if input.Role != domain.RoleUser && input.Role != domain.RoleExpert {
		return domain.ManagedUser{}, apperrors.NewValidationError("role must be USER or EXPERT", map[string]any{"role": input.Role})
	}

	password := input.Password
	if s.hashPasswords {
		hashed, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return domain.ManagedUser{}, apperrors.NewInternalError(err)
		}
		password = hashed
	}

	user := domain.ManagedUser{
		Username:       input.Username,
		Password:       password,
		Name:           input.Name,
		Phone:          strings.TrimSpace(input.Phone),
		Role:           input.Role,
		AssignedUnitID: strings.TrimSpace(input.AssignedUnitID),
		Permissions:    domain.DefaultPermissionsFor(input.Role),
	}

	s.state.mu.Lock()
	if domain.FindUser(s.state.users, user.Username) >= 0 {
		s.state.mu.Unlock()
		return domain.ManagedUser{}, apperrors.NewConflict("username already exists", map[string]any{"username": user.Username})
	}
	if err := s.checkUnit(user.AssignedUnitID); err != nil {
		s.state.mu.Unlock()
		return domain.ManagedUser{}, err
	}
	users := append(append(make([]domain.ManagedUser, 0, len(s.state.users)+1), s.state.users...), user)
	err := s.state.setUsers(ctx, users)
	s.state.mu.Unlock()
	if err != nil {
		return domain.ManagedUser{}, err
	}

	s.state.logger.Info("user created", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	s.events.publish(ctx, events.Event{
		Type:    events.EventUserCreated,
		Subject: user.Username,
		Actor:   actorOf(actor),
		Payload: userPayload(user),
	})
	return user, nil
}

// UpdateUser edits name, phone, unit assignment and individual permission
// flags. The
// active session is a snapshot and does not pick the change up.
func (s *DirectoryService) UpdateUser(ctx context.Context, actor domain.AuthState, username string, input UserUpdateInput) (domain.ManagedUser, error) {
	s.state.mu.Lock()
	idx := domain.FindUser(s.state.users, username)
	if idx < 0 {
		s.state.mu.Unlock()
		return domain.ManagedUser{}, apperrors.NewNotFound("user", map[string]any{"username": username})
	}

	user := s.state.users[idx]
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			s.state.mu.Unlock()
			return domain.ManagedUser{}, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.AssignedUnitID != nil {
		unitID := strings.TrimSpace(*input.AssignedUnitID)
		if err := s.checkUnit(unitID); err != nil {
			s.state.mu.Unlock()
			return domain.ManagedUser{}, err
		}
		user.AssignedUnitID = unitID
	}
	if input.Permissions != nil {
		user.Permissions = input.Permissions.apply(user.Permissions)
	}

	users := make([]domain.ManagedUser, len(s.state.users))
	copy(users, s.state.users)
	users[idx] = user
	err := s.state.setUsers(ctx, users)
	s.state.mu.Unlock()
	if err != nil {
		return domain.ManagedUser{}, err
	}

	s.state.logger.Info("user updated", zap.String("username", user.Username))
	s.events.publish(ctx, events.Event{
		Type:    events.EventUserUpdated,
		Subject: user.Username,
		Actor:   actorOf(actor),
		Payload: userPayload(user),
	})
	return user, nil
}

// DeleteUser removes an account. The account behind the active session
// cannot delete itself.
func (s *DirectoryService) DeleteUser(ctx context.Context, actor domain.AuthState, username string) error {
	if actor.IsLoggedIn && actor.Username == username {
		return apperrors.NewConflict("cannot delete the signed-in account", map[string]any{"username": username})
	}

	s.state.mu.Lock()
	idx := domain.FindUser(s.state.users, username)
	if idx < 0 {
		s.state.mu.Unlock()
		return apperrors.NewNotFound("user", map[string]any{"username": username})
	}
	users := make([]domain.ManagedUser, 0, len(s.state.users)-1)
	users = append(users, s.state.users[:idx]...)
	users = append(users, s.state.users[idx+1:]...)
	err := s.state.setUsers(ctx, users)
	s.state.mu.Unlock()
	if err != nil {
		return err
	}

	s.state.logger.Info("user deleted", zap.String("username", username))
	s.events.publish(ctx, events.Event{
		Type:    events.EventUserDeleted,
		Subject: username,
		Actor:   actorOf(actor),
		Payload: events.UserPayload{Username: username},
	})
	return nil
}

// unitID must be called with mu held.
func (s *DirectoryService) unitID() string {
	for {
		id := "u-" + strings.SplitN(s.newID(), "-", 2)[0]
		if _, taken := domain.FindUnit(s.state.units, id); !taken {
			return id
		}
	}
}

// checkUnit must be called with mu held. An empty id means unassigned.
func (s *DirectoryService) checkUnit(unitID string) error {
	if unitID == "" {
		return nil
	}
	if _, ok := domain.FindUnit(s.state.units, unitID); !ok {
		return apperrors.NewValidationError("unknown unit", map[string]any{"assignedUnitId": unitID})
	}
	return nil
}

func userPayload(user domain.ManagedUser) events.UserPayload {
	return events.UserPayload{
		Username:       user.Username,
		Role:           user.Role,
		AssignedUnitID: user.AssignedUnitID,
		Permissions:    user.Permissions,
	}
}
