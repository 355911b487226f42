package services

import (
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"
	"staffhub/internal/repository"
)

// RoleService provides business logic for role management
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
	}
}

// CreateRole creates a new role with validation
func (s *RoleService) CreateRole(name, displayName, description string) (*models.Role, error) {
	if name == "" {
		return nil, apperrors.BadRequest("role name cannot be empty")
	}
	if displayName == "" {
		return nil, apperrors.BadRequest("role display name cannot be empty")
	}

	existing, err := s.roleRepo.GetRoleByName(name)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("role %s already exists", name)
	}

	role := &models.Role{
		Name:        name,
		DisplayName: displayName,
		Description: description,
		IsActive:    true,
	}

	err = s.roleRepo.CreateRole(role)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// GetRole retrieves a role by ID
func (s *RoleService) GetRole(id int) (*models.Role, error) {
	return s.roleRepo.GetRoleByID(id)
}

// GetRoleByName retrieves a role by name
func (s *RoleService) GetRoleByName(name string) (*models.Role, error) {
	return s.roleRepo.GetRoleByName(name)
}

// GetAllRoles retrieves all roles with optional filtering
func (s *RoleService) GetAllRoles(activeOnly bool, limit, offset int) ([]*models.Role, error) {
	var active *bool
	if activeOnly {
		active = &activeOnly
	}
	return s.roleRepo.GetRoles(active, limit, offset)
}

// UpdateRole updates an existing role
func (s *RoleService) UpdateRole(role *models.Role) error {
	if role.ID <= 0 {
		return apperrors.BadRequest("invalid role ID")
	}
	if role.Name == "" {
		return apperrors.BadRequest("role name cannot be empty")
	}
	if role.DisplayName == "" {
		return apperrors.BadRequest("role display name cannot be empty")
	}

	return s.roleRepo.UpdateRole(role)
}

// DeactivateRole deactivates a role
func (s *RoleService) DeactivateRole(id int) error {
	return s.roleRepo.DeactivateRole(id)
}

// AssignRoleToUser assigns a role to a user
func (s *RoleService) AssignRoleToUser(userID string, roleID int, assignedBy *string, expiresAt *time.Time) error {
	role, err := s.roleRepo.GetRoleByID(roleID)
	if err != nil {
		return fmt.Errorf("role not found: %w", err)
	}
	if !role.IsActive {
		return apperrors.BadRequest("cannot assign inactive role")
	}

	return s.roleRepo.AssignRoleToUser(userID, roleID, assignedBy, expiresAt)
}

// AssignRoleByName assigns a role to a user by role name
func (s *RoleService) AssignRoleByName(userID, roleName string, assignedBy *string) error {
	role, err := s.roleRepo.GetRoleByName(roleName)
	if err != nil {
		return fmt.Errorf("role not found: %w", err)
	}
	if !role.IsActive {
		return apperrors.BadRequest("cannot assign inactive role")
	}

	return s.roleRepo.AssignRoleToUser(userID, role.ID, assignedBy, nil)
}

// RemoveRoleFromUser removes a role from a user
func (s *RoleService) RemoveRoleFromUser(userID string, roleID int) error {
	return s.roleRepo.RemoveRoleFromUser(userID, roleID)
}

// GetUserRoles retrieves all roles assigned to a user
func (s *RoleService) GetUserRoles(userID string, activeOnly bool) ([]*models.Role, error) {
	return s.roleRepo.GetUserRoles(userID, activeOnly)
}

// GetRoleUsers retrieves the user IDs holding a role
func (s *RoleService) GetRoleUsers(roleID int, activeOnly bool) ([]string, error) {
	return s.roleRepo.GetRoleUsers(roleID, activeOnly)
}
