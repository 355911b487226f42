package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

// RoleRepository handles role-related database operations
type RoleRepository interface {
	CreateRole(role *models.Role) error
	GetRoleByID(id int) (*models.Role, error)
	GetRoleByName(name string) (*models.Role, error)
	GetRoles(active *bool, limit, offset int) ([]*models.Role, error)
	UpdateRole(role *models.Role) error
	DeactivateRole(id int) error

	AssignRoleToUser(userID string, roleID int, assignedBy *string, expiresAt *time.Time) error
	RemoveRoleFromUser(userID string, roleID int) error
	GetUserRoles(userID string, activeOnly bool) ([]*models.Role, error)
	GetRoleUsers(roleID int, activeOnly bool) ([]string, error)
}

type roleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) CreateRole(role *models.Role) error {
	query := `
		INSERT INTO roles (name, display_name, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(query, role.Name, role.DisplayName, role.Description, role.IsActive).
		Scan(&role.ID, &role.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

func (r *roleRepository) GetRoleByID(id int) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, name, display_name, description, is_active, created_at
		FROM roles
		WHERE id = $1`

	err := r.db.Get(role, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("role %d", id)
		}
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}

	return role, nil
}

func (r *roleRepository) GetRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, name, display_name, description, is_active, created_at
		FROM roles
		WHERE name = $1`

	err := r.db.Get(role, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("role %s", name)
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return role, nil
}

func (r *roleRepository) GetRoles(active *bool, limit, offset int) ([]*models.Role, error) {
	var roles []*models.Role
	var query string
	var args []interface{}

	baseQuery := `
		SELECT id, name, display_name, description, is_active, created_at
		FROM roles`

	conditions := []string{}
	argIndex := 1

	if active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *active)
		argIndex++
	}

	if len(conditions) > 0 {
		query = baseQuery + " WHERE " + strings.Join(conditions, " AND ")
	} else {
		query = baseQuery
	}

	query += " ORDER BY name"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++

		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	err := r.db.Select(&roles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	return roles, nil
}

func (r *roleRepository) UpdateRole(role *models.Role) error {
	query := `
		UPDATE roles
		SET name = $2, display_name = $3, description = $4, is_active = $5
		WHERE id = $1`

	result, err := r.db.Exec(query, role.ID, role.Name, role.DisplayName, role.Description, role.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("role %d", role.ID)
	}

	return nil
}

func (r *roleRepository) DeactivateRole(id int) error {
	query := `UPDATE roles SET is_active = false WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("role %d", id)
	}

	return nil
}

func (r *roleRepository) AssignRoleToUser(userID string, roleID int, assignedBy *string, expiresAt *time.Time) error {
	var expiresAtValue any
	if expiresAt != nil {
		expiresAtValue = expiresAt.Unix()
	} else {
		expiresAtValue = nil
	}
	assignedAt := time.Now().Unix()

	query := `
        INSERT INTO user_roles (user_id, role_id, assigned_by, assigned_at, expires_at, is_active)
        VALUES ($1, $2, $3, $4, $5, TRUE)
        ON CONFLICT (user_id, role_id) DO UPDATE SET
            assigned_by = EXCLUDED.assigned_by,
            assigned_at = EXCLUDED.assigned_at,
            expires_at = EXCLUDED.expires_at,
            is_active = true`

	_, err := r.db.Exec(query, userID, roleID, assignedBy, assignedAt, expiresAtValue)
	return err
}

func (r *roleRepository) RemoveRoleFromUser(userID string, roleID int) error {
	query := `UPDATE user_roles SET is_active = false WHERE user_id = $1 AND role_id = $2`

	result, err := r.db.Exec(query, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove role from user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("role assignment")
	}

	return nil
}

func (r *roleRepository) GetUserRoles(userID string, activeOnly bool) ([]*models.Role, error) {
	var roles []*models.Role
	var query string

	if activeOnly {
		query = `
			SELECT r.id, r.name, r.display_name, r.description, r.is_active, r.created_at
			FROM roles r
			INNER JOIN user_roles ur ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND ur.is_active = true AND r.is_active = true
			AND (ur.expires_at IS NULL OR ur.expires_at > EXTRACT(EPOCH FROM CURRENT_TIMESTAMP))
			ORDER BY r.name`
	} else {
		query = `
			SELECT r.id, r.name, r.display_name, r.description, r.is_active, r.created_at
			FROM roles r
			INNER JOIN user_roles ur ON r.id = ur.role_id
			WHERE ur.user_id = $1
			ORDER BY r.name`
	}

	err := r.db.Select(&roles, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return roles, nil
}

func (r *roleRepository) GetRoleUsers(roleID int, activeOnly bool) ([]string, error) {
	var userIDs []string
	var query string

	if activeOnly {
		query = `
			SELECT ur.user_id
			FROM user_roles ur
			WHERE ur.role_id = $1 AND ur.is_active = true
			AND (ur.expires_at IS NULL OR ur.expires_at > EXTRACT(EPOCH FROM CURRENT_TIMESTAMP))
			ORDER BY ur.assigned_at`
	} else {
		query = `
			SELECT ur.user_id
			FROM user_roles ur
			WHERE ur.role_id = $1
			ORDER BY ur.assigned_at`
	}

	err := r.db.Select(&userIDs, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role users: %w", err)
	}

	return userIDs, nil
}
