package repository

import (
	"database/sql"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type IDepartmentRepository interface {
	CreateDepartment(dept *models.Department) error
	GetDepartmentByID(id string) (*models.Department, error)
	GetDepartmentByName(name string) (*models.Department, error)
	GetDepartments() ([]*models.Department, error)
	DeleteDepartment(id string) error

	CreateDesignation(des *models.Designation) error
	GetDesignationByID(id string) (*models.Designation, error)
	GetDesignationsByDepartment(departmentID string) ([]*models.Designation, error)
}

type DepartmentRepository struct {
	db *sqlx.DB
}

func NewDepartmentRepository(db *sqlx.DB) IDepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) CreateDepartment(dept *models.Department) error {
	query := `
		INSERT INTO departments (id, name, description, created_at)
		VALUES (:id, :name, :description, :created_at)
	`

	dept.CreatedAt = time.Now()

	if _, err := r.db.NamedExec(query, dept); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	return nil
}

func (r *DepartmentRepository) GetDepartmentByID(id string) (*models.Department, error) {
	var dept models.Department
	query := `SELECT * FROM departments WHERE id = $1`

	err := r.db.Get(&dept, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("department %s", id)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &dept, nil
}

func (r *DepartmentRepository) GetDepartmentByName(name string) (*models.Department, error) {
	var dept models.Department
	query := `SELECT * FROM departments WHERE name = $1`

	err := r.db.Get(&dept, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("department %s", name)
		}
		return nil, fmt.Errorf("failed to get department by name: %w", err)
	}

	return &dept, nil
}

func (r *DepartmentRepository) GetDepartments() ([]*models.Department, error) {
	var depts []*models.Department
	query := `SELECT * FROM departments ORDER BY name`

	if err := r.db.Select(&depts, query); err != nil {
		return nil, fmt.Errorf("failed to get departments: %w", err)
	}

	return depts, nil
}

func (r *DepartmentRepository) DeleteDepartment(id string) error {
	query := `DELETE FROM departments WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("department %s", id)
	}

	return nil
}

func (r *DepartmentRepository) CreateDesignation(des *models.Designation) error {
	query := `
		INSERT INTO designations (id, title, department_id, created_at)
		VALUES (:id, :title, :department_id, :created_at)
	`

	des.CreatedAt = time.Now()

	if _, err := r.db.NamedExec(query, des); err != nil {
		return fmt.Errorf("failed to create designation: %w", err)
	}

	return nil
}

func (r *DepartmentRepository) GetDesignationByID(id string) (*models.Designation, error) {
	var des models.Designation
	query := `SELECT * FROM designations WHERE id = $1`

	err := r.db.Get(&des, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("designation %s", id)
		}
		return nil, fmt.Errorf("failed to get designation: %w", err)
	}

	return &des, nil
}

func (r *DepartmentRepository) GetDesignationsByDepartment(departmentID string) ([]*models.Designation, error) {
	var dess []*models.Designation
	query := `SELECT * FROM designations WHERE department_id = $1 ORDER BY title`

	if err := r.db.Select(&dess, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to get designations: %w", err)
	}

	return dess, nil
}
