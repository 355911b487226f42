package repository

import (
	"database/sql"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type IEmployeeRepository interface {
	CreateEmployee(emp *models.Employee) error
	GetEmployeeByID(id string) (*models.Employee, error)
	GetEmployeeByEmail(email string) (*models.Employee, error)
	GetEmployees(departmentID string, limit, offset int) ([]*models.Employee, error)
	CountEmployees(departmentID string) (int, error)
	UpdateEmployee(emp *models.Employee) error
	TerminateEmployee(id string) error
}

type EmployeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) IEmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) CreateEmployee(emp *models.Employee) error {
	query := `
		INSERT INTO employees (id, first_name, last_name, email, phone, department_id,
		                       designation_id, manager_id, hire_date, salary, status, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :department_id,
		        :designation_id, :manager_id, :hire_date, :salary, :status, :created_at, :updated_at)
	`

	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()

	if _, err := r.db.NamedExec(query, emp); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) GetEmployeeByID(id string) (*models.Employee, error) {
	var emp models.Employee
	query := `SELECT * FROM employees WHERE id = $1`

	err := r.db.Get(&emp, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("employee %s", id)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &emp, nil
}

func (r *EmployeeRepository) GetEmployeeByEmail(email string) (*models.Employee, error) {
	var emp models.Employee
	query := `SELECT * FROM employees WHERE email = $1`

	err := r.db.Get(&emp, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("employee %s", email)
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return &emp, nil
}

func (r *EmployeeRepository) GetEmployees(departmentID string, limit, offset int) ([]*models.Employee, error) {
	var emps []*models.Employee
	var err error

	if departmentID != "" {
		query := `SELECT * FROM employees WHERE department_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.Select(&emps, query, departmentID, limit, offset)
	} else {
		query := `SELECT * FROM employees ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		err = r.db.Select(&emps, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	return emps, nil
}

func (r *EmployeeRepository) CountEmployees(departmentID string) (int, error) {
	var count int
	var err error

	if departmentID != "" {
		err = r.db.Get(&count, `SELECT COUNT(*) FROM employees WHERE department_id = $1`, departmentID)
	} else {
		err = r.db.Get(&count, `SELECT COUNT(*) FROM employees`)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

func (r *EmployeeRepository) UpdateEmployee(emp *models.Employee) error {
	emp.UpdatedAt = time.Now()

	query := `
		UPDATE employees
		SET first_name = :first_name, last_name = :last_name, phone = :phone,
		    department_id = :department_id, designation_id = :designation_id,
		    manager_id = :manager_id, salary = :salary, status = :status, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExec(query, emp)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("employee %s", emp.ID)
	}

	return nil
}

func (r *EmployeeRepository) TerminateEmployee(id string) error {
	query := `UPDATE employees SET status = 'terminated', updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to terminate employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("employee %s", id)
	}

	return nil
}
