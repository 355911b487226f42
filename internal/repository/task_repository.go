package repository

import (
	"database/sql"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type ITaskRepository interface {
	CreateTask(task *models.Task) error
	GetTaskByID(id string) (*models.Task, error)
	GetTasksByAssignee(assigneeID string, limit, offset int) ([]*models.Task, error)
	GetTasksByAssigner(assignerID string, limit, offset int) ([]*models.Task, error)
	UpdateTask(task *models.Task) error
	UpdateTaskStatus(id string, status models.TaskStatus, completedAt *time.Time) error
	DeleteTask(id string) error
}

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) ITaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, assignee_id, assigner_id, status, priority, due_date, created_at, updated_at)
		VALUES (:id, :title, :description, :assignee_id, :assigner_id, :status, :priority, :due_date, :created_at, :updated_at)
	`

	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	if _, err := r.db.NamedExec(query, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) GetTaskByID(id string) (*models.Task, error) {
	var task models.Task
	query := `SELECT * FROM tasks WHERE id = $1`

	err := r.db.Get(&task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("task %s", id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) GetTasksByAssignee(assigneeID string, limit, offset int) ([]*models.Task, error) {
	var tasks []*models.Task
	query := `SELECT * FROM tasks WHERE assignee_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := r.db.Select(&tasks, query, assigneeID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get tasks by assignee: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) GetTasksByAssigner(assignerID string, limit, offset int) ([]*models.Task, error) {
	var tasks []*models.Task
	query := `SELECT * FROM tasks WHERE assigner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := r.db.Select(&tasks, query, assignerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get tasks by assigner: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) UpdateTask(task *models.Task) error {
	task.UpdatedAt = time.Now()

	query := `
		UPDATE tasks
		SET title = :title, description = :description, assignee_id = :assignee_id,
		    status = :status, priority = :priority, due_date = :due_date,
		    completed_at = :completed_at, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExec(query, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("task %s", task.ID)
	}

	return nil
}

// UpdateTaskStatus writes the status and the completion timestamp together.
// A nil completedAt clears the column, so reopening a done task resets it.
func (r *TaskRepository) UpdateTaskStatus(id string, status models.TaskStatus, completedAt *time.Time) error {
	query := `UPDATE tasks SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(query, status, completedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("task %s", id)
	}

	return nil
}

func (r *TaskRepository) DeleteTask(id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("task %s", id)
	}

	return nil
}
