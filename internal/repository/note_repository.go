package repository

import (
	"database/sql"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type INoteRepository interface {
	CreateNote(note *models.ManagerNote) error
	GetNoteByID(id string) (*models.ManagerNote, error)
	GetNotesByEmployee(employeeID string, limit, offset int) ([]*models.ManagerNote, error)
	GetNotesByAuthor(authorID string, limit, offset int) ([]*models.ManagerNote, error)
	UpdateNote(note *models.ManagerNote) error
	DeleteNote(id string) error
}

type NoteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) INoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) CreateNote(note *models.ManagerNote) error {
	query := `
		INSERT INTO manager_notes (id, employee_id, author_id, content, created_at, updated_at)
		VALUES (:id, :employee_id, :author_id, :content, :created_at, :updated_at)
	`

	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	if _, err := r.db.NamedExec(query, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *NoteRepository) GetNoteByID(id string) (*models.ManagerNote, error) {
	var note models.ManagerNote
	query := `SELECT * FROM manager_notes WHERE id = $1`

	err := r.db.Get(&note, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("note %s", id)
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

func (r *NoteRepository) GetNotesByEmployee(employeeID string, limit, offset int) ([]*models.ManagerNote, error) {
	var notes []*models.ManagerNote
	query := `SELECT * FROM manager_notes WHERE employee_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := r.db.Select(&notes, query, employeeID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}

	return notes, nil
}

func (r *NoteRepository) GetNotesByAuthor(authorID string, limit, offset int) ([]*models.ManagerNote, error) {
	var notes []*models.ManagerNote
	query := `SELECT * FROM manager_notes WHERE author_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := r.db.Select(&notes, query, authorID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}

	return notes, nil
}

func (r *NoteRepository) UpdateNote(note *models.ManagerNote) error {
	note.UpdatedAt = time.Now()

	query := `UPDATE manager_notes SET content = :content, updated_at = :updated_at WHERE id = :id`

	result, err := r.db.NamedExec(query, note)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("note %s", note.ID)
	}

	return nil
}

func (r *NoteRepository) DeleteNote(id string) error {
	query := `DELETE FROM manager_notes WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("note %s", id)
	}

	return nil
}
