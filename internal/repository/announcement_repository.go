package repository

import (
	"database/sql"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type IAnnouncementRepository interface {
	CreateAnnouncement(a *models.Announcement) error
	GetAnnouncementByID(id string) (*models.Announcement, error)
	GetAnnouncements(departmentID string, limit, offset int) ([]*models.Announcement, error)
	DeleteAnnouncement(id string) error
}

type AnnouncementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) IAnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) CreateAnnouncement(a *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, title, body, author_id, department_id, created_at)
		VALUES (:id, :title, :body, :author_id, :department_id, :created_at)
	`

	a.CreatedAt = time.Now()

	if _, err := r.db.NamedExec(query, a); err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

func (r *AnnouncementRepository) GetAnnouncementByID(id string) (*models.Announcement, error) {
	var a models.Announcement
	query := `SELECT * FROM announcements WHERE id = $1`

	err := r.db.Get(&a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("announcement %s", id)
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return &a, nil
}

func (r *AnnouncementRepository) GetAnnouncements(departmentID string, limit, offset int) ([]*models.Announcement, error) {
	var list []*models.Announcement
	var err error

	if departmentID != "" {
		query := `
			SELECT * FROM announcements
			WHERE department_id IS NULL OR department_id = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.Select(&list, query, departmentID, limit, offset)
	} else {
		query := `SELECT * FROM announcements ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		err = r.db.Select(&list, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}

	return list, nil
}

func (r *AnnouncementRepository) DeleteAnnouncement(id string) error {
	query := `DELETE FROM announcements WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("announcement %s", id)
	}

	return nil
}
