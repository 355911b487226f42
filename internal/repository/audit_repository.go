package repository

import (
	"fmt"

	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type IAuditRepository interface {
	CreateAuditLog(entry *models.AuditLog) error
	GetAuditLogsByUser(userID string, limit, offset int) ([]*models.AuditLog, error)
}

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) IAuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateAuditLog(entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, success, error_message, timestamp)
		VALUES (:user_id, :action, :resource_type, :resource_id, :success, :error_message, :timestamp)
	`

	if _, err := r.db.NamedExec(query, entry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

func (r *AuditRepository) GetAuditLogsByUser(userID string, limit, offset int) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	query := `SELECT * FROM audit_logs WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`

	if err := r.db.Select(&logs, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}
