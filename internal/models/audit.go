package models

import "time"

type AuditLog struct {
	ID           int       `json:"id" db:"id"`
	UserID       *string   `json:"user_id" db:"user_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType *string   `json:"resource_type" db:"resource_type"`
	ResourceID   *string   `json:"resource_id" db:"resource_id"`
	Success      bool      `json:"success" db:"success"`
	ErrorMessage *string   `json:"error_message" db:"error_message"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

const (
	AuditActionRegister       = "auth.register"
	AuditActionLogin          = "auth.login"
	AuditActionRefresh        = "auth.refresh"
	AuditActionLogout         = "auth.logout"
	AuditActionChangePassword = "auth.change_password"
)
