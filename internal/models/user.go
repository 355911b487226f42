package models

import (
	"time"
)

type User struct {
	ID            string     `json:"id" db:"id"`
	Username      string     `json:"username" db:"username"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Status        UserStatus `json:"status" db:"status"`
	EmployeeID    *string    `json:"employee_id" db:"employee_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	LastLogin     *time.Time `json:"last_login" db:"last_login"`
	LoginAttempts int        `json:"login_attempts" db:"login_attempts"`
	LockedUntil   int64      `json:"locked_until" db:"locked_until"`
}

type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusSuspended   UserStatus = "suspended"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Locked reports whether a temporary lock is still in effect at the given instant.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil > now.Unix()
}
