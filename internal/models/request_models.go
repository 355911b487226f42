package models

import (
	"time"
)

// Authentication DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

// Role Management DTOs
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRoleRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
}

type AssignRoleRequest struct {
	AssignedBy *string    `json:"assigned_by"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// Employee DTOs
type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Phone         string  `json:"phone"`
	DepartmentID  string  `json:"department_id" binding:"required"`
	DesignationID string  `json:"designation_id" binding:"required"`
	ManagerID     *string `json:"manager_id"`
	HireDate      string  `json:"hire_date"`
	Salary        float64 `json:"salary"`
}

type UpdateEmployeeRequest struct {
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Phone         *string  `json:"phone"`
	DepartmentID  *string  `json:"department_id"`
	DesignationID *string  `json:"designation_id"`
	ManagerID     *string  `json:"manager_id"`
	Salary        *float64 `json:"salary"`
}

// Task DTOs
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssigneeID  string `json:"assignee_id" binding:"required"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Manager note DTOs
type CreateNoteRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// Department DTOs
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateDesignationRequest struct {
	Title        string `json:"title" binding:"required"`
	DepartmentID string `json:"department_id"`
}

// Announcement DTOs
type CreateAnnouncementRequest struct {
	Title        string  `json:"title" binding:"required"`
	Body         string  `json:"body" binding:"required"`
	DepartmentID *string `json:"department_id"`
}

// Response DTOs
type PaginatedRolesResponse struct {
	Roles  []*Role `json:"roles"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type GetAllUsersResponse struct {
	Users  []*User `json:"users"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type PaginatedEmployeesResponse struct {
	Employees []*Employee `json:"employees"`
	Total     int         `json:"total"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}
