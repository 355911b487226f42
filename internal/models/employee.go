package models

import "time"

type Employee struct {
	ID            string    `json:"id" db:"id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	DepartmentID  string    `json:"department_id" db:"department_id"`
	DesignationID string    `json:"designation_id" db:"designation_id"`
	ManagerID     *string   `json:"manager_id" db:"manager_id"`
	HireDate      string    `json:"hire_date" db:"hire_date"`
	Salary        float64   `json:"salary" db:"salary"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusOnLeave    = "on_leave"
	EmployeeStatusTerminated = "terminated"
)

type Department struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Designation struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	AssigneeID  string     `json:"assignee_id" db:"assignee_id"`
	AssignerID  string     `json:"assigner_id" db:"assigner_id"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	DueDate     *string    `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

type ManagerNote struct {
	ID         string    `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	AuthorID   string    `json:"author_id" db:"author_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Announcement struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Body         string    `json:"body" db:"body"`
	AuthorID     string    `json:"author_id" db:"author_id"`
	DepartmentID *string   `json:"department_id" db:"department_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
