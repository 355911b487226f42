package services

import (
	"context"
	"log"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/event"
	"staffhub/internal/models"
	"staffhub/internal/repository"
	"staffhub/utils"
)

type TaskService struct {
	taskRepo       repository.ITaskRepository
	employeeRepo   repository.IEmployeeRepository
	eventPublisher *event.StaffEventPublisher
}

func NewTaskService(taskRepo repository.ITaskRepository, employeeRepo repository.IEmployeeRepository, eventPublisher *event.StaffEventPublisher) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		employeeRepo:   employeeRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, actor authz.Actor, req *models.CreateTaskRequest) (*models.Task, error) {
	assignee, err := s.employeeRepo.GetEmployeeByID(req.AssigneeID)
	if err != nil {
		return nil, apperrors.BadRequest("assignee %s does not exist", req.AssigneeID)
	}

	decision := authz.Decide(actor, authz.ActionTaskCreate, authz.Resource{DepartmentID: assignee.DepartmentID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	task := &models.Task{
		ID:          "TK" + utils.GenerateRandomStringWithLength(8),
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		AssignerID:  actor.EmployeeID,
		Status:      models.TaskStatusPending,
		Priority:    req.Priority,
	}
	if req.DueDate != "" {
		task.DueDate = &req.DueDate
	}
	if task.Priority == "" {
		task.Priority = "normal"
	}

	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.eventPublisher.Publish(ctx, event.StaffEvent{
				Type:    event.EventTaskAssigned,
				Subject: task.ID,
				Payload: map[string]any{"assignee_id": task.AssigneeID},
			}); err != nil {
				log.Printf("failed to publish task assigned event: %v", err)
			}
		}()
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, actor authz.Actor, id string) (*models.Task, error) {
	return s.taskRepo.GetTaskByID(id)
}

func (s *TaskService) ListTasksForEmployee(ctx context.Context, actor authz.Actor, employeeID string, limit, offset int) ([]*models.Task, error) {
	return s.taskRepo.GetTasksByAssignee(employeeID, limit, offset)
}

// ListTasksAssignedBy returns the tasks the actor handed out.
func (s *TaskService) ListTasksAssignedBy(ctx context.Context, actor authz.Actor, limit, offset int) ([]*models.Task, error) {
	if actor.EmployeeID == "" {
		return nil, apperrors.BadRequest("no employee record linked to this account")
	}
	return s.taskRepo.GetTasksByAssigner(actor.EmployeeID, limit, offset)
}

// UpdateTaskStatus lets the task's assignee or assigner move the task through
// its lifecycle. Everybody else, managers included, is denied.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, actor authz.Actor, id, status string) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, apperrors.BadRequest("invalid task status %s", status)
	}

	task, err := s.taskRepo.GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	decision := authz.Decide(actor, authz.ActionTaskStatus, authz.Resource{
		AssigneeID: task.AssigneeID,
		AssignerID: task.AssignerID,
	})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	var completedAt *time.Time
	if models.TaskStatus(status) == models.TaskStatusDone {
		now := time.Now()
		completedAt = &now
	}
	if err := s.taskRepo.UpdateTaskStatus(id, models.TaskStatus(status), completedAt); err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	task.CompletedAt = completedAt
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, actor authz.Actor, id string) error {
	task, err := s.taskRepo.GetTaskByID(id)
	if err != nil {
		return err
	}

	res := authz.Resource{OwnerID: task.AssignerID}
	if assignee, err := s.employeeRepo.GetEmployeeByID(task.AssigneeID); err == nil {
		res.DepartmentID = assignee.DepartmentID
	}

	decision := authz.Decide(actor, authz.ActionTaskDelete, res)
	if !decision.Allowed {
		return apperrors.Forbidden("%s", decision.Reason)
	}

	return s.taskRepo.DeleteTask(id)
}
