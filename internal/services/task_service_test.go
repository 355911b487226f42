package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/models"
)

type fakeEmployeeRepo struct {
	employees map[string]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*models.Employee)}
}

func (f *fakeEmployeeRepo) CreateEmployee(emp *models.Employee) error {
	cp := *emp
	f.employees[emp.ID] = &cp
	return nil
}

func (f *fakeEmployeeRepo) GetEmployeeByID(id string) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.NotFound("employee %s", id)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployeeRepo) GetEmployeeByEmail(email string) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("employee %s", email)
}

func (f *fakeEmployeeRepo) GetEmployees(departmentID string, limit, offset int) ([]*models.Employee, error) {
	var out []*models.Employee
	for _, e := range f.employees {
		if departmentID == "" || e.DepartmentID == departmentID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) CountEmployees(departmentID string) (int, error) {
	list, _ := f.GetEmployees(departmentID, 0, 0)
	return len(list), nil
}

func (f *fakeEmployeeRepo) UpdateEmployee(emp *models.Employee) error {
	if _, ok := f.employees[emp.ID]; !ok {
		return apperrors.NotFound("employee %s", emp.ID)
	}
	cp := *emp
	f.employees[emp.ID] = &cp
	return nil
}

func (f *fakeEmployeeRepo) TerminateEmployee(id string) error {
	e, ok := f.employees[id]
	if !ok {
		return apperrors.NotFound("employee %s", id)
	}
	e.Status = models.EmployeeStatusTerminated
	return nil
}

type fakeTaskRepo struct {
	tasks map[string]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskRepo) CreateTask(task *models.Task) error {
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) GetTaskByID(id string) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task %s", id)
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) GetTasksByAssignee(assigneeID string, limit, offset int) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range f.tasks {
		if t.AssigneeID == assigneeID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) GetTasksByAssigner(assignerID string, limit, offset int) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range f.tasks {
		if t.AssignerID == assignerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) UpdateTask(task *models.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return apperrors.NotFound("task %s", task.ID)
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) UpdateTaskStatus(id string, status models.TaskStatus, completedAt *time.Time) error {
	t, ok := f.tasks[id]
	if !ok {
		return apperrors.NotFound("task %s", id)
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (f *fakeTaskRepo) DeleteTask(id string) error {
	if _, ok := f.tasks[id]; !ok {
		return apperrors.NotFound("task %s", id)
	}
	delete(f.tasks, id)
	return nil
}

func newTestTaskService(t *testing.T) (*TaskService, *fakeEmployeeRepo) {
	t.Helper()
	empRepo := newFakeEmployeeRepo()
	empRepo.CreateEmployee(&models.Employee{ID: "e-manager", DepartmentID: "d1", Email: "m@x.com"})
	empRepo.CreateEmployee(&models.Employee{ID: "e-worker", DepartmentID: "d1", Email: "w@x.com"})
	empRepo.CreateEmployee(&models.Employee{ID: "e-other", DepartmentID: "d2", Email: "o@x.com"})
	return NewTaskService(newFakeTaskRepo(), empRepo, nil), empRepo
}

func TestCreateTaskManagerOwnDepartment(t *testing.T) {
	svc, _ := newTestTaskService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}

	task, err := svc.CreateTask(context.Background(), manager, &models.CreateTaskRequest{
		Title:      "quarterly report",
		AssigneeID: "e-worker",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}
	if task.AssignerID != "e-manager" {
		t.Errorf("AssignerID = %q, want e-manager", task.AssignerID)
	}
}

func TestCreateTaskCrossDepartmentDenied(t *testing.T) {
	svc, _ := newTestTaskService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}

	_, err := svc.CreateTask(context.Background(), manager, &models.CreateTaskRequest{
		Title:      "out of scope",
		AssigneeID: "e-other",
	})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateTaskStatusByAssignee(t *testing.T) {
	svc, _ := newTestTaskService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	worker := authz.Actor{Roles: []string{models.RoleEmployee}, EmployeeID: "e-worker", DepartmentID: "d1"}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	updated, err := svc.UpdateTaskStatus(ctx, worker, task.ID, "in_progress")
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if updated.Status != models.TaskStatusInProgress {
		t.Errorf("Status = %q, want in_progress", updated.Status)
	}
}

func TestUpdateTaskStatusByBystanderDenied(t *testing.T) {
	svc, empRepo := newTestTaskService(t)
	empRepo.CreateEmployee(&models.Employee{ID: "e-bystander", DepartmentID: "d1", Email: "b@x.com"})
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	bystander := authz.Actor{Roles: []string{models.RoleEmployee}, EmployeeID: "e-bystander", DepartmentID: "d1"}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if _, err := svc.UpdateTaskStatus(ctx, bystander, task.ID, "done"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateTaskStatusByUninvolvedManagerDenied(t *testing.T) {
	svc, empRepo := newTestTaskService(t)
	empRepo.CreateEmployee(&models.Employee{ID: "e-manager2", DepartmentID: "d1", Email: "m2@x.com"})
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	otherManager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager2", DepartmentID: "d1"}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// Same department, right role, but neither assignee nor assigner.
	if _, err := svc.UpdateTaskStatus(ctx, otherManager, task.ID, "done"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateTaskStatusTracksCompletion(t *testing.T) {
	svc, _ := newTestTaskService(t)
	worker := authz.Actor{Roles: []string{models.RoleEmployee}, EmployeeID: "e-worker", DepartmentID: "d1"}
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	done, err := svc.UpdateTaskStatus(ctx, worker, task.ID, "done")
	if err != nil {
		t.Fatalf("UpdateTaskStatus(done): %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatal("CompletedAt not set on done task")
	}
	if time.Since(*done.CompletedAt) > time.Minute {
		t.Errorf("CompletedAt = %v, want recent", *done.CompletedAt)
	}

	reopened, err := svc.UpdateTaskStatus(ctx, worker, task.ID, "in_progress")
	if err != nil {
		t.Fatalf("UpdateTaskStatus(in_progress): %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want cleared on reopen", *reopened.CompletedAt)
	}
}

func TestUpdateTaskStatusInvalidValue(t *testing.T) {
	svc, _ := newTestTaskService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if _, err := svc.UpdateTaskStatus(ctx, manager, task.ID, "finished"); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestDeleteTaskOnlyAssignerOrPrivileged(t *testing.T) {
	svc, _ := newTestTaskService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-manager", DepartmentID: "d1"}
	worker := authz.Actor{Roles: []string{models.RoleEmployee}, EmployeeID: "e-worker", DepartmentID: "d1"}
	admin := authz.Actor{Roles: []string{models.RoleAdmin}}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.DeleteTask(ctx, worker, task.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("worker delete err = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteTask(ctx, manager, task.ID); err != nil {
		t.Fatalf("assigner delete: %v", err)
	}

	task, err = svc.CreateTask(ctx, manager, &models.CreateTaskRequest{Title: "t2", AssigneeID: "e-worker"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, admin, task.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
