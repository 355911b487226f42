package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/event"
	"staffhub/internal/models"
	"staffhub/internal/repository"
	"staffhub/utils"
)

// EmployeeService manages employee records. Every mutation runs the actor's
// facts through the policy evaluator first.
type EmployeeService struct {
	employeeRepo   repository.IEmployeeRepository
	deptRepo       repository.IDepartmentRepository
	eventPublisher *event.StaffEventPublisher
}

func NewEmployeeService(employeeRepo repository.IEmployeeRepository, deptRepo repository.IDepartmentRepository, eventPublisher *event.StaffEventPublisher) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		deptRepo:       deptRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, actor authz.Actor, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	decision := authz.Decide(actor, authz.ActionEmployeeCreate, authz.Resource{DepartmentID: req.DepartmentID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	if _, err := s.deptRepo.GetDepartmentByID(req.DepartmentID); err != nil {
		return nil, apperrors.BadRequest("department %s does not exist", req.DepartmentID)
	}
	des, err := s.deptRepo.GetDesignationByID(req.DesignationID)
	if err != nil {
		return nil, apperrors.BadRequest("designation %s does not exist", req.DesignationID)
	}
	if des.DepartmentID != req.DepartmentID {
		return nil, apperrors.BadRequest("designation %s belongs to another department", req.DesignationID)
	}
	if _, err := s.employeeRepo.GetEmployeeByEmail(req.Email); err == nil {
		return nil, apperrors.Conflict("employee email %s is already in use", req.Email)
	}
	if req.ManagerID != nil {
		if _, err := s.employeeRepo.GetEmployeeByID(*req.ManagerID); err != nil {
			return nil, apperrors.BadRequest("manager %s does not exist", *req.ManagerID)
		}
	}

	emp := &models.Employee{
		ID:            "EM" + utils.GenerateRandomStringWithLength(8),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		DepartmentID:  req.DepartmentID,
		DesignationID: req.DesignationID,
		ManagerID:     req.ManagerID,
		HireDate:      req.HireDate,
		Salary:        req.Salary,
		Status:        models.EmployeeStatusActive,
	}
	if emp.HireDate == "" {
		emp.HireDate = time.Now().Format("2006-01-02")
	}

	if err := s.employeeRepo.CreateEmployee(emp); err != nil {
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	if s.eventPublisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.eventPublisher.Publish(ctx, event.StaffEvent{
				Type:    event.EventEmployeeCreated,
				Subject: emp.ID,
			}); err != nil {
				log.Printf("failed to publish employee created event: %v", err)
			}
		}()
	}

	return emp, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, actor authz.Actor, id string) (*models.Employee, error) {
	decision := authz.Decide(actor, authz.ActionEmployeeRead, authz.Resource{})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}
	return s.employeeRepo.GetEmployeeByID(id)
}

func (s *EmployeeService) ListEmployees(ctx context.Context, actor authz.Actor, departmentID string, limit, offset int) (*models.PaginatedEmployeesResponse, error) {
	decision := authz.Decide(actor, authz.ActionEmployeeRead, authz.Resource{})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	emps, err := s.employeeRepo.GetEmployees(departmentID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.employeeRepo.CountEmployees(departmentID)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedEmployeesResponse{
		Employees: emps,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, actor authz.Actor, id string, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	emp, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}

	decision := authz.Decide(actor, authz.ActionEmployeeUpdate, authz.Resource{DepartmentID: emp.DepartmentID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.DepartmentID != nil {
		if _, err := s.deptRepo.GetDepartmentByID(*req.DepartmentID); err != nil {
			return nil, apperrors.BadRequest("department %s does not exist", *req.DepartmentID)
		}
		emp.DepartmentID = *req.DepartmentID
	}
	if req.DesignationID != nil {
		des, err := s.deptRepo.GetDesignationByID(*req.DesignationID)
		if err != nil {
			return nil, apperrors.BadRequest("designation %s does not exist", *req.DesignationID)
		}
		if des.DepartmentID != emp.DepartmentID {
			return nil, apperrors.BadRequest("designation %s belongs to another department", *req.DesignationID)
		}
		emp.DesignationID = *req.DesignationID
	}
	if req.ManagerID != nil {
		if *req.ManagerID == id {
			return nil, apperrors.BadRequest("employee cannot be their own manager")
		}
		if _, err := s.employeeRepo.GetEmployeeByID(*req.ManagerID); err != nil {
			return nil, apperrors.BadRequest("manager %s does not exist", *req.ManagerID)
		}
		emp.ManagerID = req.ManagerID
	}
	if req.Salary != nil {
		emp.Salary = *req.Salary
	}

	if err := s.employeeRepo.UpdateEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// UpdateOwnProfile lets an employee change their own contact details. No
// policy call: the subject is always the actor.
func (s *EmployeeService) UpdateOwnProfile(ctx context.Context, actor authz.Actor, phone string) (*models.Employee, error) {
	if actor.EmployeeID == "" {
		return nil, apperrors.BadRequest("no employee record linked to this account")
	}

	emp, err := s.employeeRepo.GetEmployeeByID(actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	emp.Phone = phone

	if err := s.employeeRepo.UpdateEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Resign marks the actor's own employee record terminated.
func (s *EmployeeService) Resign(ctx context.Context, actor authz.Actor) error {
	if actor.EmployeeID == "" {
		return apperrors.BadRequest("no employee record linked to this account")
	}
	return s.employeeRepo.TerminateEmployee(actor.EmployeeID)
}

func (s *EmployeeService) TerminateEmployee(ctx context.Context, actor authz.Actor, id string) error {
	emp, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		return err
	}

	decision := authz.Decide(actor, authz.ActionEmployeeDelete, authz.Resource{DepartmentID: emp.DepartmentID})
	if !decision.Allowed {
		return apperrors.Forbidden("%s", decision.Reason)
	}

	return s.employeeRepo.TerminateEmployee(id)
}
