package services

import (
	"context"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/models"
	"staffhub/internal/repository"
	"staffhub/utils"
)

type DepartmentService struct {
	deptRepo repository.IDepartmentRepository
}

func NewDepartmentService(deptRepo repository.IDepartmentRepository) *DepartmentService {
	return &DepartmentService{deptRepo: deptRepo}
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, actor authz.Actor, req *models.CreateDepartmentRequest) (*models.Department, error) {
	decision := authz.Decide(actor, authz.ActionDepartmentWrite, authz.Resource{})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	if _, err := s.deptRepo.GetDepartmentByName(req.Name); err == nil {
		return nil, apperrors.Conflict("department %s already exists", req.Name)
	}

	dept := &models.Department{
		ID:          "DP" + utils.GenerateRandomStringWithLength(8),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.deptRepo.CreateDepartment(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	return s.deptRepo.GetDepartmentByID(id)
}

func (s *DepartmentService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.deptRepo.GetDepartments()
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, actor authz.Actor, id string) error {
	decision := authz.Decide(actor, authz.ActionDepartmentWrite, authz.Resource{})
	if !decision.Allowed {
		return apperrors.Forbidden("%s", decision.Reason)
	}

	return s.deptRepo.DeleteDepartment(id)
}

func (s *DepartmentService) CreateDesignation(ctx context.Context, actor authz.Actor, req *models.CreateDesignationRequest) (*models.Designation, error) {
	decision := authz.Decide(actor, authz.ActionDepartmentWrite, authz.Resource{})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	if _, err := s.deptRepo.GetDepartmentByID(req.DepartmentID); err != nil {
		return nil, apperrors.BadRequest("department %s does not exist", req.DepartmentID)
	}

	des := &models.Designation{
		ID:           "DS" + utils.GenerateRandomStringWithLength(8),
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
	}

	if err := s.deptRepo.CreateDesignation(des); err != nil {
		return nil, err
	}
	return des, nil
}

func (s *DepartmentService) ListDesignations(ctx context.Context, departmentID string) ([]*models.Designation, error) {
	return s.deptRepo.GetDesignationsByDepartment(departmentID)
}
