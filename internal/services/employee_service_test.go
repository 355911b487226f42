package services

import (
	"context"
	"errors"
	"testing"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/models"
)

type fakeDeptRepo struct {
	departments  map[string]*models.Department
	designations map[string]*models.Designation
}

func newFakeDeptRepo() *fakeDeptRepo {
	return &fakeDeptRepo{
		departments:  make(map[string]*models.Department),
		designations: make(map[string]*models.Designation),
	}
}

func (f *fakeDeptRepo) CreateDepartment(dept *models.Department) error {
	cp := *dept
	f.departments[dept.ID] = &cp
	return nil
}

func (f *fakeDeptRepo) GetDepartmentByID(id string) (*models.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return nil, apperrors.NotFound("department %s", id)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDeptRepo) GetDepartmentByName(name string) (*models.Department, error) {
	for _, d := range f.departments {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("department %s", name)
}

func (f *fakeDeptRepo) GetDepartments() ([]*models.Department, error) {
	var out []*models.Department
	for _, d := range f.departments {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDeptRepo) DeleteDepartment(id string) error {
	if _, ok := f.departments[id]; !ok {
		return apperrors.NotFound("department %s", id)
	}
	delete(f.departments, id)
	return nil
}

func (f *fakeDeptRepo) CreateDesignation(des *models.Designation) error {
	cp := *des
	f.designations[des.ID] = &cp
	return nil
}

func (f *fakeDeptRepo) GetDesignationByID(id string) (*models.Designation, error) {
	d, ok := f.designations[id]
	if !ok {
		return nil, apperrors.NotFound("designation %s", id)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDeptRepo) GetDesignationsByDepartment(departmentID string) ([]*models.Designation, error) {
	var out []*models.Designation
	for _, d := range f.designations {
		if d.DepartmentID == departmentID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestEmployeeService(t *testing.T) (*EmployeeService, *fakeEmployeeRepo) {
	t.Helper()
	deptRepo := newFakeDeptRepo()
	deptRepo.CreateDepartment(&models.Department{ID: "d1", Name: "ops"})
	deptRepo.CreateDesignation(&models.Designation{ID: "ds1", Title: "analyst", DepartmentID: "d1"})
	empRepo := newFakeEmployeeRepo()
	empRepo.CreateEmployee(&models.Employee{ID: "e-lead", DepartmentID: "d1", DesignationID: "ds1", Email: "lead@x.com"})
	empRepo.CreateEmployee(&models.Employee{ID: "e-new", DepartmentID: "d1", DesignationID: "ds1", Email: "new@x.com"})
	return NewEmployeeService(empRepo, deptRepo, nil), empRepo
}

func TestCreateEmployeeUnknownManagerRejected(t *testing.T) {
	svc, _ := newTestEmployeeService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-lead", DepartmentID: "d1"}
	ghost := "e-ghost"

	_, err := svc.CreateEmployee(context.Background(), manager, &models.CreateEmployeeRequest{
		FirstName:     "Ann",
		LastName:      "Lee",
		Email:         "ann@x.com",
		DepartmentID:  "d1",
		DesignationID: "ds1",
		ManagerID:     &ghost,
	})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestUpdateEmployeeSelfManagerRejected(t *testing.T) {
	svc, _ := newTestEmployeeService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-lead", DepartmentID: "d1"}
	self := "e-new"

	_, err := svc.UpdateEmployee(context.Background(), manager, "e-new", &models.UpdateEmployeeRequest{
		ManagerID: &self,
	})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestUpdateEmployeeManagerAssignment(t *testing.T) {
	svc, _ := newTestEmployeeService(t)
	manager := authz.Actor{Roles: []string{models.RoleManager}, EmployeeID: "e-lead", DepartmentID: "d1"}
	ghost := "e-ghost"
	lead := "e-lead"

	if _, err := svc.UpdateEmployee(context.Background(), manager, "e-new", &models.UpdateEmployeeRequest{
		ManagerID: &ghost,
	}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("unknown manager err = %v, want ErrBadRequest", err)
	}

	emp, err := svc.UpdateEmployee(context.Background(), manager, "e-new", &models.UpdateEmployeeRequest{
		ManagerID: &lead,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if emp.ManagerID == nil || *emp.ManagerID != "e-lead" {
		t.Fatalf("ManagerID = %v, want e-lead", emp.ManagerID)
	}
}
