package authz

import "testing"

func TestDecideAdminBypass(t *testing.T) {
	admin := Actor{UserID: "u1", Roles: []string{RoleAdmin}}
	actions := []Action{
		ActionEmployeeDelete,
		ActionTaskStatus,
		ActionNoteDelete,
		ActionDepartmentWrite,
		ActionRoleAssign,
	}
	for _, a := range actions {
		d := Decide(admin, a, Resource{DepartmentID: "d9", OwnerID: "someone-else"})
		if !d.Allowed {
			t.Errorf("admin denied %s: %s", a, d.Reason)
		}
	}
}

func TestDecideManagerDepartmentScope(t *testing.T) {
	manager := Actor{
		UserID:       "u2",
		Roles:        []string{RoleManager},
		EmployeeID:   "e2",
		DepartmentID: "d7",
	}

	d := Decide(manager, ActionEmployeeUpdate, Resource{DepartmentID: "d7"})
	if !d.Allowed {
		t.Fatalf("manager denied in own department: %s", d.Reason)
	}

	d = Decide(manager, ActionEmployeeUpdate, Resource{DepartmentID: "d9"})
	if d.Allowed {
		t.Fatal("manager allowed outside own department")
	}
	if d.Reason != "different department" {
		t.Errorf("reason = %q, want %q", d.Reason, "different department")
	}
}

func TestDecideManagerMissingDepartmentFact(t *testing.T) {
	manager := Actor{Roles: []string{RoleManager}, DepartmentID: "d7"}
	d := Decide(manager, ActionTaskCreate, Resource{})
	if d.Allowed {
		t.Fatal("allowed without a resource department fact")
	}
	if d.Reason != "department unknown" {
		t.Errorf("reason = %q, want %q", d.Reason, "department unknown")
	}
}

func TestDecideTaskStatusParticipants(t *testing.T) {
	res := Resource{DepartmentID: "d1", AssigneeID: "e5", AssignerID: "e6"}

	assignee := Actor{Roles: []string{RoleEmployee}, EmployeeID: "e5", DepartmentID: "d1"}
	if d := Decide(assignee, ActionTaskStatus, res); !d.Allowed {
		t.Errorf("assignee denied status update: %s", d.Reason)
	}

	assigner := Actor{Roles: []string{RoleEmployee}, EmployeeID: "e6", DepartmentID: "d1"}
	if d := Decide(assigner, ActionTaskStatus, res); !d.Allowed {
		t.Errorf("assigner denied status update: %s", d.Reason)
	}

	bystander := Actor{Roles: []string{RoleEmployee}, EmployeeID: "e7", DepartmentID: "d1"}
	if d := Decide(bystander, ActionTaskStatus, res); d.Allowed {
		t.Error("uninvolved employee allowed status update")
	}

	managerBystander := Actor{Roles: []string{RoleManager}, EmployeeID: "e9", DepartmentID: "d1"}
	d := Decide(managerBystander, ActionTaskStatus, res)
	if d.Allowed {
		t.Fatal("same-department manager allowed status update without being a participant")
	}
	if d.Reason != "not a task participant" {
		t.Errorf("reason = %q, want %q", d.Reason, "not a task participant")
	}
}

func TestDecideNoteOwnership(t *testing.T) {
	author := Actor{Roles: []string{RoleManager}, EmployeeID: "e1", DepartmentID: "d1"}
	other := Actor{Roles: []string{RoleManager}, EmployeeID: "e2", DepartmentID: "d1"}
	res := Resource{DepartmentID: "d1", OwnerID: "e1"}

	if d := Decide(author, ActionNoteDelete, res); !d.Allowed {
		t.Errorf("author denied note delete: %s", d.Reason)
	}
	d := Decide(other, ActionNoteDelete, res)
	if d.Allowed {
		t.Fatal("non-author allowed note delete")
	}
	if d.Reason != "not the author" {
		t.Errorf("reason = %q, want %q", d.Reason, "not the author")
	}
}

func TestDecideTaskDeleteOwnership(t *testing.T) {
	assigner := Actor{Roles: []string{RoleManager}, EmployeeID: "e1", DepartmentID: "d1"}
	otherManager := Actor{Roles: []string{RoleManager}, EmployeeID: "e2", DepartmentID: "d1"}
	res := Resource{DepartmentID: "d1", OwnerID: "e1"}

	if d := Decide(assigner, ActionTaskDelete, res); !d.Allowed {
		t.Errorf("assigner denied task delete: %s", d.Reason)
	}
	d := Decide(otherManager, ActionTaskDelete, res)
	if d.Allowed {
		t.Fatal("non-owner manager allowed task delete")
	}
	if d.Reason != "not the author" {
		t.Errorf("reason = %q, want %q", d.Reason, "not the author")
	}
}

func TestDecidePlainEmployeeDenied(t *testing.T) {
	emp := Actor{Roles: []string{RoleEmployee}, EmployeeID: "e3", DepartmentID: "d1"}
	d := Decide(emp, ActionEmployeeCreate, Resource{DepartmentID: "d1"})
	if d.Allowed {
		t.Fatal("plain employee allowed employee create")
	}
	if d.Reason != "insufficient role" {
		t.Errorf("reason = %q, want %q", d.Reason, "insufficient role")
	}
}

func TestDecideEmployeeReadOpen(t *testing.T) {
	emp := Actor{Roles: []string{RoleEmployee}, EmployeeID: "e3", DepartmentID: "d1"}
	if d := Decide(emp, ActionEmployeeRead, Resource{DepartmentID: "d9"}); !d.Allowed {
		t.Errorf("employee denied read: %s", d.Reason)
	}
}

func TestDecideAdminOnlyActions(t *testing.T) {
	manager := Actor{Roles: []string{RoleManager}, DepartmentID: "d1"}
	for _, a := range []Action{ActionDepartmentWrite, ActionRoleAssign, ActionUserAdmin} {
		d := Decide(manager, a, Resource{DepartmentID: "d1"})
		if d.Allowed {
			t.Errorf("manager allowed %s", a)
		}
		if d.Reason != "admin only" {
			t.Errorf("%s reason = %q, want %q", a, d.Reason, "admin only")
		}
	}
}

func TestDecideUnknownAction(t *testing.T) {
	d := Decide(Actor{Roles: []string{RoleManager}}, Action("bogus"), Resource{})
	if d.Allowed {
		t.Fatal("unknown action allowed")
	}
}
