// Package authz evaluates access-control decisions from explicit facts.
// Evaluation is pure: no clock, no storage, no request context. Callers
// gather the actor and resource facts first and pass them in.
package authz

import "slices"

type Action string

const (
	ActionEmployeeRead    Action = "employee:read"
	ActionEmployeeCreate  Action = "employee:create"
	ActionEmployeeUpdate  Action = "employee:update"
	ActionEmployeeDelete  Action = "employee:delete"
	ActionTaskCreate      Action = "task:create"
	ActionTaskUpdate      Action = "task:update"
	ActionTaskStatus      Action = "task:status"
	ActionTaskDelete      Action = "task:delete"
	ActionNoteCreate      Action = "note:create"
	ActionNoteUpdate      Action = "note:update"
	ActionNoteDelete      Action = "note:delete"
	ActionAnnounceCreate  Action = "announcement:create"
	ActionAnnounceDelete  Action = "announcement:delete"
	ActionDepartmentWrite Action = "department:write"
	ActionRoleAssign      Action = "role:assign"
	ActionUserAdmin       Action = "user:admin"
	ActionAuditRead       Action = "audit:read"
)

// Actor is who is acting, resolved by the caller before evaluation.
type Actor struct {
	UserID       string
	Username     string
	Roles        []string
	EmployeeID   string
	DepartmentID string
}

// Resource is what is acted on. Zero fields mean the fact does not apply:
// a create in a department carries only DepartmentID, a task status change
// carries AssigneeID and AssignerID, a delete carries OwnerID.
type Resource struct {
	DepartmentID string
	OwnerID      string
	AssigneeID   string
	AssignerID   string
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

const (
	RoleEmployee = "ROLE_EMPLOYEE"
	RoleManager  = "ROLE_MANAGER"
	RoleAdmin    = "ROLE_ADMIN"
)

// Decide evaluates whether the actor may perform the action on the resource.
// Admins are allowed everything. Managers may act inside their own department.
// Task status updates are open only to the task's assignee and assigner.
// Deletes of tasks, notes and announcements require ownership unless a
// broader rule applies.
func Decide(actor Actor, action Action, res Resource) Decision {
	if slices.Contains(actor.Roles, RoleAdmin) {
		return allow()
	}

	switch action {
	case ActionEmployeeRead:
		return allow()

	case ActionEmployeeCreate, ActionEmployeeUpdate, ActionEmployeeDelete:
		return managerInDepartment(actor, res)

	case ActionTaskCreate, ActionTaskUpdate:
		return managerInDepartment(actor, res)

	// Deleting a task is for whoever created it. Ownership, not role.
	case ActionTaskDelete:
		if actor.EmployeeID != "" && actor.EmployeeID == res.OwnerID {
			return allow()
		}
		return deny("not the author")

	// Status moves belong to the two participants. A manager who is neither
	// does not qualify, department match or not.
	case ActionTaskStatus:
		if actor.EmployeeID != "" && (actor.EmployeeID == res.AssigneeID || actor.EmployeeID == res.AssignerID) {
			return allow()
		}
		return deny("not a task participant")

	case ActionNoteCreate:
		return managerInDepartment(actor, res)

	case ActionNoteUpdate, ActionNoteDelete:
		if actor.EmployeeID != "" && actor.EmployeeID == res.OwnerID {
			return allow()
		}
		return deny("not the author")

	case ActionAnnounceCreate:
		return managerInDepartment(actor, res)

	case ActionAnnounceDelete:
		if actor.EmployeeID != "" && actor.EmployeeID == res.OwnerID {
			return allow()
		}
		return deny("not the author")

	case ActionDepartmentWrite, ActionRoleAssign, ActionUserAdmin, ActionAuditRead:
		return deny("admin only")
	}

	return deny("unknown action")
}

func managerInDepartment(actor Actor, res Resource) Decision {
	if !slices.Contains(actor.Roles, RoleManager) {
		return deny("insufficient role")
	}
	if actor.DepartmentID == "" || res.DepartmentID == "" {
		return deny("department unknown")
	}
	if actor.DepartmentID != res.DepartmentID {
		return deny("different department")
	}
	return allow()
}
