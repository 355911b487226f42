package services

import (
	"context"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/models"
	"staffhub/internal/repository"
	"staffhub/utils"
)

type NoteService struct {
	noteRepo     repository.INoteRepository
	employeeRepo repository.IEmployeeRepository
}

func NewNoteService(noteRepo repository.INoteRepository, employeeRepo repository.IEmployeeRepository) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *NoteService) CreateNote(ctx context.Context, actor authz.Actor, req *models.CreateNoteRequest) (*models.ManagerNote, error) {
	subject, err := s.employeeRepo.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		return nil, apperrors.BadRequest("employee %s does not exist", req.EmployeeID)
	}

	decision := authz.Decide(actor, authz.ActionNoteCreate, authz.Resource{DepartmentID: subject.DepartmentID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	note := &models.ManagerNote{
		ID:         "MN" + utils.GenerateRandomStringWithLength(8),
		EmployeeID: req.EmployeeID,
		AuthorID:   actor.EmployeeID,
		Content:    req.Content,
	}

	if err := s.noteRepo.CreateNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) GetNotesForEmployee(ctx context.Context, actor authz.Actor, employeeID string, limit, offset int) ([]*models.ManagerNote, error) {
	subject, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	// Notes stay inside the department; reading them needs the same
	// standing as writing them.
	decision := authz.Decide(actor, authz.ActionNoteCreate, authz.Resource{DepartmentID: subject.DepartmentID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	return s.noteRepo.GetNotesByEmployee(employeeID, limit, offset)
}

// ListMyNotes returns the notes the actor has written, across departments.
func (s *NoteService) ListMyNotes(ctx context.Context, actor authz.Actor, limit, offset int) ([]*models.ManagerNote, error) {
	if actor.EmployeeID == "" {
		return nil, apperrors.BadRequest("no employee record linked to this account")
	}
	return s.noteRepo.GetNotesByAuthor(actor.EmployeeID, limit, offset)
}

func (s *NoteService) UpdateNote(ctx context.Context, actor authz.Actor, id string, req *models.UpdateNoteRequest) (*models.ManagerNote, error) {
	note, err := s.noteRepo.GetNoteByID(id)
	if err != nil {
		return nil, err
	}

	decision := authz.Decide(actor, authz.ActionNoteUpdate, authz.Resource{OwnerID: note.AuthorID})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	note.Content = req.Content
	if err := s.noteRepo.UpdateNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, actor authz.Actor, id string) error {
	note, err := s.noteRepo.GetNoteByID(id)
	if err != nil {
		return err
	}

	decision := authz.Decide(actor, authz.ActionNoteDelete, authz.Resource{OwnerID: note.AuthorID})
	if !decision.Allowed {
		return apperrors.Forbidden("%s", decision.Reason)
	}

	return s.noteRepo.DeleteNote(id)
}
