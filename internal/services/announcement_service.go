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

type AnnouncementService struct {
	announcementRepo repository.IAnnouncementRepository
	eventPublisher   *event.StaffEventPublisher
}

func NewAnnouncementService(announcementRepo repository.IAnnouncementRepository, eventPublisher *event.StaffEventPublisher) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		eventPublisher:   eventPublisher,
	}
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, actor authz.Actor, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	res := authz.Resource{}
	if req.DepartmentID != nil {
		res.DepartmentID = *req.DepartmentID
	}
	decision := authz.Decide(actor, authz.ActionAnnounceCreate, res)
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	a := &models.Announcement{
		ID:           "AN" + utils.GenerateRandomStringWithLength(8),
		Title:        req.Title,
		Body:         req.Body,
		AuthorID:     actor.EmployeeID,
		DepartmentID: req.DepartmentID,
	}

	if err := s.announcementRepo.CreateAnnouncement(a); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.eventPublisher.Publish(ctx, event.StaffEvent{
				Type:    event.EventAnnouncement,
				Subject: a.ID,
			}); err != nil {
				log.Printf("failed to publish announcement event: %v", err)
			}
		}()
	}

	return a, nil
}

func (s *AnnouncementService) ListAnnouncements(ctx context.Context, actor authz.Actor, limit, offset int) ([]*models.Announcement, error) {
	return s.announcementRepo.GetAnnouncements(actor.DepartmentID, limit, offset)
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, actor authz.Actor, id string) error {
	a, err := s.announcementRepo.GetAnnouncementByID(id)
	if err != nil {
		return err
	}

	decision := authz.Decide(actor, authz.ActionAnnounceDelete, authz.Resource{OwnerID: a.AuthorID})
	if !decision.Allowed {
		return apperrors.Forbidden("%s", decision.Reason)
	}

	return s.announcementRepo.DeleteAnnouncement(id)
}
