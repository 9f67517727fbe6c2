package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

const (
	msgTeacherHasAccess    = "This teacher already has access to this classroom"
	msgRequestAlreadySent  = "Collaboration request already sent"
	msgRequestNotFound     = "Collaboration request not found"
	msgRequestNotPending   = "Collaboration request is no longer pending"
	msgTeacherEmailMissing = "Teacher not found"
)

// CollaborationService manages teacher-to-teacher requests for shared classroom access.
type CollaborationService struct {
	store   DocumentStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewCollaborationService constructs a CollaborationService.
func NewCollaborationService(store DocumentStore, metrics *MetricsService, logger *zap.Logger) *CollaborationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollaborationService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GetTeacherByEmail finds the teacher registered with email.
func (s *CollaborationService) GetTeacherByEmail(ctx context.Context, email string) (*models.TeacherIdentity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email is required")
	}
	docs, err := s.store.FindByField(ctx, repository.CollectionTeachers, "email", email)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to find teacher")
	}
	if len(docs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, msgTeacherEmailMissing)
	}
	var teacher models.TeacherIdentity
	if err := docs[0].Decode(&teacher); err != nil {
		return nil, appErrors.Internal(err, "Failed to find teacher")
	}
	teacher.ID = docs[0].ID
	return &teacher, nil
}

// SendCollaborationRequest stores a pending request from requesterID for slug. An empty
// targetTeacherID means the requester is asking for access for themselves.
func (s *CollaborationService) SendCollaborationRequest(ctx context.Context, actor models.Actor, slug, targetTeacherID, requesterID string) error {
	if err := requireSelf(actor, requesterID, models.RoleTeacher); err != nil {
		return err
	}
	if targetTeacherID == "" {
		targetTeacherID = requesterID
	}

	// Every transaction locks the classroom row before any teacher row.
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		if _, err := loadClassroom(ctx, tx, slug); err != nil {
			return err
		}
		requester, err := loadTeacher(ctx, tx, requesterID)
		if err != nil {
			return err
		}

		target := requester
		if targetTeacherID != requesterID {
			if target, err = loadTeacher(ctx, tx, targetTeacherID); err != nil {
				return err
			}
		}
		if target.HasClassroom(slug) {
			return appErrors.Clone(appErrors.ErrConflict, msgTeacherHasAccess)
		}

		var existing models.CollaborationRequest
		err = tx.Get(ctx, repository.RequestsCollection(slug), requesterID, &existing)
		switch {
		case err == nil && existing.Status == models.CollaborationPending:
			return appErrors.Clone(appErrors.ErrConflict, msgRequestAlreadySent)
		case err != nil && !isNotFound(err):
			return err
		}

		request := models.CollaborationRequest{
			ID:             requesterID,
			ClassroomSlug:  slug,
			RequesterID:    requesterID,
			RequesterName:  requester.Name,
			RequesterEmail: requester.Email,
			Status:         models.CollaborationPending,
			CreatedAt:      s.now(),
		}
		return tx.Set(ctx, repository.RequestsCollection(slug), requesterID, request)
	})
	if err != nil {
		return asAppError(err, "Failed to send collaboration request")
	}

	s.metrics.RecordTransition(MachineCollaboration, "requested")
	s.logger.Info("collaboration request sent", zap.String("slug", slug), zap.String("requester_id", requesterID))
	return nil
}

// AddTeacherDirectly grants targetTeacherID access without a request document.
func (s *CollaborationService) AddTeacherDirectly(ctx context.Context, actor models.Actor, slug, targetTeacherID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, classroom); err != nil {
			return err
		}
		target, err := loadTeacher(ctx, tx, targetTeacherID)
		if err != nil {
			return err
		}
		if target.HasClassroom(slug) {
			return appErrors.Clone(appErrors.ErrConflict, msgTeacherHasAccess)
		}
		target.Classrooms = append(target.Classrooms, slug)
		return tx.Set(ctx, repository.CollectionTeachers, target.ID, target)
	})
	if err != nil {
		return asAppError(err, "Failed to add teacher")
	}

	s.metrics.RecordTransition(MachineCollaboration, "added")
	s.logger.Info("teacher added to classroom", zap.String("slug", slug), zap.String("teacher_id", targetTeacherID))
	return nil
}

// AcceptCollaborationRequest marks the request accepted and gives the requester the classroom.
// A non-empty requesterID must match the stored request.
func (s *CollaborationService) AcceptCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID, requesterID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, classroom); err != nil {
			return err
		}
		request, err := s.pendingRequest(ctx, tx, slug, requestID)
		if err != nil {
			return err
		}
		if requesterID != "" && requesterID != request.RequesterID {
			return appErrors.Clone(appErrors.ErrNotFound, msgRequestNotFound)
		}

		now := s.now()
		request.Status = models.CollaborationAccepted
		request.AcceptedAt = &now
		if err := tx.Set(ctx, repository.RequestsCollection(slug), requestID, request); err != nil {
			return err
		}

		requester, err := loadTeacher(ctx, tx, request.RequesterID)
		if err != nil {
			return err
		}
		if requester.HasClassroom(slug) {
			return nil
		}
		requester.Classrooms = append(requester.Classrooms, slug)
		return tx.Set(ctx, repository.CollectionTeachers, requester.ID, requester)
	})
	if err != nil {
		return asAppError(err, "Failed to accept collaboration request")
	}

	s.metrics.RecordTransition(MachineCollaboration, "accepted")
	s.logger.Info("collaboration request accepted", zap.String("slug", slug), zap.String("request_id", requestID))
	return nil
}

// RejectCollaborationRequest marks a pending request rejected.
func (s *CollaborationService) RejectCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, classroom); err != nil {
			return err
		}
		return s.close(ctx, tx, slug, requestID, models.CollaborationRejected, nil)
	})
	if err != nil {
		return asAppError(err, "Failed to reject collaboration request")
	}

	s.metrics.RecordTransition(MachineCollaboration, "rejected")
	s.logger.Info("collaboration request rejected", zap.String("slug", slug), zap.String("request_id", requestID))
	return nil
}

// CancelCollaborationRequest lets the requester withdraw their own pending request.
func (s *CollaborationService) CancelCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID string) error {
	if actor.Role != models.RoleTeacher || actor.UserID == "" {
		return errForbidden
	}
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		if _, err := loadClassroom(ctx, tx, slug); err != nil {
			return err
		}
		return s.close(ctx, tx, slug, requestID, models.CollaborationCancelled, func(r *models.CollaborationRequest) error {
			if r.RequesterID != actor.UserID {
				return errForbidden
			}
			return nil
		})
	})
	if err != nil {
		return asAppError(err, "Failed to cancel collaboration request")
	}

	s.metrics.RecordTransition(MachineCollaboration, "cancelled")
	s.logger.Info("collaboration request cancelled", zap.String("slug", slug), zap.String("request_id", requestID))
	return nil
}

// GetCollaborationRequests lists every request of the classroom for its owner. Any other teacher
// only sees their own request.
func (s *CollaborationService) GetCollaborationRequests(ctx context.Context, actor models.Actor, slug string) ([]models.CollaborationRequest, error) {
	if actor.Role != models.RoleTeacher || actor.UserID == "" {
		return nil, errForbidden
	}
	classroom, err := loadClassroom(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, repository.RequestsCollection(slug))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to load collaboration requests")
	}

	owner := actor.UserID == classroom.TeacherID
	requests := make([]models.CollaborationRequest, 0, len(docs))
	for _, doc := range docs {
		var request models.CollaborationRequest
		if err := doc.Decode(&request); err != nil {
			s.logger.Warn("skipping undecodable collaboration request", zap.String("slug", slug), zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		if request.ID == "" {
			request.ID = doc.ID
		}
		if !owner && request.RequesterID != actor.UserID {
			continue
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// pendingRequest and close only act on pending requests, so a closed request cannot be reopened
// or flipped to another final status. A new request has to be sent instead.
func (s *CollaborationService) pendingRequest(ctx context.Context, tx repository.DocumentTx, slug, requestID string) (*models.CollaborationRequest, error) {
	request, err := loadRequest(ctx, tx, slug, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.CollaborationPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, msgRequestNotPending)
	}
	return request, nil
}

// close moves a pending request to a final status. check runs before the status is looked at.
func (s *CollaborationService) close(ctx context.Context, tx repository.DocumentTx, slug, requestID string, status models.CollaborationStatus, check func(*models.CollaborationRequest) error) error {
	request, err := loadRequest(ctx, tx, slug, requestID)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(request); err != nil {
			return err
		}
	}
	if request.Status != models.CollaborationPending {
		return appErrors.Clone(appErrors.ErrConflict, msgRequestNotPending)
	}
	return tx.Merge(ctx, repository.RequestsCollection(slug), requestID, map[string]interface{}{"status": status})
}

func loadRequest(ctx context.Context, src documentGetter, slug, requestID string) (*models.CollaborationRequest, error) {
	var request models.CollaborationRequest
	if err := loadDoc(ctx, src, repository.RequestsCollection(slug), requestID, &request, msgRequestNotFound); err != nil {
		return nil, err
	}
	if request.ID == "" {
		request.ID = requestID
	}
	return &request, nil
}
