package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

const (
	msgAlreadyInClassroom = "You are already in this classroom"
	msgAlreadyRequested   = "You have already requested to join this classroom"
)

// MembershipService moves (student, classroom) pairs between absent, pending and joined.
// Both the classroom roster and the student's list are rewritten in one transaction.
type MembershipService struct {
	store   DocumentStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewMembershipService constructs a MembershipService.
func NewMembershipService(store DocumentStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// JoinClassroom adds the student as pending when the classroom requires permission, joined otherwise.
func (s *MembershipService) JoinClassroom(ctx context.Context, actor models.Actor, studentID, slug string) error {
	if err := requireSelf(actor, studentID, models.RoleStudent); err != nil {
		return err
	}

	var status models.MembershipStatus
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if classroom.StudentIndex(studentID) >= 0 {
			return appErrors.Clone(appErrors.ErrConflict, msgAlreadyInClassroom)
		}

		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if existing, ok := student.Membership(slug); ok {
			if existing.Status == models.MembershipPending {
				return appErrors.Clone(appErrors.ErrConflict, msgAlreadyRequested)
			}
			return appErrors.Clone(appErrors.ErrConflict, msgAlreadyInClassroom)
		}

		status = models.MembershipJoined
		var joinedAt *time.Time
		if classroom.RequiresPermission {
			status = models.MembershipPending
		} else {
			now := s.now()
			joinedAt = &now
		}

		classroom.Students = append(classroom.Students, models.StudentMembership{ID: studentID, Status: status, JoinedAt: joinedAt})
		student.Classrooms = append(student.Classrooms, models.ClassroomMembership{Slug: slug, Status: status, JoinedAt: joinedAt})
		return s.writeBoth(ctx, tx, classroom, student)
	})
	if err != nil {
		return asAppError(err, "Failed to join classroom")
	}

	s.cache.InvalidateClassroom(ctx, slug)
	transition := "joined"
	if status == models.MembershipPending {
		transition = "requested"
	}
	s.metrics.RecordTransition(MachineMembership, transition)
	s.logger.Info("student joined classroom", zap.String("slug", slug), zap.String("student_id", studentID), zap.String("status", string(status)))
	return nil
}

// WithdrawClassroomRequest removes the pair from both lists. The entry is removed whatever its
// status, so this also lets a joined student leave.
func (s *MembershipService) WithdrawClassroomRequest(ctx context.Context, actor models.Actor, studentID, slug string) error {
	if err := requireSelf(actor, studentID, models.RoleStudent); err != nil {
		return err
	}

	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		classroom.Students = withoutStudent(classroom.Students, studentID)
		student.Classrooms = withoutClassroom(student.Classrooms, slug)
		return s.writeBoth(ctx, tx, classroom, student)
	})
	if err != nil {
		return asAppError(err, "Failed to withdraw request")
	}

	s.cache.InvalidateClassroom(ctx, slug)
	s.metrics.RecordTransition(MachineMembership, "withdrawn")
	s.logger.Info("student withdrew from classroom", zap.String("slug", slug), zap.String("student_id", studentID))
	return nil
}

// AcceptStudentRequest marks the student's entry joined on both sides.
func (s *MembershipService) AcceptStudentRequest(ctx context.Context, actor models.Actor, slug, studentID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireClassroomAccess(ctx, tx, actor, classroom); err != nil {
			return err
		}
		idx := classroom.StudentIndex(studentID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found in this classroom")
		}
		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}

		joinedAt := classroom.Students[idx].JoinedAt
		if classroom.Students[idx].Status != models.MembershipJoined || joinedAt == nil {
			now := s.now()
			joinedAt = &now
		}
		classroom.Students[idx] = models.StudentMembership{ID: studentID, Status: models.MembershipJoined, JoinedAt: joinedAt}

		found := false
		for i := range student.Classrooms {
			if student.Classrooms[i].Slug == slug {
				student.Classrooms[i] = models.ClassroomMembership{Slug: slug, Status: models.MembershipJoined, JoinedAt: joinedAt}
				found = true
			}
		}
		if !found {
			student.Classrooms = append(student.Classrooms, models.ClassroomMembership{Slug: slug, Status: models.MembershipJoined, JoinedAt: joinedAt})
		}
		return s.writeBoth(ctx, tx, classroom, student)
	})
	if err != nil {
		return asAppError(err, "Failed to accept student")
	}

	s.cache.InvalidateClassroom(ctx, slug)
	s.metrics.RecordTransition(MachineMembership, "accepted")
	s.logger.Info("student request accepted", zap.String("slug", slug), zap.String("student_id", studentID), zap.String("actor_id", actor.UserID))
	return nil
}

// RejectStudentRequest removes the student's entry from both sides. A student profile that no
// longer exists only has its roster entry dropped.
func (s *MembershipService) RejectStudentRequest(ctx context.Context, actor models.Actor, slug, studentID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireClassroomAccess(ctx, tx, actor, classroom); err != nil {
			return err
		}
		classroom.Students = withoutStudent(classroom.Students, studentID)
		if err := tx.Set(ctx, repository.CollectionClassrooms, slug, classroom); err != nil {
			return err
		}

		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			if isNotFoundAppError(err) {
				return nil
			}
			return err
		}
		student.Classrooms = withoutClassroom(student.Classrooms, slug)
		return tx.Set(ctx, repository.CollectionStudents, studentID, student)
	})
	if err != nil {
		return asAppError(err, "Failed to reject student")
	}

	s.cache.InvalidateClassroom(ctx, slug)
	s.metrics.RecordTransition(MachineMembership, "rejected")
	s.logger.Info("student request rejected", zap.String("slug", slug), zap.String("student_id", studentID), zap.String("actor_id", actor.UserID))
	return nil
}

// GetClassroomStudents projects the roster onto student profiles, dropping entries whose profile is gone.
func (s *MembershipService) GetClassroomStudents(ctx context.Context, actor models.Actor, slug string) (*models.ClassroomStudents, error) {
	classroom, err := loadClassroom(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	if err := requireClassroomAccess(ctx, s.store, actor, classroom); err != nil {
		return nil, err
	}

	students := make([]models.StudentInClassroom, 0, len(classroom.Students))
	for _, entry := range classroom.Students {
		student, err := loadStudent(ctx, s.store, entry.ID)
		if err != nil {
			if isNotFoundAppError(err) {
				continue
			}
			return nil, err
		}
		students = append(students, models.StudentInClassroom{
			ID:       entry.ID,
			Name:     student.Name,
			Email:    student.ParentEmail,
			Std:      student.Std,
			Div:      student.Div,
			RollNo:   student.RollNo,
			Status:   entry.Status,
			JoinedAt: entry.JoinedAt,
		})
	}
	return &models.ClassroomStudents{Students: students, RequiresPermission: classroom.RequiresPermission}, nil
}

// GetStudentClassrooms lists the student's classrooms with their membership status.
func (s *MembershipService) GetStudentClassrooms(ctx context.Context, actor models.Actor, studentID string) ([]models.ClassroomWithStatus, error) {
	if err := requireSelf(actor, studentID, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, s.store, studentID)
	if err != nil {
		return nil, err
	}

	classrooms := make([]models.ClassroomWithStatus, 0, len(student.Classrooms))
	for _, entry := range student.Classrooms {
		classroom, ok := s.cache.GetClassroom(ctx, entry.Slug)
		if !ok {
			generation := s.cache.ClassroomGeneration(ctx, entry.Slug)
			classroom, err = loadClassroom(ctx, s.store, entry.Slug)
			if err != nil {
				if isNotFoundAppError(err) {
					continue
				}
				return nil, err
			}
			s.cache.PutClassroom(ctx, classroom, generation)
		}
		classrooms = append(classrooms, models.ClassroomWithStatus{Classroom: *classroom, Status: entry.Status, JoinedAt: entry.JoinedAt})
	}
	return classrooms, nil
}

func (s *MembershipService) writeBoth(ctx context.Context, tx repository.DocumentTx, classroom *models.Classroom, student *models.StudentIdentity) error {
	if err := tx.Set(ctx, repository.CollectionClassrooms, classroom.Slug, classroom); err != nil {
		return err
	}
	return tx.Set(ctx, repository.CollectionStudents, student.ID, student)
}

func withoutStudent(entries []models.StudentMembership, studentID string) []models.StudentMembership {
	out := make([]models.StudentMembership, 0, len(entries))
	for _, e := range entries {
		if e.ID != studentID {
			out = append(out, e)
		}
	}
	return out
}

func withoutClassroom(entries []models.ClassroomMembership, slug string) []models.ClassroomMembership {
	out := make([]models.ClassroomMembership, 0, len(entries))
	for _, e := range entries {
		if e.Slug != slug {
			out = append(out, e)
		}
	}
	return out
}
