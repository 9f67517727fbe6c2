package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

const (
	slugAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength = 4
	fallbackSlugBase = "classroom"
)

var (
	slugStripPattern    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapsePattern = regexp.MustCompile(`[\s_-]+`)

	classroomSearchFields = []string{"name", "school", "teacherName"}
)

// GenerateSlug lowercases name, strips punctuation and joins the remaining words with single hyphens.
func GenerateSlug(name string) string {
	slug := strings.TrimSpace(strings.ToLower(name))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugCollapsePattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateUniqueID returns four random lowercase alphanumeric characters.
func GenerateUniqueID() string {
	buf := make([]byte, slugSuffixLength)
	limit := big.NewInt(int64(len(slugAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(slugAlphabet)))
		}
		buf[i] = slugAlphabet[n.Int64()]
	}
	return string(buf)
}

// CreateClassroomInput describes a new classroom.
type CreateClassroomInput struct {
	TeacherID          string
	TeacherName        string
	Name               string
	School             string
	RequiresPermission bool
}

// ClassroomService implements the classroom registry.
type ClassroomService struct {
	store        DocumentStore
	cache        *CacheService
	logger       *zap.Logger
	slugAttempts int
	now          func() time.Time
	suffix       func() string
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(store DocumentStore, cache *CacheService, slugAttempts int, logger *zap.Logger) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slugAttempts <= 0 {
		slugAttempts = 5
	}
	return &ClassroomService{
		store:        store,
		cache:        cache,
		logger:       logger,
		slugAttempts: slugAttempts,
		now:          func() time.Time { return time.Now().UTC() },
		suffix:       GenerateUniqueID,
	}
}

// CreateClassroom stores a new classroom under a fresh slug and adds it to the teacher's list.
// A slug that is already taken is re-rolled with a new suffix.
func (s *ClassroomService) CreateClassroom(ctx context.Context, actor models.Actor, input CreateClassroomInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Classroom name is required")
	}
	if err := requireSelf(actor, input.TeacherID, models.RoleTeacher); err != nil {
		return "", err
	}

	base := GenerateSlug(name)
	if base == "" {
		base = fallbackSlugBase
	}

	var slug string
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		teacher, err := loadTeacher(ctx, tx, input.TeacherID)
		if err != nil {
			return err
		}
		teacherName := input.TeacherName
		if teacherName == "" {
			teacherName = teacher.Name
		}

		classroom := models.Classroom{
			Name:               name,
			School:             strings.TrimSpace(input.School),
			RequiresPermission: input.RequiresPermission,
			TeacherID:          input.TeacherID,
			TeacherName:        teacherName,
			Students:           []models.StudentMembership{},
			CreatedAt:          s.now(),
		}
		for attempt := 0; attempt < s.slugAttempts; attempt++ {
			candidate := base + "-" + s.suffix()
			classroom.Slug = candidate
			created, err := tx.Create(ctx, repository.CollectionClassrooms, candidate, classroom)
			if err != nil {
				return appErrors.Internal(err, "Failed to create classroom")
			}
			if created {
				slug = candidate
				break
			}
			s.logger.Info("classroom slug collision, retrying", zap.String("slug", candidate))
		}
		if slug == "" {
			return appErrors.Clone(appErrors.ErrConflict, "Could not allocate a unique classroom link. Please try again.")
		}

		teacher.Classrooms = append(teacher.Classrooms, slug)
		if err := tx.Set(ctx, repository.CollectionTeachers, teacher.ID, teacher); err != nil {
			return appErrors.Internal(err, "Failed to create classroom")
		}
		return nil
	})
	if err != nil {
		return "", asAppError(err, "Failed to create classroom")
	}

	s.logger.Info("classroom created", zap.String("slug", slug), zap.String("teacher_id", input.TeacherID))
	return slug, nil
}

// GetTeacherClassrooms returns every existing classroom in the teacher's list.
func (s *ClassroomService) GetTeacherClassrooms(ctx context.Context, actor models.Actor, teacherID string) ([]models.Classroom, error) {
	if err := requireSelf(actor, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	teacher, err := loadTeacher(ctx, s.store, teacherID)
	if err != nil {
		return nil, err
	}

	classrooms := make([]models.Classroom, 0, len(teacher.Classrooms))
	for _, slug := range teacher.Classrooms {
		classroom, err := s.lookup(ctx, slug)
		if err != nil {
			if isNotFoundAppError(err) {
				continue
			}
			return nil, err
		}
		classrooms = append(classrooms, *classroom)
	}
	return classrooms, nil
}

// GetClassroomBySlug returns a classroom, reading through the cache.
func (s *ClassroomService) GetClassroomBySlug(ctx context.Context, slug string) (*models.Classroom, error) {
	return s.lookup(ctx, slug)
}

func (s *ClassroomService) lookup(ctx context.Context, slug string) (*models.Classroom, error) {
	if cached, ok := s.cache.GetClassroom(ctx, slug); ok {
		return cached, nil
	}
	generation := s.cache.ClassroomGeneration(ctx, slug)
	classroom, err := loadClassroom(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	s.cache.PutClassroom(ctx, classroom, generation)
	return classroom, nil
}

// UpdateClassroomPermission changes whether new joins need approval. Existing entries keep their status.
func (s *ClassroomService) UpdateClassroomPermission(ctx context.Context, actor models.Actor, slug string, requiresPermission bool) error {
	err := s.store.RunInTx(ctx, func(tx repository.DocumentTx) error {
		classroom, err := loadClassroom(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, classroom); err != nil {
			return err
		}
		return tx.Merge(ctx, repository.CollectionClassrooms, slug, map[string]interface{}{"requiresPermission": requiresPermission})
	})
	if err != nil {
		return asAppError(err, "Failed to update classroom")
	}
	s.cache.InvalidateClassroom(ctx, slug)
	s.logger.Info("classroom permission updated", zap.String("slug", slug), zap.Bool("requires_permission", requiresPermission))
	return nil
}

// SearchClassrooms matches query case-insensitively against name, school and teacher name.
func (s *ClassroomService) SearchClassrooms(ctx context.Context, query string) ([]models.Classroom, error) {
	docs, err := s.store.Search(ctx, repository.CollectionClassrooms, classroomSearchFields, strings.TrimSpace(query))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to search classrooms")
	}
	classrooms := make([]models.Classroom, 0, len(docs))
	for _, doc := range docs {
		var classroom models.Classroom
		if err := doc.Decode(&classroom); err != nil {
			s.logger.Warn("skipping undecodable classroom", zap.String("slug", doc.ID), zap.Error(err))
			continue
		}
		if classroom.Slug == "" {
			classroom.Slug = doc.ID
		}
		classrooms = append(classrooms, classroom)
	}
	return classrooms, nil
}
