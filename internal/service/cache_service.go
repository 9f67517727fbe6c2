package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CacheService caches classroom documents by slug. Cache failures never fail the caller.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func classroomKey(slug string) string {
	return "classroom:" + slug
}

func classroomGenerationKey(slug string) string {
	return "classroom-gen:" + slug
}

// classroomEntry tags a cached classroom with the invalidation generation that was current before the
// row was read. Entries from an older generation are treated as misses.
type classroomEntry struct {
	Generation int64            `json:"generation"`
	Classroom  models.Classroom `json:"classroom"`
}

// ClassroomGeneration returns the invalidation counter for slug. Capture it before loading the row and
// hand it to PutClassroom.
func (s *CacheService) ClassroomGeneration(ctx context.Context, slug string) int64 {
	if !s.Enabled() {
		return 0
	}
	var generation int64
	if err := s.repo.Get(ctx, classroomGenerationKey(slug), &generation); err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("classroom cache generation read failed", zap.String("slug", slug), zap.Error(err))
		}
		return 0
	}
	return generation
}

// GetClassroom returns the cached classroom and whether it was found.
func (s *CacheService) GetClassroom(ctx context.Context, slug string) (*models.Classroom, bool) {
	if !s.Enabled() {
		return nil, false
	}
	start := time.Now()
	var entry classroomEntry
	err := s.repo.Get(ctx, classroomKey(slug), &entry)
	if err == nil && entry.Generation != s.ClassroomGeneration(ctx, slug) {
		err = appErrors.ErrCacheMiss
	}
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("classroom cache get failed", zap.String("slug", slug), zap.Error(err))
		}
		return nil, false
	}
	return &entry.Classroom, true
}

// PutClassroom stores a classroom read while generation was current. If an invalidation happened since,
// the entry is written but never served.
func (s *CacheService) PutClassroom(ctx context.Context, classroom *models.Classroom, generation int64) {
	if !s.Enabled() || classroom == nil {
		return
	}
	entry := classroomEntry{Generation: generation, Classroom: *classroom}
	if err := s.repo.Set(ctx, classroomKey(classroom.Slug), entry, s.ttl); err != nil {
		s.logger.Warn("classroom cache set failed", zap.String("slug", classroom.Slug), zap.Error(err))
	}
}

// InvalidateClassroom drops cached copies of the given classrooms.
func (s *CacheService) InvalidateClassroom(ctx context.Context, slugs ...string) {
	if !s.Enabled() || len(slugs) == 0 {
		return
	}
	keys := make([]string, len(slugs))
	for i, slug := range slugs {
		if _, err := s.repo.Incr(ctx, classroomGenerationKey(slug)); err != nil {
			s.logger.Warn("classroom cache generation bump failed", zap.String("slug", slug), zap.Error(err))
		}
		keys[i] = classroomKey(slug)
	}
	if err := s.repo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("classroom cache invalidate failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
