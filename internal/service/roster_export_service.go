package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/export"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/jobs"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/storage"
)

const rosterExportJobType = "roster_export"

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type rosterSource interface {
	GetClassroomStudents(ctx context.Context, actor models.Actor, slug string) (*models.ClassroomStudents, error)
}

// RosterExportConfig governs download lifetime and cleanup.
type RosterExportConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// RosterDownload is a resolved export file ready to stream.
type RosterDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// RosterExportService queues roster exports and serves their results.
type RosterExportService struct {
	store   DocumentStore
	storage fileStorage
	signer  *storage.SignedURLSigner
	queue   jobDispatcher
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RosterExportConfig
	now     func() time.Time
}

// NewRosterExportService constructs the export service.
func NewRosterExportService(store DocumentStore, files fileStorage, signer *storage.SignedURLSigner, queue jobDispatcher, metrics *MetricsService, logger *zap.Logger, cfg RosterExportConfig) *RosterExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &RosterExportService{
		store:   store,
		storage: files,
		signer:  signer,
		queue:   queue,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RequestExport records a QUEUED export of the classroom roster and hands it to the worker queue.
func (s *RosterExportService) RequestExport(ctx context.Context, actor models.Actor, slug, rawFormat string) (*models.RosterExport, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Unsupported export format")
	}
	classroom, err := loadClassroom(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	if err := requireClassroomAccess(ctx, s.store, actor, classroom); err != nil {
		return nil, err
	}

	record := &models.RosterExport{
		ID:            uuid.NewString(),
		ClassroomSlug: slug,
		Format:        string(format),
		Status:        models.ExportStatusQueued,
		RequestedBy:   actor.UserID,
		CreatedAt:     s.now(),
	}
	if err := s.store.Set(ctx, repository.CollectionRosterExports, record.ID, record); err != nil {
		return nil, appErrors.Internal(err, "Failed to create export")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: record.ID, Type: rosterExportJobType}); err != nil {
		now := s.now()
		record.Status = models.ExportStatusFailed
		record.Error = "failed to enqueue export"
		record.FinishedAt = &now
		if updateErr := s.store.Set(ctx, repository.CollectionRosterExports, record.ID, record); updateErr != nil {
			s.logger.Warn("failed to mark export failed", zap.String("export_id", record.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Internal(err, "Failed to queue export")
	}

	s.metrics.RecordTransition(MachineExport, "queued")
	s.logger.Info("roster export queued", zap.String("export_id", record.ID), zap.String("slug", slug), zap.String("format", record.Format))
	return record, nil
}

// GetExport returns an export to the teacher who requested it.
func (s *RosterExportService) GetExport(ctx context.Context, actor models.Actor, id string) (*models.RosterExport, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(record.RequestedBy, models.RoleTeacher) {
		return nil, errForbidden
	}
	return record, nil
}

// ResolveDownload validates a download token and opens the file it points at.
func (s *RosterExportService) ResolveDownload(ctx context.Context, token string) (*RosterDownload, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Invalid or expired download token")
	}
	record, err := s.load(ctx, claims.ExportID)
	if err != nil {
		return nil, err
	}
	if record.ResultToken != token || record.FilePath != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Invalid or expired download token")
	}
	if record.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Export is not ready")
	}

	renderer, err := export.RendererFor(export.Format(record.Format))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to open export file")
	}
	file, err := s.storage.Open(claims.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Export file no longer available")
		}
		return nil, appErrors.Internal(err, "Failed to open export file")
	}
	return &RosterDownload{
		File:        file,
		Filename:    filepath.Base(claims.Path),
		ContentType: renderer.ContentType(),
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// RecoverPendingJobs re-queues exports left QUEUED or PROCESSING by a previous process.
func (s *RosterExportService) RecoverPendingJobs(ctx context.Context) {
	docs, err := s.store.ListByStatus(ctx, repository.CollectionRosterExports, string(models.ExportStatusQueued), string(models.ExportStatusProcessing))
	if err != nil {
		s.logger.Warn("failed to recover pending exports", zap.Error(err))
		return
	}
	for _, doc := range docs {
		if err := s.queue.Enqueue(jobs.Job{ID: doc.ID, Type: rosterExportJobType}); err != nil {
			s.logger.Warn("failed to requeue export", zap.String("export_id", doc.ID), zap.Error(err))
		}
	}
	if len(docs) > 0 {
		s.logger.Info("requeued pending exports", zap.Int("count", len(docs)))
	}
}

// StartCleanup removes expired export files every CleanupInterval until ctx is done.
func (s *RosterExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup deletes stored files older than the download lifetime.
func (s *RosterExportService) Cleanup() {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("removed expired exports", zap.Int("count", len(removed)))
	}
}

func (s *RosterExportService) load(ctx context.Context, id string) (*models.RosterExport, error) {
	var record models.RosterExport
	if err := loadDoc(ctx, s.store, repository.CollectionRosterExports, id, &record, "Export not found"); err != nil {
		return nil, err
	}
	record.ID = id
	return &record, nil
}

// RosterExportWorker renders queued exports.
type RosterExportWorker struct {
	store   DocumentStore
	roster  rosterSource
	storage fileStorage
	signer  *storage.SignedURLSigner
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewRosterExportWorker constructs a worker.
func NewRosterExportWorker(store DocumentStore, roster rosterSource, files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, logger *zap.Logger) *RosterExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterExportWorker{
		store:   store,
		roster:  roster,
		storage: files,
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one queue job. A failed attempt leaves the export QUEUED with the error so
// the queue can retry it.
func (w *RosterExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	var record models.RosterExport
	if err := w.store.Get(ctx, repository.CollectionRosterExports, job.ID, &record); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			w.logger.Warn("dropping job for missing export", zap.String("export_id", job.ID))
			return nil
		}
		return err
	}
	record.ID = job.ID
	if record.Terminal() {
		return nil
	}

	if err := w.store.Merge(ctx, repository.CollectionRosterExports, job.ID, map[string]interface{}{"status": models.ExportStatusProcessing}); err != nil {
		return err
	}

	if err := w.generate(ctx, &record); err != nil {
		if updateErr := w.store.Merge(ctx, repository.CollectionRosterExports, job.ID, map[string]interface{}{
			"status": models.ExportStatusQueued,
			"error":  err.Error(),
		}); updateErr != nil {
			w.logger.Warn("failed to mark export queued", zap.String("export_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	w.metrics.RecordTransition(MachineExport, "finished")
	w.logger.Info("roster export finished", zap.String("export_id", job.ID), zap.String("path", record.FilePath))
	return nil
}

// MarkFailed is the queue's exhaustion callback.
func (w *RosterExportWorker) MarkFailed(ctx context.Context, job jobs.Job, cause error) {
	if err := w.store.Merge(ctx, repository.CollectionRosterExports, job.ID, map[string]interface{}{
		"status":     models.ExportStatusFailed,
		"error":      cause.Error(),
		"finishedAt": w.now(),
	}); err != nil {
		w.logger.Warn("failed to mark export failed", zap.String("export_id", job.ID), zap.Error(err))
		return
	}
	w.metrics.RecordTransition(MachineExport, "failed")
}

func (w *RosterExportWorker) generate(ctx context.Context, record *models.RosterExport) error {
	renderer, err := export.RendererFor(export.Format(record.Format))
	if err != nil {
		return err
	}
	// Access is checked again with the requester's identity at render time.
	roster, err := w.roster.GetClassroomStudents(ctx, models.Actor{UserID: record.RequestedBy, Role: models.RoleTeacher}, record.ClassroomSlug)
	if err != nil {
		return err
	}
	payload, err := renderer.Render(rosterTable(record.ClassroomSlug, roster))
	if err != nil {
		return fmt.Errorf("render roster: %w", err)
	}

	name := fmt.Sprintf("%s_%s.%s", record.ClassroomSlug, record.ID, renderer.Extension())
	path, err := w.storage.Save(name, payload)
	if err != nil {
		return fmt.Errorf("store roster: %w", err)
	}
	token, expiresAt, err := w.signer.Generate(record.ID, path)
	if err != nil {
		_ = w.storage.Delete(path)
		return fmt.Errorf("sign roster: %w", err)
	}

	finishedAt := w.now()
	record.Status = models.ExportStatusFinished
	record.FilePath = path
	record.ResultToken = token
	record.ExpiresAt = &expiresAt
	record.FinishedAt = &finishedAt
	record.Error = ""
	return w.store.Set(ctx, repository.CollectionRosterExports, record.ID, record)
}

var rosterColumns = []export.Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Parent Email"},
	{Key: "std", Label: "Std"},
	{Key: "div", Label: "Div"},
	{Key: "rollNo", Label: "Roll No"},
	{Key: "status", Label: "Status"},
	{Key: "joinedAt", Label: "Joined At"},
}

func rosterTable(slug string, roster *models.ClassroomStudents) export.Table {
	rows := make([]map[string]string, 0, len(roster.Students))
	for _, student := range roster.Students {
		joined := ""
		if student.JoinedAt != nil {
			joined = student.JoinedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"name":     student.Name,
			"email":    student.Email,
			"std":      student.Std,
			"div":      student.Div,
			"rollNo":   student.RollNo,
			"status":   string(student.Status),
			"joinedAt": joined,
		})
	}
	return export.Table{Title: "Roster " + slug, Columns: rosterColumns, Rows: rows}
}
