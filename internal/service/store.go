package service

import (
	"context"
	"errors"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

// DocumentStore is the persistence surface the classroom services depend on.
type DocumentStore interface {
	repository.DocumentTx
	FindByField(ctx context.Context, collection, field, value string) ([]repository.Document, error)
	Search(ctx context.Context, collection string, fields []string, term string) ([]repository.Document, error)
	List(ctx context.Context, collection string) ([]repository.Document, error)
	ListByStatus(ctx context.Context, collection string, statuses ...string) ([]repository.Document, error)
	RunInTx(ctx context.Context, fn func(repository.DocumentTx) error) error
}

type documentGetter interface {
	Get(ctx context.Context, collection, id string, dest interface{}) error
}

var errForbidden = appErrors.Clone(appErrors.ErrForbidden, "You are not allowed to perform this action")

// loadDoc reads a document, turning a missing one into a NOT_FOUND error carrying notFoundMsg.
func loadDoc(ctx context.Context, src documentGetter, collection, id string, dest interface{}, notFoundMsg string) error {
	err := src.Get(ctx, collection, id, dest)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Internal(err, "Failed to load "+collectionLabel(collection))
}

func loadClassroom(ctx context.Context, src documentGetter, slug string) (*models.Classroom, error) {
	var classroom models.Classroom
	if err := loadDoc(ctx, src, repository.CollectionClassrooms, slug, &classroom, "Classroom not found"); err != nil {
		return nil, err
	}
	if classroom.Slug == "" {
		classroom.Slug = slug
	}
	return &classroom, nil
}

func loadTeacher(ctx context.Context, src documentGetter, id string) (*models.TeacherIdentity, error) {
	var teacher models.TeacherIdentity
	if err := loadDoc(ctx, src, repository.CollectionTeachers, id, &teacher, "Teacher not found"); err != nil {
		return nil, err
	}
	teacher.ID = id
	return &teacher, nil
}

func loadStudent(ctx context.Context, src documentGetter, id string) (*models.StudentIdentity, error) {
	var student models.StudentIdentity
	if err := loadDoc(ctx, src, repository.CollectionStudents, id, &student, "Student not found"); err != nil {
		return nil, err
	}
	student.ID = id
	return &student, nil
}

func collectionLabel(collection string) string {
	switch collection {
	case repository.CollectionClassrooms:
		return "classroom"
	case repository.CollectionTeachers:
		return "teacher"
	case repository.CollectionStudents:
		return "student"
	case repository.CollectionRosterExports:
		return "export"
	default:
		return "record"
	}
}

// asAppError keeps typed errors and hides everything else behind message.
func asAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Internal(err, message)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrDocumentNotFound)
}

func isNotFoundAppError(err error) bool {
	return errors.Is(err, appErrors.ErrNotFound)
}
