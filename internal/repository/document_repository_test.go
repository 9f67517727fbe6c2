package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentRepoMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewDocumentRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

var documentColumns = []string{"collection", "id", "data", "created_at", "updated_at"}

type sampleDoc struct {
	Name string `json:"name"`
}

func TestDocumentRepositoryGet(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2")).
		WithArgs("classrooms", "bio-9b-ab12").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow("classrooms", "bio-9b-ab12", []byte(`{"name":"Biology 9B"}`), now, now))

	var out sampleDoc
	require.NoError(t, repo.Get(context.Background(), "classrooms", "bio-9b-ab12", &out))
	assert.Equal(t, "Biology 9B", out.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetNotFound(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE collection = $1 AND id = $2")).
		WithArgs("teachers", "missing").
		WillReturnRows(sqlmock.NewRows(documentColumns))

	var out sampleDoc
	err := repo.Get(context.Background(), "teachers", "missing", &out)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateReportsConflict(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id) DO NOTHING")).
		WithArgs("classrooms", "bio-9b-ab12", `{"name":"Biology 9B"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.Create(context.Background(), "classrooms", "bio-9b-ab12", sampleDoc{Name: "Biology 9B"})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryMergeMissing(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET data = data || $3::jsonb, updated_at = $4 WHERE collection = $1 AND id = $2")).
		WithArgs("classrooms", "nope", `{"requiresPermission":true}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Merge(context.Background(), "classrooms", "nope", map[string]interface{}{"requiresPermission": true})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositorySearchEscapesPattern(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("unnest($2::text[])")).
		WithArgs("classrooms", sqlmock.AnyArg(), `%100\%%`).
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow("classrooms", "a", []byte(`{"name":"100% Math"}`), now, now))

	docs, err := repo.Search(context.Background(), "classrooms", []string{"name", "school"}, "100%")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRunInTxCommitsAndLocks(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND id = $2 FOR UPDATE")).
		WithArgs("teachers", "t-1").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow("teachers", "t-1", []byte(`{"name":"Ms. Rao"}`), now, now))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id) DO UPDATE")).
		WithArgs("teachers", "t-1", `{"name":"Dr. Rao"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx DocumentTx) error {
		var doc sampleDoc
		if err := tx.Get(context.Background(), "teachers", "t-1", &doc); err != nil {
			return err
		}
		doc.Name = "Dr. Rao"
		return tx.Set(context.Background(), "teachers", "t-1", doc)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRunInTxRollsBackOnError(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("conflict")
	err := repo.RunInTx(context.Background(), func(DocumentTx) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestsCollection(t *testing.T) {
	assert.Equal(t, "classrooms/bio-9b-ab12/requests", RequestsCollection("bio-9b-ab12"))
}
