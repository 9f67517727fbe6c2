package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Collections addressed by the services.
const (
	CollectionStudents      = "students"
	CollectionTeachers      = "teachers"
	CollectionClassrooms    = "classrooms"
	CollectionRosterExports = "roster_exports"
)

// ErrDocumentNotFound is returned when a collection has no document with the requested id.
var ErrDocumentNotFound = errors.New("document not found")

// SubCollection addresses a collection nested under a parent document, e.g. classrooms/{slug}/requests.
func SubCollection(parent, parentID, name string) string {
	return parent + "/" + parentID + "/" + name
}

// RequestsCollection is the collaboration request sub-collection of a classroom.
func RequestsCollection(slug string) string {
	return SubCollection(CollectionClassrooms, slug, "requests")
}

// Document is a stored JSON document.
type Document struct {
	Collection string    `db:"collection"`
	ID         string    `db:"id"`
	Data       []byte    `db:"data"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Decode unmarshals the document body into dest.
func (d Document) Decode(dest interface{}) error {
	if err := json.Unmarshal(d.Data, dest); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// DocumentTx exposes the document operations available inside a transaction. Get locks the row
// until the transaction ends.
type DocumentTx interface {
	Get(ctx context.Context, collection, id string, dest interface{}) error
	Set(ctx context.Context, collection, id string, value interface{}) error
	Create(ctx context.Context, collection, id string, value interface{}) (bool, error)
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
}

// DocumentRepository stores JSON documents keyed by collection and id in Postgres.
type DocumentRepository struct {
	db *sqlx.DB
	documentOps
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db, documentOps: documentOps{ext: db}}
}

// RunInTx executes fn inside a single transaction, committing only when fn succeeds.
func (r *DocumentRepository) RunInTx(ctx context.Context, fn func(DocumentTx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin document transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(documentOps{ext: tx, lock: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit document transaction: %w", err)
	}
	return nil
}

// FindByField returns documents whose top-level field equals value, oldest first.
func (r *DocumentRepository) FindByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	const query = `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND data ->> $2 = $3 ORDER BY created_at ASC`
	var docs []Document
	if err := sqlx.SelectContext(ctx, r.ext, &docs, query, collection, field, value); err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", collection, field, err)
	}
	return docs, nil
}

// Search returns documents where any of fields contains term, ignoring case.
func (r *DocumentRepository) Search(ctx context.Context, collection string, fields []string, term string) ([]Document, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("search %s: no fields", collection)
	}
	const query = `SELECT collection, id, data, created_at, updated_at FROM documents
WHERE collection = $1
	AND EXISTS (SELECT 1 FROM unnest($2::text[]) AS f(name) WHERE data ->> f.name ILIKE $3 ESCAPE '\')
ORDER BY created_at ASC`
	pattern := "%" + escapeLike(term) + "%"
	var docs []Document
	if err := sqlx.SelectContext(ctx, r.ext, &docs, query, collection, pq.Array(fields), pattern); err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}
	return docs, nil
}

// List returns every document of a collection, oldest first.
func (r *DocumentRepository) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 ORDER BY created_at ASC`
	var docs []Document
	if err := sqlx.SelectContext(ctx, r.ext, &docs, query, collection); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// ListByStatus returns documents with the given status field, oldest first.
func (r *DocumentRepository) ListByStatus(ctx context.Context, collection string, statuses ...string) ([]Document, error) {
	const query = `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND data ->> 'status' = ANY($2) ORDER BY created_at ASC`
	var docs []Document
	if err := sqlx.SelectContext(ctx, r.ext, &docs, query, collection, pq.Array(statuses)); err != nil {
		return nil, fmt.Errorf("list %s by status: %w", collection, err)
	}
	return docs, nil
}

type documentOps struct {
	ext  sqlx.ExtContext
	lock bool
}

// Get loads a document into dest.
func (o documentOps) Get(ctx context.Context, collection, id string, dest interface{}) error {
	query := `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`
	if o.lock {
		query += ` FOR UPDATE`
	}
	var doc Document
	if err := sqlx.GetContext(ctx, o.ext, &doc, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc.Decode(dest)
}

// Set writes value as the full document body, creating the document when absent.
func (o documentOps) Set(ctx context.Context, collection, id string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES ($1, $2, $3::jsonb, $4, $4)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := o.ext.ExecContext(ctx, query, collection, id, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Create inserts the document only if the id is free and reports whether it did.
func (o documentOps) Create(ctx context.Context, collection, id string, value interface{}) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES ($1, $2, $3::jsonb, $4, $4)
ON CONFLICT (collection, id) DO NOTHING`
	res, err := o.ext.ExecContext(ctx, query, collection, id, string(payload), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return affected == 1, nil
}

// Merge overwrites the given top-level fields of an existing document.
func (o documentOps) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	const query = `UPDATE documents SET data = data || $3::jsonb, updated_at = $4 WHERE collection = $1 AND id = $2`
	res, err := o.ext.ExecContext(ctx, query, collection, id, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
