package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
)

type memDoc struct {
	collection string
	id         string
	data       []byte
	seq        int
}

// memoryStore is a map-backed DocumentStore. RunInTx works on a copy of the map and swaps it in
// only when fn succeeds, holding the store lock for the duration. locked lists, in order, the
// documents read inside transactions, which the Postgres store reads FOR UPDATE.
type memoryStore struct {
	mu      sync.Mutex
	docs    map[string]*memDoc
	seq     int
	failSet map[string]error
	locked  []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string]*memDoc{}, failSet: map[string]error{}}
}

type memoryOps struct {
	docs    map[string]*memDoc
	seq     *int
	failSet map[string]error
	locked  *[]string
}

func docKey(collection, id string) string {
	return collection + "\x00" + id
}

func (o memoryOps) Get(_ context.Context, collection, id string, dest interface{}) error {
	if o.locked != nil {
		*o.locked = append(*o.locked, collection+"/"+id)
	}
	doc, ok := o.docs[docKey(collection, id)]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	return json.Unmarshal(doc.data, dest)
}

func (o memoryOps) Set(_ context.Context, collection, id string, value interface{}) error {
	if err := o.failSet[collection]; err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	key := docKey(collection, id)
	if existing, ok := o.docs[key]; ok {
		o.docs[key] = &memDoc{collection: collection, id: id, data: data, seq: existing.seq}
		return nil
	}
	*o.seq++
	o.docs[key] = &memDoc{collection: collection, id: id, data: data, seq: *o.seq}
	return nil
}

func (o memoryOps) Create(ctx context.Context, collection, id string, value interface{}) (bool, error) {
	if _, ok := o.docs[docKey(collection, id)]; ok {
		return false, nil
	}
	return true, o.Set(ctx, collection, id, value)
}

func (o memoryOps) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := o.failSet[collection]; err != nil {
		return err
	}
	doc, ok := o.docs[docKey(collection, id)]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	body := map[string]interface{}{}
	if err := json.Unmarshal(doc.data, &body); err != nil {
		return err
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(patch, &body); err != nil {
		return err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	o.docs[docKey(collection, id)] = &memDoc{collection: collection, id: id, data: data, seq: doc.seq}
	return nil
}

func (s *memoryStore) ops() memoryOps {
	return memoryOps{docs: s.docs, seq: &s.seq, failSet: s.failSet}
}

func (s *memoryStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Get(ctx, collection, id, dest)
}

func (s *memoryStore) Set(ctx context.Context, collection, id string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Set(ctx, collection, id, value)
}

func (s *memoryStore) Create(ctx context.Context, collection, id string, value interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Create(ctx, collection, id, value)
}

func (s *memoryStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Merge(ctx, collection, id, fields)
}

func (s *memoryStore) RunInTx(_ context.Context, fn func(repository.DocumentTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*memDoc, len(s.docs))
	for k, v := range s.docs {
		snapshot[k] = v
	}
	seq := s.seq
	if err := fn(memoryOps{docs: snapshot, seq: &seq, failSet: s.failSet, locked: &s.locked}); err != nil {
		return err
	}
	s.docs = snapshot
	s.seq = seq
	return nil
}

// lockOrder returns the collections read inside transactions since the last call.
func (s *memoryStore) lockOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.locked))
	for _, key := range s.locked {
		out = append(out, key[:strings.LastIndex(key, "/")])
	}
	s.locked = nil
	return out
}

func (s *memoryStore) collection(collection string) []repository.Document {
	var docs []*memDoc
	for _, doc := range s.docs {
		if doc.collection == collection {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })
	out := make([]repository.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, repository.Document{Collection: doc.collection, ID: doc.id, Data: doc.data})
	}
	return out
}

func fieldString(doc repository.Document, field string) string {
	body := map[string]interface{}{}
	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return ""
	}
	value, ok := body[field]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func (s *memoryStore) FindByField(_ context.Context, collection, field, value string) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Document
	for _, doc := range s.collection(collection) {
		if fieldString(doc, field) == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *memoryStore) Search(_ context.Context, collection string, fields []string, term string) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	var out []repository.Document
	for _, doc := range s.collection(collection) {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(fieldString(doc, field)), term) {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

func (s *memoryStore) List(_ context.Context, collection string) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection(collection), nil
}

func (s *memoryStore) ListByStatus(_ context.Context, collection string, statuses ...string) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Document
	for _, doc := range s.collection(collection) {
		status := fieldString(doc, "status")
		for _, want := range statuses {
			if status == want {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

func (s *memoryStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collection(collection))
}

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func seedTeacher(t *testing.T, store *memoryStore, id, name, email string, slugs ...string) {
	t.Helper()
	if slugs == nil {
		slugs = []string{}
	}
	require.NoError(t, store.Set(context.Background(), repository.CollectionTeachers, id, models.TeacherIdentity{
		Name: name, Email: email, Role: models.RoleTeacher, Classrooms: slugs, CreatedAt: testNow,
	}))
}

func seedStudent(t *testing.T, store *memoryStore, id, name string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), repository.CollectionStudents, id, models.StudentIdentity{
		Name: name, ParentEmail: id + "@parents.example.com", Std: "9", Div: "B", RollNo: "12", School: "Springfield High",
		ParentsNo: "9876543210", Gender: "female", Role: models.RoleStudent, Classrooms: []models.ClassroomMembership{}, CreatedAt: testNow,
	}))
}

func seedClassroom(t *testing.T, store *memoryStore, slug, teacherID string, requiresPermission bool) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), repository.CollectionClassrooms, slug, models.Classroom{
		Slug: slug, Name: "Biology 9B", RequiresPermission: requiresPermission, TeacherID: teacherID, TeacherName: "Ms. Rivera",
		Students: []models.StudentMembership{}, CreatedAt: testNow,
	}))
}

func readClassroom(t *testing.T, store *memoryStore, slug string) models.Classroom {
	t.Helper()
	var classroom models.Classroom
	require.NoError(t, store.Get(context.Background(), repository.CollectionClassrooms, slug, &classroom))
	return classroom
}

func readStudent(t *testing.T, store *memoryStore, id string) models.StudentIdentity {
	t.Helper()
	var student models.StudentIdentity
	require.NoError(t, store.Get(context.Background(), repository.CollectionStudents, id, &student))
	return student
}

func readTeacher(t *testing.T, store *memoryStore, id string) models.TeacherIdentity {
	t.Helper()
	var teacher models.TeacherIdentity
	require.NoError(t, store.Get(context.Background(), repository.CollectionTeachers, id, &teacher))
	return teacher
}

func teacherActor(id string) models.Actor { return models.Actor{UserID: id, Role: models.RoleTeacher} }

func studentActor(id string) models.Actor { return models.Actor{UserID: id, Role: models.RoleStudent} }
