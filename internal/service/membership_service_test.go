package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

func newMembershipServiceForTest(t *testing.T) (*MembershipService, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	svc := NewMembershipService(store, nil, nil, nil)
	svc.now = fixedNow
	seedTeacher(t, store, "t-owner", "Ms. Rivera", "rivera@school.example.com", "bio-9b-x1y2")
	seedTeacher(t, store, "t-collab", "Mr. Chen", "chen@school.example.com", "bio-9b-x1y2")
	seedTeacher(t, store, "t-other", "Mx. Lee", "lee@school.example.com")
	seedStudent(t, store, "s-1", "Asha")
	return svc, store
}

func assertConsistent(t *testing.T, store *memoryStore, slug, studentID string) {
	t.Helper()
	classroom := readClassroom(t, store, slug)
	student := readStudent(t, store, studentID)
	idx := classroom.StudentIndex(studentID)
	entry, ok := student.Membership(slug)
	require.Equal(t, idx >= 0, ok, "membership present on one side only")
	if ok {
		assert.Equal(t, classroom.Students[idx].Status, entry.Status)
		assert.Equal(t, classroom.Students[idx].JoinedAt, entry.JoinedAt)
	}
}

func TestJoinOpenClassroomJoinsImmediately(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", false)

	require.NoError(t, svc.JoinClassroom(context.Background(), studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	classroom := readClassroom(t, store, "bio-9b-x1y2")
	require.Len(t, classroom.Students, 1)
	assert.Equal(t, models.MembershipJoined, classroom.Students[0].Status)
	require.NotNil(t, classroom.Students[0].JoinedAt)
	assert.True(t, classroom.Students[0].JoinedAt.Equal(testNow))
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")
}

func TestJoinGatedClassroomIsPendingUntilAccepted(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	ctx := context.Background()

	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))
	classroom := readClassroom(t, store, "bio-9b-x1y2")
	assert.Equal(t, models.MembershipPending, classroom.Students[0].Status)
	assert.Nil(t, classroom.Students[0].JoinedAt)
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")

	err := svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	require.NoError(t, svc.AcceptStudentRequest(ctx, teacherActor("t-collab"), "bio-9b-x1y2", "s-1"))
	classroom = readClassroom(t, store, "bio-9b-x1y2")
	assert.Equal(t, models.MembershipJoined, classroom.Students[0].Status)
	require.NotNil(t, classroom.Students[0].JoinedAt)
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")

	err = svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2")
	require.Error(t, err)
	assert.Equal(t, msgAlreadyInClassroom, appErrors.FromError(err).Message)
}

func TestJoinMissingClassroomOrStudent(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	ctx := context.Background()

	err := svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "missing-0000")
	require.Error(t, err)
	assert.Equal(t, "Classroom not found", appErrors.FromError(err).Message)

	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", false)
	err = svc.JoinClassroom(ctx, studentActor("s-ghost"), "s-ghost", "bio-9b-x1y2")
	require.Error(t, err)
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)
	assert.Empty(t, readClassroom(t, store, "bio-9b-x1y2").Students)
}

func TestJoinRollsBackWhenStudentWriteFails(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", false)
	store.failSet[repository.CollectionStudents] = errors.New("disk full")

	err := svc.JoinClassroom(context.Background(), studentActor("s-1"), "s-1", "bio-9b-x1y2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	delete(store.failSet, repository.CollectionStudents)
	assert.Empty(t, readClassroom(t, store, "bio-9b-x1y2").Students)
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")
}

func TestWithdrawRemovesEntryFromBothSides(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	ctx := context.Background()
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	require.NoError(t, svc.WithdrawClassroomRequest(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))
	assert.Empty(t, readClassroom(t, store, "bio-9b-x1y2").Students)
	assert.Empty(t, readStudent(t, store, "s-1").Classrooms)

	// Withdrawing again is a no-op.
	require.NoError(t, svc.WithdrawClassroomRequest(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))
	classroom := readClassroom(t, store, "bio-9b-x1y2")
	require.Len(t, classroom.Students, 1)
	assert.Equal(t, models.MembershipPending, classroom.Students[0].Status)
	assert.Nil(t, classroom.Students[0].JoinedAt)
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")
}

func TestRejectRemovesEntryAndToleratesMissingStudent(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	ctx := context.Background()
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	require.NoError(t, svc.RejectStudentRequest(ctx, teacherActor("t-owner"), "bio-9b-x1y2", "s-1"))
	assert.Empty(t, readClassroom(t, store, "bio-9b-x1y2").Students)
	assert.Empty(t, readStudent(t, store, "s-1").Classrooms)

	require.NoError(t, svc.RejectStudentRequest(ctx, teacherActor("t-owner"), "bio-9b-x1y2", "s-ghost"))

	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))
	classroom := readClassroom(t, store, "bio-9b-x1y2")
	require.Len(t, classroom.Students, 1)
	assert.Equal(t, models.MembershipPending, classroom.Students[0].Status)
	require.Len(t, readStudent(t, store, "s-1").Classrooms, 1)
	assertConsistent(t, store, "bio-9b-x1y2", "s-1")
}

func TestJoinWithStudentSidePendingEntryIsAlreadyRequested(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	ctx := context.Background()
	student := readStudent(t, store, "s-1")
	student.Classrooms = []models.ClassroomMembership{{Slug: "bio-9b-x1y2", Status: models.MembershipPending}}
	require.NoError(t, store.Set(ctx, repository.CollectionStudents, "s-1", student))

	err := svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, msgAlreadyRequested, appErrors.FromError(err).Message)
	assert.Empty(t, readClassroom(t, store, "bio-9b-x1y2").Students)
}

func TestAcceptUnknownStudentIsNotFound(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)

	err := svc.AcceptStudentRequest(context.Background(), teacherActor("t-owner"), "bio-9b-x1y2", "s-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestMembershipAuthorization(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	seedStudent(t, store, "s-2", "Ben")
	ctx := context.Background()
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	cases := map[string]error{
		"join for another student":      svc.JoinClassroom(ctx, studentActor("s-2"), "s-1", "bio-9b-x1y2"),
		"teacher joining as student":    svc.JoinClassroom(ctx, teacherActor("s-1"), "s-1", "bio-9b-x1y2"),
		"withdraw for another student":  svc.WithdrawClassroomRequest(ctx, studentActor("s-2"), "s-1", "bio-9b-x1y2"),
		"accept by unrelated teacher":   svc.AcceptStudentRequest(ctx, teacherActor("t-other"), "bio-9b-x1y2", "s-1"),
		"accept by student":             svc.AcceptStudentRequest(ctx, studentActor("s-1"), "bio-9b-x1y2", "s-1"),
		"reject by unrelated teacher":   svc.RejectStudentRequest(ctx, teacherActor("t-other"), "bio-9b-x1y2", "s-1"),
		"classrooms of another student": func() error { _, err := svc.GetStudentClassrooms(ctx, studentActor("s-2"), "s-1"); return err }(),
		"roster for unrelated teacher":  func() error { _, err := svc.GetClassroomStudents(ctx, teacherActor("t-other"), "bio-9b-x1y2"); return err }(),
	}
	for name, err := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrForbidden))
			assert.Equal(t, "You are not allowed to perform this action", appErrors.FromError(err).Message)
		})
	}

	classroom := readClassroom(t, store, "bio-9b-x1y2")
	require.Len(t, classroom.Students, 1)
	assert.Equal(t, models.MembershipPending, classroom.Students[0].Status)
}

func TestGetClassroomStudentsSkipsMissingProfiles(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", false)
	ctx := context.Background()
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))

	classroom := readClassroom(t, store, "bio-9b-x1y2")
	classroom.Students = append(classroom.Students, models.StudentMembership{ID: "s-gone", Status: models.MembershipPending})
	require.NoError(t, store.Set(ctx, repository.CollectionClassrooms, "bio-9b-x1y2", classroom))

	result, err := svc.GetClassroomStudents(ctx, teacherActor("t-owner"), "bio-9b-x1y2")
	require.NoError(t, err)
	require.Len(t, result.Students, 1)
	assert.Equal(t, "Asha", result.Students[0].Name)
	assert.Equal(t, "s-1@parents.example.com", result.Students[0].Email)
	assert.Equal(t, models.MembershipJoined, result.Students[0].Status)
	assert.False(t, result.RequiresPermission)
}

func TestGetStudentClassroomsCarriesStatus(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", true)
	seedClassroom(t, store, "chem-9b-a1b2", "t-owner", false)
	ctx := context.Background()
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "bio-9b-x1y2"))
	require.NoError(t, svc.JoinClassroom(ctx, studentActor("s-1"), "s-1", "chem-9b-a1b2"))

	classrooms, err := svc.GetStudentClassrooms(ctx, studentActor("s-1"), "s-1")
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.Equal(t, "bio-9b-x1y2", classrooms[0].Slug)
	assert.Equal(t, models.MembershipPending, classrooms[0].Status)
	assert.Equal(t, "chem-9b-a1b2", classrooms[1].Slug)
	assert.Equal(t, models.MembershipJoined, classrooms[1].Status)
}

func TestConcurrentJoinsKeepEveryStudent(t *testing.T) {
	svc, store := newMembershipServiceForTest(t)
	seedClassroom(t, store, "bio-9b-x1y2", "t-owner", false)
	ids := []string{"s-a", "s-b", "s-c", "s-d", "s-e", "s-f", "s-g", "s-h"}
	for _, id := range ids {
		seedStudent(t, store, id, id)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			errs <- svc.JoinClassroom(context.Background(), studentActor(id), id, "bio-9b-x1y2")
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	classroom := readClassroom(t, store, "bio-9b-x1y2")
	assert.Len(t, classroom.Students, len(ids))
	for _, id := range ids {
		assertConsistent(t, store, "bio-9b-x1y2", id)
	}
}
