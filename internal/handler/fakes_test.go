package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/middleware"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

type call struct {
	op    string
	actor models.Actor
	args  []string
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) record(op string, actor models.Actor, args ...string) error {
	r.calls = append(r.calls, call{op: op, actor: actor, args: args})
	return r.err
}

func (r *recorder) last() call {
	if len(r.calls) == 0 {
		return call{}
	}
	return r.calls[len(r.calls)-1]
}

type accountServiceMock struct {
	recorder
	studentLogin *service.StudentLogin
	teacherLogin *service.TeacherLogin
}

func (m *accountServiceMock) RegisterStudent(_ context.Context, payload dto.StudentRegistration, password string) (*models.Account, error) {
	if err := m.record("register-student", models.Actor{}, payload.ParentEmail, password); err != nil {
		return nil, err
	}
	return &models.Account{ID: "s-1", Email: payload.ParentEmail}, nil
}

func (m *accountServiceMock) RegisterTeacher(_ context.Context, payload dto.TeacherRegistration, password string) (*models.Account, error) {
	if err := m.record("register-teacher", models.Actor{}, payload.Email, password); err != nil {
		return nil, err
	}
	return &models.Account{ID: "t-1", Email: payload.Email}, nil
}

func (m *accountServiceMock) LoginStudent(_ context.Context, email, password string) (*service.StudentLogin, error) {
	if err := m.record("login-student", models.Actor{}, email, password); err != nil {
		return nil, err
	}
	return m.studentLogin, nil
}

func (m *accountServiceMock) LoginTeacher(_ context.Context, email, password string) (*service.TeacherLogin, error) {
	if err := m.record("login-teacher", models.Actor{}, email, password); err != nil {
		return nil, err
	}
	return m.teacherLogin, nil
}

func (m *accountServiceMock) Logout(_ context.Context, sessionID string) error {
	return m.record("logout", models.Actor{}, sessionID)
}

type classroomServiceMock struct {
	recorder
	classroom  *models.Classroom
	classrooms []models.Classroom
	teacher    *models.TeacherIdentity
}

func (m *classroomServiceMock) CreateClassroom(_ context.Context, actor models.Actor, input service.CreateClassroomInput) (string, error) {
	if err := m.record("create", actor, input.TeacherID, input.Name, input.School); err != nil {
		return "", err
	}
	return "biology-9b-x1y2", nil
}

func (m *classroomServiceMock) GetTeacherClassrooms(_ context.Context, actor models.Actor, teacherID string) ([]models.Classroom, error) {
	return m.classrooms, m.record("teacher-classrooms", actor, teacherID)
}

func (m *classroomServiceMock) GetClassroomBySlug(_ context.Context, slug string) (*models.Classroom, error) {
	if err := m.record("get", models.Actor{}, slug); err != nil {
		return nil, err
	}
	return m.classroom, nil
}

func (m *classroomServiceMock) UpdateClassroomPermission(_ context.Context, actor models.Actor, slug string, requiresPermission bool) error {
	flag := "false"
	if requiresPermission {
		flag = "true"
	}
	return m.record("permission", actor, slug, flag)
}

func (m *classroomServiceMock) SearchClassrooms(_ context.Context, query string) ([]models.Classroom, error) {
	return m.classrooms, m.record("search", models.Actor{}, query)
}

func (m *classroomServiceMock) GetTeacherByEmail(_ context.Context, email string) (*models.TeacherIdentity, error) {
	if err := m.record("teacher-by-email", models.Actor{}, email); err != nil {
		return nil, err
	}
	return m.teacher, nil
}

type membershipServiceMock struct {
	recorder
	roster *models.ClassroomStudents
}

func (m *membershipServiceMock) JoinClassroom(_ context.Context, actor models.Actor, studentID, slug string) error {
	return m.record("join", actor, studentID, slug)
}

func (m *membershipServiceMock) WithdrawClassroomRequest(_ context.Context, actor models.Actor, studentID, slug string) error {
	return m.record("withdraw", actor, studentID, slug)
}

func (m *membershipServiceMock) AcceptStudentRequest(_ context.Context, actor models.Actor, slug, studentID string) error {
	return m.record("accept", actor, slug, studentID)
}

func (m *membershipServiceMock) RejectStudentRequest(_ context.Context, actor models.Actor, slug, studentID string) error {
	return m.record("reject", actor, slug, studentID)
}

func (m *membershipServiceMock) GetClassroomStudents(_ context.Context, actor models.Actor, slug string) (*models.ClassroomStudents, error) {
	if err := m.record("students", actor, slug); err != nil {
		return nil, err
	}
	return m.roster, nil
}

func (m *membershipServiceMock) GetStudentClassrooms(_ context.Context, actor models.Actor, studentID string) ([]models.ClassroomWithStatus, error) {
	return []models.ClassroomWithStatus{}, m.record("student-classrooms", actor, studentID)
}

type collaborationServiceMock struct {
	recorder
}

func (m *collaborationServiceMock) SendCollaborationRequest(_ context.Context, actor models.Actor, slug, targetTeacherID, requesterID string) error {
	return m.record("send", actor, slug, targetTeacherID, requesterID)
}

func (m *collaborationServiceMock) AddTeacherDirectly(_ context.Context, actor models.Actor, slug, targetTeacherID string) error {
	return m.record("add", actor, slug, targetTeacherID)
}

func (m *collaborationServiceMock) AcceptCollaborationRequest(_ context.Context, actor models.Actor, slug, requestID, requesterID string) error {
	return m.record("accept", actor, slug, requestID, requesterID)
}

func (m *collaborationServiceMock) RejectCollaborationRequest(_ context.Context, actor models.Actor, slug, requestID string) error {
	return m.record("reject", actor, slug, requestID)
}

func (m *collaborationServiceMock) CancelCollaborationRequest(_ context.Context, actor models.Actor, slug, requestID string) error {
	return m.record("cancel", actor, slug, requestID)
}

func (m *collaborationServiceMock) GetCollaborationRequests(_ context.Context, actor models.Actor, slug string) ([]models.CollaborationRequest, error) {
	return []models.CollaborationRequest{}, m.record("list", actor, slug)
}

type exportServiceMock struct {
	recorder
	result   *models.RosterExport
	download *service.RosterDownload
}

func (m *exportServiceMock) RequestExport(_ context.Context, actor models.Actor, slug, rawFormat string) (*models.RosterExport, error) {
	if err := m.record("request", actor, slug, rawFormat); err != nil {
		return nil, err
	}
	return m.result, nil
}

func (m *exportServiceMock) GetExport(_ context.Context, actor models.Actor, id string) (*models.RosterExport, error) {
	if err := m.record("get", actor, id); err != nil {
		return nil, err
	}
	return m.result, nil
}

func (m *exportServiceMock) ResolveDownload(_ context.Context, token string) (*service.RosterDownload, error) {
	if err := m.record("download", models.Actor{}, token); err != nil {
		return nil, err
	}
	return m.download, nil
}

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(_ context.Context, token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var testTokens = stubValidator{
	"teacher-token": {UserID: "t-1", Role: models.RoleTeacher},
	"student-token": {UserID: "s-1", Role: models.RoleStudent},
}

type mocks struct {
	accounts      *accountServiceMock
	classrooms    *classroomServiceMock
	membership    *membershipServiceMock
	collaboration *collaborationServiceMock
	exports       *exportServiceMock
}

func buildRouter() (*gin.Engine, *mocks) {
	gin.SetMode(gin.TestMode)
	m := &mocks{
		accounts:      &accountServiceMock{},
		classrooms:    &classroomServiceMock{},
		membership:    &membershipServiceMock{},
		collaboration: &collaborationServiceMock{},
		exports:       &exportServiceMock{},
	}
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Auth:          NewAuthHandler(m.accounts),
		Classrooms:    NewClassroomHandler(m.classrooms, m.classrooms),
		Membership:    NewMembershipHandler(m.membership),
		Collaboration: NewCollaborationHandler(m.collaboration),
		Exports:       NewExportHandler(m.exports, "/api/v1/exports/download"),
	}, testTokens, nil)
	return router, m
}

func performRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(middleware.ContextUserKey, claims)
}
