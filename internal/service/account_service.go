package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

const (
	msgPasswordTooShort  = "Password must be at least 6 characters long"
	msgInvalidEmail      = "Please enter a valid email address"
	msgRegisteredTeacher = "This email is already registered as a teacher. Please use a different email."
	msgUseTeacherLogin   = "This account is registered as a teacher. Please use teacher login."
	msgRegistrationFail  = "Registration failed"
	msgLoginFail         = "Login failed"
)

type identityProvider interface {
	SignUp(ctx context.Context, email, password string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	IssueToken(session *models.Session, role models.Role) (string, error)
	SignOut(ctx context.Context, sessionID string) error
}

// StudentLogin is returned by a successful student login.
type StudentLogin struct {
	User    models.Account
	Token   string
	Student models.StudentIdentity
}

// TeacherLogin is returned by a successful teacher login.
type TeacherLogin struct {
	User    models.Account
	Token   string
	Teacher models.TeacherIdentity
}

// AccountService implements registration and login for both portals.
type AccountService struct {
	store    DocumentStore
	identity identityProvider
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(store DocumentStore, identity identityProvider, metrics *MetricsService, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		store:    store,
		identity: identity,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterStudent creates the identity and the student profile keyed by its id.
func (s *AccountService) RegisterStudent(ctx context.Context, payload dto.StudentRegistration, password string) (*models.Account, error) {
	account, err := s.registerStudent(ctx, payload, password)
	s.metrics.RecordAuthAttempt("register", string(models.RoleStudent), err == nil)
	return account, err
}

func (s *AccountService) registerStudent(ctx context.Context, payload dto.StudentRegistration, password string) (*models.Account, error) {
	if !ValidatePassword(password) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgPasswordTooShort)
	}
	if violations := ValidateStudentPayload(payload); len(violations) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, violations[0].Message)
	}

	teachers, err := s.store.FindByField(ctx, repository.CollectionTeachers, "email", payload.ParentEmail)
	if err != nil {
		s.logger.Warn("teacher lookup failed during student registration", zap.Error(err))
		return nil, appErrors.Internal(err, msgRegistrationFail)
	}
	if len(teachers) > 0 {
		return nil, appErrors.Clone(appErrors.ErrRoleConflict, msgRegisteredTeacher)
	}

	account, err := s.identity.SignUp(ctx, payload.ParentEmail, password)
	if err != nil {
		return nil, s.signUpError(err)
	}

	student := models.StudentIdentity{
		Name:        payload.Name,
		ParentEmail: payload.ParentEmail,
		Std:         payload.Std,
		Div:         payload.Div,
		RollNo:      payload.RollNo,
		School:      payload.School,
		ParentsNo:   payload.ParentsNo,
		Gender:      payload.Gender,
		Role:        models.RoleStudent,
		Classrooms:  []models.ClassroomMembership{},
		CreatedAt:   s.now(),
	}
	if err := s.store.Set(ctx, repository.CollectionStudents, account.ID, student); err != nil {
		s.logger.Warn("student profile write failed after sign-up", zap.String("user_id", account.ID), zap.Error(err))
		return nil, appErrors.Internal(err, msgRegistrationFail)
	}
	s.logger.Info("student registered", zap.String("user_id", account.ID))
	return account, nil
}

// RegisterTeacher creates the identity and the teacher profile. Unlike student registration it does
// not look for an existing student with the same email.
func (s *AccountService) RegisterTeacher(ctx context.Context, payload dto.TeacherRegistration, password string) (*models.Account, error) {
	account, err := s.registerTeacher(ctx, payload, password)
	s.metrics.RecordAuthAttempt("register", string(models.RoleTeacher), err == nil)
	return account, err
}

func (s *AccountService) registerTeacher(ctx context.Context, payload dto.TeacherRegistration, password string) (*models.Account, error) {
	if !ValidatePassword(password) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgPasswordTooShort)
	}
	if violations := ValidateTeacherPayload(payload); len(violations) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, violations[0].Message)
	}

	account, err := s.identity.SignUp(ctx, payload.Email, password)
	if err != nil {
		return nil, s.signUpError(err)
	}

	teacher := models.TeacherIdentity{
		Name:       payload.Name,
		Email:      payload.Email,
		Role:       models.RoleTeacher,
		Classrooms: []string{},
		CreatedAt:  s.now(),
	}
	if err := s.store.Set(ctx, repository.CollectionTeachers, account.ID, teacher); err != nil {
		s.logger.Warn("teacher profile write failed after sign-up", zap.String("user_id", account.ID), zap.Error(err))
		return nil, appErrors.Internal(err, msgRegistrationFail)
	}
	s.logger.Info("teacher registered", zap.String("user_id", account.ID))
	return account, nil
}

// LoginStudent signs in and loads the student profile. Teacher accounts are signed out and redirected.
func (s *AccountService) LoginStudent(ctx context.Context, email, password string) (*StudentLogin, error) {
	result, err := s.loginStudent(ctx, email, password)
	s.metrics.RecordAuthAttempt("login", string(models.RoleStudent), err == nil)
	return result, err
}

func (s *AccountService) loginStudent(ctx context.Context, email, password string) (*StudentLogin, error) {
	session, err := s.signIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	var teacher models.TeacherIdentity
	err = s.store.Get(ctx, repository.CollectionTeachers, session.UserID, &teacher)
	switch {
	case err == nil:
		s.signOut(ctx, session)
		return nil, appErrors.Clone(appErrors.ErrRoleConflict, msgUseTeacherLogin)
	case !isNotFound(err):
		s.signOut(ctx, session)
		return nil, appErrors.Internal(err, msgLoginFail)
	}

	var student models.StudentIdentity
	if err := s.store.Get(ctx, repository.CollectionStudents, session.UserID, &student); err != nil {
		s.signOut(ctx, session)
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrAccountNotFound, "Student account not found")
		}
		return nil, appErrors.Internal(err, msgLoginFail)
	}
	student.ID = session.UserID

	token, err := s.identity.IssueToken(session, models.RoleStudent)
	if err != nil {
		s.signOut(ctx, session)
		return nil, appErrors.Internal(err, msgLoginFail)
	}
	return &StudentLogin{User: accountFromSession(session), Token: token, Student: student}, nil
}

// LoginTeacher signs in and loads the teacher profile.
func (s *AccountService) LoginTeacher(ctx context.Context, email, password string) (*TeacherLogin, error) {
	result, err := s.loginTeacher(ctx, email, password)
	s.metrics.RecordAuthAttempt("login", string(models.RoleTeacher), err == nil)
	return result, err
}

func (s *AccountService) loginTeacher(ctx context.Context, email, password string) (*TeacherLogin, error) {
	session, err := s.signIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	var teacher models.TeacherIdentity
	if err := s.store.Get(ctx, repository.CollectionTeachers, session.UserID, &teacher); err != nil {
		s.signOut(ctx, session)
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrAccountNotFound, "Teacher account not found")
		}
		return nil, appErrors.Internal(err, msgLoginFail)
	}
	teacher.ID = session.UserID

	token, err := s.identity.IssueToken(session, models.RoleTeacher)
	if err != nil {
		s.signOut(ctx, session)
		return nil, appErrors.Internal(err, msgLoginFail)
	}
	return &TeacherLogin{User: accountFromSession(session), Token: token, Teacher: teacher}, nil
}

// Logout revokes the caller's session.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if err := s.identity.SignOut(ctx, sessionID); err != nil {
		return appErrors.Internal(err, "Logout failed")
	}
	return nil
}

func (s *AccountService) signIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if !ValidateEmail(email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgInvalidEmail)
	}
	if !ValidatePassword(password) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgPasswordTooShort)
	}
	session, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, s.signInError(err)
	}
	return session, nil
}

func (s *AccountService) signOut(ctx context.Context, session *models.Session) {
	if err := s.identity.SignOut(ctx, session.ID); err != nil {
		s.logger.Warn("sign-out after rejected login failed", zap.String("user_id", session.UserID), zap.Error(err))
	}
}

func (s *AccountService) signUpError(err error) error {
	switch {
	case errors.Is(err, ErrEmailInUse):
		return appErrors.WithStatus(appErrors.ErrProvider, http.StatusConflict, "This email is already registered")
	case errors.Is(err, ErrInvalidEmail):
		return appErrors.Clone(appErrors.ErrProvider, "Invalid email address")
	case errors.Is(err, ErrWeakPassword):
		return appErrors.Clone(appErrors.ErrProvider, "Password is too weak")
	default:
		s.logger.Warn("identity sign-up failed", zap.Error(err))
		return appErrors.Internal(err, msgRegistrationFail)
	}
}

func (s *AccountService) signInError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrWrongPassword):
		return appErrors.WithStatus(appErrors.ErrProvider, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrTooManyRequests):
		return appErrors.WithStatus(appErrors.ErrProvider, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.")
	default:
		s.logger.Warn("identity sign-in failed", zap.Error(err))
		return appErrors.Internal(err, msgLoginFail)
	}
}

func accountFromSession(session *models.Session) models.Account {
	return models.Account{ID: session.UserID, Email: session.Email}
}
