package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

type accountService interface {
	RegisterStudent(ctx context.Context, payload dto.StudentRegistration, password string) (*models.Account, error)
	RegisterTeacher(ctx context.Context, payload dto.TeacherRegistration, password string) (*models.Account, error)
	LoginStudent(ctx context.Context, email, password string) (*service.StudentLogin, error)
	LoginTeacher(ctx context.Context, email, password string) (*service.TeacherLogin, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler exposes registration and login for both portals.
type AuthHandler struct {
	accounts accountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts accountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterStudent godoc
// @Summary Register a student account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student registration"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Router /auth/students/register [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	account, err := h.accounts.RegisterStudent(c.Request.Context(), req.StudentRegistration, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"user": account})
}

// RegisterTeacher godoc
// @Summary Register a teacher account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.RegisterTeacherRequest true "Teacher registration"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Router /auth/teachers/register [post]
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req dto.RegisterTeacherRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	account, err := h.accounts.RegisterTeacher(c.Request.Context(), req.TeacherRegistration, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"user": account})
}

// LoginStudent godoc
// @Summary Student login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Failure
// @Failure 404 {object} response.Failure
// @Router /auth/students/login [post]
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	result, err := h.accounts.LoginStudent(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": result.User, "userData": result.Student, "token": result.Token})
}

// LoginTeacher godoc
// @Summary Teacher login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Failure
// @Failure 404 {object} response.Failure
// @Router /auth/teachers/login [post]
func (h *AuthHandler) LoginTeacher(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	result, err := h.accounts.LoginTeacher(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": result.User, "userData": result.Teacher, "token": result.Token})
}

// Logout godoc
// @Summary Revoke the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), claims.SessionID()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}
