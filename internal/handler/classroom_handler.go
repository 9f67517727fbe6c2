package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

type classroomService interface {
	CreateClassroom(ctx context.Context, actor models.Actor, input service.CreateClassroomInput) (string, error)
	GetTeacherClassrooms(ctx context.Context, actor models.Actor, teacherID string) ([]models.Classroom, error)
	GetClassroomBySlug(ctx context.Context, slug string) (*models.Classroom, error)
	UpdateClassroomPermission(ctx context.Context, actor models.Actor, slug string, requiresPermission bool) error
	SearchClassrooms(ctx context.Context, query string) ([]models.Classroom, error)
}

type teacherDirectory interface {
	GetTeacherByEmail(ctx context.Context, email string) (*models.TeacherIdentity, error)
}

// ClassroomHandler exposes the classroom registry.
type ClassroomHandler struct {
	classrooms classroomService
	teachers   teacherDirectory
}

// NewClassroomHandler constructs the handler.
func NewClassroomHandler(classrooms classroomService, teachers teacherDirectory) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, teachers: teachers}
}

// Create godoc
// @Summary Create a classroom owned by the caller
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateClassroomRequest true "Classroom"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Failure
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateClassroomRequest
	if !bindJSON(c, &req, "invalid classroom payload") {
		return
	}
	slug, err := h.classrooms.CreateClassroom(c.Request.Context(), actor, service.CreateClassroomInput{
		TeacherID:          actor.UserID,
		Name:               req.Name,
		School:             req.School,
		RequiresPermission: req.RequiresPermission,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"slug": slug})
}

// Search godoc
// @Summary Search classrooms by name, school or teacher
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms [get]
func (h *ClassroomHandler) Search(c *gin.Context) {
	classrooms, err := h.classrooms.SearchClassrooms(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classrooms": classrooms})
}

// Get godoc
// @Summary Get a classroom by slug
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Failure
// @Router /classrooms/{slug} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroom, err := h.classrooms.GetClassroomBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classroom": classroom})
}

// UpdatePermission godoc
// @Summary Toggle approval-required joins
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param payload body dto.UpdatePermissionRequest true "Permission flag"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Failure
// @Router /classrooms/{slug}/permission [patch]
func (h *ClassroomHandler) UpdatePermission(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdatePermissionRequest
	if !bindJSON(c, &req, "invalid permission payload") {
		return
	}
	if req.RequiresPermission == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "requiresPermission is required"))
		return
	}
	if err := h.classrooms.UpdateClassroomPermission(c.Request.Context(), actor, c.Param("slug"), *req.RequiresPermission); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// TeacherClassrooms godoc
// @Summary List the classrooms a teacher can access
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} map[string]interface{}
// @Router /teachers/{id}/classrooms [get]
func (h *ClassroomHandler) TeacherClassrooms(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	classrooms, err := h.classrooms.GetTeacherClassrooms(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classrooms": classrooms})
}

// TeacherByEmail godoc
// @Summary Look up a teacher by email
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Param email query string true "Teacher email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Failure
// @Router /teachers [get]
func (h *ClassroomHandler) TeacherByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email is required"))
		return
	}
	teacher, err := h.teachers.GetTeacherByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"teacher": teacher})
}
