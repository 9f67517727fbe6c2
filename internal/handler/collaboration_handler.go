package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

type collaborationService interface {
	SendCollaborationRequest(ctx context.Context, actor models.Actor, slug, targetTeacherID, requesterID string) error
	AddTeacherDirectly(ctx context.Context, actor models.Actor, slug, targetTeacherID string) error
	AcceptCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID, requesterID string) error
	RejectCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID string) error
	CancelCollaborationRequest(ctx context.Context, actor models.Actor, slug, requestID string) error
	GetCollaborationRequests(ctx context.Context, actor models.Actor, slug string) ([]models.CollaborationRequest, error)
}

// CollaborationHandler exposes teacher collaboration on classrooms.
type CollaborationHandler struct {
	collaboration collaborationService
}

// NewCollaborationHandler constructs the handler.
func NewCollaborationHandler(collaboration collaborationService) *CollaborationHandler {
	return &CollaborationHandler{collaboration: collaboration}
}

// List godoc
// @Summary List collaboration requests for a classroom
// @Tags Collaboration
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/collaboration-requests [get]
func (h *CollaborationHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	requests, err := h.collaboration.GetCollaborationRequests(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"requests": requests})
}

// Send godoc
// @Summary Ask the classroom owner for access
// @Tags Collaboration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param payload body dto.CollaborationRequestPayload false "Target teacher"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} response.Failure
// @Router /classrooms/{slug}/collaboration-requests [post]
func (h *CollaborationHandler) Send(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CollaborationRequestPayload
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid collaboration payload") {
		return
	}
	target := req.TargetTeacherID
	if target == "" {
		target = actor.UserID
	}
	if err := h.collaboration.SendCollaborationRequest(c.Request.Context(), actor, c.Param("slug"), target, actor.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, nil)
}

// Accept godoc
// @Summary Accept a collaboration request
// @Tags Collaboration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param requestId path string true "Request ID"
// @Param payload body dto.AcceptCollaborationPayload false "Requester"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/collaboration-requests/{requestId}/accept [post]
func (h *CollaborationHandler) Accept(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.AcceptCollaborationPayload
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid collaboration payload") {
		return
	}
	requestID := c.Param("requestId")
	requester := req.RequesterID
	if requester == "" {
		requester = requestID
	}
	if err := h.collaboration.AcceptCollaborationRequest(c.Request.Context(), actor, c.Param("slug"), requestID, requester); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// Reject godoc
// @Summary Reject a collaboration request
// @Tags Collaboration
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param requestId path string true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/collaboration-requests/{requestId}/reject [post]
func (h *CollaborationHandler) Reject(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.collaboration.RejectCollaborationRequest(c.Request.Context(), actor, c.Param("slug"), c.Param("requestId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// Cancel godoc
// @Summary Cancel one's own collaboration request
// @Tags Collaboration
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param requestId path string true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/collaboration-requests/{requestId}/cancel [post]
func (h *CollaborationHandler) Cancel(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.collaboration.CancelCollaborationRequest(c.Request.Context(), actor, c.Param("slug"), c.Param("requestId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// AddCollaborator godoc
// @Summary Grant a teacher access without a request
// @Tags Collaboration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param payload body dto.AddCollaboratorRequest true "Teacher"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/collaborators [post]
func (h *CollaborationHandler) AddCollaborator(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.AddCollaboratorRequest
	if !bindJSON(c, &req, "invalid collaborator payload") {
		return
	}
	if req.TeacherID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId is required"))
		return
	}
	if err := h.collaboration.AddTeacherDirectly(c.Request.Context(), actor, c.Param("slug"), req.TeacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}
