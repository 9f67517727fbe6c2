package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

type membershipService interface {
	JoinClassroom(ctx context.Context, actor models.Actor, studentID, slug string) error
	WithdrawClassroomRequest(ctx context.Context, actor models.Actor, studentID, slug string) error
	AcceptStudentRequest(ctx context.Context, actor models.Actor, slug, studentID string) error
	RejectStudentRequest(ctx context.Context, actor models.Actor, slug, studentID string) error
	GetClassroomStudents(ctx context.Context, actor models.Actor, slug string) (*models.ClassroomStudents, error)
	GetStudentClassrooms(ctx context.Context, actor models.Actor, studentID string) ([]models.ClassroomWithStatus, error)
}

// MembershipHandler exposes student membership operations.
type MembershipHandler struct {
	membership membershipService
}

// NewMembershipHandler constructs the handler.
func NewMembershipHandler(membership membershipService) *MembershipHandler {
	return &MembershipHandler{membership: membership}
}

// Join godoc
// @Summary Join a classroom or ask to join it
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} response.Failure
// @Router /classrooms/{slug}/join [post]
func (h *MembershipHandler) Join(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.membership.JoinClassroom(c.Request.Context(), actor, actor.UserID, c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// Withdraw godoc
// @Summary Withdraw a join request or leave a classroom
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/join [delete]
func (h *MembershipHandler) Withdraw(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.membership.WithdrawClassroomRequest(c.Request.Context(), actor, actor.UserID, c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// StudentClassrooms godoc
// @Summary List a student's classrooms with membership status
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /students/{id}/classrooms [get]
func (h *MembershipHandler) StudentClassrooms(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	classrooms, err := h.membership.GetStudentClassrooms(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classrooms": classrooms})
}

// Students godoc
// @Summary List a classroom's students
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Failure
// @Router /classrooms/{slug}/students [get]
func (h *MembershipHandler) Students(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	roster, err := h.membership.GetClassroomStudents(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"students": roster.Students, "requiresPermission": roster.RequiresPermission})
}

// Accept godoc
// @Summary Accept a pending join request
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param studentId path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/students/{studentId}/accept [post]
func (h *MembershipHandler) Accept(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.membership.AcceptStudentRequest(c.Request.Context(), actor, c.Param("slug"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}

// Reject godoc
// @Summary Reject a join request or remove a student
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param studentId path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /classrooms/{slug}/students/{studentId}/reject [post]
func (h *MembershipHandler) Reject(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.membership.RejectStudentRequest(c.Request.Context(), actor, c.Param("slug"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil)
}
