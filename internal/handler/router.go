package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/middleware"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
)

// Handlers groups everything RegisterRoutes mounts. Exports may be nil when disabled.
type Handlers struct {
	Auth          *AuthHandler
	Classrooms    *ClassroomHandler
	Membership    *MembershipHandler
	Collaboration *CollaborationHandler
	Exports       *ExportHandler
}

// RegisterRoutes mounts the API under group. Mutations are audit-logged.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, validator middleware.TokenValidator, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	auth := middleware.JWT(validator)
	teacher := middleware.RequireRoles(models.RoleTeacher)
	student := middleware.RequireRoles(models.RoleStudent)
	audit := func(action string) gin.HandlerFunc { return middleware.Audit(logger, action) }

	authGroup := group.Group("/auth")
	authGroup.POST("/students/register", audit("student.register"), h.Auth.RegisterStudent)
	authGroup.POST("/teachers/register", audit("teacher.register"), h.Auth.RegisterTeacher)
	authGroup.POST("/students/login", h.Auth.LoginStudent)
	authGroup.POST("/teachers/login", h.Auth.LoginTeacher)
	authGroup.POST("/logout", auth, h.Auth.Logout)

	secured := group.Group("")
	secured.Use(auth)

	classrooms := secured.Group("/classrooms")
	classrooms.POST("", teacher, audit("classroom.create"), h.Classrooms.Create)
	classrooms.GET("", h.Classrooms.Search)
	classrooms.GET("/:slug", h.Classrooms.Get)
	classrooms.PATCH("/:slug/permission", teacher, audit("classroom.permission"), h.Classrooms.UpdatePermission)

	classrooms.POST("/:slug/join", student, audit("membership.join"), h.Membership.Join)
	classrooms.DELETE("/:slug/join", student, audit("membership.withdraw"), h.Membership.Withdraw)
	classrooms.GET("/:slug/students", teacher, h.Membership.Students)
	classrooms.POST("/:slug/students/:studentId/accept", teacher, audit("membership.accept"), h.Membership.Accept)
	classrooms.POST("/:slug/students/:studentId/reject", teacher, audit("membership.reject"), h.Membership.Reject)

	classrooms.GET("/:slug/collaboration-requests", teacher, h.Collaboration.List)
	classrooms.POST("/:slug/collaboration-requests", teacher, audit("collaboration.send"), h.Collaboration.Send)
	classrooms.POST("/:slug/collaboration-requests/:requestId/accept", teacher, audit("collaboration.accept"), h.Collaboration.Accept)
	classrooms.POST("/:slug/collaboration-requests/:requestId/reject", teacher, audit("collaboration.reject"), h.Collaboration.Reject)
	classrooms.POST("/:slug/collaboration-requests/:requestId/cancel", teacher, audit("collaboration.cancel"), h.Collaboration.Cancel)
	classrooms.POST("/:slug/collaborators", teacher, audit("collaboration.add"), h.Collaboration.AddCollaborator)

	secured.GET("/teachers", teacher, h.Classrooms.TeacherByEmail)
	secured.GET("/teachers/:id/classrooms", teacher, h.Classrooms.TeacherClassrooms)
	secured.GET("/students/:id/classrooms", student, h.Membership.StudentClassrooms)

	if h.Exports != nil {
		classrooms.POST("/:slug/exports", teacher, audit("export.request"), h.Exports.Request)
		secured.GET("/exports/:id", teacher, h.Exports.Status)
		group.GET("/exports/download/:token", h.Exports.Download)
	}
}
