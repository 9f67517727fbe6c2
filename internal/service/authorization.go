package service

import (
	"context"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
)

// requireSelf allows a caller to act only on their own identity.
func requireSelf(actor models.Actor, userID string, role models.Role) error {
	if !actor.Is(userID, role) {
		return errForbidden
	}
	return nil
}

// requireOwner allows only the teacher who created the classroom.
func requireOwner(actor models.Actor, classroom *models.Classroom) error {
	if !actor.Is(classroom.TeacherID, models.RoleTeacher) {
		return errForbidden
	}
	return nil
}

// requireClassroomAccess allows the owner and any teacher holding the slug in their classrooms list.
func requireClassroomAccess(ctx context.Context, src documentGetter, actor models.Actor, classroom *models.Classroom) error {
	if actor.Role != models.RoleTeacher || actor.UserID == "" {
		return errForbidden
	}
	if actor.UserID == classroom.TeacherID {
		return nil
	}
	teacher, err := loadTeacher(ctx, src, actor.UserID)
	if err != nil {
		if isNotFoundAppError(err) {
			return errForbidden
		}
		return err
	}
	if !teacher.HasClassroom(classroom.Slug) {
		return errForbidden
	}
	return nil
}
