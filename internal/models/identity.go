package models

import "time"

// Role tags which portal an identity belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known portals.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// StudentIdentity is stored at students/{id}.
type StudentIdentity struct {
	ID          string                `json:"id,omitempty"`
	Name        string                `json:"name"`
	ParentEmail string                `json:"parentEmail"`
	Std         string                `json:"std"`
	Div         string                `json:"div"`
	RollNo      string                `json:"rollNo"`
	School      string                `json:"school"`
	ParentsNo   string                `json:"parentsNo"`
	Gender      string                `json:"gender"`
	Role        Role                  `json:"role"`
	Classrooms  []ClassroomMembership `json:"classrooms"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// Membership returns the student's entry for slug, if any.
func (s *StudentIdentity) Membership(slug string) (ClassroomMembership, bool) {
	for _, m := range s.Classrooms {
		if m.Slug == slug {
			return m, true
		}
	}
	return ClassroomMembership{}, false
}

// TeacherIdentity is stored at teachers/{id}.
type TeacherIdentity struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Classrooms []string  `json:"classrooms"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasClassroom reports whether the teacher already has access to slug.
func (t *TeacherIdentity) HasClassroom(slug string) bool {
	for _, s := range t.Classrooms {
		if s == slug {
			return true
		}
	}
	return false
}
