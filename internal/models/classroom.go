package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// MembershipStatus is the state of a (student, classroom) pair.
type MembershipStatus string

const (
	MembershipPending MembershipStatus = "pending"
	MembershipJoined  MembershipStatus = "joined"
)

// Classroom is stored at classrooms/{slug}.
type Classroom struct {
	Slug               string              `json:"slug"`
	Name               string              `json:"name"`
	School             string              `json:"school,omitempty"`
	RequiresPermission bool                `json:"requiresPermission"`
	TeacherID          string              `json:"teacherId"`
	TeacherName        string              `json:"teacherName"`
	Students           []StudentMembership `json:"students"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// StudentIndex returns the position of studentID in the roster or -1.
func (c *Classroom) StudentIndex(studentID string) int {
	for i, m := range c.Students {
		if m.ID == studentID {
			return i
		}
	}
	return -1
}

// StudentMembership is the classroom-side roster entry.
type StudentMembership struct {
	ID       string           `json:"id"`
	Status   MembershipStatus `json:"status"`
	JoinedAt *time.Time       `json:"joinedAt"`
}

type studentMembershipAlias StudentMembership

// UnmarshalJSON accepts legacy rosters that stored a bare student id.
func (m *StudentMembership) UnmarshalJSON(data []byte) error {
	if id, ok := legacyEntry(data); ok {
		*m = StudentMembership{ID: id, Status: MembershipJoined}
		return nil
	}
	var alias studentMembershipAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	if alias.Status == "" {
		alias.Status = MembershipJoined
	}
	*m = StudentMembership(alias)
	return nil
}

// ClassroomMembership is the student-side entry.
type ClassroomMembership struct {
	Slug     string           `json:"slug"`
	Status   MembershipStatus `json:"status"`
	JoinedAt *time.Time       `json:"joinedAt"`
}

type classroomMembershipAlias ClassroomMembership

// UnmarshalJSON accepts legacy entries that stored a bare slug.
func (m *ClassroomMembership) UnmarshalJSON(data []byte) error {
	if slug, ok := legacyEntry(data); ok {
		*m = ClassroomMembership{Slug: slug, Status: MembershipJoined}
		return nil
	}
	var alias classroomMembershipAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	if alias.Status == "" {
		alias.Status = MembershipJoined
	}
	*m = ClassroomMembership(alias)
	return nil
}

func legacyEntry(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// StudentInClassroom is the roster projection returned to teachers.
type StudentInClassroom struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Std      string           `json:"std"`
	Div      string           `json:"div"`
	RollNo   string           `json:"rollNo"`
	Status   MembershipStatus `json:"status"`
	JoinedAt *time.Time       `json:"joinedAt"`
}

// ClassroomWithStatus is a classroom as seen from one student's membership.
type ClassroomWithStatus struct {
	Classroom
	Status   MembershipStatus `json:"status"`
	JoinedAt *time.Time       `json:"joinedAt"`
}

// ClassroomStudents is the roster plus the classroom's join policy.
type ClassroomStudents struct {
	Students           []StudentInClassroom `json:"students"`
	RequiresPermission bool                 `json:"requiresPermission"`
}
