package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
)

func validStudentPayload() dto.StudentRegistration {
	return dto.StudentRegistration{
		Name:        "Asha Patel",
		ParentEmail: "parent@example.com",
		Std:         "9",
		Div:         "B",
		RollNo:      "12",
		School:      "Springfield High",
		ParentsNo:   "9876543210",
		Gender:      "female",
	}
}

func TestValidatePrimitives(t *testing.T) {
	assert.True(t, ValidateEmail("a@b.co"))
	assert.False(t, ValidateEmail("a@b"))
	assert.False(t, ValidateEmail("a b@c.de"))
	assert.False(t, ValidateEmail(""))

	assert.True(t, ValidatePassword("secret"))
	assert.False(t, ValidatePassword("short"))

	assert.True(t, ValidatePhone("0123456789"))
	assert.False(t, ValidatePhone("12345"))
	assert.False(t, ValidatePhone("12345678901"))
	assert.False(t, ValidatePhone("98765x3210"))
}

func TestValidateStudentPayloadValid(t *testing.T) {
	assert.Empty(t, ValidateStudentPayload(validStudentPayload()))
}

func TestValidateStudentPayloadReportsEveryFieldInOrder(t *testing.T) {
	violations := ValidateStudentPayload(dto.StudentRegistration{})
	require.Len(t, violations, 8)

	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"name", "parentEmail", "std", "div", "rollNo", "school", "parentsNo", "gender"}, fields)
	assert.Equal(t, "Name is required", violations[0].Message)
}

func TestValidateStudentPayloadFormatErrors(t *testing.T) {
	payload := validStudentPayload()
	payload.ParentEmail = "not-an-email"
	payload.ParentsNo = "12345"

	violations := ValidateStudentPayload(payload)
	require.Len(t, violations, 2)
	assert.Equal(t, "parentEmail", violations[0].Field)
	assert.Equal(t, "Please enter a valid email address", violations[0].Message)
	assert.Equal(t, "parentsNo", violations[1].Field)
	assert.Equal(t, "Please enter a valid 10-digit phone number", violations[1].Message)
}

func TestValidateTeacherPayload(t *testing.T) {
	assert.Empty(t, ValidateTeacherPayload(dto.TeacherRegistration{Name: "Ms. Rivera", Email: "rivera@school.example.com"}))

	violations := ValidateTeacherPayload(dto.TeacherRegistration{Name: " ", Email: "rivera"})
	require.Len(t, violations, 2)
	assert.Equal(t, "Name is required", violations[0].Message)
	assert.Equal(t, "email", violations[1].Field)
}
