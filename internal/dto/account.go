package dto

// StudentRegistration is the student sign-up form.
type StudentRegistration struct {
	Name        string `json:"name" validate:"filled"`
	ParentEmail string `json:"parentEmail" validate:"filled,account_email"`
	Std         string `json:"std" validate:"filled"`
	Div         string `json:"div" validate:"filled"`
	RollNo      string `json:"rollNo" validate:"filled"`
	School      string `json:"school" validate:"filled"`
	ParentsNo   string `json:"parentsNo" validate:"filled,phone10"`
	Gender      string `json:"gender" validate:"filled"`
}

// TeacherRegistration is the teacher sign-up form.
type TeacherRegistration struct {
	Name  string `json:"name" validate:"filled"`
	Email string `json:"email" validate:"filled,account_email"`
}

// RegisterStudentRequest wraps the form with the chosen password.
type RegisterStudentRequest struct {
	StudentRegistration
	Password string `json:"password"`
}

// RegisterTeacherRequest wraps the form with the chosen password.
type RegisterTeacherRequest struct {
	TeacherRegistration
	Password string `json:"password"`
}

// LoginRequest holds portal credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
