package dto

// CreateClassroomRequest creates a classroom owned by the caller.
type CreateClassroomRequest struct {
	Name               string `json:"name"`
	School             string `json:"school"`
	RequiresPermission bool   `json:"requiresPermission"`
}

// UpdatePermissionRequest toggles approval-required joins.
type UpdatePermissionRequest struct {
	RequiresPermission *bool `json:"requiresPermission"`
}

// CollaborationRequestPayload names the teacher who would gain access.
type CollaborationRequestPayload struct {
	TargetTeacherID string `json:"targetTeacherId"`
}

// AddCollaboratorRequest grants a teacher access without a request.
type AddCollaboratorRequest struct {
	TeacherID string `json:"teacherId"`
}

// RosterExportRequest selects the export format.
type RosterExportRequest struct {
	Format string `json:"format"`
}

// AcceptCollaborationPayload optionally names the requester being granted access.
// When omitted the request id is used, since requests are keyed by requester.
type AcceptCollaborationPayload struct {
	RequesterID string `json:"requesterId"`
}
