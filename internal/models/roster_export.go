package models

import "time"

// ExportStatus captures the roster export lifecycle.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// RosterExport is stored at roster_exports/{id}.
type RosterExport struct {
	ID            string       `json:"id"`
	ClassroomSlug string       `json:"classroomSlug"`
	Format        string       `json:"format"`
	Status        ExportStatus `json:"status"`
	RequestedBy   string       `json:"requestedBy"`
	FilePath      string       `json:"filePath,omitempty"`
	ResultToken   string       `json:"resultToken,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
	Error         string       `json:"error,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	FinishedAt    *time.Time   `json:"finishedAt,omitempty"`
}

// Terminal reports whether the export will not change status again.
func (e *RosterExport) Terminal() bool {
	return e.Status == ExportStatusFinished || e.Status == ExportStatusFailed
}
