package models

import "time"

// CollaborationStatus is the state of a teacher's request for shared classroom access.
type CollaborationStatus string

const (
	CollaborationPending   CollaborationStatus = "pending"
	CollaborationAccepted  CollaborationStatus = "accepted"
	CollaborationRejected  CollaborationStatus = "rejected"
	CollaborationCancelled CollaborationStatus = "cancelled"
)

// CollaborationRequest is stored at classrooms/{slug}/requests/{requesterId}.
type CollaborationRequest struct {
	ID             string              `json:"id"`
	ClassroomSlug  string              `json:"classroomSlug"`
	RequesterID    string              `json:"requesterId"`
	RequesterName  string              `json:"requesterName"`
	RequesterEmail string              `json:"requesterEmail"`
	Status         CollaborationStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	AcceptedAt     *time.Time          `json:"acceptedAt,omitempty"`
}
