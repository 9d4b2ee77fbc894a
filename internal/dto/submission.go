package dto

import "github.com/noah-isme/mustang-stride-api/internal/models"

// CreateSubmissionRequest describes the payload for turning in work.
// Status defaults to ON_TIME and the timestamp to now when omitted.
type CreateSubmissionRequest struct {
	AssignmentID string                  `json:"assignmentId" validate:"required"`
	StudentID    string                  `json:"studentId"`
	StudentName  string                  `json:"studentName"`
	SubmittedAt  string                  `json:"submittedAt"`
	Files        []models.SubmissionFile `json:"files"`
	TextResponse string                  `json:"textResponse"`
	Status       models.SubmissionStatus `json:"status" validate:"omitempty,oneof=ON_TIME LATE"`
}
