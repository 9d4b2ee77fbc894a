package dto

import "github.com/noah-isme/mustang-stride-api/internal/models"

// CreateAssignmentRequest describes the payload for handing out an
// assignment. Every omitted field defaults to its zero value; the section
// defaults to the none sentinel.
type CreateAssignmentRequest struct {
	Title       string                  `json:"title" validate:"required"`
	Description string                  `json:"description"`
	DueDate     string                  `json:"dueDate"`
	Section     models.Section          `json:"section"`
	TeacherID   string                  `json:"teacherId"`
	TeacherName string                  `json:"teacherName"`
	Subject     string                  `json:"subject"`
	Attachments []models.SubmissionFile `json:"attachments"`
}

// UpdateAssignmentRequest carries a shallow merge of assignment fields.
type UpdateAssignmentRequest struct {
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	DueDate     *string                  `json:"dueDate"`
	Section     *models.Section          `json:"section"`
	Subject     *string                  `json:"subject"`
	Attachments *[]models.SubmissionFile `json:"attachments"`
}
