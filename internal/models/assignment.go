package models

// SubmissionFile is a file attachment embedded inline in its record.
// There is no external blob storage; payloads are base64 encoded.
type SubmissionFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
	Type string `json:"type"`
}

// Assignment is a piece of work a teacher hands out to a section.
type Assignment struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     string           `json:"dueDate"`
	Section     Section          `json:"section"`
	TeacherID   string           `json:"teacherId"`
	TeacherName string           `json:"teacherName"`
	Subject     string           `json:"subject"`
	Attachments []SubmissionFile `json:"attachments"`
	CreatedAt   string           `json:"createdAt"`
}
