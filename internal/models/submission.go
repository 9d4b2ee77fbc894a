package models

// SubmissionStatus is the two-value punctuality enumeration.
type SubmissionStatus string

const (
	StatusOnTime SubmissionStatus = "ON_TIME"
	StatusLate   SubmissionStatus = "LATE"
)

// Submission records a student's answer to one assignment. Submissions are
// only ever added and cascade-deleted with their parent assignment, never
// updated in place.
type Submission struct {
	ID           string           `json:"id"`
	AssignmentID string           `json:"assignmentId"`
	StudentID    string           `json:"studentId"`
	StudentName  string           `json:"studentName"`
	SubmittedAt  string           `json:"submittedAt"`
	Files        []SubmissionFile `json:"files"`
	TextResponse string           `json:"textResponse,omitempty"`
	Status       SubmissionStatus `json:"status"`
}
