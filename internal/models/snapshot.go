package models

// Snapshot is the unit of durability: the full in-memory state serialized
// for the four store slots. CurrentUser is nil when nobody is logged in.
type Snapshot struct {
	CurrentUser *User        `json:"currentUser"`
	Users       []User       `json:"users"`
	Assignments []Assignment `json:"assignments"`
	Submissions []Submission `json:"submissions"`
}
