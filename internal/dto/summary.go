package dto

// SectionUsage counts platform activity for one section. A submission
// belongs to the section of its parent assignment.
type SectionUsage struct {
	Assignments int `json:"assignments"`
	Submissions int `json:"submissions"`
}

// UsageStats is the structured summary handed to the analyst model and to
// the report exporters.
type UsageStats struct {
	TotalAssignments int                     `json:"totalAssignments"`
	TotalSubmissions int                     `json:"totalSubmissions"`
	BySection        map[string]SectionUsage `json:"bySection"`
}

// SummaryResponse wraps the generated executive summary.
type SummaryResponse struct {
	Summary string     `json:"summary"`
	Stats   UsageStats `json:"stats"`
}
