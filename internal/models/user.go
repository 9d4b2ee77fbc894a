package models

// UserRole represents the available roles for dashboard dispatch.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Section identifies a class/grade grouping scoping assignments.
type Section string

const (
	SectionEinsteinG11 Section = "Grade 11 - Einstein"
	SectionGalileiG12  Section = "Grade 12 - Galilei"
	SectionNone        Section = "N/A"
)

// Sections lists the real (non-sentinel) sections.
var Sections = []Section{SectionEinsteinG11, SectionGalileiG12}

// User represents an application user. The full name doubles as the login
// lookup key, compared case-insensitively; the password is stored and
// compared verbatim. Credential security is explicitly out of scope.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password,omitempty"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Section  Section  `json:"section"`
	Subject  string   `json:"subject,omitempty"`
}
