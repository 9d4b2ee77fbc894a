package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/mustang-stride-api/internal/models"
)

// Users returns a copy of the user collection.
func (c *Controller) Users() []models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.User, len(c.users))
	copy(out, c.users)
	return out
}

// Assignments returns a copy of the assignment collection,
// most-recent-first.
func (c *Controller) Assignments() []models.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Assignment, len(c.assignments))
	copy(out, c.assignments)
	return out
}

// Submissions returns a copy of the submission collection,
// most-recent-first.
func (c *Controller) Submissions() []models.Submission {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Submission, len(c.submissions))
	copy(out, c.submissions)
	return out
}

// AddAssignment fills defaults, synthesizes an id and prepends the
// assignment so the collection stays most-recent-first.
func (c *Controller) AddAssignment(a models.Assignment) models.Assignment {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if a.Section == "" {
		a.Section = models.SectionNone
	}
	if a.Attachments == nil {
		a.Attachments = []models.SubmissionFile{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments = append([]models.Assignment{a}, c.assignments...)
	c.schedulePersist()
	return a
}

// UpdateAssignment applies merge to the assignment with the given id
// under the state lock. No-op when the id is unknown.
func (c *Controller) UpdateAssignment(id string, merge func(*models.Assignment)) (models.Assignment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.assignments {
		if c.assignments[i].ID == id {
			merge(&c.assignments[i])
			c.assignments[i].ID = id
			c.schedulePersist()
			return c.assignments[i], true
		}
	}
	return models.Assignment{}, false
}

// DeleteAssignment removes the assignment and cascades to every
// submission referencing it. No submission may reference a non-existent
// assignment.
func (c *Controller) DeleteAssignment(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.assignments[:0]
	found := false
	for _, a := range c.assignments {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return false
	}
	c.assignments = kept

	subs := c.submissions[:0]
	for _, s := range c.submissions {
		if s.AssignmentID != id {
			subs = append(subs, s)
		}
	}
	c.submissions = subs

	c.schedulePersist()
	return true
}

// AddSubmission fills defaults, synthesizes an id and prepends the
// submission. Submissions are never updated in place.
func (c *Controller) AddSubmission(s models.Submission) models.Submission {
	s.ID = uuid.NewString()
	if s.SubmittedAt == "" {
		s.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if s.Status == "" {
		s.Status = models.StatusOnTime
	}
	if s.Files == nil {
		s.Files = []models.SubmissionFile{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append([]models.Submission{s}, c.submissions...)
	c.schedulePersist()
	return s
}

// AddUser appends a user with a fresh id and zero-value defaults.
func (c *Controller) AddUser(u models.User) models.User {
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	if u.Section == "" {
		u.Section = models.SectionNone
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, u)
	c.schedulePersist()
	return u
}

// UpdateUser applies merge to the user with the given id. The logged-in
// copy is refreshed when it is the same user. No-op when unknown.
func (c *Controller) UpdateUser(id string, merge func(*models.User)) (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID == id {
			merge(&c.users[i])
			c.users[i].ID = id
			if c.currentUser != nil && c.currentUser.ID == id {
				u := c.users[i]
				c.currentUser = &u
			}
			c.schedulePersist()
			return c.users[i], true
		}
	}
	return models.User{}, false
}

// DeleteUser removes a user. There is no cascade: assignments and
// submissions referencing the user remain as historical records.
func (c *Controller) DeleteUser(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.users[:0]
	found := false
	for _, u := range c.users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return false
	}
	c.users = kept
	c.schedulePersist()
	return true
}
