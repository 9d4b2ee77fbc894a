package state

import (
	"strings"
	"time"

	"github.com/noah-isme/mustang-stride-api/internal/models"
)

// Login matches the trimmed, case-folded full name against the user
// collection and compares the password verbatim. Success sets the
// current user and clears the error flag. Failure raises the error flag,
// which decays on its own after the configured TTL. This is transient UI
// feedback, not a lockout: no rate limiting, no attempt counting.
func (c *Controller) Login(name, password string) (*models.User, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range c.users {
		if strings.ToLower(u.Name) == normalized && u.Password == password {
			user := u
			c.currentUser = &user
			c.setLoginErrorLocked(false)
			c.schedulePersist()
			return &user, true
		}
	}

	c.setLoginErrorLocked(true)
	return nil, false
}

// Logout clears the current user; an explicit null is persisted for the
// current-user slot, distinct from the slot never having been written.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = nil
	c.setLoginErrorLocked(false)
	c.schedulePersist()
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (c *Controller) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currentUser == nil {
		return nil
	}
	u := *c.currentUser
	return &u
}

// LoginError reports whether the failure indicator is currently raised.
func (c *Controller) LoginError() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loginErr
}

// ClearLoginError drops the indicator immediately, the analogue of the
// user editing either input field.
func (c *Controller) ClearLoginError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLoginErrorLocked(false)
}

func (c *Controller) setLoginErrorLocked(raised bool) {
	if c.loginTimer != nil {
		c.loginTimer.Stop()
		c.loginTimer = nil
	}
	c.loginErr = raised
	if raised {
		c.loginTimer = time.AfterFunc(c.loginTTL, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.loginErr = false
			c.loginTimer = nil
		})
	}
}
