package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/store"
	"github.com/noah-isme/mustang-stride-api/pkg/jobs"
)

// Phase is the controller lifecycle state. Ready is terminal: once
// hydrated the controller never re-enters Hydrating for the session.
type Phase int32

const (
	PhaseHydrating Phase = iota
	PhaseReady
)

// PersistObserver receives the outcome of every snapshot save attempt.
type PersistObserver interface {
	ObservePersist(success bool)
}

// Config tunes the controller. SeedUsers are installed as the user
// collection when the users slot has never been written; a present slot,
// even an empty one, wins over the seed.
type Config struct {
	LoginErrorTTL time.Duration
	QueueSize     int
	Observer      PersistObserver
	SeedUsers     []models.User
}

// Controller owns the in-memory collections and their durability
// lifecycle. All collections are owned exclusively by the controller;
// accessors hand out copies. Mutations are atomic under one lock, and
// each one enqueues a full-state snapshot on a single-worker write queue
// so saves land in mutation order (last write wins by construction).
type Controller struct {
	mu          sync.RWMutex
	phase       Phase
	currentUser *models.User
	users       []models.User
	assignments []models.Assignment
	submissions []models.Submission

	loginErr   bool
	loginTimer *time.Timer
	loginTTL   time.Duration

	seedUsers []models.User

	store    store.Store
	queue    *jobs.Queue
	logger   *zap.Logger
	observer PersistObserver
}

// New builds a controller in the Hydrating phase with empty defaults.
func New(st store.Store, logger *zap.Logger, cfg Config) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LoginErrorTTL <= 0 {
		cfg.LoginErrorTTL = 3 * time.Second
	}

	c := &Controller{
		phase:       PhaseHydrating,
		users:       []models.User{},
		assignments: []models.Assignment{},
		submissions: []models.Submission{},
		loginTTL:    cfg.LoginErrorTTL,
		seedUsers:   cfg.SeedUsers,
		store:       st,
		logger:      logger,
		observer:    cfg.Observer,
	}

	c.queue = jobs.NewQueue("persist", c.handlePersist, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})

	return c
}

// Start launches the snapshot write queue.
func (c *Controller) Start(ctx context.Context) {
	c.queue.Start(ctx)
}

// Hydrate issues the four slot loads in parallel and joins them. Present
// values overwrite defaults; absent or failing loads keep defaults and
// are only logged. The controller always reaches Ready.
func (c *Controller) Hydrate(ctx context.Context) {
	var wg sync.WaitGroup
	var user *models.User
	var users []models.User
	var asgns []models.Assignment
	var subs []models.Submission
	var userOK, usersOK, asgnsOK, subsOK bool

	wg.Add(4)
	go func() {
		defer wg.Done()
		userOK = c.loadSlot(ctx, store.KeyCurrentUser, &user)
	}()
	go func() {
		defer wg.Done()
		usersOK = c.loadSlot(ctx, store.KeyUsers, &users)
	}()
	go func() {
		defer wg.Done()
		asgnsOK = c.loadSlot(ctx, store.KeyAssignments, &asgns)
	}()
	go func() {
		defer wg.Done()
		subsOK = c.loadSlot(ctx, store.KeySubmissions, &subs)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseReady {
		return
	}
	if userOK {
		c.currentUser = user
	}
	if usersOK && users != nil {
		c.users = users
	}
	if asgnsOK && asgns != nil {
		c.assignments = asgns
	}
	if subsOK && subs != nil {
		c.submissions = subs
	}

	seeded := false
	if !usersOK && len(c.seedUsers) > 0 {
		c.users = c.bootstrapUsers()
		seeded = true
		c.logger.Sugar().Infow("seeded bootstrap users", "count", len(c.users))
	}

	c.phase = PhaseReady
	if seeded {
		c.schedulePersist()
	}
	c.logger.Sugar().Infow("state hydrated",
		"users", len(c.users),
		"assignments", len(c.assignments),
		"submissions", len(c.submissions),
		"logged_in", c.currentUser != nil,
	)
}

func (c *Controller) loadSlot(ctx context.Context, key string, dest interface{}) bool {
	raw, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Sugar().Warnw("hydration load failed, keeping defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Sugar().Warnw("hydration record malformed, keeping defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Controller) bootstrapUsers() []models.User {
	seeded := make([]models.User, len(c.seedUsers))
	copy(seeded, c.seedUsers)
	for i := range seeded {
		if seeded[i].ID == "" {
			seeded[i].ID = uuid.NewString()
		}
		if seeded[i].Role == "" {
			seeded[i].Role = models.RoleStudent
		}
		if seeded[i].Section == "" {
			seeded[i].Section = models.SectionNone
		}
	}
	return seeded
}

// Ready reports whether hydration has completed.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase == PhaseReady
}

// Close stops the write queue first, then flushes a final snapshot
// synchronously. Draining before the final persist guarantees no
// in-flight save of an older snapshot can land after it.
func (c *Controller) Close(ctx context.Context) {
	c.queue.Stop()
	if c.Ready() {
		c.persist(ctx, c.Snapshot())
	}
	c.mu.Lock()
	if c.loginTimer != nil {
		c.loginTimer.Stop()
		c.loginTimer = nil
	}
	c.mu.Unlock()
}

// Snapshot returns a copy of the full state.
func (c *Controller) Snapshot() *models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() *models.Snapshot {
	snap := &models.Snapshot{
		Users:       make([]models.User, len(c.users)),
		Assignments: make([]models.Assignment, len(c.assignments)),
		Submissions: make([]models.Submission, len(c.submissions)),
	}
	copy(snap.Users, c.users)
	copy(snap.Assignments, c.assignments)
	copy(snap.Submissions, c.submissions)
	if c.currentUser != nil {
		u := *c.currentUser
		snap.CurrentUser = &u
	}
	return snap
}

// schedulePersist enqueues a snapshot of the state as of now. The queue
// owns ordering; failures are logged and swallowed, never surfaced.
// Must be called with c.mu held.
func (c *Controller) schedulePersist() {
	if c.phase != PhaseReady {
		return
	}
	snap := c.snapshotLocked()
	if err := c.queue.Enqueue(jobs.Job{Type: "persist_snapshot", Payload: snap}); err != nil {
		c.logger.Sugar().Warnw("failed to enqueue snapshot", "error", err)
	}
}

func (c *Controller) handlePersist(ctx context.Context, job jobs.Job) error {
	snap, ok := job.Payload.(*models.Snapshot)
	if !ok {
		return nil
	}
	c.persist(ctx, snap)
	return nil
}

// persist always re-saves all four slots together, not a diff. An
// explicit JSON null is written for the current user when logged out.
func (c *Controller) persist(ctx context.Context, snap *models.Snapshot) {
	success := true
	save := func(key string, value interface{}) {
		if err := c.store.Save(ctx, key, value); err != nil {
			success = false
			c.logger.Sugar().Warnw("snapshot save failed", "key", key, "error", err)
		}
	}

	save(store.KeyCurrentUser, snap.CurrentUser)
	save(store.KeyUsers, snap.Users)
	save(store.KeyAssignments, snap.Assignments)
	save(store.KeySubmissions, snap.Submissions)

	if c.observer != nil {
		c.observer.ObservePersist(success)
	}
}
