package state

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/store"
)

type memStore struct {
	mu      sync.Mutex
	records map[string][]byte
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{records: map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	raw, ok := m.records[key]
	return raw, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.records[key] = raw
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) record(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key]
}

func (m *memStore) seed(t *testing.T, key string, value interface{}) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	m.mu.Lock()
	m.records[key] = raw
	m.mu.Unlock()
}

// laggyStore delays the save of a chosen users snapshot, simulating a
// slow store while newer writes race past it.
type laggyStore struct {
	*memStore
	delay   time.Duration
	lagWhen int
}

func (s *laggyStore) Save(ctx context.Context, key string, value interface{}) error {
	if key == store.KeyUsers {
		if users, ok := value.([]models.User); ok && len(users) == s.lagWhen {
			time.Sleep(s.delay)
		}
	}
	return s.memStore.Save(ctx, key, value)
}

func newTestController(t *testing.T, st store.Store) *Controller {
	t.Helper()
	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8})
	ctx := context.Background()
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)
	t.Cleanup(func() { ctrl.Close(context.Background()) })
	return ctrl
}

func TestHydrateEmptyStoreReachesReadyWithDefaults(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	assert.True(t, ctrl.Ready())
	assert.Nil(t, ctrl.CurrentUser())
	assert.Empty(t, ctrl.Users())
	assert.Empty(t, ctrl.Assignments())
	assert.Empty(t, ctrl.Submissions())
}

func TestHydrateLoadsStoredState(t *testing.T) {
	st := newMemStore()
	st.seed(t, store.KeyCurrentUser, models.User{ID: "u1", Name: "Ada"})
	st.seed(t, store.KeyUsers, []models.User{{ID: "u1", Name: "Ada"}})
	st.seed(t, store.KeyAssignments, []models.Assignment{{ID: "a1", Title: "Lab 1"}})
	st.seed(t, store.KeySubmissions, []models.Submission{{ID: "s1", AssignmentID: "a1"}})

	ctrl := newTestController(t, st)

	require.NotNil(t, ctrl.CurrentUser())
	assert.Equal(t, "Ada", ctrl.CurrentUser().Name)
	assert.Len(t, ctrl.Users(), 1)
	assert.Len(t, ctrl.Assignments(), 1)
	assert.Len(t, ctrl.Submissions(), 1)
}

func TestHydrateKeepsDefaultsOnMalformedRecord(t *testing.T) {
	st := newMemStore()
	st.records[store.KeyUsers] = []byte(`{not json`)
	st.seed(t, store.KeyAssignments, []models.Assignment{{ID: "a1"}})

	ctrl := newTestController(t, st)

	assert.True(t, ctrl.Ready())
	assert.Empty(t, ctrl.Users())
	assert.Len(t, ctrl.Assignments(), 1)
}

func TestHydrateKeepsDefaultsOnLoadError(t *testing.T) {
	st := newMemStore()
	st.loadErr = assert.AnError

	ctrl := newTestController(t, st)

	assert.True(t, ctrl.Ready())
	assert.Empty(t, ctrl.Users())
}

func TestMutationsRoundTripThroughStore(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()

	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)

	user := ctrl.AddUser(models.User{Username: "ada", Password: "pw", Name: "Ada Lovelace", Role: models.RoleTeacher})
	assignment := ctrl.AddAssignment(models.Assignment{Title: "Lab 1", TeacherID: user.ID, Section: models.SectionEinsteinG11})
	ctrl.AddSubmission(models.Submission{AssignmentID: assignment.ID, StudentID: "u2"})
	ctrl.Close(ctx)

	rehydrated := newTestController(t, st)

	require.Len(t, rehydrated.Users(), 1)
	assert.Equal(t, "Ada Lovelace", rehydrated.Users()[0].Name)
	require.Len(t, rehydrated.Assignments(), 1)
	assert.Equal(t, "Lab 1", rehydrated.Assignments()[0].Title)
	require.Len(t, rehydrated.Submissions(), 1)
	assert.Equal(t, assignment.ID, rehydrated.Submissions()[0].AssignmentID)
}

func TestAddAssignmentPrependsAndFillsDefaults(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	first := ctrl.AddAssignment(models.Assignment{Title: "first"})
	second := ctrl.AddAssignment(models.Assignment{Title: "second"})

	assignments := ctrl.Assignments()
	require.Len(t, assignments, 2)
	assert.Equal(t, "second", assignments[0].Title)
	assert.Equal(t, "first", assignments[1].Title)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.SectionNone, first.Section)
	assert.NotNil(t, first.Attachments)

	_, err := time.Parse(time.RFC3339, first.CreatedAt)
	assert.NoError(t, err)
}

func TestAddSubmissionPrependsAndFillsDefaults(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	first := ctrl.AddSubmission(models.Submission{AssignmentID: "a1"})
	ctrl.AddSubmission(models.Submission{AssignmentID: "a1", Status: models.StatusLate})

	submissions := ctrl.Submissions()
	require.Len(t, submissions, 2)
	assert.Equal(t, models.StatusLate, submissions[0].Status)
	assert.Equal(t, first.ID, submissions[1].ID)
	assert.Equal(t, models.StatusOnTime, first.Status)
	assert.NotNil(t, first.Files)
	assert.NotEmpty(t, first.SubmittedAt)
}

func TestAddUserAppendsAndFillsDefaults(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	ctrl.AddUser(models.User{Name: "first"})
	second := ctrl.AddUser(models.User{Name: "second"})

	users := ctrl.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "first", users[0].Name)
	assert.Equal(t, "second", users[1].Name)
	assert.Equal(t, models.RoleStudent, second.Role)
	assert.Equal(t, models.SectionNone, second.Section)
}

func TestDeleteAssignmentCascadesSubmissions(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	a1 := ctrl.AddAssignment(models.Assignment{Title: "doomed"})
	a2 := ctrl.AddAssignment(models.Assignment{Title: "survivor"})
	ctrl.AddSubmission(models.Submission{AssignmentID: a1.ID, StudentID: "u1"})
	ctrl.AddSubmission(models.Submission{AssignmentID: a1.ID, StudentID: "u2"})
	kept := ctrl.AddSubmission(models.Submission{AssignmentID: a2.ID, StudentID: "u1"})

	require.True(t, ctrl.DeleteAssignment(a1.ID))

	assignments := ctrl.Assignments()
	require.Len(t, assignments, 1)
	assert.Equal(t, a2.ID, assignments[0].ID)

	submissions := ctrl.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, kept.ID, submissions[0].ID)
}

func TestDeleteAssignmentUnknownID(t *testing.T) {
	ctrl := newTestController(t, newMemStore())
	assert.False(t, ctrl.DeleteAssignment("missing"))
}

func TestDeleteUserKeepsAssignmentsAndSubmissions(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	teacher := ctrl.AddUser(models.User{Name: "Ada", Role: models.RoleTeacher})
	ctrl.AddAssignment(models.Assignment{Title: "Lab 1", TeacherID: teacher.ID})
	ctrl.AddSubmission(models.Submission{AssignmentID: "a1", StudentID: teacher.ID})

	require.True(t, ctrl.DeleteUser(teacher.ID))

	assert.Empty(t, ctrl.Users())
	assert.Len(t, ctrl.Assignments(), 1)
	assert.Len(t, ctrl.Submissions(), 1)
}

func TestUpdateAssignmentPreservesID(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	a := ctrl.AddAssignment(models.Assignment{Title: "before"})
	updated, ok := ctrl.UpdateAssignment(a.ID, func(target *models.Assignment) {
		target.Title = "after"
		target.ID = "hijacked"
	})

	require.True(t, ok)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "after", updated.Title)

	_, ok = ctrl.UpdateAssignment("missing", func(*models.Assignment) {})
	assert.False(t, ok)
}

func TestUpdateUserRefreshesCurrentUser(t *testing.T) {
	ctrl := newTestController(t, newMemStore())

	u := ctrl.AddUser(models.User{Name: "Ada", Password: "pw"})
	_, ok := ctrl.Login("ada", "pw")
	require.True(t, ok)

	_, ok = ctrl.UpdateUser(u.ID, func(target *models.User) {
		target.Name = "Ada Lovelace"
	})
	require.True(t, ok)

	current := ctrl.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "Ada Lovelace", current.Name)
}

func TestCloseFinalSnapshotOutlivesInFlightSaves(t *testing.T) {
	for i := 0; i < 25; i++ {
		st := &laggyStore{memStore: newMemStore(), delay: 5 * time.Millisecond, lagWhen: 1}
		ctx := context.Background()

		ctrl := New(st, zap.NewNop(), Config{QueueSize: 8})
		ctrl.Start(ctx)
		ctrl.Hydrate(ctx)

		ctrl.AddUser(models.User{Name: "first"})
		ctrl.AddUser(models.User{Name: "second"})
		ctrl.Close(ctx)

		var users []models.User
		require.NoError(t, json.Unmarshal(st.record(store.KeyUsers), &users))
		require.Len(t, users, 2, "iteration %d: final persisted state lost a mutation", i)
	}
}

func seedAdmin() []models.User {
	return []models.User{{
		Username: "admin",
		Password: "admin",
		Name:     "Research Administrator",
		Role:     models.RoleAdmin,
	}}
}

func TestHydrateSeedsBootstrapAdminWhenSlotAbsent(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()

	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8, SeedUsers: seedAdmin()})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)

	users := ctrl.Users()
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.Equal(t, models.SectionNone, users[0].Section)
	assert.NotEmpty(t, users[0].ID)

	_, ok := ctrl.Login("  research ADMINISTRATOR ", "admin")
	assert.True(t, ok)

	ctrl.Close(ctx)
	var persisted []models.User
	require.NoError(t, json.Unmarshal(st.record(store.KeyUsers), &persisted))
	require.Len(t, persisted, 1)
}

func TestHydrateSkipsSeedWhenSlotPresent(t *testing.T) {
	st := newMemStore()
	st.seed(t, store.KeyUsers, []models.User{})

	ctx := context.Background()
	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8, SeedUsers: seedAdmin()})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)
	t.Cleanup(func() { ctrl.Close(context.Background()) })

	// An empty but present users slot means every account was deleted on
	// purpose; the seed must not resurrect the admin.
	assert.Empty(t, ctrl.Users())
}

func TestPersistWritesAllFourSlots(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()

	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)
	ctrl.AddUser(models.User{Name: "Ada"})
	ctrl.Close(ctx)

	for _, key := range store.Keys {
		assert.NotNil(t, st.record(key), "slot %s not written", key)
	}
	assert.Equal(t, "null", string(st.record(store.KeyCurrentUser)))
}
