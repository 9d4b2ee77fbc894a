package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/store"
)

func newLoginController(t *testing.T, ttl time.Duration) *Controller {
	t.Helper()
	ctrl := New(newMemStore(), zap.NewNop(), Config{LoginErrorTTL: ttl, QueueSize: 8})
	ctx := context.Background()
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)
	t.Cleanup(func() { ctrl.Close(context.Background()) })

	ctrl.AddUser(models.User{Name: "Ada Lovelace", Password: "correct horse"})
	return ctrl
}

func TestLoginNormalizesNameOnly(t *testing.T) {
	ctrl := newLoginController(t, time.Second)

	user, ok := ctrl.Login("  ada LOVELACE  ", "correct horse")
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.False(t, ctrl.LoginError())

	current := ctrl.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
}

func TestLoginPasswordIsCaseSensitive(t *testing.T) {
	ctrl := newLoginController(t, time.Second)

	_, ok := ctrl.Login("ada lovelace", "CORRECT HORSE")
	assert.False(t, ok)
	assert.True(t, ctrl.LoginError())
	assert.Nil(t, ctrl.CurrentUser())
}

func TestLoginErrorDecaysAfterTTL(t *testing.T) {
	ctrl := newLoginController(t, 30*time.Millisecond)

	_, ok := ctrl.Login("nobody", "nope")
	require.False(t, ok)
	require.True(t, ctrl.LoginError())

	assert.Eventually(t, func() bool {
		return !ctrl.LoginError()
	}, time.Second, 5*time.Millisecond)
}

func TestLoginSuccessClearsErrorImmediately(t *testing.T) {
	ctrl := newLoginController(t, time.Hour)

	_, ok := ctrl.Login("ada lovelace", "wrong")
	require.False(t, ok)
	require.True(t, ctrl.LoginError())

	_, ok = ctrl.Login("ada lovelace", "correct horse")
	require.True(t, ok)
	assert.False(t, ctrl.LoginError())
}

func TestClearLoginError(t *testing.T) {
	ctrl := newLoginController(t, time.Hour)

	ctrl.Login("ada lovelace", "wrong")
	require.True(t, ctrl.LoginError())

	ctrl.ClearLoginError()
	assert.False(t, ctrl.LoginError())
}

func TestLogoutPersistsExplicitNull(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()
	ctrl := New(st, zap.NewNop(), Config{QueueSize: 8})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)

	ctrl.AddUser(models.User{Name: "Ada", Password: "pw"})
	_, ok := ctrl.Login("ada", "pw")
	require.True(t, ok)
	require.NotNil(t, ctrl.CurrentUser())

	ctrl.Logout()
	assert.Nil(t, ctrl.CurrentUser())

	ctrl.Close(ctx)
	assert.Equal(t, "null", string(st.record(store.KeyCurrentUser)))
}
