package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mustang-stride-api/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	users := []models.User{{ID: "u1", Name: "Ada", Role: models.RoleTeacher}}
	require.NoError(t, st.Save(ctx, KeyUsers, users))

	raw, ok, err := st.Load(ctx, KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []models.User
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Ada", decoded[0].Name)
}

func TestFileStoreAbsentKey(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	raw, ok, err := st.Load(context.Background(), KeyAssignments)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestFileStoreOverwrite(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, KeyCurrentUser, models.User{ID: "u1"}))
	require.NoError(t, st.Save(ctx, KeyCurrentUser, nil))

	raw, ok, err := st.Load(ctx, KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "null", string(raw))
}
