package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/middleware"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/state"
)

type memStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.records[key]
	return raw, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.records[key] = raw
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestController(t *testing.T) *state.Controller {
	t.Helper()
	ctrl := state.New(&memStore{}, zap.NewNop(), state.Config{QueueSize: 8})
	ctx := context.Background()
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)
	t.Cleanup(func() { ctrl.Close(context.Background()) })
	return ctrl
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func setClaims(c *gin.Context, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "claims-user",
		Name:   "Claims User",
		Role:   role,
	})
}
