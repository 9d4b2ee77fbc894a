package store

import "context"

// The four named slots forming the unit of durability. There is no
// per-entity persistence and no transactional guarantee across keys.
const (
	KeyCurrentUser = "research_user"
	KeyUsers       = "research_users"
	KeyAssignments = "research_assignments"
	KeySubmissions = "research_submissions"
)

// Keys lists every slot in hydration order.
var Keys = []string{KeyCurrentUser, KeyUsers, KeyAssignments, KeySubmissions}

// Store is a durable key-value store for JSON-serializable records.
// Load reports ok=false for absent keys; a stored JSON null is a present
// value, distinct from absence. Keys are independent of each other.
type Store interface {
	Load(ctx context.Context, key string) (raw []byte, ok bool, err error)
	Save(ctx context.Context, key string, value interface{}) error
	Close() error
}
