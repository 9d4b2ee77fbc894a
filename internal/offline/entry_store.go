package offline

import (
	"context"
	"net/http"
)

// Entry is a cached HTTP response snapshot.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// EntryStore persists cached responses under named generations. Lookups
// with Match search every stored generation, mirroring a cache-storage
// match across cache names; Sweep implements single-generation
// retention by deleting everything but the given name.
type EntryStore interface {
	Get(ctx context.Context, generation, key string) (*Entry, error)
	Match(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, generation, key string, entry *Entry) error
	Sweep(ctx context.Context, keep string) error
}
