// Package rounds exposes finished optimization rounds over HTTP for
// dashboards and ad-hoc inspection.
package rounds

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ambuflow/ambuflow/core/dispatch"
	"github.com/ambuflow/ambuflow/internal/eventbus"
)

// Store keeps the rounds observed so far. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	rounds []*dispatch.Result
	limit  int
}

// NewStore creates a store retaining at most limit rounds; zero means
// unbounded.
func NewStore(limit int) *Store {
	return &Store{limit: limit}
}

// Add appends a round, evicting the oldest when over the limit.
func (s *Store) Add(res *dispatch.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, res)
	if s.limit > 0 && len(s.rounds) > s.limit {
		s.rounds = s.rounds[len(s.rounds)-s.limit:]
	}
}

// Latest returns the most recent round, or nil.
func (s *Store) Latest() *dispatch.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rounds) == 0 {
		return nil
	}
	return s.rounds[len(s.rounds)-1]
}

// List returns all retained rounds, newest last.
func (s *Store) List() []*dispatch.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*dispatch.Result, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Watch feeds the store from the bus until the subscription channel closes.
// Run it in its own goroutine.
func Watch(bus *eventbus.Bus[*dispatch.Result], store *Store) {
	for res := range bus.Subscribe() {
		store.Add(res)
	}
}

// NewHandler returns an HTTP handler exposing rounds via GET. With
// ?latest=true only the most recent round is returned.
func NewHandler(store *Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("latest") == "true" {
			latest := store.Latest()
			if latest == nil {
				http.Error(w, "no rounds yet", http.StatusNotFound)
				return
			}
			if err := json.NewEncoder(w).Encode(latest); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		rounds := store.List()
		if rounds == nil {
			rounds = []*dispatch.Result{}
		}
		if err := json.NewEncoder(w).Encode(rounds); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
