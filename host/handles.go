package host

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chazu/dispex/vm"
)

// handle is a host-side reference to an object.
type handle struct {
	id        string
	obj       *vm.Object
	name      string
	sessionID string
}

type nameKey struct {
	sessionID string
	name      string
}

// HandleStore maps opaque string IDs to objects bound by name within a
// session. Each handle holds one reference on its object; releasing the
// handle drops it.
type HandleStore struct {
	mu      sync.Mutex
	handles map[string]*handle
	names   map[nameKey]string
	nextID  atomic.Uint64
}

// NewHandleStore creates a new handle store.
func NewHandleStore() *HandleStore {
	return &HandleStore{
		handles: make(map[string]*handle),
		names:   make(map[nameKey]string),
	}
}

// Bind registers obj under name within a session. A previous binding of
// the name is released.
func (s *HandleStore) Bind(sessionID, name string, obj *vm.Object) string {
	id := fmt.Sprintf("h-%d", s.nextID.Add(1))
	obj.Retain()

	s.mu.Lock()
	key := nameKey{sessionID, name}
	prev := s.handles[s.names[key]]
	if prev != nil {
		delete(s.handles, prev.id)
	}
	s.handles[id] = &handle{
		id:        id,
		obj:       obj,
		name:      name,
		sessionID: sessionID,
	}
	s.names[key] = id
	s.mu.Unlock()

	if prev != nil {
		prev.obj.Release()
	}
	return id
}

// Lookup retrieves the object for a handle. The reference stays owned by
// the store.
func (s *HandleStore) Lookup(id string) (*vm.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		return nil, false
	}
	return h.obj, true
}

// Resolve retrieves the object bound to name in a session.
func (s *HandleStore) Resolve(sessionID, name string) (*vm.Object, bool) {
	s.mu.Lock()
	id, ok := s.names[nameKey{sessionID, name}]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.Lookup(id)
}

// Release removes a handle and drops its reference. It reports whether the
// handle existed.
func (s *HandleStore) Release(id string) bool {
	s.mu.Lock()
	h, ok := s.handles[id]
	if ok {
		s.remove(h)
	}
	s.mu.Unlock()

	if ok {
		h.obj.Release()
	}
	return ok
}

// ReleaseName releases the handle bound to name in a session.
func (s *HandleStore) ReleaseName(sessionID, name string) bool {
	s.mu.Lock()
	id, ok := s.names[nameKey{sessionID, name}]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.Release(id)
}

// ReleaseSession releases all handles owned by a session.
func (s *HandleStore) ReleaseSession(sessionID string) int {
	return s.releaseWhere(func(h *handle) bool { return h.sessionID == sessionID })
}

// Len returns the number of live handles.
func (s *HandleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// releaseWhere removes matching handles under the lock and drops their
// references after it is released, since a release can run finalizers.
func (s *HandleStore) releaseWhere(match func(*handle) bool) int {
	s.mu.Lock()
	var released []*vm.Object
	for _, h := range s.handles {
		if match(h) {
			s.remove(h)
			released = append(released, h.obj)
		}
	}
	s.mu.Unlock()

	for _, obj := range released {
		obj.Release()
	}
	return len(released)
}

// remove must be called with mu held.
func (s *HandleStore) remove(h *handle) {
	delete(s.handles, h.id)
	if h.name != "" {
		key := nameKey{h.sessionID, h.name}
		if s.names[key] == h.id {
			delete(s.names, key)
		}
	}
}
