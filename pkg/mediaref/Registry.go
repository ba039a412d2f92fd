package mediaref

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

/*
Registry hands out session-scoped, revocable references to locally held
media. A reference resolves to its upload for as long as at least one
holder retains it; releasing the last retention revokes the URL. The
upload that allocated a handle owns it and must release it exactly once;
releasing an already-released handle is a no-op.
*/
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

type Handle struct {
	registry *Registry
	token    string
	uploadID string
	count    int
}

func NewRegistry() *Registry {
	return &Registry{
		handles: map[string]*Handle{},
	}
}

// Allocate creates a new reference for the given upload.
func (r *Registry) Allocate(uploadID string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := &Handle{
		registry: r,
		token:    uuid.NewString(),
		uploadID: uploadID,
		count:    1,
	}

	r.handles[handle.token] = handle
	return handle
}

// Resolve maps a reference token back to its upload id.
func (r *Registry) Resolve(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[token]

	if !ok {
		return "", false
	}

	return handle.uploadID, true
}

// Active reports the number of live references.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.handles)
}

// ReleaseAll revokes every outstanding reference. Session teardown.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles = map[string]*Handle{}
}

// URL returns the session-local address the reference is served under.
func (h *Handle) URL() string {
	return fmt.Sprintf("/media/%s", h.token)
}

// Token returns the raw reference token.
func (h *Handle) Token() string {
	return h.token
}

// Retain adds a holder for views displaying the same media concurrently.
func (h *Handle) Retain() {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()

	if h.count > 0 {
		h.count++
	}
}

/*
Release drops one holder, revoking the reference when the last holder is
gone. Releasing a revoked handle is a no-op.
*/
func (h *Handle) Release() {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()

	if h.count == 0 {
		return
	}

	h.count--

	if h.count == 0 {
		delete(h.registry.handles, h.token)
	}
}
