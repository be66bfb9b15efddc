package cookie

import "sync"

// MemoryJar implements Jar over plain maps, used by tests and non-HTTP
// callers. Queued cookies become visible to Get, matching how a browser
// would replay them on the next request.
type MemoryJar struct {
	mu      sync.RWMutex
	cookies map[string]Cookie
}

// NewMemoryJar creates an empty in-memory jar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: make(map[string]Cookie)}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	c, ok := j.cookies[name]
	if !ok || c.MaxAge < 0 {
		return "", false
	}
	return c.Value, true
}

func (j *MemoryJar) Queue(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[c.Name] = c
}

func (j *MemoryJar) Forget(name string) {
	j.Queue(Cookie{Name: name, MaxAge: -1})
}

// Queued returns the cookie as last queued, including forgotten ones, used
// by tests to inspect outgoing state.
func (j *MemoryJar) Queued(name string) (Cookie, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[name]
	return c, ok
}
