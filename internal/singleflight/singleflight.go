// Package singleflight coalesces concurrent executions of the same keyed
// operation so duplicate callers share one in-flight call. It backs the
// client's shared token refresh: concurrent 401s await a single refresh
// instead of each issuing their own.
package singleflight

import "sync"

// Group manages a set of in-flight calls keyed by string.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

// call represents an active function call.
type call struct {
	wg  sync.WaitGroup
	err error
}

// New creates a new singleflight Group.
func New() *Group {
	return &Group{
		m: make(map[string]*call),
	}
}

// Do executes fn, making sure only one execution is in flight for a given
// key at a time. Duplicate callers wait for the original to complete and
// receive the same error. The key is released as soon as the call settles,
// so a later caller triggers a fresh execution rather than observing a
// stale outcome.
func (g *Group) Do(key string, fn func() error) error {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.err
	}

	c := &call{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.err = fn()

	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()

	c.wg.Done()
	return c.err
}

// Forget removes the key from the group's map, allowing a future call with
// the same key to execute even if a previous call is still in progress.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
