// Package screen holds the per-screen controllers: the fetch/mutate logic a
// screen runs against the backend and the view state it owns. Rendering is
// out of scope; controllers expose state through getters.
package screen

import "sync"

// fetchGuard invalidates in-flight fetches when a screen is torn down or its
// parameters change. Responses belonging to an older generation are ignored
// instead of landing on a torn-down view.
type fetchGuard struct {
	mu  sync.Mutex
	gen int
}

// begin starts a new fetch generation, invalidating prior ones.
func (g *fetchGuard) begin() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	return g.gen
}

// still reports whether gen is still the current generation.
func (g *fetchGuard) still(gen int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen == gen
}

// cancel invalidates all in-flight fetches.
func (g *fetchGuard) cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
}
