package room

import "sync"

// Registry lazily creates and looks up rooms by chat room identifier.
// Safe for concurrent use across rooms; state inside one room is guarded
// by that room's own mutex.
type Registry struct {
	rooms              map[string]*Room
	mutex              sync.RWMutex
	defaultTurnSeconds int
}

func NewRegistry(defaultTurnSeconds int) *Registry {
	return &Registry{
		rooms:              make(map[string]*Room),
		defaultTurnSeconds: defaultTurnSeconds,
	}
}

// GetOrCreate returns the room for an identifier, inserting a fresh
// default-initialized one on first reference.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mutex.RLock()
	r, exists := g.rooms[id]
	g.mutex.RUnlock()
	if exists {
		return r
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()
	if r, exists = g.rooms[id]; exists {
		return r
	}
	r = New(id, g.defaultTurnSeconds)
	g.rooms[id] = r
	return r
}

// Get returns an existing room without creating one.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	r, exists := g.rooms[id]
	return r, exists
}

// Count returns the number of known rooms.
func (g *Registry) Count() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.rooms)
}

// ActiveCount returns the number of rooms with a game in progress.
func (g *Registry) ActiveCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	n := 0
	for _, r := range g.rooms {
		r.Mu.Lock()
		if r.Active {
			n++
		}
		r.Mu.Unlock()
	}
	return n
}
