package world

import (
	"slices"
	"sync"
)

// Registry is the server's authoritative copy of the world. Every cell is
// created up front and lives as long as the registry does.
type Registry struct {
	cells [WorldSize][WorldSize]*Cell

	mu           sync.RWMutex
	participants []*Participant
}

// NewRegistry creates a registry with every cell of the world materialized.
func NewRegistry() *Registry {
	r := &Registry{}
	for gx := 0; gx < WorldSize; gx++ {
		for gy := 0; gy < WorldSize; gy++ {
			r.cells[gx][gy] = NewCell(gx, gy)
		}
	}
	return r
}

// Cell returns the cell at (gx, gy). The second result is false when the
// coordinate is outside the world.
func (r *Registry) Cell(gx, gy int) (*Cell, bool) {
	if !InBounds(gx, gy) {
		return nil, false
	}
	return r.cells[gx][gy], true
}

// Add registers a participant.
func (r *Registry) Add(p *Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.participants, p) {
		return ErrParticipantExists
	}
	r.participants = append(r.participants, p)
	return nil
}

// Remove deregisters a participant.
func (r *Registry) Remove(p *Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.participants, p)
	if i < 0 {
		return ErrParticipantNotFound
	}
	r.participants = slices.Delete(r.participants, i, i+1)
	return nil
}

// Count returns the number of registered participants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// ForEachParticipant calls fn for each participant, in the order they were
// added, while holding the lock.
func (r *Registry) ForEachParticipant(fn func(*Participant)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.participants {
		fn(p)
	}
}

// Neighbors returns every participant other than exclude whose current cell is
// within WindowRadius of (gx, gy), in the order they were added. The result is
// a copy so callers can write to the participants without holding the lock.
func (r *Registry) Neighbors(gx, gy int, exclude *Participant) []*Participant {
	var out []*Participant
	r.ForEachParticipant(func(p *Participant) {
		if p == exclude {
			return
		}
		px, py := p.Grid()
		if Within(px, py, gx, gy) {
			out = append(out, p)
		}
	})
	return out
}
