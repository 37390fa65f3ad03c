// Package room holds the per-room game state and the registry that owns
// all rooms. One Room is one independent word-chain game keyed by a chat
// room identifier.
package room

import (
	"fmt"
	"sync"

	"github.com/wfunc/wordchain/timer"
)

// Kind tags a participant slot as human or automated.
type Kind int

const (
	Human Kind = iota
	Bot
)

// Participant is one turn slot. Humans are identified by ID, bots by Name.
type Participant struct {
	Kind Kind
	ID   string
	Name string
}

// Equal reports whether two refs point at the same participant.
func (p Participant) Equal(o Participant) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == Human {
		return p.ID == o.ID
	}
	return p.Name == o.Name
}

// Room is the mutable state of one game. Mu guards every field below it;
// all methods assume the caller holds Mu unless noted otherwise. Compound
// operations (validate-apply-advance) take the lock once in the caller.
type Room struct {
	ID string

	Mu          sync.Mutex
	Active      bool
	Humans      []Participant // join order
	Bots        []Participant // add order, after all humans in turn order
	TurnIndex   int
	Chain       []string
	Used        map[string]struct{}
	Streaks     map[string]int // human ID -> consecutive successful turns
	ComboCount  int
	TurnSeconds int
	Epoch       uint64
	Timer       *timer.Handle
}

func New(id string, turnSeconds int) *Room {
	return &Room{
		ID:          id,
		Used:        make(map[string]struct{}),
		Streaks:     make(map[string]int),
		TurnSeconds: turnSeconds,
	}
}

// Total is the number of participants, humans plus bots.
func (r *Room) Total() int {
	return len(r.Humans) + len(r.Bots)
}

// Current returns the participant whose turn it is.
func (r *Room) Current() (Participant, bool) {
	tp := r.Total()
	if tp == 0 {
		return Participant{}, false
	}
	idx := r.TurnIndex % tp
	if idx < len(r.Humans) {
		return r.Humans[idx], true
	}
	return r.Bots[idx-len(r.Humans)], true
}

// CurrentName is the display name of the current participant.
func (r *Room) CurrentName() string {
	p, ok := r.Current()
	if !ok {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("User %s", p.ID)
}

// Advance moves the turn pointer to the next participant.
func (r *Room) Advance() {
	tp := r.Total()
	if tp <= 0 {
		r.TurnIndex = 0
		return
	}
	r.TurnIndex = (r.TurnIndex + 1) % tp
}

// LastWord returns the most recent accepted word, or "" for an empty chain.
func (r *Room) LastWord() string {
	if len(r.Chain) == 0 {
		return ""
	}
	return r.Chain[len(r.Chain)-1]
}

// RecentWords returns up to n chain words in play order, newest last.
func (r *Room) RecentWords(n int) []string {
	start := len(r.Chain) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(r.Chain)-start)
	copy(out, r.Chain[start:])
	return out
}

// AddHuman appends a human slot. Returns false when the ID is already in.
func (r *Room) AddHuman(id, name string) bool {
	for _, p := range r.Humans {
		if p.ID == id {
			return false
		}
	}
	r.Humans = append(r.Humans, Participant{Kind: Human, ID: id, Name: name})
	return true
}

// RemoveHuman drops a human slot and rebases the turn pointer. It returns
// false when the ID is not in the room.
func (r *Room) RemoveHuman(id string) bool {
	for i, p := range r.Humans {
		if p.ID == id {
			r.Humans = append(r.Humans[:i], r.Humans[i+1:]...)
			delete(r.Streaks, id)
			r.rebase(i) // humans occupy the leading global indices
			return true
		}
	}
	return false
}

// AddBot appends a bot slot. Returns false when the name is already in.
func (r *Room) AddBot(name string) bool {
	for _, p := range r.Bots {
		if p.Name == name {
			return false
		}
	}
	r.Bots = append(r.Bots, Participant{Kind: Bot, Name: name})
	return true
}

// RemoveBot drops a bot slot and rebases the turn pointer.
func (r *Room) RemoveBot(name string) bool {
	for i, p := range r.Bots {
		if p.Name == name {
			global := len(r.Humans) + i
			r.Bots = append(r.Bots[:i], r.Bots[i+1:]...)
			r.rebase(global)
			return true
		}
	}
	return false
}

// rebase keeps the turn pointer on the same logical participant after a
// removal at the given global index (humans before bots).
func (r *Room) rebase(removedGlobalIndex int) {
	tp := r.Total()
	if tp == 0 {
		r.TurnIndex = 0
		return
	}
	if removedGlobalIndex < r.TurnIndex {
		r.TurnIndex--
	}
	r.TurnIndex %= tp
}

// BumpEpoch invalidates every in-flight turn driver and returns the new
// epoch for the driver about to start.
func (r *Room) BumpEpoch() uint64 {
	r.Epoch++
	return r.Epoch
}

// TurnValid reports whether a driver started at the given epoch is still
// the authoritative one. Unlike the other methods it locks internally:
// it is the cooperative check point drivers call between suspend points.
func (r *Room) TurnValid(epoch uint64) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.Active && r.Epoch == epoch
}

// ResetGame clears the play state for a fresh game, keeping the roster.
func (r *Room) ResetGame(turnSeconds int) {
	r.Chain = nil
	r.Used = make(map[string]struct{})
	r.Streaks = make(map[string]int)
	r.ComboCount = 0
	r.TurnIndex = 0
	r.TurnSeconds = turnSeconds
}

// Clear wipes the room completely, roster included.
func (r *Room) Clear() {
	r.Active = false
	r.Humans = nil
	r.Bots = nil
	r.ResetGame(r.TurnSeconds)
}
