package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Presence is the sole authority for which usernames currently occupy
// which room. TryJoin/Leave are linearizable so two concurrent joins
// for the same (room, username) resolve to exactly one winner.
type Presence struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{rooms: make(map[string]map[string]struct{})}
}

// TryJoin inserts (room, username) if absent and reports whether the
// caller won the slot.
func (p *Presence) TryJoin(room, username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	occupants, ok := p.rooms[room]
	if !ok {
		occupants = make(map[string]struct{})
		p.rooms[room] = occupants
	}
	if _, taken := occupants[username]; taken {
		return false
	}
	occupants[username] = struct{}{}
	log.Debug().Str("module", "app.presence").Str("room", room).Str("username", username).Msg("joined")
	return true
}

// Leave removes (room, username) and reports whether anything was
// removed. Removing twice is a safe no-op.
func (p *Presence) Leave(room, username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	occupants, ok := p.rooms[room]
	if !ok {
		return false
	}
	if _, present := occupants[username]; !present {
		return false
	}
	delete(occupants, username)
	if len(occupants) == 0 {
		delete(p.rooms, room)
	}
	log.Debug().Str("module", "app.presence").Str("room", room).Str("username", username).Msg("left")
	return true
}

// List returns a sorted snapshot of the room's occupants. Names in
// exclude are hidden; callers pass just-kicked usernames whose
// disconnect has not finished yet.
func (p *Presence) List(room string, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	p.mu.Lock()
	occupants := p.rooms[room]
	out := make([]string, 0, len(occupants))
	for username := range occupants {
		if _, hidden := skip[username]; hidden {
			continue
		}
		out = append(out, username)
	}
	p.mu.Unlock()

	sort.Strings(out)
	return out
}
