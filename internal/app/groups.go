package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

// Subscriber receives room events. Deliver must not block; a full
// subscriber returns ErrBackpressure and the publisher decides what
// to do with it via Policy.
type Subscriber interface {
	Deliver(Event) error
}

// PublishResult reports delivery stats/backpressure to the publisher.
type PublishResult struct {
	SentTo  int
	Dropped []Subscriber
}

// Groups is the registry of room broadcast groups: room number to
// subscriber set. Groups come into being with their first subscriber
// and disappear with their last, so there is no explicit teardown.
type Groups struct {
	mu     sync.RWMutex
	groups map[string]map[Subscriber]struct{}
}

func NewGroups() *Groups {
	return &Groups{groups: make(map[string]map[Subscriber]struct{})}
}

func (g *Groups) Subscribe(room string, sub Subscriber) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs, ok := g.groups[room]
	if !ok {
		subs = make(map[Subscriber]struct{})
		g.groups[room] = subs
	}
	subs[sub] = struct{}{}
	log.Debug().Str("module", "app.groups").Str("room", room).Int("subscribers", len(subs)).Msg("subscribed")
}

func (g *Groups) Unsubscribe(room string, sub Subscriber) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs, ok := g.groups[room]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(g.groups, room)
	}
}

// Subscribers returns the current size of a room's group.
func (g *Groups) Subscribers(room string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.groups[room])
}

// Publish delivers ev to every subscriber of the room, including the
// publisher itself. Deliver never blocks, so a session tearing itself
// down mid-broadcast cannot stall the others.
func (g *Groups) Publish(room string, ev Event) PublishResult {
	g.mu.RLock()
	defer g.mu.RUnlock()
	res := PublishResult{}
	for sub := range g.groups[room] {
		if err := sub.Deliver(ev); err != nil {
			res.Dropped = append(res.Dropped, sub)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.groups").Str("room", room).Str("kind", string(ev.Kind)).
		Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("publish result")
	return res
}
