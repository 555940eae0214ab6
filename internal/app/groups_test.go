package app

import (
	"sync"
	"testing"
)

// chanSub buffers delivered events like a real session does.
type chanSub struct {
	events chan Event
}

func newChanSub(buf int) *chanSub {
	return &chanSub{events: make(chan Event, buf)}
}

func (s *chanSub) Deliver(ev Event) error {
	select {
	case s.events <- ev:
		return nil
	default:
		return ErrBackpressure
	}
}

func TestGroupsPublishIncludesSender(t *testing.T) {
	g := NewGroups()
	sender := newChanSub(4)
	other := newChanSub(4)
	g.Subscribe("room", sender)
	g.Subscribe("room", other)

	res := g.Publish("room", Event{Kind: EventMessage, Message: "hi", Username: "alice"})
	if res.SentTo != 2 {
		t.Fatalf("SentTo = %d, want 2 (sender receives its own broadcast)", res.SentTo)
	}
	for _, sub := range []*chanSub{sender, other} {
		ev := <-sub.events
		if ev.Message != "hi" || ev.Username != "alice" {
			t.Errorf("delivered event = %+v", ev)
		}
	}
}

func TestGroupsSenderOrdering(t *testing.T) {
	g := NewGroups()
	sub := newChanSub(16)
	g.Subscribe("room", sub)

	messages := []string{"one", "two", "three", "four"}
	for _, m := range messages {
		g.Publish("room", Event{Kind: EventMessage, Message: m})
	}
	for i, want := range messages {
		ev := <-sub.events
		if ev.Message != want {
			t.Fatalf("event %d = %q, want %q", i, ev.Message, want)
		}
	}
}

func TestGroupsUnsubscribe(t *testing.T) {
	g := NewGroups()
	a := newChanSub(4)
	b := newChanSub(4)
	g.Subscribe("room", a)
	g.Subscribe("room", b)

	g.Unsubscribe("room", a)
	res := g.Publish("room", Event{Kind: EventMessage})
	if res.SentTo != 1 {
		t.Fatalf("SentTo after unsubscribe = %d, want 1", res.SentTo)
	}
	select {
	case <-a.events:
		t.Fatal("unsubscribed subscriber should not receive events")
	default:
	}

	// The last unsubscribe garbage-collects the group.
	g.Unsubscribe("room", b)
	if n := g.Subscribers("room"); n != 0 {
		t.Fatalf("Subscribers() = %d after last unsubscribe, want 0", n)
	}
	// Unsubscribing from a gone group is a no-op.
	g.Unsubscribe("room", b)
}

func TestGroupsBackpressure(t *testing.T) {
	g := NewGroups()
	full := newChanSub(1)
	g.Subscribe("room", full)

	g.Publish("room", Event{Kind: EventMessage, Message: "fills the buffer"})
	res := g.Publish("room", Event{Kind: EventMessage, Message: "dropped"})
	if res.SentTo != 0 || len(res.Dropped) != 1 {
		t.Fatalf("PublishResult = %+v, want 0 sent and 1 dropped", res)
	}
}

func TestGroupsConcurrentPublishAndChurn(t *testing.T) {
	g := NewGroups()
	stable := newChanSub(1024)
	g.Subscribe("room", stable)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				g.Publish("room", Event{Kind: EventMessage, Message: "x"})
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				sub := newChanSub(1)
				g.Subscribe("room", sub)
				g.Unsubscribe("room", sub)
			}
		}()
	}
	wg.Wait()

	if n := len(stable.events); n != 8*32 {
		t.Fatalf("stable subscriber received %d events, want %d", n, 8*32)
	}
}
