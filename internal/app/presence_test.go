package app

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPresenceJoinLeave(t *testing.T) {
	p := NewPresence()

	if !p.TryJoin("room", "alice") {
		t.Fatal("first TryJoin should succeed")
	}
	if p.TryJoin("room", "alice") {
		t.Fatal("second TryJoin for the same key should fail")
	}
	if !p.TryJoin("other", "alice") {
		t.Fatal("same username in another room should succeed")
	}

	if !p.Leave("room", "alice") {
		t.Fatal("Leave should report a removal")
	}
	if p.Leave("room", "alice") {
		t.Fatal("second Leave should be a no-op")
	}
	if !p.TryJoin("room", "alice") {
		t.Fatal("TryJoin after Leave should succeed")
	}
}

func TestPresenceConcurrentJoin(t *testing.T) {
	p := NewPresence()

	const attempts = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.TryJoin("room", "alice") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("concurrent TryJoin winners = %d, want exactly 1", got)
	}
}

func TestPresenceConcurrentRooms(t *testing.T) {
	p := NewPresence()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			room := fmt.Sprintf("room-%d", n%4)
			username := fmt.Sprintf("user-%d", n)
			if !p.TryJoin(room, username) {
				t.Errorf("TryJoin(%s, %s) should succeed", room, username)
			}
			p.Leave(room, username)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		if got := p.List(fmt.Sprintf("room-%d", i)); len(got) != 0 {
			t.Errorf("room-%d should be empty, got %v", i, got)
		}
	}
}

func TestPresenceList(t *testing.T) {
	p := NewPresence()
	for _, name := range []string{"carol", "alice", "guest_dan", "bob"} {
		p.TryJoin("room", name)
	}

	got := p.List("room")
	want := []string{"alice", "bob", "carol", "guest_dan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	got = p.List("room", "bob", "guest_dan")
	want = []string{"alice", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() with exclusions = %v, want %v", got, want)
	}

	if got := p.List("empty"); len(got) != 0 {
		t.Errorf("List() on unknown room = %v, want empty", got)
	}
}
