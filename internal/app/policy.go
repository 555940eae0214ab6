package app

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	EvictSubscriber
)

// Policy decides what happens to a subscriber whose event buffer is
// full while a broadcast is in flight.
type Policy interface {
	OnBackpressure(room string, sub Subscriber) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(room string, sub Subscriber) BackpressureAction {
	return EvictSubscriber
}
