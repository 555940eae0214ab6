package app

// EventKind discriminates the room-wide events a broadcast group
// carries.
type EventKind string

const (
	EventMessage      EventKind = "message"
	EventNameChange   EventKind = "name change"
	EventAccessChange EventKind = "access change"
	EventKick         EventKind = "kick"
	EventBan          EventKind = "ban"
)

// Event is one room-wide broadcast. Fields are populated per kind:
// Message/Username for chat messages, Name for renames, Access and
// Evicted for access changes, Username (the target) for kicks and
// bans.
type Event struct {
	Kind     EventKind
	Message  string
	Username string
	Name     string
	Access   string
	Evicted  []string
}

// Targets reports whether the event makes the named session
// disconnect itself.
func (e Event) Targets(username string) bool {
	switch e.Kind {
	case EventKick, EventBan:
		return e.Username == username
	case EventAccessChange:
		for _, evicted := range e.Evicted {
			if evicted == username {
				return true
			}
		}
	}
	return false
}
