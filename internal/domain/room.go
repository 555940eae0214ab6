package domain

// AccessMode is the per-room join policy.
type AccessMode string

const (
	AccessPublic    AccessMode = "PUBLIC"
	AccessConfirmed AccessMode = "CONFIRMED"
	AccessPrivate   AccessMode = "PRIVATE"
)

// ValidAccessMode reports whether s is one of the three known modes.
func ValidAccessMode(s string) bool {
	switch AccessMode(s) {
	case AccessPublic, AccessConfirmed, AccessPrivate:
		return true
	}
	return false
}

// Room is a store-owned snapshot of a chat room. Banned and Invited
// hold account usernames; the store loads them together with the room
// so an access decision sees one consistent state.
type Room struct {
	Number  string
	Name    string
	Owner   string
	Access  AccessMode
	Locked  bool
	Banned  []string
	Invited []string
}

func (r *Room) IsBanned(username string) bool {
	return contains(r.Banned, username)
}

func (r *Room) IsInvited(username string) bool {
	return contains(r.Invited, username)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
