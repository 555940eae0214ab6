// Package domain contains entity without logic, just meta-data
package domain

import "strings"

const (
	MaxUsernameLen = 30
	MaxRoomNameLen = 200

	// GuestPrefix marks usernames resolved from a connection query
	// parameter rather than an account. Account usernames never carry
	// this prefix, so guests cannot collide with registered users.
	GuestPrefix = "guest_"
)

type UserID uint

// User is an authenticated account. Sessions for anonymous visitors
// carry a nil *User and a guest-prefixed username instead.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IsGuestName reports whether a resolved username belongs to a guest.
func IsGuestName(username string) bool {
	return strings.HasPrefix(username, GuestPrefix)
}
