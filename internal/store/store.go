// Package store persists rooms, accounts and the ban/invite sets.
// The chat core consumes it through the RoomStore and UserStore
// interfaces so tests can swap in fakes.
package store

import (
	"context"
	"errors"

	"github.com/dkeye/Chatter/internal/domain"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// RoomStore is everything the session protocol and the room API need
// from persistent room state.
type RoomStore interface {
	// RoomByNumber loads a room with its banned/invited sets so one
	// call yields the full state an access decision depends on.
	RoomByNumber(ctx context.Context, number string) (*domain.Room, error)
	CreateRoom(ctx context.Context, name, owner string, access domain.AccessMode) (*domain.Room, error)
	RoomsOwnedBy(ctx context.Context, owner string) ([]*domain.Room, error)
	UpdateRoomName(ctx context.Context, number, name string) error
	UpdateRoomAccess(ctx context.Context, number string, access domain.AccessMode) error
	SetRoomLocked(ctx context.Context, number string, locked bool) error
	DeleteRoom(ctx context.Context, number string) error

	// BanUser and InviteUser are no-ops when username has no account;
	// guests have no persisted identity to ban or invite.
	BanUser(ctx context.Context, number, username string) error
	InviteUser(ctx context.Context, number, username string) error
}

// UserStore is the account side: lookups for login and the ws
// middleware, creation for registration.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	PasswordHash(ctx context.Context, username string) (string, error)
}
