package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Chatter/internal/domain"
)

func openTestStore(t *testing.T) *Gorm {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chatter_test.db"))
	require.NoError(t, err)
	return s
}

func mustCreateUser(t *testing.T, s *Gorm, username string) *domain.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), username, username+"@example.com", "x")
	require.NoError(t, err)
	return user
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	found, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)

	hash, err := s.PasswordHash(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.CreateUser(ctx, "alice", "other@example.com", "hash2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRoomLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "owner")

	room, err := s.CreateRoom(ctx, "My Room", "owner", domain.AccessPublic)
	require.NoError(t, err)
	assert.Equal(t, "My Room", room.Name)
	assert.Equal(t, "owner", room.Owner)
	assert.Equal(t, domain.AccessPublic, room.Access)

	// Room numbers are 10 unique digits.
	require.Len(t, room.Number, 10)
	seen := map[byte]bool{}
	for i := 0; i < len(room.Number); i++ {
		d := room.Number[i]
		assert.GreaterOrEqual(t, d, byte('0'))
		assert.LessOrEqual(t, d, byte('9'))
		assert.False(t, seen[d], "digit %c repeats in %s", d, room.Number)
		seen[d] = true
	}

	require.NoError(t, s.UpdateRoomName(ctx, room.Number, "Renamed"))
	require.NoError(t, s.UpdateRoomAccess(ctx, room.Number, domain.AccessPrivate))
	require.NoError(t, s.SetRoomLocked(ctx, room.Number, true))

	got, err := s.RoomByNumber(ctx, room.Number)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.AccessPrivate, got.Access)
	assert.True(t, got.Locked)

	assert.ErrorIs(t, s.UpdateRoomName(ctx, "0000000000", "x"), ErrRoomNotFound)
	_, err = s.RoomByNumber(ctx, "0000000000")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	require.NoError(t, s.DeleteRoom(ctx, room.Number))
	_, err = s.RoomByNumber(ctx, room.Number)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestBanAndInviteSets(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "owner")
	mustCreateUser(t, s, "carol")
	mustCreateUser(t, s, "bob")

	room, err := s.CreateRoom(ctx, "Room", "owner", domain.AccessPrivate)
	require.NoError(t, err)

	require.NoError(t, s.BanUser(ctx, room.Number, "carol"))
	require.NoError(t, s.InviteUser(ctx, room.Number, "bob"))
	// Banning twice must not duplicate the association.
	require.NoError(t, s.BanUser(ctx, room.Number, "carol"))
	// Guests have no account row; banning them is a silent no-op.
	require.NoError(t, s.BanUser(ctx, room.Number, "guest_dan"))

	got, err := s.RoomByNumber(ctx, room.Number)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, got.Banned)
	assert.Equal(t, []string{"bob"}, got.Invited)
	assert.True(t, got.IsBanned("carol"))
	assert.True(t, got.IsInvited("bob"))
	assert.False(t, got.IsBanned("guest_dan"))
}

func TestRoomsOwnedBy(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "owner")
	mustCreateUser(t, s, "other")

	_, err := s.CreateRoom(ctx, "First", "owner", domain.AccessPublic)
	require.NoError(t, err)
	_, err = s.CreateRoom(ctx, "Second", "owner", domain.AccessConfirmed)
	require.NoError(t, err)
	_, err = s.CreateRoom(ctx, "Foreign", "other", domain.AccessPublic)
	require.NoError(t, err)

	rooms, err := s.RoomsOwnedBy(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	for _, room := range rooms {
		assert.Equal(t, "owner", room.Owner)
	}

	_, err = s.RoomsOwnedBy(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
