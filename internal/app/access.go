package app

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/dkeye/Chatter/internal/store"
)

// Evaluator decides whether a connection may join a room. The checks
// run in a fixed order: room existence, username validity (anonymous
// callers only), confirmed-only mode, ban list, invite list. Banned
// is checked before NotInvited so a banned-but-invited user is still
// rejected as banned.
type Evaluator struct {
	rooms    store.RoomStore
	validate *validator.Validate
}

func NewEvaluator(rooms store.RoomStore) *Evaluator {
	return &Evaluator{rooms: rooms, validate: NewValidator()}
}

// Evaluate returns the room (when it exists) and one decision from
// the closed set. Store failures surface as an error and are fatal
// for the calling session only.
func (e *Evaluator) Evaluate(ctx context.Context, number string, user *domain.User, username string) (*domain.Room, domain.Decision, error) {
	room, err := e.rooms.RoomByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return nil, domain.NotFound, nil
		}
		return nil, "", err
	}
	if user == nil {
		if err := e.validate.Var(username, "required,slug"); err != nil {
			return room, domain.BadUsername, nil
		}
	}
	if room.Access == domain.AccessConfirmed && user == nil {
		return room, domain.ConfirmRequired, nil
	}
	if room.IsBanned(username) {
		return room, domain.Banned, nil
	}
	if room.Access == domain.AccessPrivate && !room.IsInvited(username) {
		return room, domain.NotInvited, nil
	}
	log.Debug().Str("module", "app.access").Str("room", number).Str("username", username).Msg("join allowed")
	return room, domain.Allowed, nil
}
