package chatws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/domain"
)

// session is the per-connection controller. After a successful join
// it runs three goroutines: the write pump, the read pump consuming
// client actions, and the event loop consuming room broadcasts.
type session struct {
	id       string
	ctl      *Controller
	conn     *wsConn
	user     *domain.User
	username string
	room     *domain.Room
	isOwner  bool

	events chan app.Event
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// Deliver queues a room event for the session without blocking.
func (s *session) Deliver(ev app.Event) error {
	select {
	case s.events <- ev:
		return nil
	default:
		return app.ErrBackpressure
	}
}

// close is the single teardown path for every disconnect trigger:
// client close, transport error, kick, ban, eviction. Unsubscribing
// and leaving presence always happen together so the registry never
// drifts from the live group.
func (s *session) close() {
	s.closeOnce.Do(func() {
		s.ctl.Groups.Unsubscribe(s.room.Number, s)
		s.ctl.Presence.Leave(s.room.Number, s.username)
		s.cancel()
		s.conn.Close()
		log.Info().Str("module", "chatws").Str("sid", s.id).Str("room", s.room.Number).
			Str("username", s.username).Msg("session closed")
	})
}

func (s *session) readPump() {
	defer s.close()
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			data, err := s.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("readPump read error")
				return
			}
			s.handleAction(data)
		}
	}
}

func (s *session) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *session) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("sendJSON marshal")
		return
	}
	_ = s.conn.TrySend(data)
}

// publish fans an event out to the room, then applies the
// backpressure policy to subscribers that could not take it.
func (s *session) publish(ev app.Event) {
	res := s.ctl.Groups.Publish(s.room.Number, ev)
	for _, slow := range res.Dropped {
		if s.ctl.Policy.OnBackpressure(s.room.Number, slow) != app.EvictSubscriber {
			continue
		}
		if peer, ok := slow.(*session); ok {
			log.Warn().Str("module", "chatws").Str("sid", peer.id).Msg("evicting slow subscriber")
			peer.close()
		}
	}
}

// sendInfo sends the room info snapshot, refreshed from the store.
// Names in exclude are hidden from the participant list so just
// kicked users never show up as present.
func (s *session) sendInfo(exclude ...string) {
	room, err := s.ctl.Rooms.RoomByNumber(s.ctx, s.room.Number)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("info lookup failed")
		s.close()
		return
	}
	s.sendJSON(struct {
		Update       string            `json:"update"`
		Name         string            `json:"name"`
		AccessType   domain.AccessMode `json:"access type"`
		Owner        string            `json:"owner"`
		Participants []string          `json:"participants"`
	}{"info", room.Name, room.Access, room.Owner, s.ctl.Presence.List(s.room.Number, exclude...)})
}
