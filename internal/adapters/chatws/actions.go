package chatws

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/domain"
)

// handleAction dispatches one inbound client message. Malformed
// payloads are dropped without a reply; a misbehaving client must not
// be able to desynchronize the room.
func (s *session) handleAction(data []byte) {
	var env struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("bad action json")
		return
	}

	switch env.Action {
	case "send message":
		s.actionSendMessage(data)
	case "get info":
		s.sendInfo()
	case "change room name":
		s.actionChangeName(data)
	case "change room access type":
		s.actionChangeAccess(data)
	case "kick user":
		s.actionKick(data)
	case "ban user":
		s.actionBan(data)
	default:
		log.Warn().Str("module", "chatws").Str("action", env.Action).Msg("unknown action")
	}
}

func (s *session) actionSendMessage(data []byte) {
	var p struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	s.publish(app.Event{Kind: app.EventMessage, Message: p.Message, Username: s.username})
}

// Any participant may rename the room; the original system imposed no
// owner check here.
func (s *session) actionChangeName(data []byte) {
	var p struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		return
	}
	if err := s.ctl.Rooms.UpdateRoomName(s.ctx, s.room.Number, p.Name); err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("rename failed")
		s.close()
		return
	}
	s.publish(app.Event{Kind: app.EventNameChange, Name: p.Name})
}

func (s *session) actionChangeAccess(data []byte) {
	var p struct {
		AccessType string `json:"access type"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if !domain.ValidAccessMode(p.AccessType) {
		return
	}
	mode := domain.AccessMode(p.AccessType)
	if err := s.ctl.Rooms.UpdateRoomAccess(s.ctx, s.room.Number, mode); err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("access change failed")
		s.close()
		return
	}
	evicted, err := s.evictedByAccessChange(mode)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("eviction lookup failed")
		s.close()
		return
	}
	s.publish(app.Event{Kind: app.EventAccessChange, Access: p.AccessType, Evicted: evicted})
}

// evictedByAccessChange computes who can no longer stay after a mode
// switch: confirmed-only evicts every guest, private evicts everyone
// not on the invite list.
func (s *session) evictedByAccessChange(mode domain.AccessMode) ([]string, error) {
	participants := s.ctl.Presence.List(s.room.Number)
	var evicted []string
	switch mode {
	case domain.AccessConfirmed:
		for _, name := range participants {
			if domain.IsGuestName(name) {
				evicted = append(evicted, name)
			}
		}
	case domain.AccessPrivate:
		room, err := s.ctl.Rooms.RoomByNumber(s.ctx, s.room.Number)
		if err != nil {
			return nil, err
		}
		for _, name := range participants {
			if !room.IsInvited(name) {
				evicted = append(evicted, name)
			}
		}
	}
	return evicted, nil
}

func (s *session) actionKick(data []byte) {
	var p struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if !s.isOwner || p.Username == "" {
		return
	}
	s.publish(app.Event{Kind: app.EventKick, Username: p.Username})
}

// Guests cannot be banned: a ban keys on a persisted account, which
// guests do not have. Such requests are ignored entirely.
func (s *session) actionBan(data []byte) {
	var p struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if !s.isOwner || p.Username == "" || domain.IsGuestName(p.Username) {
		return
	}
	s.publish(app.Event{Kind: app.EventBan, Username: p.Username})
}
