package chatws

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
)

// handleEvent processes one room broadcast. Events that target this
// session (kick, ban, access-change eviction) make it notify the
// client and run the shared teardown path.
func (s *session) handleEvent(ev app.Event) {
	switch ev.Kind {
	case app.EventMessage:
		s.sendJSON(struct {
			Update   string `json:"update"`
			Message  string `json:"message"`
			Username string `json:"username"`
		}{"new message", ev.Message, ev.Username})

	case app.EventNameChange:
		s.sendJSON(struct {
			Update string `json:"update"`
			Name   string `json:"name"`
		}{"name change", ev.Name})

	case app.EventAccessChange:
		if ev.Targets(s.username) {
			s.sendJSON(struct {
				Update     string `json:"update"`
				AccessType string `json:"access type"`
			}{"kicked you because access change", ev.Access})
			s.close()
			return
		}
		s.sendJSON(struct {
			Update     string `json:"update"`
			AccessType string `json:"access type"`
			Quantity   int    `json:"quantity"`
		}{"users kicked because access change", ev.Access, len(ev.Evicted)})
		s.sendInfo(ev.Evicted...)

	case app.EventKick:
		if ev.Targets(s.username) {
			s.sendJSON(struct {
				Update string `json:"update"`
			}{"kicked you"})
			s.close()
			return
		}
		s.sendJSON(struct {
			Update   string `json:"update"`
			Username string `json:"username"`
		}{"user kicked", ev.Username})

	case app.EventBan:
		if ev.Targets(s.username) {
			// Guests have no account record; the ban persists only
			// for authenticated targets.
			if s.user != nil {
				if err := s.ctl.Rooms.BanUser(s.ctx, s.room.Number, s.username); err != nil {
					log.Error().Err(err).Str("module", "chatws").Str("sid", s.id).Msg("ban persist failed")
				}
			}
			s.sendJSON(struct {
				Update string `json:"update"`
			}{"banned you"})
			s.close()
			return
		}
		s.sendJSON(struct {
			Update   string `json:"update"`
			Username string `json:"username"`
		}{"user banned", ev.Username})

	default:
		log.Warn().Str("module", "chatws").Str("kind", string(ev.Kind)).Msg("unknown event")
	}
}
