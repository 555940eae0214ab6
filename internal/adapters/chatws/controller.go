package chatws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/dkeye/Chatter/internal/store"
)

// Controller owns the join handshake and spawns a session per
// accepted connection.
type Controller struct {
	Rooms    store.RoomStore
	Access   *app.Evaluator
	Presence *app.Presence
	Groups   *app.Groups
	Policy   app.Policy

	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(rooms store.RoomStore, presence *app.Presence, groups *app.Groups, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Rooms:      rooms,
		Access:     app.NewEvaluator(rooms),
		Presence:   presence,
		Groups:     groups,
		Policy:     app.SimplePolicy{},
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat runs the join sequence: resolve identity, evaluate
// access, reserve the presence slot, subscribe to the room group.
// Rejections are sent as a "join status" payload and the connection
// is closed without touching presence or the group.
func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	number := c.Param("number")
	var user *domain.User
	if v, ok := c.Get("user"); ok {
		user, _ = v.(*domain.User)
	}
	username := app.ResolveUsername(user, c.Request.URL.RawQuery)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.ReadLimit)

	sid := uuid.NewString()
	log.Info().Str("module", "chatws").Str("sid", sid).Str("room", number).Str("username", username).Msg("new WS connection")

	room, decision, err := ctl.Access.Evaluate(ctx, number, user, username)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Str("sid", sid).Msg("access evaluation failed")
		rejectJoin(ws, "error")
		return
	}
	if decision != domain.Allowed {
		log.Info().Str("module", "chatws").Str("sid", sid).Str("status", string(decision)).Msg("join rejected")
		rejectJoin(ws, string(decision))
		return
	}
	if !ctl.Presence.TryJoin(number, username) {
		log.Info().Str("module", "chatws").Str("sid", sid).Str("username", username).Msg("already joined")
		rejectJoin(ws, string(domain.AlreadyJoined))
		return
	}

	sctx, cancel := context.WithCancel(ctx)
	sess := &session{
		id:       sid,
		ctl:      ctl,
		conn:     newWsConn(ws),
		user:     user,
		username: username,
		room:     room,
		// Snapshot taken once at join; an ownership transfer
		// mid-session does not update it.
		isOwner: user != nil && user.Username == room.Owner,
		events:  make(chan app.Event, 32),
		ctx:     sctx,
		cancel:  cancel,
	}
	ctl.Groups.Subscribe(number, sess)

	sess.sendJSON(struct {
		Update   string `json:"update"`
		JoinedAs string `json:"joined as"`
	}{"joined successfully", username})

	go sess.conn.writePump(ctl.PingPeriod)
	go sess.readPump()
	go sess.eventLoop()
}

// rejectJoin implements the send-then-close variant of the join
// failure contract: a status payload followed by a close frame.
func rejectJoin(ws *websocket.Conn, status string) {
	payload, _ := json.Marshal(struct {
		Update string `json:"update"`
		Status string `json:"status"`
	}{"join status", status})
	deadline := time.Now().Add(5 * time.Second)
	_ = ws.SetWriteDeadline(deadline)
	_ = ws.WriteMessage(websocket.TextMessage, payload)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, status), deadline)
	_ = ws.Close()
}
