// Package http wires the gin router: account endpoints, the room
// CRUD API and the chat WebSocket endpoint.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/adapters/chatws"
	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/config"
	"github.com/dkeye/Chatter/internal/store"
)

func SetupRouter(ctx context.Context, cfg *config.Config, users store.UserStore, rooms store.RoomStore, presence *app.Presence, chat *chatws.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slug", app.SlugRule)
	}

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChatterSessions", sessionStore))
	r.Use(CurrentUserMiddleware(users))

	auth := &AuthController{Users: users}
	roomAPI := &RoomController{Rooms: rooms, Presence: presence}

	api := r.Group("/api")
	api.POST("/register", auth.Register)
	api.POST("/login", auth.Login)
	api.POST("/logout", auth.Logout)
	api.GET("/me", RequireAuth(), auth.Me)

	api.POST("/rooms", RequireAuth(), roomAPI.Create)
	api.GET("/rooms", RequireAuth(), roomAPI.ListOwn)
	api.GET("/rooms/:number", roomAPI.Get)
	api.POST("/rooms/:number/invite", RequireAuth(), roomAPI.Invite)
	api.POST("/rooms/:number/lock", RequireAuth(), roomAPI.Lock)
	api.DELETE("/rooms/:number", RequireAuth(), roomAPI.Delete)

	r.GET("/ws/chat/:number", func(c *gin.Context) {
		chat.HandleChat(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
