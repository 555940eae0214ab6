package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/dkeye/Chatter/internal/store"
)

type RoomController struct {
	Rooms    store.RoomStore
	Presence *app.Presence
}

type roomResponse struct {
	Number       string            `json:"number"`
	Name         string            `json:"name"`
	AccessType   domain.AccessMode `json:"access type"`
	Owner        string            `json:"owner"`
	Locked       bool              `json:"locked"`
	Participants []string          `json:"participants,omitempty"`
}

func roomView(room *domain.Room, participants []string) roomResponse {
	return roomResponse{
		Number:       room.Number,
		Name:         room.Name,
		AccessType:   room.Access,
		Owner:        room.Owner,
		Locked:       room.Locked,
		Participants: participants,
	}
}

type createRoomRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	AccessType string `json:"access type" binding:"omitempty,oneof=PUBLIC CONFIRMED PRIVATE"`
}

func (ctl *RoomController) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room payload"})
		return
	}
	access := domain.AccessPublic
	if req.AccessType != "" {
		access = domain.AccessMode(req.AccessType)
	}
	room, err := ctl.Rooms.CreateRoom(c.Request.Context(), req.Name, currentUser(c).Username, access)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room creation failed"})
		return
	}
	c.JSON(http.StatusCreated, roomView(room, nil))
}

func (ctl *RoomController) ListOwn(c *gin.Context) {
	rooms, err := ctl.Rooms.RoomsOwnedBy(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room listing failed"})
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomView(room, nil))
	}
	c.JSON(http.StatusOK, out)
}

func (ctl *RoomController) Get(c *gin.Context) {
	number := c.Param("number")
	room, err := ctl.Rooms.RoomByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room lookup failed"})
		return
	}
	c.JSON(http.StatusOK, roomView(room, ctl.Presence.List(number)))
}

type inviteRequest struct {
	Username string `json:"username" binding:"required,slug,max=30"`
}

func (ctl *RoomController) Invite(c *gin.Context) {
	room, ok := ctl.ownedRoom(c)
	if !ok {
		return
	}
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite payload"})
		return
	}
	if err := ctl.Rooms.InviteUser(c.Request.Context(), room.Number, req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

type lockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

func (ctl *RoomController) Lock(c *gin.Context) {
	room, ok := ctl.ownedRoom(c)
	if !ok {
		return
	}
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lock payload"})
		return
	}
	if err := ctl.Rooms.SetRoomLocked(c.Request.Context(), room.Number, *req.Locked); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lock update failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *RoomController) Delete(c *gin.Context) {
	room, ok := ctl.ownedRoom(c)
	if !ok {
		return
	}
	if err := ctl.Rooms.DeleteRoom(c.Request.Context(), room.Number); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room deletion failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedRoom loads the room from the path and aborts unless the
// current user owns it.
func (ctl *RoomController) ownedRoom(c *gin.Context) (*domain.Room, bool) {
	room, err := ctl.Rooms.RoomByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "room lookup failed"})
		}
		return nil, false
	}
	if room.Owner != currentUser(c).Username {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the room owner"})
		return nil, false
	}
	return room, true
}
