package events

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
)

// Registrar ties the events service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the events service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the event routes on the authenticated API group.
// The literal routes (nearby, mine) come before the :eventId wildcard.
func (r *Registrar) Register(api *gin.RouterGroup) {
	s := NewService(r.appCtx)

	group := api.Group("/events")

	group.POST("", s.handleCreate)
	group.GET("/nearby", s.handleNearby)
	group.GET("/mine", s.handleListMine)
	group.GET("/:eventId", s.handleGet)
	group.PUT("/:eventId", s.handleUpdate)
	group.DELETE("/:eventId", s.handleDelete)
	group.POST("/:eventId/join", s.handleJoin)
	group.DELETE("/:eventId/join", s.handleLeave)
	group.GET("/:eventId/participants", s.handleParticipants)
}
