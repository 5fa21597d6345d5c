package friends

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
)

// Registrar ties the friends service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the friends service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the friends routes on the authenticated API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	s := NewService(r.appCtx)

	api.GET("/friends", s.handleListFriends)
	api.GET("/friends/status/:userId", s.handleStatus)
	api.GET("/friends/requests", s.handleListRequests)
	api.POST("/friends/requests/:userId", s.handleSend)
	api.DELETE("/friends/requests/:userId", s.handleCancel)
	api.POST("/friends/requests/:userId/accept", s.handleAccept)
	api.POST("/friends/requests/:userId/decline", s.handleDecline)
}
