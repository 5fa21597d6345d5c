package discover

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
)

// Registrar ties candidate discovery into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discover service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts candidate discovery on the authenticated API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	s := NewService(r.appCtx)

	api.GET("/users/matches", s.handleNearbyCandidates)
}
