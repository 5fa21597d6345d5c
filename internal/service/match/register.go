package match

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/db"
)

// Registrar ties the match service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the match routes on the authenticated API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	s := NewService(r.appCtx)

	api.GET("/matches", s.handleListMutual)
	api.GET("/matches/actions", s.handleListActions)
	api.GET("/matches/admirers/count", s.handleCountAdmirers)
	api.POST("/matches/like", s.handleAction(db.ActionLike))
	api.POST("/matches/dislike", s.handleAction(db.ActionDislike))
	api.POST("/matches/super-like", s.handleAction(db.ActionSuperLike))
}
