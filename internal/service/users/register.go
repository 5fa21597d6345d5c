package users

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
)

// Registrar ties the users service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the users service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the users routes on the authenticated API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	s := NewService(r.appCtx)

	api.POST("/users", s.handleSync)
	api.GET("/users/me", s.handleMe)
	api.PUT("/users/me", s.handleUpdateProfile)
	api.PUT("/users/me/location", s.handleUpdateLocation)
}
