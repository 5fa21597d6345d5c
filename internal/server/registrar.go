package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for all HTTP route registrars.
// Each service package exposes one and mounts its routes on the
// authenticated API group.
type Registrar interface {
	Register(api *gin.RouterGroup)
}
