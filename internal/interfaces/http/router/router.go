package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler that mounts routes on the
// versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts handlers under the versioned API prefix
type Router struct {
	engine *gin.Engine
	v1     *gin.RouterGroup
}

// New creates a router on the given engine. Group-level middleware is
// applied to every /api/v1 route.
func New(engine *gin.Engine, middleware ...gin.HandlerFunc) *Router {
	v1 := engine.Group("/api/v1")
	v1.Use(middleware...)

	return &Router{
		engine: engine,
		v1:     v1,
	}
}

// Register mounts the given registrars on /api/v1
func (r *Router) Register(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.v1)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
