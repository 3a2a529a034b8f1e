package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the versioned API from handler registrars. Public
// registrars go on the bare API group; protected ones behind the given
// auth middleware.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []RouteRegistrar
	protected  []RouteRegistrar
	authChain  []gin.HandlerFunc
}

// NewRouter creates a new Router
func NewRouter(engine *gin.Engine, authChain ...gin.HandlerFunc) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
		authChain:  authChain,
	}
}

// Public adds registrars served without authentication
func (r *Router) Public(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// Protected adds registrars served behind the auth chain
func (r *Router) Protected(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// Setup wires all registered routes into the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	authed := api.Group("", r.authChain...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(authed)
	}
}
