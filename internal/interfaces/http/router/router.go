// Package router mounts named groups of routes on a gin engine, either on
// the root or under the versioned /api prefix.
package router

import (
	"cmp"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteInfo describes a mounted route
type RouteInfo struct {
	Group  string
	Method string
	Path   string
}

// Group is a named set of routes sharing a prefix and middleware
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewGroup(name, prefix string, middleware ...gin.HandlerFunc) *Group {
	return &Group{name: name, prefix: prefix, middleware: middleware}
}

// Use appends middleware run before every route of g and its children
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *Group) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *Group) GET(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodGet, relativePath, handlers...)
}

func (g *Group) POST(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPost, relativePath, handlers...)
}

func (g *Group) PUT(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPut, relativePath, handlers...)
}

func (g *Group) DELETE(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodDelete, relativePath, handlers...)
}

// Group adds a child group below g's prefix
func (g *Group) Group(name, prefix string, middleware ...gin.HandlerFunc) *Group {
	child := NewGroup(name, prefix, middleware...)
	g.children = append(g.children, child)
	return child
}

// mount registers g on parent and reports each route it adds
func (g *Group) mount(parent *gin.RouterGroup, seen func(RouteInfo)) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
		seen(RouteInfo{Group: g.name, Method: r.method, Path: joinPath(rg.BasePath(), r.path)})
	}
	for _, child := range g.children {
		child.mount(rg, seen)
	}
}

// Router collects groups until Mount registers them on the engine
type Router struct {
	engine        *gin.Engine
	version       string
	apiMiddleware []gin.HandlerFunc
	root          []*Group
	api           []*Group
}

// New creates a Router serving the versioned API under /api/<version>
func New(engine *gin.Engine, version string) *Router {
	return &Router{engine: engine, version: version}
}

// BasePath is the prefix of the versioned API
func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Use adds middleware to the versioned API only
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.apiMiddleware = append(r.apiMiddleware, middleware...)
	return r
}

// Root adds groups mounted on the engine root, outside the API middleware
func (r *Router) Root(groups ...*Group) *Router {
	r.root = append(r.root, groups...)
	return r
}

// API adds groups mounted under BasePath
func (r *Router) API(groups ...*Group) *Router {
	r.api = append(r.api, groups...)
	return r
}

// Mount registers every group and returns the mounted routes ordered by
// path then method
func (r *Router) Mount() []RouteInfo {
	var mounted []RouteInfo
	seen := func(ri RouteInfo) { mounted = append(mounted, ri) }

	for _, g := range r.root {
		g.mount(&r.engine.RouterGroup, seen)
	}
	api := r.engine.Group(r.BasePath(), r.apiMiddleware...)
	for _, g := range r.api {
		g.mount(api, seen)
	}

	slices.SortFunc(mounted, func(a, b RouteInfo) int {
		return cmp.Or(strings.Compare(a.Path, b.Path), strings.Compare(a.Method, b.Method))
	})
	return mounted
}

// joinPath joins like gin does, keeping a trailing slash of relative
func joinPath(base, relative string) string {
	if relative == "" {
		return base
	}
	joined := path.Join(base, relative)
	if strings.HasSuffix(relative, "/") && !strings.HasSuffix(joined, "/") {
		return joined + "/"
	}
	return joined
}
