package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
)

// APIBasePath prefixes every authenticated route.
const APIBasePath = "/api"

// RouteInfo describes one mounted route.
type RouteInfo struct {
	Method string
	Path   string
	Group  string
}

// API is the guarded route tree. Groups are mounted on the engine as soon as
// they are added, behind the guards given to NewAPI.
type API struct {
	root   *gin.RouterGroup
	base   string
	groups []*DomainGroup
}

func NewAPI(engine *gin.Engine, base string, guards ...gin.HandlerFunc) *API {
	root := engine.Group(base)
	if len(guards) > 0 {
		root.Use(guards...)
	}
	return &API{root: root, base: base}
}

func (a *API) Mount(groups ...*DomainGroup) *API {
	for _, g := range groups {
		g.mount(a.root)
		a.groups = append(a.groups, g)
	}
	return a
}

// Routes lists every mounted route sorted by path then method.
func (a *API) Routes() []RouteInfo {
	var out []RouteInfo
	for _, g := range a.groups {
		out = g.collect(a.base, out)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// DomainGroup collects the routes of one domain under a prefix. Guards added
// with Use apply to the nested groups too.
type DomainGroup struct {
	name     string
	prefix   string
	guards   []gin.HandlerFunc
	routes   []route
	children []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Use(guards ...gin.HandlerFunc) *DomainGroup {
	g.guards = append(g.guards, guards...)
	return g
}

func (g *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodGet, p, handlers)
}

func (g *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPost, p, handlers)
}

func (g *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPut, p, handlers)
}

func (g *DomainGroup) PATCH(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPatch, p, handlers)
}

func (g *DomainGroup) DELETE(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodDelete, p, handlers)
}

// Group nests a child group; its name is qualified by the parent's.
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(g.name+"."+name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) add(method, p string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: p, handlers: handlers})
	return g
}

func (g *DomainGroup) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.guards...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

func (g *DomainGroup) collect(parent string, out []RouteInfo) []RouteInfo {
	base := joinPath(parent, g.prefix)
	for _, r := range g.routes {
		out = append(out, RouteInfo{Method: r.method, Path: joinPath(base, r.path), Group: g.name})
	}
	for _, child := range g.children {
		out = child.collect(base, out)
	}
	return out
}

// joinPath matches how gin joins group prefixes, keeping a trailing slash.
func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	joined := path.Join(base, rel)
	if rel[len(rel)-1] == '/' && joined[len(joined)-1] != '/' {
		return joined + "/"
	}
	return joined
}
