package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. A nil returned context
// keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the response has been written.
type CloserFunc func(ctx context.Context)

type Router struct {
	Inner  gin.IRouter
	engine *gin.Engine

	afters []MiddlewareFunc
}

// New creates a router whose handlers see every value of ctx, such as the
// configs, the logger and the database.
func New(ctx context.Context) *Router {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		var reqCtx context.Context = requestContext{Context: c.Request.Context(), base: ctx}
		reqCtx = xcontext.WithHTTPRequest(reqCtx, c.Request)
		c.Request = c.Request.WithContext(reqCtx)
	})

	return &Router{
		Inner:  engine,
		engine: engine,
	}
}

// Branch returns a router sharing the routes but with its own copy of the
// middlewares. Middlewares added to a router later do not apply to the routes
// it already has.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:  r.Inner.Group(""),
		engine: r.engine,
		afters: slices.Clone(r.afters),
	}
}

func (r *Router) Before(middlewares ...MiddlewareFunc) {
	for _, m := range middlewares {
		r.Inner.Use(wrapMiddleware(m))
	}
}

func (r *Router) After(middlewares ...MiddlewareFunc) {
	r.afters = append(r.afters, middlewares...)
}

func (r *Router) AddCloser(closers ...CloserFunc) {
	for _, closer := range closers {
		r.Inner.Use(wrapCloser(closer))
	}
}

// Handle registers a raw http.Handler behind the Before middlewares and
// closers of the router.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.Inner.Handle(method, pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
