package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// requestContext is cancelled with the request and falls back to the values
// of the router context.
type requestContext struct {
	context.Context
	base context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	afters := slices.Clone(r.afters)

	return func(c *gin.Context) {
		ctx := func() context.Context {
			ctx := c.Request.Context()

			req, err := bind[Request](c, method)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
				return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
			}

			resp, err := handler(ctx, req)
			if err != nil {
				return xcontext.WithError(ctx, err)
			}
			ctx = xcontext.WithResponse(ctx, resp)

			if ctx, err = runMiddlewares(ctx, afters); err != nil {
				return xcontext.WithError(ctx, err)
			}

			return ctx
		}()

		writeResponse(c, ctx)
	}
}

func wrapMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := middleware(c.Request.Context())
		if err != nil {
			writeResponse(c, xcontext.WithError(c.Request.Context(), err))
			c.Abort()
			return
		}

		if ctx != nil {
			c.Request = c.Request.WithContext(ctx)
		}
	}
}

// wrapCloser runs the closer once the rest of the chain, aborted or not, has
// written the response.
func wrapCloser(closer CloserFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		closer(c.Request.Context())
	}
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}
