package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/router"
	"github.com/questx-lab/challenge/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

// Prometheus labels requests by method and response code rather than by path,
// since paths carry ids.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)
		method := xcontext.HTTPRequest(ctx).Method

		code := 0
		if err := xcontext.Error(ctx); err != nil {
			code = int(errorx.CodeOf(err))
		}

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(method, fmt.Sprint(code)).Inc()

		if !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(method, fmt.Sprint(code)).Observe(time.Since(startTime).Seconds())
		}
	}
}
