package middleware

import (
	"context"

	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/router"
	"github.com/questx-lab/challenge/pkg/xcontext"
)

const WebhookSecretHeader = "X-Webhook-Secret"

// VerifyWebhookSecret guards the provider callbacks. Callbacks are rejected
// when no secret is configured.
func VerifyWebhookSecret() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		expected := xcontext.Configs(ctx).Reward.WebhookSecret
		got := xcontext.HTTPRequest(ctx).Header.Get(WebhookSecretHeader)
		if expected == "" || !common.SecretEqual(expected, got) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid webhook secret")
		}

		return nil, nil
	}
}
