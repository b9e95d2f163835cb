package common

import (
	"context"
	"errors"
	"net/url"

	"github.com/questx-lab/challenge/pkg/xcontext"
)

// Limit clamps a requested page size to the configured bounds.
func Limit(ctx context.Context, limit int) int {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit <= 0 {
		return cfg.DefaultLimit
	}

	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}

	return limit
}

func ParseLinkURL(rawURL string) (string, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", err
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return "", errors.New("invalid scheme")
	}

	if u.Host == "" {
		return "", errors.New("invalid domain")
	}

	return u.String(), nil
}
