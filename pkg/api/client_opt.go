package api

import "net/http"

type oauth2Opt struct {
	token string
}

func OAuth2(prefix, token string) *oauth2Opt {
	return &oauth2Opt{token: prefix + " " + token}
}

func (opt *oauth2Opt) Do(req *http.Request) {
	req.Header.Set("Authorization", opt.token)
}

type idempotencyOpt struct {
	key string
}

// IdempotencyKey lets the remote side deduplicate retried calls.
func IdempotencyKey(key string) *idempotencyOpt {
	return &idempotencyOpt{key: key}
}

func (opt *idempotencyOpt) Do(req *http.Request) {
	req.Header.Set("Idempotency-Key", opt.key)
}
