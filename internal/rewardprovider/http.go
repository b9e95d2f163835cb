package rewardprovider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/questx-lab/challenge/pkg/api"
	"github.com/questx-lab/challenge/pkg/enum"
)

const issuePath = "/v1/issuances"

type httpProvider struct {
	apiGenerator api.Generator
	token        string
}

// NewHTTPProvider calls a marketplace exposing POST /v1/issuances which
// answers {"status", "transaction_id", "reason"}.
func NewHTTPProvider(apiGenerator api.Generator, token string) *httpProvider {
	return &httpProvider{apiGenerator: apiGenerator, token: token}
}

func (p *httpProvider) Issue(ctx context.Context, req *Request) (*Result, error) {
	body := api.JSON{
		"user_id":  req.ExternalUserID,
		"type":     string(req.Type),
		"sku_id":   req.SkuID,
		"amount":   req.Amount.String(),
		"currency": req.Currency,
	}

	opts := []api.Opt{api.IdempotencyKey(req.IdempotencyKey)}
	if p.token != "" {
		opts = append(opts, api.OAuth2("Bearer", p.token))
	}

	resp, err := p.apiGenerator.New(issuePath).Body(body).POST(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if resp.Code >= http.StatusInternalServerError {
		return nil, fmt.Errorf("provider responded with status %d", resp.Code)
	}

	reason, _ := resp.Body.GetString("reason")
	if resp.Code >= http.StatusBadRequest {
		if reason == "" {
			reason = fmt.Sprintf("provider rejected the request with status %d", resp.Code)
		}
		return &Result{Status: StatusFailed, Reason: reason}, nil
	}

	rawStatus, err := resp.Body.GetString("status")
	if err != nil {
		return nil, err
	}

	status, err := enum.ToEnum[Status](rawStatus)
	if err != nil {
		return nil, err
	}

	transactionID, _ := resp.Body.GetString("transaction_id")
	return &Result{
		Status:        status,
		TransactionID: transactionID,
		Reason:        reason,
	}, nil
}
