// Package rewardprovider talks to the external reward marketplaces which
// deliver catalog items and monetary rewards.
package rewardprovider

import (
	"context"
	"fmt"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/shopspring/decimal"
)

type Status string

var (
	StatusIssued  = enum.New(Status("ISSUED"))
	StatusFailed  = enum.New(Status("FAILED"))
	StatusPending = enum.New(Status("PENDING"))
)

type Request struct {
	// IdempotencyKey is forwarded so the marketplace can drop duplicates.
	IdempotencyKey string
	ExternalUserID string
	Type           entity.RewardType
	SkuID          string
	Amount         decimal.Decimal
	Currency       string
}

type Result struct {
	Status        Status
	TransactionID string
	Reason        string
}

type Provider interface {
	Issue(ctx context.Context, req *Request) (*Result, error)
}

// Registry resolves a provider by the name stored on a reward.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
}

// Get returns the provider registered under name, or the default one when
// name is empty. The returned name is the one actually resolved.
func (r *Registry) Get(name string) (string, Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	p, ok := r.providers[name]
	if !ok {
		return name, nil, fmt.Errorf("reward provider %q is not configured", name)
	}

	return name, p, nil
}
