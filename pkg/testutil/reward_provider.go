package testutil

import (
	"context"
	"sync/atomic"

	"github.com/questx-lab/challenge/internal/rewardprovider"
)

const MockProviderName = "mock"

type MockRewardProvider struct {
	IssueFunc func(context.Context, *rewardprovider.Request) (*rewardprovider.Result, error)

	calls atomic.Int64
}

func (m *MockRewardProvider) Issue(
	ctx context.Context, req *rewardprovider.Request,
) (*rewardprovider.Result, error) {
	m.calls.Add(1)
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, req)
	}

	return &rewardprovider.Result{
		Status:        rewardprovider.StatusIssued,
		TransactionID: "tx-" + req.IdempotencyKey,
	}, nil
}

func (m *MockRewardProvider) Calls() int {
	return int(m.calls.Load())
}

func NewMockRegistry(p rewardprovider.Provider) *rewardprovider.Registry {
	registry := rewardprovider.NewRegistry(MockProviderName)
	registry.Register(MockProviderName, p)
	return registry
}
