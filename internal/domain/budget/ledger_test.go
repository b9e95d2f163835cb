package budget

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/questx-lab/challenge/config"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLedger_Reserve(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ledger := NewLedger(repository.NewPointsBudgetRepository())

	result, err := ledger.Reserve(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 300)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, testutil.Workspace1Budget.ID, result.BudgetID)
	require.Equal(t, int64(700), result.Remaining)

	_, err = ledger.Reserve(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 701)
	require.ErrorIs(t, err, ErrBudgetExceeded)

	result, err = ledger.Reserve(ctx, testutil.Workspace1.ID, "", 700)
	require.NoError(t, err)
	require.Equal(t, int64(0), result.Remaining)

	_, err = ledger.Reserve(ctx, testutil.Workspace1.ID, "", 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.Reserve(ctx, testutil.Workspace1.ID, "", -5)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLedger_Reserve_ChallengeBudgetFirst(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ledger := NewLedger(repository.NewPointsBudgetRepository())

	challengeBudget := testutil.SampleBudget(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 10)

	result, err := ledger.Reserve(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 10)
	require.NoError(t, err)
	require.Equal(t, challengeBudget.ID, result.BudgetID)

	// The challenge budget is exhausted, the workspace one is not used instead.
	_, err = ledger.Reserve(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 1)
	require.ErrorIs(t, err, ErrBudgetExceeded)

	result, err = ledger.Reserve(ctx, testutil.Workspace1.ID, testutil.Challenge2.ID, 1)
	require.NoError(t, err)
	require.Equal(t, testutil.Workspace1Budget.ID, result.BudgetID)
}

func TestLedger_Reserve_NoBudget(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ledger := NewLedger(repository.NewPointsBudgetRepository())

	result, err := ledger.Reserve(ctx, testutil.Workspace2.ID, "", 100)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, Unlimited, result.Remaining)
	require.Empty(t, result.BudgetID)

	ctx = testutil.WithConfigs(ctx, func(cfg *config.Configs) {
		cfg.Reward.RequireBudget = true
	})
	_, err = ledger.Reserve(ctx, testutil.Workspace2.ID, "", 100)
	require.ErrorIs(t, err, ErrNoBudget)
}

func TestLedger_Release(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	budgetRepo := repository.NewPointsBudgetRepository()
	ledger := NewLedger(budgetRepo)

	result, err := ledger.Reserve(ctx, testutil.Workspace1.ID, "", 400)
	require.NoError(t, err)

	require.NoError(t, ledger.Release(ctx, result.BudgetID, 150))
	b, err := budgetRepo.GetByID(ctx, result.BudgetID)
	require.NoError(t, err)
	require.Equal(t, int64(250), b.Allocated)

	require.Error(t, ledger.Release(ctx, result.BudgetID, 1000))
}

// Concurrent reservations never allocate more than the total budget and the
// successful ones add up exactly to the allocated amount.
func TestLedger_Reserve_Concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	budgetRepo := repository.NewPointsBudgetRepository()
	ledger := NewLedger(budgetRepo)

	const amount = 30
	var succeeded atomic.Int64
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := ledger.Reserve(ctx, testutil.Workspace1.ID, "", amount)
			if errors.Is(err, ErrBudgetExceeded) {
				return nil
			}
			if err != nil {
				return err
			}

			succeeded.Add(1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	b, err := budgetRepo.GetByID(ctx, testutil.Workspace1Budget.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000/amount), succeeded.Load())
	require.Equal(t, succeeded.Load()*amount, b.Allocated)
	require.LessOrEqual(t, b.Allocated, b.TotalBudget)
}
