package position

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"lenderScope/internal/model"
)

type fakeService struct {
	lenderInfo     any
	lenderInfoErr  error
	liquidity      any
	liquidityErr   error
	utilization    any
	utilizationErr error
	allowance      any
	allowanceErr   error
}

func (f *fakeService) LenderInfo(context.Context, string) (any, error) {
	return f.lenderInfo, f.lenderInfoErr
}

func (f *fakeService) AvailableLiquidity(context.Context) (any, error) {
	return f.liquidity, f.liquidityErr
}

func (f *fakeService) UtilizationRate(context.Context) (any, error) {
	return f.utilization, f.utilizationErr
}

func (f *fakeService) Allowance(context.Context, string) (any, error) {
	return f.allowance, f.allowanceErr
}

func (f *fakeService) Approve(context.Context, string) (any, error)         { return nil, nil }
func (f *fakeService) Deposit(context.Context, string, int64) (any, error)  { return nil, nil }
func (f *fakeService) Withdraw(context.Context, string, int64) (any, error) { return nil, nil }
func (f *fakeService) Mint(context.Context, string, int64) (any, error)     { return nil, nil }

func healthyService() *fakeService {
	return &fakeService{
		lenderInfo: map[string]any{
			"result": map[string]any{
				"retval": map[string]any{
					"deposit_amount":   json.Number("500000000"),
					"earned_interest":  json.Number("10000000"),
					"share_percentage": json.Number("250"),
				},
			},
		},
		liquidity:   map[string]any{"result": json.Number("10000000000")},
		utilization: json.Number("5000"),
		allowance:   json.Number("123"),
	}
}

func TestRefreshBuildsPosition(t *testing.T) {
	state := NewState()
	sync := NewSynchronizer(healthyService(), state, nil)

	sync.Refresh(context.Background(), "GLENDER")

	pos := state.Position()
	if !pos.DepositAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("deposit amount = %s, want 50", pos.DepositAmount)
	}
	if !pos.EarnedInterest.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("earned interest = %s, want 1", pos.EarnedInterest)
	}
	if !pos.SharePercentage.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("share percentage = %s, want 2.5", pos.SharePercentage)
	}
	if !pos.TotalValue.Equal(decimal.NewFromInt(51)) {
		t.Fatalf("total value = %s, want 51", pos.TotalValue)
	}
}

func TestRefreshBuildsStatistics(t *testing.T) {
	state := NewState()
	sync := NewSynchronizer(healthyService(), state, nil)

	sync.Refresh(context.Background(), "GLENDER")

	stats := state.Statistics()
	if !stats.AvailableLiquidity.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("available liquidity = %s, want 1000", stats.AvailableLiquidity)
	}
	if !stats.TotalBorrowed.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("total borrowed = %s, want 1000", stats.TotalBorrowed)
	}
	if !stats.TotalValueLocked.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total value locked = %s, want 2000", stats.TotalValueLocked)
	}
	if !stats.CurrentAPY.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("current APY = %s, want 10", stats.CurrentAPY)
	}
	if state.Allowance() != 123 {
		t.Fatalf("allowance = %d, want 123", state.Allowance())
	}
}

func TestRefreshFailureKeepsPreviousFigures(t *testing.T) {
	svc := healthyService()
	state := NewState()
	sync := NewSynchronizer(svc, state, nil)

	sync.Refresh(context.Background(), "GLENDER")
	before := state.Statistics()

	svc.liquidityErr = errors.New("network down")
	svc.lenderInfoErr = errors.New("network down")
	sync.Refresh(context.Background(), "GLENDER")

	after := state.Statistics()
	if !after.TotalValueLocked.Equal(before.TotalValueLocked) {
		t.Fatalf("statistics changed after failed refresh: %s != %s", after.TotalValueLocked, before.TotalValueLocked)
	}
	if !state.Position().TotalValue.Equal(decimal.NewFromInt(51)) {
		t.Fatalf("position cleared after failed refresh")
	}
}

func TestRefreshPathIsolation(t *testing.T) {
	svc := healthyService()
	svc.lenderInfoErr = errors.New("lender info unavailable")
	state := NewState()
	sync := NewSynchronizer(svc, state, nil)

	sync.Refresh(context.Background(), "GLENDER")

	if !state.Statistics().AvailableLiquidity.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("statistics path blocked by lender info failure")
	}
	if !state.Position().TotalValue.IsZero() {
		t.Fatalf("position updated despite fetch failure")
	}
}

func TestRefreshWithoutSessionResetsAllowance(t *testing.T) {
	state := NewState()
	state.ReplaceAllowance(500)
	sync := NewSynchronizer(healthyService(), state, nil)

	sync.Refresh(context.Background(), "")

	if state.Allowance() != 0 {
		t.Fatalf("allowance = %d after session end, want 0", state.Allowance())
	}
	if !state.Position().TotalValue.IsZero() {
		t.Fatalf("position fetched without an active session")
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	state := NewState()
	gen := state.NextGeneration()
	state.Invalidate()

	pos := model.NewLenderPosition(decimal.NewFromInt(1), decimal.Zero, decimal.Zero)
	if state.SetPosition(gen, pos) {
		t.Fatalf("stale position applied")
	}
	if state.SetStatistics(gen, model.PoolStatistics{}) {
		t.Fatalf("stale statistics applied")
	}
	if state.SetAllowance(gen, 9) {
		t.Fatalf("stale allowance applied")
	}
	if !state.Position().TotalValue.IsZero() {
		t.Fatalf("state mutated by stale write")
	}
}

func TestDecrementAllowanceFloorsAtZero(t *testing.T) {
	state := NewState()
	state.ReplaceAllowance(100)
	state.DecrementAllowance(40)
	if state.Allowance() != 60 {
		t.Fatalf("allowance = %d, want 60", state.Allowance())
	}
	state.DecrementAllowance(500)
	if state.Allowance() != 0 {
		t.Fatalf("allowance = %d, want 0 floor", state.Allowance())
	}
}
