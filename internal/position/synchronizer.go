package position

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"lenderScope/internal/ledger"
	"lenderScope/internal/model"
	"lenderScope/internal/units"
	"lenderScope/internal/yield"
)

// Synchronizer re-fetches the lender position and pool statistics,
// replacing both structures in State wholesale. It runs on session
// start and again after every mutating operation.
//
// Failures are logged and swallowed: a stale-but-present figure is
// preferred to clearing the display. The position path and the
// statistics path fail independently, and nothing is retried.
type Synchronizer struct {
	svc    ledger.Service
	state  *State
	logger *zap.Logger
}

// NewSynchronizer builds a Synchronizer around the session state.
func NewSynchronizer(svc ledger.Service, state *State, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{svc: svc, state: state, logger: logger}
}

// Refresh runs one full synchronization pass for the account. With no
// active session (empty account) it resets the allowance and fetches
// nothing. Liquidity and utilization are fetched concurrently and
// joined into statistics; lender info and allowance are fetched
// independently of the statistics path.
func (s *Synchronizer) Refresh(ctx context.Context, account string) {
	if account == "" {
		s.state.Invalidate()
		s.state.ResetAllowance()
		return
	}

	gen := s.state.NextGeneration()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.refreshStatistics(ctx, gen)
	}()
	go func() {
		defer wg.Done()
		s.refreshPosition(ctx, gen, account)
	}()
	go func() {
		defer wg.Done()
		s.refreshAllowance(ctx, gen, account)
	}()
	wg.Wait()
}

func (s *Synchronizer) refreshStatistics(ctx context.Context, gen uint64) {
	var (
		liquidityRaw, utilizationRaw any
		liquidityErr, utilizationErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		liquidityRaw, liquidityErr = s.svc.AvailableLiquidity(ctx)
	}()
	go func() {
		defer wg.Done()
		utilizationRaw, utilizationErr = s.svc.UtilizationRate(ctx)
	}()
	wg.Wait()

	if liquidityErr != nil {
		s.logger.Warn("fetch available liquidity", zap.Error(liquidityErr))
		return
	}
	if utilizationErr != nil {
		s.logger.Warn("fetch utilization rate", zap.Error(utilizationErr))
		return
	}

	available := units.ToDecimal(ledger.Unwrap(liquidityRaw))
	utilization := units.BasisPointsToPercent(ledger.Unwrap(utilizationRaw))
	stats := yield.BuildStatistics(utilization, available)

	if !s.state.SetStatistics(gen, stats) {
		s.logger.Debug("discard stale statistics", zap.Uint64("generation", gen))
	}
}

func (s *Synchronizer) refreshPosition(ctx context.Context, gen uint64, account string) {
	raw, err := s.svc.LenderInfo(ctx, account)
	if err != nil {
		s.logger.Warn("fetch lender info", zap.Error(err), zap.String("account", account))
		return
	}

	fields, _ := ledger.Unwrap(raw).(map[string]any)
	pos := model.NewLenderPosition(
		units.ToDecimal(fields["deposit_amount"]),
		units.ToDecimal(fields["earned_interest"]),
		units.BasisPointsToPercent(fields["share_percentage"]),
	)

	if !s.state.SetPosition(gen, pos) {
		s.logger.Debug("discard stale position", zap.Uint64("generation", gen))
	}
}

func (s *Synchronizer) refreshAllowance(ctx context.Context, gen uint64, account string) {
	raw, err := s.svc.Allowance(ctx, account)
	if err != nil {
		s.logger.Warn("fetch allowance", zap.Error(err), zap.String("account", account))
		return
	}

	amount := units.Coerce(ledger.Unwrap(raw)).IntPart()
	if !s.state.SetAllowance(gen, amount) {
		s.logger.Debug("discard stale allowance", zap.Uint64("generation", gen))
	}
}
