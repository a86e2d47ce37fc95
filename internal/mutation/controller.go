// Package mutation drives the state-changing pool operations. Every
// operation follows the same shape: validate, convert to base units,
// invoke the ledger, react locally.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lenderScope/internal/ledger"
	"lenderScope/internal/position"
	"lenderScope/internal/units"
)

// Validation errors, reported before any external call is made.
var (
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrExceedsPosition   = errors.New("amount exceeds current position value")
	ErrOperationInFlight = errors.New("operation already in progress")
)

// Result reports a completed operation back to the caller.
type Result struct {
	Notice string
	Amount decimal.Decimal
}

// Controller validates, converts, and submits mutating operations, and
// triggers a synchronizer refresh after each successful deposit or
// withdrawal. It never writes position or statistics directly; the one
// exception is the optimistic allowance decrement after a deposit.
//
// Deposit and withdrawal share one in-flight flag; approve and mint
// each carry their own, so a busy operation blocks only its own kind.
type Controller struct {
	svc    ledger.Service
	state  *position.State
	syncer *position.Synchronizer
	logger *zap.Logger

	transferBusy atomic.Bool
	approveBusy  atomic.Bool
	mintBusy     atomic.Bool
}

// NewController wires the controller to the session state and its
// synchronizer.
func NewController(svc ledger.Service, state *position.State, syncer *position.Synchronizer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{svc: svc, state: state, syncer: syncer, logger: logger}
}

// Deposit moves amount (human units, as entered) into the pool. On
// success the allowance is optimistically decremented and a refresh is
// triggered; the refresh's outcome never affects the deposit's.
func (c *Controller) Deposit(ctx context.Context, account, amount string) (Result, error) {
	amt, err := parseAmount(amount)
	if err != nil {
		return Result{}, err
	}
	if !c.transferBusy.CompareAndSwap(false, true) {
		return Result{}, ErrOperationInFlight
	}
	defer c.transferBusy.Store(false)

	fixed := units.ToFixedPoint(amt)
	if _, err := c.svc.Deposit(ctx, account, fixed); err != nil {
		return Result{}, operationError(err, "deposit failed")
	}

	// Best-effort estimate until the refresh re-queries the chain.
	c.state.DecrementAllowance(fixed)
	c.syncer.Refresh(ctx, account)

	c.logger.Info("deposit complete", zap.String("account", account), zap.String("amount", amt.String()))
	return Result{Notice: fmt.Sprintf("deposited %s", amt), Amount: amt}, nil
}

// Withdraw pulls amount out of the pool. Amounts above the
// last-synchronized total value are rejected before any external call,
// even though that figure may be stale.
func (c *Controller) Withdraw(ctx context.Context, account, amount string) (Result, error) {
	amt, err := parseAmount(amount)
	if err != nil {
		return Result{}, err
	}
	if amt.GreaterThan(c.state.Position().TotalValue) {
		return Result{}, ErrExceedsPosition
	}
	if !c.transferBusy.CompareAndSwap(false, true) {
		return Result{}, ErrOperationInFlight
	}
	defer c.transferBusy.Store(false)

	if _, err := c.svc.Withdraw(ctx, account, units.ToFixedPoint(amt)); err != nil {
		return Result{}, operationError(err, "withdrawal failed")
	}

	c.syncer.Refresh(ctx, account)

	c.logger.Info("withdrawal complete", zap.String("account", account), zap.String("amount", amt.String()))
	return Result{Notice: fmt.Sprintf("withdrew %s", amt), Amount: amt}, nil
}

// Approve grants the pool a spending allowance and adopts the
// authoritative amount the contract actually approved.
func (c *Controller) Approve(ctx context.Context, account string) (Result, error) {
	if !c.approveBusy.CompareAndSwap(false, true) {
		return Result{}, ErrOperationInFlight
	}
	defer c.approveBusy.Store(false)

	raw, err := c.svc.Approve(ctx, account)
	if err != nil {
		return Result{}, operationError(err, "allowance grant failed")
	}

	approved := units.Coerce(ledger.Unwrap(raw)).IntPart()
	c.state.ReplaceAllowance(approved)

	human := units.ToDecimal(approved)
	c.logger.Info("allowance granted", zap.String("account", account), zap.String("approved", human.String()))
	return Result{Notice: fmt.Sprintf("approved %s", human), Amount: human}, nil
}

// Mint mints the test asset to the account's wallet. It touches
// neither the lender position nor the allowance.
func (c *Controller) Mint(ctx context.Context, account, amount string) (Result, error) {
	amt, err := parseAmount(amount)
	if err != nil {
		return Result{}, err
	}
	if !c.mintBusy.CompareAndSwap(false, true) {
		return Result{}, ErrOperationInFlight
	}
	defer c.mintBusy.Store(false)

	if _, err := c.svc.Mint(ctx, account, units.ToFixedPoint(amt)); err != nil {
		return Result{}, operationError(err, "mint failed")
	}

	c.logger.Info("mint complete", zap.String("account", account), zap.String("amount", amt.String()))
	return Result{Notice: fmt.Sprintf("minted %s", amt), Amount: amt}, nil
}

// TransferInFlight reports whether a deposit or withdrawal is running.
func (c *Controller) TransferInFlight() bool { return c.transferBusy.Load() }

// ApproveInFlight reports whether an allowance grant is running.
func (c *Controller) ApproveInFlight() bool { return c.approveBusy.Load() }

// MintInFlight reports whether a mint is running.
func (c *Controller) MintInFlight() bool { return c.mintBusy.Load() }

func parseAmount(input string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil || !amt.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amt, nil
}

// operationError surfaces the underlying failure message, falling back
// to the generic per-operation message when there is none.
func operationError(err error, generic string) error {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return errors.New(generic)
	}
	return err
}
