package ledger

import "context"

// Service is the capability set the lending pool gateway exposes. Every
// call is a network round trip and may fail; read results come back
// pre-unwrap (possibly wrapped in a simulate/invoke envelope, possibly
// string-encoded) and must go through Unwrap before numeric use.
type Service interface {
	// Reads.
	LenderInfo(ctx context.Context, account string) (any, error)
	AvailableLiquidity(ctx context.Context) (any, error)
	UtilizationRate(ctx context.Context) (any, error)
	Allowance(ctx context.Context, account string) (any, error)

	// Writes. Approve returns the fixed-point amount actually approved;
	// the others return an opaque success receipt.
	Approve(ctx context.Context, account string) (any, error)
	Deposit(ctx context.Context, account string, amount int64) (any, error)
	Withdraw(ctx context.Context, account string, amount int64) (any, error)
	Mint(ctx context.Context, account string, amount int64) (any, error)
}
