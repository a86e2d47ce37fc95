package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Contract method names exposed by the lending pool.
const (
	methodLenderInfo         = "get_lender_info"
	methodAvailableLiquidity = "get_available_liquidity"
	methodUtilizationRate    = "get_utilization_rate"
	methodAllowance          = "get_allowance"
	methodApprove            = "approve"
	methodDeposit            = "deposit"
	methodWithdraw           = "withdraw"
	methodMint               = "mint"
)

// Client talks JSON-RPC to the pool ledger gateway. Reads go through
// lending_simulate, writes through lending_invoke.
type Client struct {
	rpcClient *rpc.Client
	contract  string
}

// NewClient dials the gateway and binds the client to one pool contract.
func NewClient(ctx context.Context, rpcURL, contract string) (*Client, error) {
	if contract == "" {
		return nil, fmt.Errorf("contract id is required")
	}
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient, contract: contract}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LenderInfo reads one account's raw position record.
func (c *Client) LenderInfo(ctx context.Context, account string) (any, error) {
	return c.simulate(ctx, methodLenderInfo, account)
}

// AvailableLiquidity reads the pool's free liquidity in base units.
func (c *Client) AvailableLiquidity(ctx context.Context) (any, error) {
	return c.simulate(ctx, methodAvailableLiquidity)
}

// UtilizationRate reads the pool utilization in basis points.
func (c *Client) UtilizationRate(ctx context.Context) (any, error) {
	return c.simulate(ctx, methodUtilizationRate)
}

// Allowance reads the amount the pool may pull from the account.
func (c *Client) Allowance(ctx context.Context, account string) (any, error) {
	return c.simulate(ctx, methodAllowance, account)
}

// Approve grants the pool a spending allowance for the account and
// returns the raw amount actually approved.
func (c *Client) Approve(ctx context.Context, account string) (any, error) {
	return c.invoke(ctx, methodApprove, account)
}

// Deposit moves amount base units from the account into the pool.
func (c *Client) Deposit(ctx context.Context, account string, amount int64) (any, error) {
	return c.invoke(ctx, methodDeposit, account, amount)
}

// Withdraw pulls amount base units out of the pool.
func (c *Client) Withdraw(ctx context.Context, account string, amount int64) (any, error) {
	return c.invoke(ctx, methodWithdraw, account, amount)
}

// Mint mints amount base units of the test asset to the account.
func (c *Client) Mint(ctx context.Context, account string, amount int64) (any, error) {
	return c.invoke(ctx, methodMint, account, amount)
}

func (c *Client) simulate(ctx context.Context, method string, args ...any) (any, error) {
	return c.call(ctx, "lending_simulate", method, args)
}

func (c *Client) invoke(ctx context.Context, method string, args ...any) (any, error) {
	return c.call(ctx, "lending_invoke", method, args)
}

func (c *Client) call(ctx context.Context, rpcMethod, contractMethod string, args []any) (any, error) {
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, rpcMethod, c.contract, contractMethod, args); err != nil {
		return nil, fmt.Errorf("%s %s: %w", rpcMethod, contractMethod, err)
	}
	return decodeLoose(raw)
}

// decodeLoose decodes a raw response preserving integer precision:
// amounts can exceed what float64 represents exactly, so numbers stay
// json.Number until coerced.
func decodeLoose(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return value, nil
}
