package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lenderScope/internal/config"
	"lenderScope/internal/ledger"
	"lenderScope/internal/model"
	"lenderScope/internal/mutation"
	"lenderScope/internal/position"
	"lenderScope/internal/storage"
	"lenderScope/internal/storage/postgres"
	"lenderScope/internal/units"
)

// app bundles the wired client stack for one CLI invocation.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *ledger.Client
	state   *position.State
	syncer  *position.Synchronizer
	control *mutation.Controller
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if cfg.Contract == "" {
		return nil, fmt.Errorf("contract id is required")
	}
	if cfg.Account == "" {
		return nil, fmt.Errorf("account id is required")
	}

	client, err := ledger.NewClient(ctx, cfg.RPCURL, cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("connect gateway: %w", err)
	}

	state := position.NewState()
	syncer := position.NewSynchronizer(client, state, logger)
	control := mutation.NewController(client, state, syncer, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		state:   state,
		syncer:  syncer,
		control: control,
	}, nil
}

func (a *app) close() {
	a.client.Close()
	a.logger.Sync()
}

func (a *app) snapshot() model.PositionSnapshot {
	pos, stats, allowance := a.state.View()
	return model.PositionSnapshot{
		Account:    a.cfg.Account,
		Position:   pos,
		Statistics: stats,
		Allowance:  units.ToDecimal(allowance),
		TakenAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func (a *app) printSnapshot() error {
	out, err := json.MarshalIndent(a.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	a.syncer.Refresh(ctx, a.cfg.Account)
	return a.printSnapshot()
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	var sinks []storage.Sink
	if a.cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlSink(a.cfg.Out))
	}
	if a.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	a.logger.Info("watch start",
		zap.String("account", a.cfg.Account),
		zap.String("contract", a.cfg.Contract),
		zap.Duration("interval", a.cfg.Interval),
		zap.Int("sinks", len(sinks)),
	)

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		a.syncer.Refresh(ctx, a.cfg.Account)

		snap := a.snapshot()
		for _, sink := range sinks {
			if err := sink.PutSnapshot(ctx, snap); err != nil {
				a.logger.Warn("store snapshot", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			a.logger.Info("watch stop")
			return nil
		case <-ticker.C:
		}
	}
}

func runDeposit(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, func(ctx context.Context, a *app) (mutation.Result, error) {
		return a.control.Deposit(ctx, a.cfg.Account, args[0])
	})
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, func(ctx context.Context, a *app) (mutation.Result, error) {
		return a.control.Withdraw(ctx, a.cfg.Account, args[0])
	})
}

func runApprove(cmd *cobra.Command, _ []string) error {
	return runMutation(cmd, func(ctx context.Context, a *app) (mutation.Result, error) {
		return a.control.Approve(ctx, a.cfg.Account)
	})
}

func runMint(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, func(ctx context.Context, a *app) (mutation.Result, error) {
		return a.control.Mint(ctx, a.cfg.Account, args[0])
	})
}

func runMutation(cmd *cobra.Command, op func(context.Context, *app) (mutation.Result, error)) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Validation inside the controller compares against the
	// last-synchronized figures, so every invocation starts with a
	// synchronization pass.
	a.syncer.Refresh(ctx, a.cfg.Account)

	res, err := op(ctx, a)
	if err != nil {
		return err
	}

	fmt.Println(res.Notice)
	return a.printSnapshot()
}
