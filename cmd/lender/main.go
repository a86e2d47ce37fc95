package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "lender",
		Short:        "Lending pool position client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Synchronize once and print position, statistics, and allowance",
		RunE:  runStatus,
	}
	addClientFlags(statusCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Synchronize periodically, optionally recording snapshots",
		RunE:  runWatch,
	}
	addClientFlags(watchCmd)
	watchCmd.Flags().Duration("interval", 15*time.Second, "refresh interval")
	watchCmd.Flags().String("out", "", "snapshot JSONL path")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN for snapshot storage")

	depositCmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit into the pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeposit,
	}
	addClientFlags(depositCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw from the pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runWithdraw,
	}
	addClientFlags(withdrawCmd)

	approveCmd := &cobra.Command{
		Use:   "approve",
		Short: "Grant the pool a spending allowance",
		RunE:  runApprove,
	}
	addClientFlags(approveCmd)

	mintCmd := &cobra.Command{
		Use:   "mint <amount>",
		Short: "Mint the test asset to the account",
		Args:  cobra.ExactArgs(1),
		RunE:  runMint,
	}
	addClientFlags(mintCmd)

	root.AddCommand(statusCmd, watchCmd, depositCmd, withdrawCmd, approveCmd, mintCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "ledger gateway RPC URL")
	cmd.Flags().String("contract", "", "lending pool contract id")
	cmd.Flags().String("account", "", "lender account id")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
