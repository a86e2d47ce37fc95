package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lenderScope/internal/model"
)

// Store provides Postgres persistence for position snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSnapshot inserts a single snapshot.
func (s *Store) PutSnapshot(ctx context.Context, snapshot model.PositionSnapshot) error {
	return s.InsertSnapshots(ctx, []model.PositionSnapshot{snapshot})
}

// InsertSnapshots inserts a batch of snapshots.
func (s *Store) InsertSnapshots(ctx context.Context, snapshots []model.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO position_snapshots (
				account, deposit_amount, earned_interest, share_percentage, total_value,
				total_value_locked, utilization_rate, current_apy, total_borrowed,
				available_liquidity, allowance, taken_at, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		`,
			snap.Account,
			snap.Position.DepositAmount,
			snap.Position.EarnedInterest,
			snap.Position.SharePercentage,
			snap.Position.TotalValue,
			snap.Statistics.TotalValueLocked,
			snap.Statistics.UtilizationRate,
			snap.Statistics.CurrentAPY,
			snap.Statistics.TotalBorrowed,
			snap.Statistics.AvailableLiquidity,
			snap.Allowance,
			snap.TakenAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
