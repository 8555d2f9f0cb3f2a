package service

import (
	"context"

	"github.com/Fi44er/points_bot/internal/models"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	PendingTransactions  int64   `json:"pendingTransactions"`
	ApprovedTransactions int64   `json:"approvedTransactions"`
	DeclinedTransactions int64   `json:"declinedTransactions"`
	Revenue              float64 `json:"revenue"`
	PendingRedemptions   int64   `json:"pendingRedemptions"`
	PointsAwarded        int64   `json:"pointsAwarded"`
}

// GetStats runs the dashboard aggregates concurrently.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var (
		stats  Stats
		counts map[models.Status]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.repo.CountTransactionsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = s.repo.SumApprovedAmount(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingRedemptions, err = s.repo.CountPendingRedemptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PointsAwarded, err = s.repo.SumPointsByType(gctx, models.HistoryEarned)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.PendingTransactions = counts[models.StatusPending]
	stats.ApprovedTransactions = counts[models.StatusApproved]
	stats.DeclinedTransactions = counts[models.StatusDeclined]
	return &stats, nil
}
