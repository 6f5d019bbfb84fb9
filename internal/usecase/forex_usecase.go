package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"forex-data-service/internal/entity"
	"forex-data-service/internal/service"
)

// RatePoint is one element of the forex-data response.
type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type PairSyncStatus struct {
	Pair     string `json:"pair"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Inserted int64  `json:"inserted"`
	Updated  int64  `json:"updated"`
	Skipped  int64  `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type SyncSummary struct {
	Message string           `json:"message"`
	Results []PairSyncStatus `json:"results"`
}

type ForexDataUsecase struct {
	service   service.ForexService
	syncPairs []entity.Pair
	logger    *logrus.Logger
}

func NewForexDataUsecase(service service.ForexService, syncPairs []entity.Pair, logger *logrus.Logger) *ForexDataUsecase {
	return &ForexDataUsecase{
		service:   service,
		syncPairs: syncPairs,
		logger:    logger,
	}
}

// GetForexData validates the pair and period at the boundary, then reads the
// stored observations over the period's lookback window. No data in range is
// a valid empty result, not an error.
func (uc *ForexDataUsecase) GetForexData(ctx context.Context, base, quote, period string) ([]RatePoint, error) {
	pair, err := entity.NewPair(base, quote)
	if err != nil {
		uc.logger.Debugf("Rejected forex data request: %v", err)
		return nil, err
	}

	p, err := entity.ParsePeriod(period)
	if err != nil {
		uc.logger.Debugf("Rejected forex data request: %v", err)
		return nil, err
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -p.Days())

	rates, err := uc.service.GetRates(ctx, pair, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]RatePoint, 0, len(rates))
	for _, r := range rates {
		points = append(points, RatePoint{
			Date: r.Date.Format("2006-01-02"),
			Rate: r.Rate,
		})
	}

	uc.logger.Infof("Returning %d rate points for %s over %s", len(points), pair, p)
	return points, nil
}

// SyncForexData runs a sync for every configured pair sequentially and
// collects per-pair results. A pair that fails is recorded in the summary;
// the whole call fails only when every pair fails.
func (uc *ForexDataUsecase) SyncForexData(ctx context.Context) (*SyncSummary, error) {
	uc.logger.Infof("Starting forex data sync for %d pairs", len(uc.syncPairs))

	summary := &SyncSummary{
		Message: "Sync completed",
		Results: make([]PairSyncStatus, 0, len(uc.syncPairs)),
	}

	var lastErr error
	failed := 0
	for _, pair := range uc.syncPairs {
		res, err := uc.service.SyncPair(ctx, pair)
		if err != nil {
			uc.logger.WithError(err).Errorf("Sync failed for %s", pair)
			summary.Results = append(summary.Results, PairSyncStatus{
				Pair:  pair.String(),
				Error: err.Error(),
			})
			lastErr = err
			failed++
			continue
		}

		summary.Results = append(summary.Results, PairSyncStatus{
			Pair:     pair.String(),
			From:     res.From.Format("2006-01-02"),
			To:       res.To.Format("2006-01-02"),
			Inserted: res.Inserted,
			Updated:  res.Updated,
			Skipped:  res.Skipped,
		})
	}

	if failed > 0 && failed == len(uc.syncPairs) {
		return nil, lastErr
	}

	uc.logger.Info("Forex data sync completed")
	return summary, nil
}
