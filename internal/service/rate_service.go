package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"forex-data-service/internal/adapter/postgres"
	"forex-data-service/internal/adapter/yahoo"
	"forex-data-service/internal/entity"
	"forex-data-service/internal/metrics"
)

type RateService struct {
	provider     yahoo.HistoryProvider
	dbRepo       postgres.ForexRepository
	metrics      *metrics.Metrics
	lookbackDays int
	logger       *logrus.Logger
}

func NewRateService(provider yahoo.HistoryProvider, dbRepo postgres.ForexRepository, m *metrics.Metrics, lookbackDays int, logger *logrus.Logger) *RateService {
	return &RateService{
		provider:     provider,
		dbRepo:       dbRepo,
		metrics:      m,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// SyncPair refreshes the stored rates for one pair. The window is
// incremental: from the day after the most recent stored date through today,
// or the full default lookback when the store has nothing for the pair yet.
// Invalid quotes are counted and skipped, never fatal.
func (s *RateService) SyncPair(ctx context.Context, pair entity.Pair) (*entity.SyncResult, error) {
	to := today()
	from := to.AddDate(0, 0, -s.lookbackDays)

	latest, err := s.dbRepo.LatestDate(ctx, pair)
	switch {
	case err == nil:
		from = latest.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	case errors.Is(err, postgres.ErrNotFound):
		s.logger.Infof("No stored rates for %s, using default %d day lookback", pair, s.lookbackDays)
	default:
		s.logger.WithError(err).Errorf("Failed to read latest date for %s", pair)
		return nil, fmt.Errorf("%w: latest date for %s: %v", entity.ErrStore, pair, err)
	}

	result := &entity.SyncResult{Pair: pair, From: from, To: to}

	if from.After(to) {
		s.logger.Infof("Rates for %s already cover %s, nothing to sync", pair, to.Format("2006-01-02"))
		return result, nil
	}

	quotes, err := s.provider.FetchHistory(ctx, pair, from, to)
	if err != nil {
		s.logger.WithError(err).Errorf("Failed to fetch history for %s", pair)
		return nil, fmt.Errorf("%w: fetch history for %s: %v", entity.ErrProvider, pair, err)
	}

	recordedAt := time.Now().UTC()
	valid := make([]entity.Rate, 0, len(quotes))
	for _, q := range quotes {
		rate, err := normalizeQuote(q, to, recordedAt)
		if err != nil {
			s.logger.Debugf("Skipping quote for %s on %s: %v", pair, q.Date.Format("2006-01-02"), err)
			result.Skipped++
			continue
		}
		valid = append(valid, rate)
	}
	s.metrics.SyncQuotesSkipped.Add(float64(result.Skipped))

	if len(valid) > 0 {
		inserted, updated, err := s.dbRepo.UpsertRates(ctx, valid)
		if err != nil {
			s.logger.WithError(err).Errorf("Failed to store rates for %s", pair)
			return nil, fmt.Errorf("%w: store rates for %s: %v", entity.ErrStore, pair, err)
		}
		result.Inserted, result.Updated = inserted, updated
		s.metrics.SyncRowsInserted.Add(float64(inserted))
		s.metrics.SyncRowsUpdated.Add(float64(updated))
	}

	s.logger.Infof("Synced %s: %d inserted, %d updated, %d skipped",
		pair, result.Inserted, result.Updated, result.Skipped)
	return result, nil
}

// GetRates reads the observations for the pair over [from, to], ascending.
// An empty slice is a valid result.
func (s *RateService) GetRates(ctx context.Context, pair entity.Pair, from, to time.Time) ([]entity.Rate, error) {
	rates, err := s.dbRepo.ReadRange(ctx, pair, from, to)
	if err != nil {
		s.logger.WithError(err).Errorf("Failed to read rates for %s", pair)
		return nil, fmt.Errorf("%w: read rates for %s: %v", entity.ErrStore, pair, err)
	}
	return rates, nil
}

func normalizeQuote(q yahoo.Quote, today time.Time, recordedAt time.Time) (entity.Rate, error) {
	base := strings.ToUpper(strings.TrimSpace(q.BaseCurrency))
	quote := strings.ToUpper(strings.TrimSpace(q.QuoteCurrency))

	if !entity.ValidCurrencyCode(base) {
		return entity.Rate{}, fmt.Errorf("malformed base currency %q", q.BaseCurrency)
	}
	if !entity.ValidCurrencyCode(quote) {
		return entity.Rate{}, fmt.Errorf("malformed quote currency %q", q.QuoteCurrency)
	}
	if math.IsNaN(q.Rate) || math.IsInf(q.Rate, 0) || q.Rate <= 0 {
		return entity.Rate{}, fmt.Errorf("rate %v is not a positive finite number", q.Rate)
	}

	date := q.Date.UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return entity.Rate{}, fmt.Errorf("date %s is in the future", date.Format("2006-01-02"))
	}

	return entity.Rate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Date:          date,
		Rate:          q.Rate,
		RecordedAt:    recordedAt,
	}, nil
}
