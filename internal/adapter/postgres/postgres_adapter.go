package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"forex-data-service/internal/entity"
)

var (
	psql        = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	ErrNotFound = errors.New("not found")
)

const ratesTable = "exchange_rates"

type PostgresRepo struct {
	pool   Pool
	logger *logrus.Logger
}

func NewPostgresRepo(pool Pool, logger *logrus.Logger) *PostgresRepo {
	return &PostgresRepo{
		pool:   pool,
		logger: logger,
	}
}

// UpsertRates writes the batch inside a single transaction. Every row is an
// insert-or-update keyed by (base_currency, quote_currency, date); the
// RETURNING clause reports whether the row was freshly inserted so the
// caller gets separate inserted/updated counts.
func (r *PostgresRepo) UpsertRates(ctx context.Context, rates []entity.Rate) (int64, int64, error) {
	if len(rates) == 0 {
		return 0, 0, nil
	}

	r.logger.Infof("Start storing %d exchange rates", len(rates))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Failed to begin transaction")
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rate := range rates {
		query, args, err := psql.Insert(ratesTable).
			Columns("base_currency", "quote_currency", "date", "rate", "recorded_at").
			Values(rate.BaseCurrency, rate.QuoteCurrency, rate.Date, rate.Rate, rate.RecordedAt).
			Suffix(`
                ON CONFLICT (base_currency, quote_currency, date) DO UPDATE SET
                    rate = EXCLUDED.rate,
                    recorded_at = EXCLUDED.recorded_at
                RETURNING (xmax = 0) AS inserted
            `).
			ToSql()
		if err != nil {
			return 0, 0, fmt.Errorf("build upsert for %s/%s on %s: %w",
				rate.BaseCurrency, rate.QuoteCurrency, rate.Date.Format("2006-01-02"), err)
		}
		batch.Queue(query, args...)
	}

	br := tx.SendBatch(ctx, batch)

	var batchErrs error
	var inserted, updated int64
	for i := 0; i < batch.Len(); i++ {
		var wasInsert bool
		if err := br.QueryRow().Scan(&wasInsert); err != nil {
			batchErrs = multierr.Append(batchErrs, err)
			r.logger.WithError(err).Errorf("Failed batch upsert for rate %d", i)
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}

	if err := br.Close(); err != nil {
		batchErrs = multierr.Append(batchErrs, err)
		r.logger.WithError(err).Error("Failed to close batch results")
	}

	if batchErrs != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.logger.WithError(rbErr).Error("Failed to rollback tx after batch errors")
		}
		return 0, 0, fmt.Errorf("batch exec/close errors: %w", batchErrs)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithError(err).Error("Failed to commit tx")
		return 0, 0, fmt.Errorf("commit tx: %w", err)
	}

	r.logger.Infof("Stored exchange rates: %d inserted, %d updated", inserted, updated)
	return inserted, updated, nil
}

// LatestDate returns the most recent stored observation date for the pair,
// or ErrNotFound when no data exists yet.
func (r *PostgresRepo) LatestDate(ctx context.Context, pair entity.Pair) (time.Time, error) {
	query, args, err := psql.
		Select("date").
		From(ratesTable).
		Where(sq.Eq{"base_currency": pair.Base, "quote_currency": pair.Quote}).
		OrderBy("date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build latest date query")
		return time.Time{}, fmt.Errorf("build select: %w", err)
	}

	var date time.Time
	err = r.pool.QueryRow(ctx, query, args...).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithField("pair", pair.String()).Debug("No stored rates for pair")
			return time.Time{}, ErrNotFound
		}
		r.logger.WithError(err).WithField("pair", pair.String()).Error("Failed to query latest date")
		return time.Time{}, fmt.Errorf("query latest date: %w", err)
	}

	return date, nil
}

// ReadRange returns all observations for the pair with from <= date <= to,
// ascending by date.
func (r *PostgresRepo) ReadRange(ctx context.Context, pair entity.Pair, from, to time.Time) ([]entity.Rate, error) {
	r.logger.WithFields(logrus.Fields{
		"pair": pair.String(),
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	}).Info("Reading exchange rates")

	query, args, err := psql.
		Select("base_currency", "quote_currency", "date", "rate", "recorded_at").
		From(ratesTable).
		Where(sq.Eq{"base_currency": pair.Base, "quote_currency": pair.Quote}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build range query")
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).WithField("pair", pair.String()).Error("Failed to query rates range")
		return nil, fmt.Errorf("query rates range: %w", err)
	}
	defer rows.Close()

	rates := make([]entity.Rate, 0)
	for rows.Next() {
		var rate entity.Rate
		if err := rows.Scan(&rate.BaseCurrency, &rate.QuoteCurrency, &rate.Date, &rate.Rate, &rate.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate rows: %w", err)
	}

	r.logger.Infof("Read %d rates for %s", len(rates), pair)
	return rates, nil
}
