package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"forex-data-service/internal/entity"
)

type ForexRepository interface {
	UpsertRates(ctx context.Context, rates []entity.Rate) (inserted, updated int64, err error)
	LatestDate(ctx context.Context, pair entity.Pair) (time.Time, error)
	ReadRange(ctx context.Context, pair entity.Pair, from, to time.Time) ([]entity.Rate, error)
}

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}
