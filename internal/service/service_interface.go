package service

import (
	"context"
	"time"

	"forex-data-service/internal/entity"
)

type ForexService interface {
	SyncPair(ctx context.Context, pair entity.Pair) (*entity.SyncResult, error)
	GetRates(ctx context.Context, pair entity.Pair, from, to time.Time) ([]entity.Rate, error)
}
