package usecase

import "context"

type ForexUsecase interface {
	GetForexData(ctx context.Context, base, quote, period string) ([]RatePoint, error)
	SyncForexData(ctx context.Context) (*SyncSummary, error)
}
