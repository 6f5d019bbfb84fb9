package yahoo

import (
	"context"
	"time"

	"forex-data-service/internal/entity"
)

type HistoryProvider interface {
	FetchHistory(ctx context.Context, pair entity.Pair, from, to time.Time) ([]Quote, error)
}
