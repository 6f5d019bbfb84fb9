package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-data-service/internal/entity"
	"forex-data-service/pkg/config"
)

const sampleHistoryPage = `<html><body><table>
<thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Adj Close</th><th>Volume</th></tr></thead>
<tbody>
<tr class="yf-1jecxey"><td>Jan 2, 2024</td><td>0.90</td><td>0.93</td><td>0.89</td><td>0.92</td><td>0.92</td><td>0</td></tr>
<tr class="yf-1jecxey"><td>Jan 1, 2024</td><td>0.90</td><td>0.92</td><td>0.89</td><td>0.91</td><td>0.91</td><td>-</td></tr>
<tr class="yf-1jecxey"><td>Dec 29, 2023</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td></tr>
<tr class="yf-1jecxey"><td colspan="7">0.2 Dividend</td></tr>
<tr class="yf-1jecxey"><td>Dec 28, 2023</td><td>1,100.10</td><td>1,250.00</td><td>1,090.00</td><td>1,234.56</td><td>1,234.56</td><td>12,345</td></tr>
</tbody>
</table></body></html>`

func testClientConfig(baseURL string) config.Config {
	cfg := config.Config{}
	cfg.Provider.BaseURL = baseURL
	cfg.Provider.TimeoutSeconds = 5
	cfg.Provider.MaxRetries = 3
	cfg.Provider.ChunkDays = 90
	return cfg
}

func TestParseHistory(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	quotes, err := parseHistory(strings.NewReader(sampleHistoryPage), pair)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	assert.Equal(t, "USD", quotes[0].BaseCurrency)
	assert.Equal(t, "EUR", quotes[0].QuoteCurrency)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), quotes[0].Date)
	assert.Equal(t, 0.92, quotes[0].Rate)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), quotes[1].Date)
	assert.Equal(t, 0.91, quotes[1].Rate)

	// thousands separators are stripped
	assert.Equal(t, time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), quotes[2].Date)
	assert.Equal(t, 1234.56, quotes[2].Rate)
}

func TestParseHistory_NoRows(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	quotes, err := parseHistory(strings.NewReader("<html><body><p>nothing here</p></body></html>"), pair)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestFetchHistory(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "USDEUR=X")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		w.Write([]byte(sampleHistoryPage))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	client := NewClient(testClientConfig(srv.URL), logger)

	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -7)

	quotes, err := client.FetchHistory(context.Background(), pair, from, to)
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
}

func TestFetchHistory_ChunksLongRanges(t *testing.T) {
	pair := entity.Pair{Base: "GBP", Quote: "INR"}

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(sampleHistoryPage))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	client := NewClient(testClientConfig(srv.URL), logger)

	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -200)

	_, err := client.FetchHistory(context.Background(), pair, from, to)
	require.NoError(t, err)

	// 200 days at 90 days per chunk means three requests
	assert.Equal(t, int64(3), requests.Load())
}

func TestFetchHistory_RetriesOnServerError(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleHistoryPage))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	client := NewClient(testClientConfig(srv.URL), logger)

	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	quotes, err := client.FetchHistory(context.Background(), pair, to.AddDate(0, 0, -7), to)
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
	assert.Equal(t, int64(2), requests.Load())
}

func TestFetchHistory_FailsAfterRetriesExhausted(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	client := NewClient(testClientConfig(srv.URL), logger)

	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchHistory(context.Background(), pair, to.AddDate(0, 0, -7), to)
	assert.ErrorContains(t, err, "unexpected status 503")
	assert.Equal(t, int64(3), requests.Load())
}

func TestFetchHistory_ContextCanceledDuringBackoff(t *testing.T) {
	pair := entity.Pair{Base: "USD", Quote: "EUR"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	client := NewClient(testClientConfig(srv.URL), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchHistory(ctx, pair, to.AddDate(0, 0, -7), to)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
