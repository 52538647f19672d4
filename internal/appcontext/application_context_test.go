package appcontext

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/config"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/producer"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()
	return &config.Config{
		ModulerName:          "cafe_erp",
		Env:                  "production",
		LogLevel:             "warn",
		DbDriver:             "sqlite",
		SqlitePath:           filepath.Join(t.TempDir(), "cafe.db"),
		RedisAddr:            redisAddr,
		StockCacheTTL:        time.Minute,
		KafkaOrderTopic:      "cafe-erp.orders",
		AdvisorTimeout:       time.Second,
		AdvisorRatePerMinute: 5,
		APIRatePerSecond:     50,
		APIRateBurst:         50,
	}
}

func TestNewApplicationContext(t *testing.T) {
	mr := miniredis.RunT(t)
	app, err := NewApplicationContext(context.Background(), testConfig(t, mr.Addr()))
	require.NoError(t, err)

	_, isNop := app.Producer.(producer.NopOrderEventProducer)
	require.True(t, isNop)
	require.NotNil(t, app.APILimiter)
	require.NotNil(t, app.AdviceLimiter)

	products, err := app.CatalogService.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 8)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"taxRate":"0.05"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))
}

func TestNewApplicationContext_RedisUnavailable(t *testing.T) {
	_, err := NewApplicationContext(context.Background(), testConfig(t, "127.0.0.1:1"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "setup redis client")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cf := &config.Config{ModulerName: "cafe_erp", Env: "production", LogLevel: "warn"}
	logger := NewLogger(cf, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"moduler":"cafe_erp"`)
	require.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNewLogger_Sinks(t *testing.T) {
	var out, sink bytes.Buffer
	cf := &config.Config{ModulerName: "cafe_erp", Env: "debug", LogLevel: "info"}
	logger := NewLogger(cf, &out, &sink)

	logger.Info().Str("order_id", "o-1").Msg("order completed")
	// console 格式給人看, sink 收 json
	require.NotContains(t, out.String(), `"order_id"`)
	require.Contains(t, out.String(), "order completed")
	require.Contains(t, sink.String(), `"order_id":"o-1"`)
}
