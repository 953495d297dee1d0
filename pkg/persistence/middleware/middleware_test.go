package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/gobarber/internal/logging"
	"github.com/aretw0/gobarber/pkg/adapters/memory"
	"github.com/aretw0/gobarber/pkg/persistence/middleware"
	"github.com/aretw0/gobarber/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every write.
type brokenStore struct {
	*memory.Store
}

func (b brokenStore) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	return errors.New("disk full")
}

func TestChain_Contract(t *testing.T) {
	var buf bytes.Buffer
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logging.NewJSON(&buf, slog.LevelDebug), nil),
		middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(nil)),
	)
	ports.RunKeyValueStoreContract(t, store)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.KeyValueStore) ports.KeyValueStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))

	// Wrapping happens inside-out.
	assert.Equal(t, []string{"inner", "outer"}, calls)
}

func TestLoggingMiddleware_RedactsMatchingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSON(&buf, slog.LevelDebug)
	store := middleware.NewLoggingMiddleware(logger, []string{`:token$`})(memory.NewStore())

	err := store.MultiSet(context.Background(), []ports.KeyValue{
		{Key: "@gobarber:token", Value: "super-secret-token"},
		{Key: "@gobarber:user", Value: `{"id":"u1"}`},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "super-secret-token")
	assert.NotContains(t, out, `{\"id\":\"u1\"}`, "values are logged by size only")
	assert.Contains(t, out, "***")
	assert.Contains(t, out, "11 bytes")
	assert.Contains(t, out, "multi_set")
}

func TestLoggingMiddleware_WarnsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSON(&buf, slog.LevelWarn)
	store := middleware.NewLoggingMiddleware(logger, nil)(brokenStore{memory.NewStore()})

	err := store.MultiSet(context.Background(), []ports.KeyValue{{Key: "k", Value: "v"}})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestMetricsMiddleware_CountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewStoreMetrics(reg)
	store := middleware.NewMetricsMiddleware(metrics)(brokenStore{memory.NewStore()})
	ctx := context.Background()

	_, _ = store.MultiGet(ctx, []string{"a", "b"})
	_, _ = store.MultiGet(ctx, []string{"a"})
	_ = store.MultiSet(ctx, []ports.KeyValue{{Key: "a", Value: "1"}})

	expected := `
# HELP gobarber_store_operations_total Total number of key-value store operations
# TYPE gobarber_store_operations_total counter
gobarber_store_operations_total{op="multi_get",result="ok"} 2
gobarber_store_operations_total{op="multi_set",result="error"} 1
`
	err := testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "gobarber_store_operations_total")
	assert.NoError(t, err)
}
