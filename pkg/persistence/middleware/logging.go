package middleware

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/aretw0/gobarber/pkg/ports"
)

type loggingMiddleware struct {
	next     ports.KeyValueStore
	logger   *slog.Logger
	patterns []*regexp.Regexp
}

// NewLoggingMiddleware logs every store operation at debug level and failures at warn.
// Values of keys matching any of the redact patterns are never logged; other values
// are logged by length only.
func NewLoggingMiddleware(logger *slog.Logger, redactPatterns []string) Middleware {
	patterns := make([]*regexp.Regexp, len(redactPatterns))
	for i, p := range redactPatterns {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.KeyValueStore) ports.KeyValueStore {
		return &loggingMiddleware{next: next, logger: logger, patterns: patterns}
	}
}

func (m *loggingMiddleware) redacted(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *loggingMiddleware) log(op string, keys []string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "keys", keys, "duration", time.Since(start))
	if err != nil {
		m.logger.Warn("Store operation failed", append(attrs, "err", err)...)
		return
	}
	m.logger.Debug("Store operation", attrs...)
}

func (m *loggingMiddleware) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	v, err := m.next.Get(ctx, key)
	m.log("get", []string{key}, start, err)
	return v, err
}

func (m *loggingMiddleware) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.log("set", []string{key}, start, err, "value", m.describe(key, value))
	return err
}

func (m *loggingMiddleware) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := m.next.Remove(ctx, key)
	m.log("remove", []string{key}, start, err)
	return err
}

func (m *loggingMiddleware) MultiGet(ctx context.Context, keys []string) ([]ports.Entry, error) {
	start := time.Now()
	entries, err := m.next.MultiGet(ctx, keys)
	found := 0
	for _, e := range entries {
		if e.Found {
			found++
		}
	}
	m.log("multi_get", keys, start, err, "found", found)
	return entries, err
}

func (m *loggingMiddleware) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	start := time.Now()
	err := m.next.MultiSet(ctx, pairs)
	keys := make([]string, len(pairs))
	values := make([]string, len(pairs))
	for i, kv := range pairs {
		keys[i] = kv.Key
		values[i] = m.describe(kv.Key, kv.Value)
	}
	m.log("multi_set", keys, start, err, "values", values)
	return err
}

func (m *loggingMiddleware) MultiRemove(ctx context.Context, keys []string) error {
	start := time.Now()
	err := m.next.MultiRemove(ctx, keys)
	m.log("multi_remove", keys, start, err)
	return err
}

func (m *loggingMiddleware) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := m.next.Keys(ctx)
	m.log("keys", nil, start, err, "count", len(keys))
	return keys, err
}

func (m *loggingMiddleware) describe(key, value string) string {
	if m.redacted(key) {
		return "***"
	}
	return strconv.Itoa(len(value)) + " bytes"
}
