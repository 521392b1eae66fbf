package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}
	return records
}

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("quote computed", slog.Int("items", 2), slog.Float64("total", 494.12))

		records := decodeRecords(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "INFO", records[0]["level"])
		assert.Equal(t, "quote computed", records[0]["msg"])
		assert.Equal(t, float64(2), records[0]["items"])
		assert.Equal(t, 494.12, records[0]["total"])
		assert.Contains(t, records[0], "time")
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("line item parsed")
		logger.Info("quote computed")
		logger.Warn("line item skipped")

		output := buf.String()
		assert.NotContains(t, output, "line item parsed")
		assert.NotContains(t, output, "quote computed")
		assert.Contains(t, output, "line item skipped")
	})
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewStructuredLogger(&buf, slog.LevelInfo), "distance_resolver")

	logger.Info("geocoder disabled")

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "distance_resolver", records[0]["component"])

	assert.NotNil(t, Component(nil, "quote_engine"))
}

func TestLogError(t *testing.T) {
	t.Run("records error and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "geocoder lookup failed", assert.AnError,
			slog.String("cep", "90010000"))

		records := decodeRecords(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "ERROR", records[0]["level"])
		assert.Equal(t, "geocoder lookup failed", records[0]["msg"])
		assert.Equal(t, assert.AnError.Error(), records[0]["error"])
		assert.Equal(t, "90010000", records[0]["cep"])
	})

	t.Run("nil error does not panic", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		require.NotPanics(t, func() {
			LogError(logger, "reload failed", nil)
		})

		records := decodeRecords(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "ERROR", records[0]["level"])
		assert.NotContains(t, records[0], "error")
	})

	t.Run("canceled context is a warning", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "quote failed", fmt.Errorf("resolve distance: %w", context.Canceled))

		records := decodeRecords(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "WARN", records[0]["level"])
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() { LogError(nil, "ignored", assert.AnError) })
	})
}

func TestLogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogOperation(logger, "reference_data_loaded",
		slog.String("source", "tabela.xlsx"),
		slog.Int("products", 150),
		slog.Duration("duration", 0))

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "reference_data_loaded", records[0]["msg"])
	assert.Equal(t, "tabela.xlsx", records[0]["source"])
	assert.Equal(t, float64(150), records[0]["products"])
	assert.NotContains(t, records[0], "duration")
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogHTTPRequest(logger, "GET", "/frete", 200, 1.5, slog.String("user_agent", "loja"))

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "http_request", records[0]["msg"])
	assert.Equal(t, "GET", records[0]["method"])
	assert.Equal(t, "/frete", records[0]["path"])
	assert.Equal(t, float64(200), records[0]["status"])
	assert.Equal(t, 1.5, records[0]["duration_ms"])
	assert.Equal(t, "loja", records[0]["user_agent"])
}

func TestContextLogger(t *testing.T) {
	t.Run("request id travels with the logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithRequestID(context.Background(), logger, "3f2a6c1e-0000-4000-8000-000000000001")

		Component(FromContext(ctx), "frete_handler").Info("quote rejected")

		records := decodeRecords(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "3f2a6c1e-0000-4000-8000-000000000001", records[0]["request_id"])
		assert.Equal(t, "frete_handler", records[0]["component"])
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), NewStructuredLogger(&buf, slog.LevelInfo))

		FromContext(ctx).Info("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("defaults without a stored logger", func(t *testing.T) {
		ctx := context.Background()
		assert.Same(t, slog.Default(), FromContext(ctx))
	})
}
