package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"frete.bakoflog.com.br/internal/distance"
)

func TestInitManagerWithoutData(t *testing.T) {
	m := InitManager(Config{
		WorkbookPath: filepath.Join(t.TempDir(), "missing.xlsx"),
		Distance:     distance.Config{DefaultKm: 100},
	}, nil)
	defer m.Shutdown()

	s := m.Snapshot()
	require.NotNil(t, s)
	assert.Equal(t, DefaultConstants(), s.Constants)
	assert.Equal(t, 0, s.Catalog.Len())
	assert.NotEmpty(t, s.Warnings)

	res := s.Resolver.Resolve(context.Background(), distance.Query{Destination: "00500000"})
	assert.Equal(t, distance.SourceDefault, res.Source)
	assert.Equal(t, 100.0, res.Km)
}

func TestInitManagerLoadsWorkbookAndRules(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "regras.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(sampleRules), 0o600))

	m := InitManager(Config{
		WorkbookPath: sampleWorkbook(t),
		RulesPath:    rulesPath,
		Distance:     distance.Config{DefaultKm: 100},
	}, nil)
	defer m.Shutdown()

	s := m.Snapshot()
	assert.Empty(t, s.Warnings)
	assert.Equal(t, 7.5, s.Constants.PricePerKm)

	ctx := context.Background()
	res := s.Resolver.Resolve(ctx, distance.Query{Destination: "90000000"})
	assert.Equal(t, distance.Resolution{Km: 150, RawKm: 150, Source: distance.SourceRange, PostalCode: "90000000", Region: "RS"}, res)

	res = s.Resolver.Resolve(ctx, distance.Query{Destination: "92010000"})
	assert.Equal(t, distance.SourceMunicipality, res.Source)

	res = s.Resolver.Resolve(ctx, distance.Query{Destination: "88010000"})
	assert.Equal(t, distance.SourceRegion, res.Source)
	assert.Equal(t, 600.0, res.Km, "region override from rules")

	stats := s.Stats()
	assert.Equal(t, 4, stats.Products)
	assert.Equal(t, 3, stats.Ranges)
	assert.Equal(t, 2, stats.Destinations)
	assert.Equal(t, 1, stats.Services)
	assert.Equal(t, 100.0, stats.DefaultKm)
}

func TestManagerReload(t *testing.T) {
	path := sampleWorkbook(t)
	m := InitManager(Config{WorkbookPath: path}, nil)
	defer m.Shutdown()

	first := m.Snapshot()
	assert.Equal(t, 7.5, first.Constants.PricePerKm)

	sheets := sampleSheets()
	sheets["D"] = [][]any{{"VALOR KM", 9}}
	writeWorkbook(t, path, sheets)

	second, err := m.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9.0, second.Constants.PricePerKm)
	assert.Same(t, second, m.Snapshot())
	assert.Equal(t, 7.5, first.Constants.PricePerKm, "old snapshot is not mutated")

	t.Run("failed reload keeps previous snapshot", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

		got, err := m.Reload(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWorkbookUnreadable)
		assert.Same(t, second, got)
		assert.Same(t, second, m.Snapshot())
	})

	t.Run("invalid rules keep previous snapshot", func(t *testing.T) {
		writeWorkbook(t, path, sampleSheets())
		rulesPath := filepath.Join(t.TempDir(), "regras.yaml")
		require.NoError(t, os.WriteFile(rulesPath, []byte("regions:\n  RS: -5\n"), 0o600))

		m2 := InitManager(Config{WorkbookPath: path, RulesPath: rulesPath}, nil)
		defer m2.Shutdown()
		before := m2.Snapshot()
		assert.NotEmpty(t, before.Warnings)

		_, err := m2.Reload(context.Background())
		assert.Error(t, err)
		assert.Same(t, before, m2.Snapshot())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		current := m.Snapshot()
		_, err := m.Reload(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Same(t, current, m.Snapshot())
	})
}

func TestManagerWatchReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "regras.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("regions:\n  SC: 600\n"), 0o600))

	m := InitManager(Config{RulesPath: rulesPath}, nil)
	require.NoError(t, m.Watch(20*time.Millisecond))
	assert.Error(t, m.Watch(20*time.Millisecond), "second watch is rejected")

	require.NoError(t, os.WriteFile(rulesPath, []byte("regions:\n  SC: 650\n"), 0o600))

	require.Eventually(t, func() bool {
		return m.Snapshot().Rules.Regions["SC"] == 650
	}, 5*time.Second, 20*time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		m.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown took too long")
	}
}

func TestManagerWatchWithoutFiles(t *testing.T) {
	m := InitManager(Config{}, nil)
	defer m.Shutdown()
	assert.Error(t, m.Watch(0))
}
