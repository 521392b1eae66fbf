// Package reference loads the spreadsheet and rule file that drive pricing
// and keeps the current copy available to request handlers.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/logging"
)

// Config describes where the reference data lives and how the distance
// resolver built from it behaves.
type Config struct {
	WorkbookPath string
	RulesPath    string
	Workbook     WorkbookOptions
	Distance     distance.Config
	Geocoder     distance.Geocoder
}

// Manager holds the current Snapshot. Reads never block on a reload; a reload
// builds a complete new snapshot and swaps it in.
type Manager struct {
	config Config
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	reloadMu sync.Mutex

	watchMu      sync.Mutex
	watching     bool
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager performs the initial load. Bad or missing reference data is
// logged and replaced by defaults; it never prevents startup.
func InitManager(config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	config.Workbook = config.Workbook.withDefaults()
	m := &Manager{
		config:       config,
		logger:       logging.Component(logger, "reference_manager"),
		shutdownChan: make(chan struct{}),
	}

	snapshot, err := m.build()
	if err != nil {
		logging.LogError(m.logger, "reference data degraded to defaults", err)
	}
	m.snapshot = snapshot
	logging.LogOperation(m.logger, "reference_data_loaded", snapshot.logAttrs()...)
	return m
}

// Snapshot returns the current reference data.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Reload re-reads the workbook and rule file. When either cannot be read the
// previous snapshot stays in place and the error is returned.
func (m *Manager) Reload(ctx context.Context) (*Snapshot, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	start := time.Now()
	snapshot, err := m.build()
	if err != nil {
		logging.LogError(m.logger, "reference data reload failed, keeping previous data", err)
		return m.Snapshot(), err
	}
	if err := ctx.Err(); err != nil {
		return m.Snapshot(), err
	}

	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()

	attrs := append(snapshot.logAttrs(), slog.Duration("duration", time.Since(start)))
	logging.LogOperation(m.logger, "reference_data_reloaded", attrs...)
	return snapshot, nil
}

// build loads everything into a new snapshot. The snapshot is always usable;
// the error reports sources that could not be read at all.
func (m *Manager) build() (*Snapshot, error) {
	var fatal []error

	var wb Workbook
	var warnings []error
	if m.config.WorkbookPath == "" {
		wb = emptyWorkbook(m.config.Workbook.Defaults)
	} else {
		wb, warnings = LoadWorkbook(m.config.WorkbookPath, m.config.Workbook)
	}
	for _, w := range warnings {
		if errors.Is(w, ErrWorkbookUnreadable) {
			fatal = append(fatal, w)
		}
	}

	rules, err := LoadRules(m.config.RulesPath)
	if err != nil {
		fatal = append(fatal, err)
		warnings = append(warnings, err)
	}

	snapshot := &Snapshot{
		Constants:      wb.Constants,
		Catalog:        wb.Catalog,
		Ranges:         wb.Ranges,
		Rules:          rules,
		Source:         m.config.WorkbookPath,
		LoadedAt:       time.Now(),
		catalogDropped: wb.CatalogDropped,
		rangesSkipped:  wb.RangesSkipped,
	}
	for _, w := range warnings {
		snapshot.Warnings = append(snapshot.Warnings, w.Error())
		m.logger.Warn("reference data warning", slog.String("warning", w.Error()))
	}

	snapshot.Resolver = distance.NewResolver(m.config.Distance, distance.Tables{
		Rules:   rules.DistanceRules(),
		Ranges:  wb.Ranges,
		Regions: distance.DefaultRegionTable().Merge(rules.Regions),
	}, m.config.Geocoder, m.logger)

	return snapshot, errors.Join(fatal...)
}

// Watch reloads the reference data whenever the workbook or the rules file
// changes on disk. Bursts of events within debounce trigger one reload. The
// parent directories are watched because spreadsheet editors replace files
// instead of writing them in place.
func (m *Manager) Watch(debounce time.Duration) error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watching {
		return errors.New("already watching")
	}

	targets := make(map[string]struct{})
	for _, p := range []string{m.config.WorkbookPath, m.config.RulesPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		targets[abs] = struct{}{}
	}
	if len(targets) == 0 {
		return errors.New("no reference files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dirs := make(map[string]struct{})
	for p := range targets {
		dir := filepath.Dir(p)
		if _, seen := dirs[dir]; seen {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	m.watching = true
	m.wg.Add(1)
	go m.watchLoop(watcher, targets, debounce)
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher, targets map[string]struct{}, debounce time.Duration) {
	defer m.wg.Done()
	defer logging.SafeCloseWithLogging(watcher, m.logger, "reference_watcher")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if _, relevant := targets[filepath.Clean(event.Name)]; !relevant {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.LogError(m.logger, "reference watcher error", err)
		case <-fire:
			fire = nil
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_, _ = m.Reload(ctx)
			cancel()
		case <-m.shutdownChan:
			return
		}
	}
}

// Shutdown stops the file watcher. It is safe to call more than once.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
		m.wg.Wait()
	})
}
