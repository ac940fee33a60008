// Package watch imports observations dropped into an inbox directory.
// Agent hooks write *.jsonl files (one observation per line); the watcher
// records each line and optionally triggers a pending sync sweep so new
// observations become searchable without an explicit request.
package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// settleDelay is how long the watcher waits after the last write event
// before importing a file, so half-written files are not consumed.
const settleDelay = 500 * time.Millisecond

// Config configures the inbox watcher.
type Config struct {
	// InboxDir is the directory agent hooks drop files into.
	InboxDir string

	// ArchiveDir receives imported files. Defaults to InboxDir/archive.
	ArchiveDir string

	// SyncAfterImport triggers a pending sweep after each imported file.
	SyncAfterImport bool
}

// Watcher watches the inbox directory and imports observation files.
type Watcher struct {
	observation driving.ObservationService
	sync        driving.SyncService
	cfg         Config

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// ImportResult reports the outcome of importing one file.
type ImportResult struct {
	// Recorded is how many lines became stored observations.
	Recorded int

	// Failed is how many lines could not be parsed or recorded.
	Failed int

	// IDs are the assigned ids of the recorded observations.
	IDs []int64
}

// NewWatcher creates a watcher. The inbox and archive directories are
// created if missing. sync is optional; without it imported observations
// wait for the next explicit sync.
func NewWatcher(observation driving.ObservationService, syncService driving.SyncService, cfg Config) (*Watcher, error) {
	if observation == nil {
		return nil, fmt.Errorf("watch: observation service is required")
	}
	if cfg.InboxDir == "" {
		return nil, fmt.Errorf("watch: inbox directory is required")
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = filepath.Join(cfg.InboxDir, "archive")
	}

	if err := os.MkdirAll(cfg.InboxDir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}
	if err := os.MkdirAll(cfg.ArchiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	return &Watcher{
		observation: observation,
		sync:        syncService,
		cfg:         cfg,
		pending:     make(map[string]*time.Timer),
	}, nil
}

// Run imports any files already waiting in the inbox, then blocks watching
// for new ones until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.importExisting(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.InboxDir); err != nil {
		return fmt.Errorf("watch inbox dir: %w", err)
	}

	logger.Info("Watching %s for observation files", w.cfg.InboxDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isObservationFile(event.Name) {
				continue
			}
			w.importSoon(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ImportFile imports one observation file and archives it.
func (w *Watcher) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}

	result := &ImportResult{}
	scanner := bufio.NewScanner(f)
	// Narratives can be long; allow lines up to 1 MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		o, err := parseLine([]byte(line))
		if err != nil {
			logger.Warn("Skipping %s line %d: %v", filepath.Base(path), lineNo, err)
			result.Failed++
			continue
		}

		id, err := w.observation.Record(ctx, o)
		if err != nil {
			logger.Warn("Recording %s line %d failed: %v", filepath.Base(path), lineNo, err)
			result.Failed++
			continue
		}
		result.Recorded++
		result.IDs = append(result.IDs, id)
	}
	scanErr := scanner.Err()
	f.Close()
	if scanErr != nil {
		return result, fmt.Errorf("read import file: %w", scanErr)
	}

	if err := w.archive(path); err != nil {
		return result, err
	}

	logger.Info("Imported %s: %d recorded, %d failed", filepath.Base(path), result.Recorded, result.Failed)

	if w.cfg.SyncAfterImport && w.sync != nil && result.Recorded > 0 {
		if _, err := w.sync.SyncPending(ctx, ""); err != nil {
			logger.Warn("Post-import sync failed: %v", err)
		}
	}

	return result, nil
}

// importExisting sweeps files already present in the inbox at startup.
func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.InboxDir)
	if err != nil {
		logger.Warn("Reading inbox dir: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isObservationFile(entry.Name()) {
			continue
		}
		path := filepath.Join(w.cfg.InboxDir, entry.Name())
		if _, err := w.ImportFile(ctx, path); err != nil {
			logger.Warn("Importing %s: %v", entry.Name(), err)
		}
	}
}

// importSoon schedules an import after the file has settled. Repeated write
// events for the same file push the timer back.
func (w *Watcher) importSoon(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if _, err := w.ImportFile(ctx, path); err != nil {
			logger.Warn("Importing %s: %v", filepath.Base(path), err)
		}
	})
}

// archive moves an imported file out of the inbox.
func (w *Watcher) archive(path string) error {
	target := filepath.Join(w.cfg.ArchiveDir, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("archive import file: %w", err)
	}
	return nil
}

// observationLine is the tolerant wire shape of one inbox line. Collection
// fields may be JSON arrays or pre-serialized strings; FlexList accepts both.
type observationLine struct {
	SessionID       string          `json:"session_id"`
	Project         string          `json:"project"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle"`
	Narrative       string          `json:"narrative"`
	Facts           domain.FlexList `json:"facts"`
	Concepts        domain.FlexList `json:"concepts"`
	FilesRead       domain.FlexList `json:"files_read"`
	FilesModified   domain.FlexList `json:"files_modified"`
	PromptNumber    int             `json:"prompt_number"`
	DiscoveryTokens int             `json:"discovery_tokens"`
	CreatedAt       string          `json:"created_at"`
	CreatedAtEpoch  int64           `json:"created_at_epoch"`
}

// parseLine decodes one inbox line into an observation.
func parseLine(data []byte) (domain.Observation, error) {
	var line observationLine
	if err := json.Unmarshal(data, &line); err != nil {
		return domain.Observation{}, fmt.Errorf("decode observation: %w", err)
	}

	return domain.Observation{
		SessionID:       line.SessionID,
		Project:         line.Project,
		Type:            domain.ObservationType(line.Type),
		Title:           line.Title,
		Subtitle:        line.Subtitle,
		Narrative:       line.Narrative,
		Facts:           line.Facts,
		Concepts:        line.Concepts,
		FilesRead:       line.FilesRead,
		FilesModified:   line.FilesModified,
		PromptNumber:    line.PromptNumber,
		DiscoveryTokens: line.DiscoveryTokens,
		CreatedAt:       line.CreatedAt,
		CreatedAtEpoch:  line.CreatedAtEpoch,
	}, nil
}

// isObservationFile reports whether a path looks like an inbox drop.
func isObservationFile(path string) bool {
	return strings.HasSuffix(path, ".jsonl")
}
