// Package runlog keeps a small JSON history of past runs. It never stores
// credentials and is not used to resume a run.
package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"go-headline-sync/internal/workflow"
)

type Entry struct {
	Timestamp  int64  `json:"timestamp"`
	Reached    string `json:"reached"`
	Verified   bool   `json:"verified"`
	Strategy   string `json:"strategy,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Succeeded reports whether the run got the headline saved.
func (e Entry) Succeeded() bool {
	return e.ErrorKind == "" && e.Reached == workflow.StateSaved.String()
}

// FromResult records what a run reached and why it stopped.
func FromResult(res workflow.Result, err error) Entry {
	e := Entry{
		Timestamp:  res.Finished.UnixMilli(),
		Reached:    res.Reached.String(),
		Verified:   res.Verified,
		Strategy:   res.Strategy,
		DurationMs: res.Duration().Milliseconds(),
	}
	if err != nil {
		e.ErrorKind = string(workflow.KindOf(err))
		if e.ErrorKind == "" {
			e.ErrorKind = "unknown"
		}
	}
	return e
}

type History struct {
	mu       sync.Mutex
	filePath string
	entries  []Entry
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// Open loads the history at path, dropping entries older than 30 days.
func Open(path string) *History {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Warnf("⚠️ Failed to create history directory: %v", err)
	}
	h := &History{filePath: path}
	h.load()
	return h
}

func (h *History) Append(e Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return h.save()
}

func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// LastSuccess returns the most recent run that saved the headline.
func (h *History) LastSuccess() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Succeeded() {
			return h.entries[i], true
		}
	}
	return Entry{}, false
}

// load reads the history from disk, a missing or corrupt file starts empty
func (h *History) load() {
	data, err := os.ReadFile(h.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("⚠️ Failed to read %s: %v", h.filePath, err)
		}
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warnf("⚠️ Failed to parse %s: %v", h.filePath, err)
		return
	}

	thirtyDaysAgo := time.Now().UnixMilli() - thirtyDaysMs
	for _, e := range entries {
		if e.Timestamp > thirtyDaysAgo {
			h.entries = append(h.entries, e)
		}
	}
	log.Debugf("📋 Loaded %d past runs (%d expired and removed)", len(h.entries), len(entries)-len(h.entries))
}

// save writes the history to disk; the caller holds mu
func (h *History) save() error {
	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(h.filePath, data, 0644); err != nil {
		return err
	}
	log.Debugf("💾 Saved %d runs to history", len(h.entries))
	return nil
}
