package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"breather/internal/fsutil"
)

// JSONStore keeps settings and history as two JSON files. Every write keeps
// the previous contents in a .bak file, and unreadable files are recovered
// from it on load.
type JSONStore struct {
	dataDir string
	now     func() time.Time
}

var _ Store = (*JSONStore)(nil)

// NewJSONStore returns a store rooted at dataDir, creating it if needed.
func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dataDir: dataDir, now: time.Now}, nil
}

func (s *JSONStore) Location() string { return s.dataDir }

func (s *JSONStore) Close() error { return nil }

// LoadSettings reads settings.json.
func (s *JSONStore) LoadSettings() (*SettingsRecord, error) {
	if !fsutil.Exists(s.path(SettingsFile)) {
		return nil, ErrNotExist
	}
	rec := SettingsRecord{Version: schemaVersion}
	if err := s.loadJSONWithRecovery(SettingsFile, &rec); err != nil {
		if IsRecovered(err) {
			return &rec, err
		}
		return nil, err
	}
	return &rec, nil
}

func (s *JSONStore) SaveSettings(rec *SettingsRecord) error {
	rec.Version = schemaVersion
	return s.writeJSONAtomic(SettingsFile, rec)
}

// LoadHistory reads history.json, creating an empty one if missing.
func (s *JSONStore) LoadHistory() (*HistoryRecord, error) {
	rec := emptyHistory()
	err := s.loadJSONWithRecovery(HistoryFile, rec)
	if rec.DailyCompletions == nil {
		rec.DailyCompletions = emptyHistory().DailyCompletions
	}
	if rec.DailyTimes == nil {
		rec.DailyTimes = emptyHistory().DailyTimes
	}
	if err != nil && !IsRecovered(err) {
		return nil, err
	}
	return rec, err
}

func (s *JSONStore) SaveHistory(rec *HistoryRecord) error {
	rec.Version = schemaVersion
	return s.writeJSONAtomic(HistoryFile, rec)
}

func (s *JSONStore) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func (s *JSONStore) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *JSONStore) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	// Reject malformed input before Unmarshal can half-fill v.
	if !json.Valid(data) {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: invalid JSON", filename))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
	}
	return nil
}

// recoverCorruptJSON restores filename from its .bak if that parses, and
// otherwise resets it to v's current (default) contents. The broken file is
// kept as <name>.corrupt.<timestamp> either way.
func (s *JSONStore) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.now().Format("20060102-150405"))

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			_ = os.Rename(path, corruptPath)
			_ = fsutil.WriteFileAtomic(path, bakData, dataFilePerm)
			return &RecoveryError{File: filename, Cause: cause, Detail: "recovered from " + filename + ".bak"}
		}
	}

	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return &RecoveryError{File: filename, Cause: cause, Detail: "reset to defaults; original moved to " + corruptPath}
}
