// Package storage persists settings and completion history.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by LoadSettings when nothing has been saved yet.
var ErrNotExist = errors.New("no saved settings")

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	SettingsFile = "settings.json"
	HistoryFile  = "history.json"
	DatabaseFile = "breather.db"

	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// DataFiles lists every file a store may own inside the data directory.
var DataFiles = []string{SettingsFile, HistoryFile, DatabaseFile}

// Store is a persistence backend.
type Store interface {
	// LoadSettings returns ErrNotExist when no settings were ever saved.
	LoadSettings() (*SettingsRecord, error)
	SaveSettings(rec *SettingsRecord) error
	// LoadHistory returns an empty history when none was saved.
	LoadHistory() (*HistoryRecord, error)
	SaveHistory(rec *HistoryRecord) error
	// Location is the file or directory backing the store.
	Location() string
	Close() error
}

// RecoveryError reports that a data file was unreadable and was replaced,
// either from its .bak copy or with defaults. The value returned alongside
// it is usable.
type RecoveryError struct {
	File   string
	Cause  error
	Detail string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Cause.Error(), e.Detail)
}

func (e *RecoveryError) Unwrap() error { return e.Cause }

// IsRecovered reports whether err only describes a completed recovery.
func IsRecovered(err error) bool {
	var re *RecoveryError
	return errors.As(err, &re)
}

// Open creates the data directory and opens the named backend in it.
func Open(backend, dataDir string) (Store, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	switch backend {
	case "", BackendJSON:
		return NewJSONStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, DatabaseFile))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendJSON, BackendSQLite)
	}
}
