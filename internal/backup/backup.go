// Package backup provides backup and restore functionality for breather.
// It manages timestamped backups of every data file the storage backends own.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"breather/internal/fsutil"
	"breather/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// Stats keys recorded in the manifest.
const (
	StatActivities  = "activities"
	StatDays        = "days"
	StatCompletions = "completions"
)

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string // Path to data directory (e.g., ~/.breather)
	backupDir  string // Path to backups directory (e.g., ~/.breather/backups)
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2026-10-18_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Files     []string       // Data files it holds
	Stats     map[string]int // activities, days, completions
}

// NewManager creates a new backup manager.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Create creates a new backup of all data files present in the data
// directory. Returns the backup name (timestamp format) on success.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name, backupPath, err := m.reserveName()
	if err != nil {
		return "", err
	}

	var copied []string
	for _, filename := range storage.DataFiles {
		src := filepath.Join(m.dataDir, filename)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyFileAtomic(src, filepath.Join(backupPath, filename), 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		copied = append(copied, filename)
	}

	createdAt, _ := parseBackupName(name)
	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  createdAt,
		AppVersion: m.appVersion,
		Files:      copied,
		Stats:      collectStats(backupPath, copied),
	}

	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserveName creates the backup directory under a fresh timestamped name.
// Two backups in the same millisecond get consecutive names.
func (m *Manager) reserveName() (string, string, error) {
	now := m.now()
	for i := 0; i < 1000; i++ {
		t := now.Add(time.Duration(i) * time.Millisecond)
		name := fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
		path := filepath.Join(m.backupDir, name)
		err := os.Mkdir(path, 0700)
		if err == nil {
			return name, path, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("failed to create backup: %w", err)
		}
	}
	return "", "", fmt.Errorf("failed to create backup: no free name near %s", now.Format(nameLayout))
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore restores data from a specific backup.
// It creates a safety backup before restoring.
func (m *Manager) Restore(name string) error {
	info, err := m.GetBackup(name)
	if err != nil {
		return err
	}

	// Create safety backup first
	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range info.Files {
		src := filepath.Join(info.Path, filename)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyFileAtomic(src, filepath.Join(m.dataDir, filename), 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	for _, filename := range info.Files {
		if err := validateFile(filepath.Join(m.dataDir, filename)); err != nil {
			return fmt.Errorf("restored file %s is invalid (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	return nil
}

// RestoreLatest restores from the most recent backup and returns its name.
func (m *Manager) RestoreLatest() (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backups available")
	}
	return backups[0].Name, m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		// No manifest: fall back to the directory name and whatever files are there.
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		for _, f := range storage.DataFiles {
			if fsutil.Exists(filepath.Join(backupPath, f)) {
				manifest.Files = append(manifest.Files, f)
			}
		}
		manifest.Stats = map[string]int{}
	}

	// Never trust a manifest to name files outside the known set.
	files := manifest.Files[:0:0]
	for _, f := range manifest.Files {
		if slices.Contains(storage.DataFiles, f) {
			files = append(files, f)
		}
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Files:     files,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

// collectStats reads the copied files without going through a store's
// recovery path, so a damaged backup is described rather than repaired.
func collectStats(dir string, files []string) map[string]int {
	stats := map[string]int{}
	for _, f := range files {
		path := filepath.Join(dir, f)
		switch f {
		case storage.SettingsFile:
			var rec storage.SettingsRecord
			if readJSON(path, &rec) == nil {
				stats[StatActivities] = len(rec.Plan.Order)
			}
		case storage.HistoryFile:
			var rec storage.HistoryRecord
			if readJSON(path, &rec) == nil {
				addHistoryStats(stats, &rec)
			}
		case storage.DatabaseFile:
			db, err := storage.OpenSQLite(path)
			if err != nil {
				continue
			}
			if rec, err := db.LoadSettings(); err == nil {
				stats[StatActivities] = len(rec.Plan.Order)
			}
			if rec, err := db.LoadHistory(); err == nil {
				addHistoryStats(stats, rec)
			}
			_ = db.Close()
		}
	}
	return stats
}

func addHistoryStats(stats map[string]int, rec *storage.HistoryRecord) {
	stats[StatDays] = len(rec.DailyCompletions)
	total := 0
	for _, counts := range rec.DailyCompletions {
		for _, n := range counts {
			total += n
		}
	}
	stats[StatCompletions] = total
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// validateFile checks that a restored file can be read by its backend.
func validateFile(path string) error {
	if !fsutil.Exists(path) {
		return nil
	}
	if filepath.Ext(path) == ".json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("not valid JSON")
		}
		return nil
	}
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.LoadHistory()
	return err
}

// writeJSON writes a value as JSON to a file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// readJSON reads JSON from a file into a value.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.ParseInLocation(nameLayout, name[:17], time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.ParseInLocation(nameLayout, name, time.Local)
}
