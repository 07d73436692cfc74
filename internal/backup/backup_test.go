package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"breather/internal/activity"
	"breather/internal/ledger"
	"breather/internal/storage"
)

// seed writes settings with plan and a history with completions through the
// named backend.
func seed(t *testing.T, dataDir, backend string, completions int) {
	t.Helper()

	store, err := storage.Open(backend, dataDir)
	if err != nil {
		t.Fatalf("storage.Open() error: %v", err)
	}
	defer store.Close()

	plan := activity.DefaultPlan()
	plan.SetEnabled(activity.Pushups, true)
	if err := store.SaveSettings(&storage.SettingsRecord{IntervalMinutes: 30, Plan: plan.State()}); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	l := ledger.New()
	day := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)
	for i := 0; i < completions; i++ {
		l.RecordCompletion(activity.Breathwork, day.AddDate(0, 0, i%2))
	}
	if err := store.SaveHistory(&storage.HistoryRecord{History: l.History()}); err != nil {
		t.Fatalf("SaveHistory() error: %v", err)
	}
}

func loadHistory(t *testing.T, dataDir, backend string) *storage.HistoryRecord {
	t.Helper()
	store, err := storage.Open(backend, dataDir)
	if err != nil {
		t.Fatalf("storage.Open() error: %v", err)
	}
	defer store.Close()
	rec, err := store.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory() error: %v", err)
	}
	return rec
}

func completionTotal(rec *storage.HistoryRecord) int {
	n := 0
	for _, counts := range rec.DailyCompletions {
		for _, c := range counts {
			n += c
		}
	}
	return n
}

// newTestManager steps the clock one second per call so names never collide.
func newTestManager(dataDir string) *Manager {
	m := NewManager(dataDir, "1.2.0-test")
	next := time.Date(2026, time.October, 18, 14, 30, 0, 0, time.Local)
	m.now = func() time.Time {
		next = next.Add(time.Second)
		return next
	}
	return m
}

func TestManager_Create(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 3)

	manager := newTestManager(tmpDir)

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// 2006-01-02_150405_XXX where XXX is milliseconds
	if name != "2026-10-18_143001_000" {
		t.Errorf("backup name = %q, want 2026-10-18_143001_000", name)
	}

	backupPath := filepath.Join(tmpDir, BackupsDir, name)
	for _, filename := range []string{storage.SettingsFile, storage.HistoryFile} {
		if _, err := os.Stat(filepath.Join(backupPath, filename)); err != nil {
			t.Errorf("File not backed up: %s", filename)
		}
	}
	if _, err := os.Stat(filepath.Join(backupPath, storage.DatabaseFile)); !os.IsNotExist(err) {
		t.Error("absent database file should not appear in the backup")
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if manifest.Version != ManifestVersion {
		t.Errorf("manifest version = %s, want %s", manifest.Version, ManifestVersion)
	}
	if manifest.AppVersion != "1.2.0-test" {
		t.Errorf("app_version = %s, want 1.2.0-test", manifest.AppVersion)
	}
	if len(manifest.Files) != 2 {
		t.Errorf("manifest files = %v, want settings and history", manifest.Files)
	}
	if got := manifest.Stats[StatActivities]; got != len(activity.Types) {
		t.Errorf("activities = %d, want %d", got, len(activity.Types))
	}
	if got := manifest.Stats[StatCompletions]; got != 3 {
		t.Errorf("completions = %d, want 3", got)
	}
	if got := manifest.Stats[StatDays]; got != 2 {
		t.Errorf("days = %d, want 2", got)
	}
}

func TestManager_CreateSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendSQLite, 4)

	manager := newTestManager(tmpDir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	if len(info.Files) != 1 || info.Files[0] != storage.DatabaseFile {
		t.Errorf("Files = %v, want [%s]", info.Files, storage.DatabaseFile)
	}
	if info.Stats[StatCompletions] != 4 {
		t.Errorf("completions = %d, want 4", info.Stats[StatCompletions])
	}

	seed(t, tmpDir, storage.BackendSQLite, 9)
	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if got := completionTotal(loadHistory(t, tmpDir, storage.BackendSQLite)); got != 4 {
		t.Errorf("restored completions = %d, want 4", got)
	}
}

func TestManager_List(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 1)

	manager := newTestManager(tmpDir)

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups, got %d", len(backups))
	}

	name1, _ := manager.Create()
	name2, _ := manager.Create()

	// Stray entries are ignored.
	_ = os.MkdirAll(filepath.Join(tmpDir, BackupsDir, "not-a-backup"), 0700)
	_ = os.WriteFile(filepath.Join(tmpDir, BackupsDir, "notes.txt"), []byte("x"), 0600)

	backups, err = manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}
	if backups[0].Name != name2 {
		t.Errorf("Expected newest backup %s first, got %s", name2, backups[0].Name)
	}
	if backups[1].Name != name1 {
		t.Errorf("Expected older backup %s second, got %s", name1, backups[1].Name)
	}
}

func TestManager_SameInstantGetsDistinctNames(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewManager(tmpDir, "1.0.0")
	fixed := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.Local)
	manager.now = func() time.Time { return fixed }

	a, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	b, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if a == b {
		t.Fatalf("both backups named %s", a)
	}
	if b != "2026-10-18_090000_001" {
		t.Errorf("second name = %s, want 2026-10-18_090000_001", b)
	}
}

func TestManager_Restore(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 2)

	manager := newTestManager(tmpDir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	seed(t, tmpDir, storage.BackendJSON, 7)
	if got := completionTotal(loadHistory(t, tmpDir, storage.BackendJSON)); got != 7 {
		t.Fatalf("Expected 7 completions after modification, got %d", got)
	}

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if got := completionTotal(loadHistory(t, tmpDir, storage.BackendJSON)); got != 2 {
		t.Errorf("Expected 2 completions after restore, got %d", got)
	}

	// Original + safety backup.
	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected 2 backups (including safety backup), got %d", len(backups))
	}
}

func TestManager_RestoreLatest(t *testing.T) {
	tmpDir := t.TempDir()
	manager := newTestManager(tmpDir)

	if _, err := manager.RestoreLatest(); err == nil {
		t.Error("RestoreLatest() with no backups should fail")
	}

	seed(t, tmpDir, storage.BackendJSON, 1)
	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	seed(t, tmpDir, storage.BackendJSON, 5)
	second, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	seed(t, tmpDir, storage.BackendJSON, 11)

	restored, err := manager.RestoreLatest()
	if err != nil {
		t.Fatalf("RestoreLatest() error: %v", err)
	}
	if restored != second {
		t.Errorf("restored %s, want %s", restored, second)
	}
	if got := completionTotal(loadHistory(t, tmpDir, storage.BackendJSON)); got != 5 {
		t.Errorf("Expected 5 completions after restore, got %d", got)
	}
}

func TestManager_RestoreInvalidNames(t *testing.T) {
	manager := newTestManager(t.TempDir())

	for _, name := range []string{"", "nonexistent-backup", "../etc", "2026-10-18_143001_000"} {
		if err := manager.Restore(name); err == nil {
			t.Errorf("Restore(%q) should fail", name)
		}
	}
}

func TestManager_RestoreRejectsCorruptBackup(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 1)

	manager := newTestManager(tmpDir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	bad := filepath.Join(tmpDir, BackupsDir, name, storage.HistoryFile)
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := manager.Restore(name); err == nil {
		t.Error("Restore() of a corrupt backup should report the invalid file")
	}
}

func TestManager_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 1)

	manager := newTestManager(tmpDir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Delete(name); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	backups, _ := manager.List()
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups after delete, got %d", len(backups))
	}
	if err := manager.Delete(name); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestManager_Prune(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 1)

	manager := newTestManager(tmpDir)
	for i := 0; i < 5; i++ {
		if _, err := manager.Create(); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	if _, err := manager.Prune(-1); err == nil {
		t.Error("Prune(-1) should fail")
	}

	deleted, err := manager.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected 2 backups after prune, got %d", len(backups))
	}
}

func TestManager_CreateWithEmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	manager := newTestManager(tmpDir)

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	if info.Name != name {
		t.Errorf("Expected backup name %s, got %s", name, info.Name)
	}
	if len(info.Files) != 0 {
		t.Errorf("Expected no files, got %v", info.Files)
	}
}

func TestManager_GetBackupWithoutManifest(t *testing.T) {
	tmpDir := t.TempDir()
	seed(t, tmpDir, storage.BackendJSON, 1)

	manager := newTestManager(tmpDir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := os.Remove(filepath.Join(tmpDir, BackupsDir, name, ManifestFile)); err != nil {
		t.Fatal(err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	want := time.Date(2026, time.October, 18, 14, 30, 1, 0, time.Local)
	if !info.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", info.CreatedAt, want)
	}
	if len(info.Files) != 2 {
		t.Errorf("Files = %v, want the two JSON files found on disk", info.Files)
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"2026-10-18_143022", false},
		{"2026-10-18_143022_123", false},
		{"2026-10-18_143022-123", true},
		{"2026-10-18_143022_abc", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		_, err := parseBackupName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBackupName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
