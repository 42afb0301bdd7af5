package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = `{"time_slaps":[{"time_start":"10:00:00","time_stamp":null,"saved_at":null}],"register":[]}`

// Helper to create a temporary data file with content
func createTempStorage(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, DataFile)
	if content != "" {
		if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create temp storage file: %v", err)
		}
	}
	return tmpFile
}

// Helper to check if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Helper to read file content
func readFileContent(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func TestGetBackupPathForStorage(t *testing.T) {
	tests := []struct {
		name           string
		rotationNumber int
		expectedSuffix string
	}{
		{"backup 1", 1, ".bak.1"},
		{"backup 2", 2, ".bak.2"},
		{"backup 3", 3, ".bak.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := GetBackupPathForStorage("/tmp/data.json", tt.rotationNumber)
			if path != "/tmp/data.json"+tt.expectedSuffix {
				t.Errorf("GetBackupPathForStorage(%d) = %q", tt.rotationNumber, path)
			}
		})
	}
}

func TestCreateBackup_NoExistingFile(t *testing.T) {
	storagePath := createTempStorage(t, "")

	if err := CreateBackup(storagePath); err != nil {
		t.Fatalf("CreateBackup returned error for missing file: %v", err)
	}
	if fileExists(GetBackupPathForStorage(storagePath, 1)) {
		t.Error("Backup should not be created when data file doesn't exist")
	}
}

func TestCreateBackup_RotatesAndDropsOldest(t *testing.T) {
	storagePath := createTempStorage(t, "v1")

	for _, version := range []string{"v1", "v2", "v3", "v4"} {
		if err := os.WriteFile(storagePath, []byte(version), 0644); err != nil {
			t.Fatal(err)
		}
		if err := CreateBackup(storagePath); err != nil {
			t.Fatalf("CreateBackup(%s) returned error: %v", version, err)
		}
	}

	expected := map[int]string{1: "v4", 2: "v3", 3: "v2"}
	for n, content := range expected {
		if got := readFileContent(t, GetBackupPathForStorage(storagePath, n)); got != content {
			t.Errorf("backup %d = %q, expected %q", n, got, content)
		}
	}
	if fileExists(GetBackupPathForStorage(storagePath, MaxBackupCount+1)) {
		t.Error("more than MaxBackupCount backups kept")
	}
}

func TestListBackupsForStorage(t *testing.T) {
	storagePath := createTempStorage(t, sampleDocument)

	backups, err := ListBackupsForStorage(storagePath)
	if err != nil {
		t.Fatalf("ListBackupsForStorage returned error: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	for i := 0; i < 2; i++ {
		if err := CreateBackup(storagePath); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = ListBackupsForStorage(storagePath)
	if err != nil {
		t.Fatalf("ListBackupsForStorage returned error: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].Number != 1 || backups[1].Number != 2 {
		t.Errorf("backups not sorted by recency: %+v", backups)
	}
}

func TestRestoreBackupForStorage_InvalidNumber(t *testing.T) {
	storagePath := createTempStorage(t, sampleDocument)

	for _, n := range []int{0, 4, -1} {
		err := RestoreBackupForStorage(storagePath, n)
		if err == nil || !strings.Contains(err.Error(), "invalid backup number") {
			t.Errorf("RestoreBackupForStorage(%d) error = %v", n, err)
		}
	}
}

func TestRestoreBackupForStorage_Missing(t *testing.T) {
	storagePath := createTempStorage(t, sampleDocument)

	err := RestoreBackupForStorage(storagePath, 2)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected missing backup error, got %v", err)
	}
}

func TestRestoreBackupForStorage_Valid(t *testing.T) {
	storagePath := createTempStorage(t, sampleDocument)
	if err := CreateBackup(storagePath); err != nil {
		t.Fatal(err)
	}

	modified := `{"time_slaps":[],"register":[{"id":1,"week":"2024-01-15","hour":"+01:00"}]}`
	if err := os.WriteFile(storagePath, []byte(modified), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RestoreBackupForStorage(storagePath, 1); err != nil {
		t.Fatalf("RestoreBackupForStorage returned error: %v", err)
	}

	if got := readFileContent(t, storagePath); got != sampleDocument {
		t.Errorf("restored content = %q, expected %q", got, sampleDocument)
	}
	// the state before the restore becomes the newest backup
	if got := readFileContent(t, GetBackupPathForStorage(storagePath, 1)); got != modified {
		t.Errorf("pre-restore backup = %q, expected %q", got, modified)
	}
}

func TestRestoreBackupForStorage_RejectsCorruptBackup(t *testing.T) {
	storagePath := createTempStorage(t, "{broken")
	if err := CreateBackup(storagePath); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(storagePath, []byte(sampleDocument), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RestoreBackupForStorage(storagePath, 1); err == nil {
		t.Fatal("expected error restoring a corrupt backup")
	}
	if got := readFileContent(t, storagePath); got != sampleDocument {
		t.Errorf("data file changed after failed restore: %q", got)
	}
}
