package storage

import (
	"fmt"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// GetBackupPathForStorage returns the path of backup n for a data file.
// Backup files are named data.json.bak.N; lower numbers are more recent.
func GetBackupPathForStorage(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3, dropping the oldest.
// Missing files are not an error.
func rotateBackups(storagePath string) error {
	oldestPath := GetBackupPathForStorage(storagePath, MaxBackupCount)
	if err := os.Remove(oldestPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		currentPath := GetBackupPathForStorage(storagePath, i)
		nextPath := GetBackupPathForStorage(storagePath, i+1)
		if err := os.Rename(currentPath, nextPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// CreateBackup copies the data file to .bak.1 before a destructive change.
// If the data file doesn't exist, no backup is created and no error is returned.
func CreateBackup(storagePath string) error {
	if _, err := os.Stat(storagePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := rotateBackups(storagePath); err != nil {
		return err
	}

	return copyFile(storagePath, GetBackupPathForStorage(storagePath, 1))
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Number int    // The backup number (1, 2, or 3)
	Path   string // The full path to the backup file
}

// ListBackupsForStorage returns the existing backups of a data file,
// most recent first.
func ListBackupsForStorage(storagePath string) ([]BackupInfo, error) {
	var backups []BackupInfo

	for i := 1; i <= MaxBackupCount; i++ {
		backupPath := GetBackupPathForStorage(storagePath, i)
		_, err := os.Stat(backupPath)
		if err == nil {
			backups = append(backups, BackupInfo{Number: i, Path: backupPath})
			continue
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return backups, nil
}

// RestoreBackupForStorage copies backup backupNum over the data file.
// The current file is backed up first, so a restore can itself be undone.
// The backup must contain a valid document.
func RestoreBackupForStorage(storagePath string, backupNum int) error {
	if backupNum < 1 || backupNum > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", backupNum, MaxBackupCount)
	}

	backupPath := GetBackupPathForStorage(storagePath, backupNum)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d does not exist", backupNum)
		}
		return err
	}

	if _, _, err := readDocument(backupPath); err != nil {
		return fmt.Errorf("backup %d: %w", backupNum, err)
	}

	// Keep the chosen backup's content before rotation renames it
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return err
	}

	if err := CreateBackup(storagePath); err != nil {
		return err
	}

	tmpFile := storagePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, storagePath)
}
