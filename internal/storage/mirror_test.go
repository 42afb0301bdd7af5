package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

// failingSeed is a Backend whose reads fail, used to exercise seeding errors.
type failingSeed struct {
	Backend
}

func (failingSeed) Snapshots() ([]Snapshot, error) {
	return nil, errors.New("seed unavailable")
}

func (failingSeed) Entries() ([]RegisterEntry, error) {
	return nil, errors.New("seed unavailable")
}

func openSeededFile(t *testing.T, dir string) *FileStore {
	t.Helper()
	fs, err := Open(filepath.Join(dir, DataFile), WithClock(fixedClock))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = fs.Close() })

	if err := fs.SetConfiguredStart("10:00:00"); err != nil {
		t.Fatal(err)
	}
	if err := fs.SetLastObserved("-00:45:10"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := fs.AppendEntry("2024-01-01", "+01:15"); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestOpenMirror_SeedsFromAuthoritative(t *testing.T) {
	dir := t.TempDir()
	fs := openSeededFile(t, dir)

	m, err := OpenMirror(filepath.Join(dir, MirrorFile), fs, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("OpenMirror returned error: %v", err)
	}
	defer m.Close()

	snap, _ := m.Snapshot()
	if snap == nil || *snap.ConfiguredStart != "10:00:00" || *snap.LastObserved != "-00:45:10" || !snap.ObservedAt.Equal(fixedNow) {
		t.Errorf("mirror snapshot not seeded: %+v", snap)
	}
	entries, _ := m.Entries()
	if len(entries) != 1 || entries[0] != (RegisterEntry{ID: 1, Week: "2024-01-01", Offset: "+01:15"}) {
		t.Errorf("mirror register not seeded: %+v", entries)
	}
}

func TestOpenMirror_SeedsOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	fs := openSeededFile(t, dir)
	mirrorPath := filepath.Join(dir, MirrorFile)

	m, err := OpenMirror(mirrorPath, fs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.DeleteEntry(1); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	m, err = OpenMirror(mirrorPath, fs)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	entries, _ := m.Entries()
	if len(entries) != 0 {
		t.Errorf("mirror was re-seeded on second open: %+v", entries)
	}
}

func TestOpenMirror_SeedFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	mirrorPath := filepath.Join(dir, MirrorFile)

	m, err := OpenMirror(mirrorPath, failingSeed{})
	if err != nil {
		t.Fatalf("OpenMirror returned error for failing seed: %v", err)
	}
	snap, _ := m.Snapshot()
	if snap != nil {
		t.Errorf("expected empty mirror, got %+v", snap)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	// the failed seed is retried on the next open
	fs := openSeededFile(t, dir)
	m, err = OpenMirror(mirrorPath, fs)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	entries, _ := m.Entries()
	if len(entries) != 1 {
		t.Errorf("expected seeding on retry, got %+v", entries)
	}
}

func TestMirrorStore_Reseed(t *testing.T) {
	dir := t.TempDir()
	fs := openSeededFile(t, dir)

	m, err := OpenMirror(filepath.Join(dir, MirrorFile), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if _, _, err := m.AppendEntry("2023-12-25", "+00:05"); err != nil {
		t.Fatal(err)
	}
	if err := m.Reseed(fs); err != nil {
		t.Fatalf("Reseed returned error: %v", err)
	}

	entries, _ := m.Entries()
	if len(entries) != 1 || entries[0].Week != "2024-01-01" {
		t.Errorf("Reseed did not replace content: %+v", entries)
	}
}

func TestOpenMirror_EmptyPath(t *testing.T) {
	if _, err := OpenMirror("", nil); err == nil {
		t.Error("expected error for empty path")
	}
}
