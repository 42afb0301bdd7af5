package storage

import (
	"path/filepath"

	"github.com/Matoxx01/JobCounter/internal/osutil"
)

const (
	// AppName is the directory the data files live in by default
	AppName = osutil.AppName
	// DataFile is the name of the authoritative JSON document
	DataFile = "data.json"
	// MirrorFile is the name of the SQLite mirror database
	MirrorFile = "mirror.db"
)

// GetDataDir returns the directory holding the data files.
// An empty override resolves to the user config directory.
// Creates the directory if it doesn't exist.
func GetDataDir(override string) (string, error) {
	return osutil.AppDir(override)
}

// MirrorPathFor returns the mirror database path next to a data file.
func MirrorPathFor(storagePath string) string {
	return filepath.Join(filepath.Dir(storagePath), MirrorFile)
}
