package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// errNoChange aborts a mutation without writing.
var errNoChange = errors.New("no change")

// FileStore is the authoritative backend: a single JSON document rewritten
// on every mutation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	doc    Document
	now    func() time.Time
	logger *slog.Logger
	closed bool
}

// Open loads the document at path. A missing file starts empty and is
// written immediately so later runs find it.
func Open(path string, opts ...Option) (*FileStore, error) {
	o := buildOptions(opts)
	s := &FileStore{path: path, now: o.now, logger: o.logger}

	doc, found, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := writeDocument(path, doc); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", path, err)
		}
		s.logger.Debug("created data file", "path", path)
	}
	s.doc = doc
	return s, nil
}

// Path returns the location of the data file.
func (s *FileStore) Path() string {
	return s.path
}

func readDocument(path string) (Document, bool, error) {
	empty := Document{Snapshots: []Snapshot{}, Register: []RegisterEntry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, false, nil
		}
		return empty, false, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return empty, true, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, path, err)
	}
	if doc.Snapshots == nil {
		doc.Snapshots = []Snapshot{}
	}
	if doc.Register == nil {
		doc.Register = []RegisterEntry{}
	}
	return doc, true, nil
}

// writeDocument uses the atomic write pattern (temp file, then rename).
func writeDocument(path string, doc Document) error {
	// Document contains only JSON-safe types, so Marshal cannot fail
	data, _ := json.MarshalIndent(doc, "", "  ")

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

// mutate applies fn to a copy of the document, persists it and only then
// makes it current.
func (s *FileStore) mutate(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	next := cloneDocument(s.doc)
	if err := fn(&next); err != nil {
		return err
	}
	if err := writeDocument(s.path, next); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.doc = next
	return nil
}

func (s *FileStore) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if len(s.doc.Snapshots) == 0 {
		return nil, nil
	}
	snap := cloneSnapshot(s.doc.Snapshots[0])
	return &snap, nil
}

func (s *FileStore) Snapshots() ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return cloneDocument(s.doc).Snapshots, nil
}

func (s *FileStore) ReplaceSnapshot(snap Snapshot) error {
	return s.mutate(func(doc *Document) error {
		setCurrent(doc, cloneSnapshot(snap))
		return nil
	})
}

func (s *FileStore) SetConfiguredStart(duration string) error {
	now := s.now()
	return s.mutate(func(doc *Document) error {
		setCurrent(doc, Snapshot{
			ConfiguredStart: optional(duration),
			ObservedAt:      &now,
		})
		return nil
	})
}

func (s *FileStore) SetLastObserved(duration string) error {
	now := s.now()
	return s.mutate(func(doc *Document) error {
		var start *string
		if len(doc.Snapshots) > 0 {
			start = doc.Snapshots[0].ConfiguredStart
		}
		setCurrent(doc, Snapshot{
			ConfiguredStart: start,
			LastObserved:    optional(duration),
			ObservedAt:      &now,
		})
		return nil
	})
}

func setCurrent(doc *Document, snap Snapshot) {
	if len(doc.Snapshots) == 0 {
		doc.Snapshots = append(doc.Snapshots, snap)
		return
	}
	doc.Snapshots[0] = snap
}

func (s *FileStore) Entries() ([]RegisterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return cloneDocument(s.doc).Register, nil
}

func (s *FileStore) AppendEntry(week, offset string) (RegisterEntry, bool, error) {
	var added RegisterEntry
	created := false
	err := s.mutate(func(doc *Document) error {
		if hasWeek(doc.Register, week) {
			return errNoChange
		}
		added = RegisterEntry{ID: nextID(doc.Register), Week: week, Offset: offset}
		doc.Register = append(doc.Register, added)
		created = true
		return nil
	})
	if err == errNoChange {
		return RegisterEntry{}, false, nil
	}
	if err != nil {
		return RegisterEntry{}, false, err
	}
	return added, created, nil
}

func (s *FileStore) Archive(week, offset string, reset Snapshot) (RegisterEntry, bool, error) {
	var added RegisterEntry
	err := s.mutate(func(doc *Document) error {
		if hasWeek(doc.Register, week) {
			return errNoChange
		}
		added = RegisterEntry{ID: nextID(doc.Register), Week: week, Offset: offset}
		doc.Register = append(doc.Register, added)
		setCurrent(doc, cloneSnapshot(reset))
		return nil
	})
	if err == errNoChange {
		return RegisterEntry{}, false, nil
	}
	if err != nil {
		return RegisterEntry{}, false, err
	}
	return added, true, nil
}

func (s *FileStore) DeleteEntry(id int64) (bool, error) {
	err := s.mutate(func(doc *Document) error {
		for i, e := range doc.Register {
			if e.ID == id {
				if err := CreateBackup(s.path); err != nil {
					return fmt.Errorf("backup before delete: %w", err)
				}
				doc.Register = append(doc.Register[:i], doc.Register[i+1:]...)
				return nil
			}
		}
		return errNoChange
	})
	if err == errNoChange {
		return false, nil
	}
	return err == nil, err
}

func (s *FileStore) Replace(doc Document) error {
	return s.mutate(func(current *Document) error {
		if err := CreateBackup(s.path); err != nil {
			return fmt.Errorf("backup before replace: %w", err)
		}
		*current = cloneDocument(doc)
		return nil
	})
}

// Adopt overwrites the document with doc without taking a backup. It brings
// the file level with a backend that served the writes in its place.
func (s *FileStore) Adopt(doc Document) error {
	return s.mutate(func(current *Document) error {
		*current = cloneDocument(doc)
		return nil
	})
}

// Reload rereads the data file, e.g. after a backup was restored.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	doc, _, err := readDocument(s.path)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
