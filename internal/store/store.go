// Package store persists the JSON document. Saves are atomic
// (write-new-then-rename) so a crash mid-write never leaves a torn file.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/task"
)

const fileMode = 0o600

// Store reads and writes the task document at a fixed path.
type Store struct {
	path string
}

// New creates a Store for the document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file yields an empty document. A file
// that fails to parse is backed up to <path>.bak (best-effort) and surfaced
// as a persistence error rather than silently recovered.
func (s *Store) Load() (*task.Document, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // document path from trusted config
	if err != nil {
		if os.IsNotExist(err) {
			return task.NewDocument(), nil
		}
		return nil, clierr.Newf(clierr.PersistenceError, "reading document: %v", err)
	}

	var doc task.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.backup(data)
		return nil, clierr.Newf(clierr.PersistenceError,
			"document %s is corrupted: %v (backup written to %s.bak)", s.path, err, s.path)
	}

	doc.Init()
	return &doc, nil
}

// Save writes the document atomically: marshal, write to a temp file in the
// same directory, fsync, rename over the target.
func (s *Store) Save(doc *task.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return clierr.Newf(clierr.PersistenceError, "marshaling document: %v", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return clierr.Newf(clierr.PersistenceError, "creating temp file: %v", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return clierr.Newf(clierr.PersistenceError, "writing document: %v", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return clierr.Newf(clierr.PersistenceError, "setting document mode: %v", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return clierr.Newf(clierr.PersistenceError, "replacing document: %v", err)
	}
	return nil
}

// Exists reports whether a document file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// backup copies the raw corrupt document aside. Errors are discarded; the
// backup must never mask the load failure.
func (s *Store) backup(data []byte) {
	_ = os.WriteFile(s.path+".bak", data, fileMode)
}
