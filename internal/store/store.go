// Package store persists card collections as pretty-printed JSON files.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store loads and saves named collections.
type Store interface {
	Load(name string) []domain.Card
	Save(name string, cards []domain.Card) error
}

// FileStore keeps each collection in Dir/name. Writes are last-writer-wins
// with no locking across processes.
type FileStore struct {
	dir string
	log logger.Logger
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileStore{dir: dir, log: log}
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path of a collection.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, domain.CollectionFile(name))
}

// Load reads a collection. Any failure yields an empty collection, and
// anything other than a missing file is logged as a warning.
func (s *FileStore) Load(name string) []domain.Card {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("Collection unreadable, starting empty",
				logger.String("path", path),
				logger.Error(err),
			)
		}
		return []domain.Card{}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Card{}
	}

	var cards []domain.Card
	if unmarshalErr := json.Unmarshal(data, &cards); unmarshalErr != nil {
		s.log.Warn("Collection malformed, starting empty",
			logger.String("path", path),
			logger.Error(unmarshalErr),
		)
		return []domain.Card{}
	}
	if cards == nil {
		cards = []domain.Card{}
	}

	return cards
}

// Save writes a collection atomically: the JSON goes to a temp file in the
// same directory which is then renamed over the target.
func (s *FileStore) Save(name string, cards []domain.Card) error {
	if cards == nil {
		cards = []domain.Card{}
	}

	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}
	data = append(data, '\n')

	if mkErr := os.MkdirAll(s.dir, dirPerm); mkErr != nil {
		return fmt.Errorf("create storage dir %s: %w", s.dir, mkErr)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, closeErr)
	}
	if chmodErr := os.Chmod(tmpName, filePerm); chmodErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, chmodErr)
	}
	if renameErr := os.Rename(tmpName, path); renameErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, renameErr)
	}

	s.log.Debug("Collection saved",
		logger.String("path", path),
		logger.Int("cards", len(cards)),
	)

	return nil
}
