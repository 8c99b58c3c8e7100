package tray

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"messaging-service/internal/models"
)

// Store persists a user's tray entries across sessions.
type Store interface {
	Load(userID int) ([]models.TrayEntry, error)
	Save(userID int, entries []models.TrayEntry) error
}

// FileStore keeps one JSON file per user under a base directory. The tray
// is a convenience cache, so a file that cannot be parsed is discarded
// rather than surfaced as an error.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create tray dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(userID int) string {
	return filepath.Join(fs.dir, strconv.Itoa(userID)+".json")
}

// Load reads the user's tray file. A missing file means an empty tray;
// a corrupt file is dropped and the tray starts empty.
func (fs *FileStore) Load(userID int) ([]models.TrayEntry, error) {
	data, err := os.ReadFile(fs.path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tray file: %w", err)
	}

	var entries []models.TrayEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("tray: discarding corrupt tray file for user %d: %v", userID, err)
		return nil, nil
	}
	return entries, nil
}

// Save writes the full entry list through a temp file and rename so a
// crash mid-write never leaves a truncated tray behind.
func (fs *FileStore) Save(userID int, entries []models.TrayEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode tray: %w", err)
	}

	tmp := fs.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tray file: %w", err)
	}
	if err := os.Rename(tmp, fs.path(userID)); err != nil {
		return fmt.Errorf("replace tray file: %w", err)
	}
	return nil
}
