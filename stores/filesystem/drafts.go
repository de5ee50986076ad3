package filesystem

import (
	"context"
	"ecards-backend/core"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

const tableFileName = "drafts.json"

// draftStore keeps the whole draft table in a single JSON file. Every read
// loads the file in full and every write rewrites it in full; the file is the
// only source of truth, nothing is cached across requests.
type draftStore struct {
	filePath string
	mu       sync.Mutex // serializes the read-modify-write pair within this process
}

func NewDraftStore(basePath string) core.DraftStore {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		logrus.Fatalf("failed to create base directory: %v", err)
	}
	filePath := filepath.Join(basePath, tableFileName)

	// An absent table is an empty table; materialize it so the first
	// request never races file creation.
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := os.WriteFile(filePath, []byte("{}\n"), 0644); err != nil {
			logrus.Fatalf("failed to create table file: %v", err)
		}
	}

	return &draftStore{filePath: filePath}
}

func (s *draftStore) load() (core.DraftTable, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DraftTable{}, nil
		}
		return nil, fmt.Errorf("failed to read table file: %w", err)
	}

	table := core.DraftTable{}
	if err := json.Unmarshal(data, &table); err != nil {
		// Corrupt contents are surfaced, not repaired.
		return nil, fmt.Errorf("failed to parse table file %s: %w", s.filePath, err)
	}
	return table, nil
}

// save rewrites the whole table. It writes to a temp file and renames it over
// the old one so a reader in this process never sees a partial write.
func (s *draftStore) save(table core.DraftTable) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write table file: %w", err)
	}
	return os.Rename(tmpPath, s.filePath)
}

func (s *draftStore) FindID(ctx context.Context, id string) (core.Draft, error) {
	log := logrus.WithField("draft_id", id)

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load()
	if err != nil {
		log.WithField("error", err).Error("Failed to load draft table")
		return nil, err
	}

	draft, ok := table[id]
	if !ok {
		log.Warn("Draft with specified ID not found")
		return nil, fmt.Errorf("draft with id %s: %w", id, core.ErrDraftNotFound)
	}

	log.Info("Draft retrieved successfully")
	return draft, nil
}

func (s *draftStore) Upsert(ctx context.Context, draft core.Draft) (core.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load()
	if err != nil {
		logrus.WithField("error", err).Error("Failed to load draft table")
		return nil, err
	}

	id := draft.ID()
	for id == "" {
		// ULID collisions are negligible, but regenerating keeps generated
		// ids unique unconditionally.
		if candidate := core.NewDraftID(); table[candidate] == nil {
			id = candidate
		}
	}
	draft.SetID(id)
	table[id] = draft

	log := logrus.WithFields(logrus.Fields{
		"draft_id":  id,
		"file_path": s.filePath,
	})
	if err := s.save(table); err != nil {
		log.WithField("error", err).Error("Failed to persist draft table")
		return nil, err
	}

	log.Info("Draft stored successfully")
	return draft, nil
}
