package sqlite

import (
	"context"
	"database/sql"
	"ecards-backend/core"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type draftStore struct {
	db *sql.DB
}

func NewDraftStore(dataSourceName string) core.DraftStore {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		logrus.Fatal(err)
	}
	sts := `CREATE TABLE IF NOT EXISTS drafts (id TEXT PRIMARY KEY, data TEXT);`
	if _, err = db.Exec(sts); err != nil {
		logrus.Fatal(err)
	}
	return &draftStore{db}
}

func (s *draftStore) FindID(ctx context.Context, id string) (core.Draft, error) {
	log := logrus.WithField("draft_id", id)
	log.Debug("Retrieving draft by ID")

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM drafts WHERE id = ?", id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Draft with specified ID not found")
			return nil, fmt.Errorf("draft with id %s: %w", id, core.ErrDraftNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve draft")
		return nil, err
	}

	draft := core.Draft{}
	if err := json.Unmarshal(data, &draft); err != nil {
		log.WithField("error", err).Error("Failed to decode stored draft")
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	log.Info("Draft retrieved successfully")
	return draft, nil
}

func (s *draftStore) Upsert(ctx context.Context, draft core.Draft) (core.Draft, error) {
	id := draft.ID()
	for id == "" {
		candidate := core.NewDraftID()
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM drafts WHERE id = ?", candidate).Scan(&exists)
		if err == sql.ErrNoRows {
			id = candidate
		} else if err != nil {
			return nil, err
		}
	}
	draft.SetID(id)

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"draft_id":    id,
		"data_length": len(data),
	})
	_, err = s.db.ExecContext(ctx, "INSERT OR REPLACE INTO drafts (id, data) VALUES (?, ?)", id, data)
	if err != nil {
		log.WithField("error", err).Error("Failed to store draft")
		return nil, err
	}
	log.Info("Draft stored successfully")
	return draft, nil
}
