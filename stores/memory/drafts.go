package memory

import (
	"context"
	"ecards-backend/core"
	"fmt"
	"sync"
)

type draftStore struct {
	mu     sync.RWMutex
	drafts core.DraftTable
}

func NewDraftStore() core.DraftStore {
	return &draftStore{drafts: core.DraftTable{}}
}

func (s *draftStore) FindID(ctx context.Context, id string) (core.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if draft, ok := s.drafts[id]; ok {
		return draft.Clone(), nil
	}
	return nil, fmt.Errorf("draft with id %s: %w", id, core.ErrDraftNotFound)
}

func (s *draftStore) Upsert(ctx context.Context, draft core.Draft) (core.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := draft.ID()
	for id == "" {
		if candidate := core.NewDraftID(); s.drafts[candidate] == nil {
			id = candidate
		}
	}
	draft.SetID(id)
	s.drafts[id] = draft.Clone()
	return draft, nil
}
