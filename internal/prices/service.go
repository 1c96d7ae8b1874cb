package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

// StateSource is the bot_state row key for the single configured price source.
const StateSource = "bangchak"

// Service coordinates fetching, extraction, and persistence of the latest
// price snapshot.
type Service struct {
	fetcher DocumentFetcher
	store   storage.Storage // may be nil for fetch-only mode
}

func NewService(f DocumentFetcher) *Service {
	return &Service{fetcher: f}
}

// NewServiceWithStorage returns a Service that writes each extracted snapshot
// back to the given storage backend.
func NewServiceWithStorage(f DocumentFetcher, st storage.Storage) *Service {
	return &Service{fetcher: f, store: st}
}

// Refresh fetches the rendered price page and extracts a snapshot from it.
// Failures are classified under ErrFetchFailed or ErrExtractFailed; neither
// class leaves any trace in storage, so a later successful cycle still sees
// the pending change.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	snap, err := Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}
	snap.FetchedAt = time.Now()

	// Best-effort write-back; the in-memory snapshot is authoritative for
	// this cycle either way.
	if s.store != nil {
		if err := s.saveLatest(ctx, snap); err != nil {
			log.Printf("prices: save snapshot failed: %v", err)
		}
	}

	return snap, nil
}

// Latest returns the most recently persisted snapshot, or nil when none has
// been stored yet.
func (s *Service) Latest(ctx context.Context) (*Snapshot, error) {
	if s.store == nil {
		return nil, nil
	}
	st, err := s.store.GetBotState(ctx, StateSource)
	if err != nil {
		return nil, err
	}
	if st == nil || len(st.Snapshot) == 0 {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(st.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode stored snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Service) saveLatest(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	st, err := s.store.GetBotState(ctx, StateSource)
	if err != nil {
		return err
	}
	state := storage.BotState{Source: StateSource}
	if st != nil {
		state = *st
	}
	state.Snapshot = payload
	state.ReportDate = snap.ReportDate
	state.UpdatedAt = time.Now()
	return s.store.SaveBotState(ctx, state)
}
