package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"family-backend/internal/models"
	"family-backend/internal/monitoring"
	"family-backend/internal/storage"
)

// SyncService mirrors every saved snapshot to the JSON sync server as a
// best-effort background copy. The mirror is never the store of truth: a
// failed push is logged and retried implicitly by the next mutation, and it
// never fails or delays the mutation that triggered it.
//
// The queue holds at most one pending snapshot; a newer one replaces an
// undelivered older one, since the mirror only ever needs the latest state.
type SyncService struct {
	baseURL string
	client  *http.Client
	queue   chan []models.Member
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSyncService creates a mirror targeting the sync server at baseURL
// (e.g. "http://localhost:3001").
func NewSyncService(baseURL string) *SyncService {
	return &SyncService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		queue:   make(chan []models.Member, 1),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the background push worker.
func (s *SyncService) Start() {
	log.Printf("[Sync] Mirroring snapshots to %s", s.baseURL)
	s.wg.Add(1)
	go s.worker()
}

// Stop shuts the worker down, delivering a pending snapshot first if one is
// queued.
func (s *SyncService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	log.Println("[Sync] Worker stopped")
}

// Enqueue hands a snapshot to the mirror without blocking. If an older
// snapshot is still waiting it is dropped in favor of this one.
func (s *SyncService) Enqueue(members []models.Member) {
	snapshot := make([]models.Member, len(members))
	copy(snapshot, members)

	for {
		select {
		case s.queue <- snapshot:
			return
		default:
			// Queue full: discard the stale pending snapshot and retry.
			select {
			case <-s.queue:
			default:
			}
		}
	}
}

func (s *SyncService) worker() {
	defer s.wg.Done()
	for {
		select {
		case members := <-s.queue:
			s.pushLogged(members)
		case <-s.stopCh:
			// Flush the pending snapshot, if any, before exiting.
			select {
			case members := <-s.queue:
				s.pushLogged(members)
			default:
			}
			return
		}
	}
}

func (s *SyncService) pushLogged(members []models.Member) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Push(ctx, members); err != nil {
		// Warning only: the primary store already committed.
		log.Printf("[Sync] Warning: push failed (%d members): %v", len(members), err)
		monitoring.RecordSyncPush(err)
		return
	}
	monitoring.RecordSyncPush(nil)
	log.Printf("[Sync] Pushed %d members", len(members))
}

// Push uploads the full member array to the sync server.
func (s *SyncService) Push(ctx context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}
	body, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/family-members", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync server returned %d", resp.StatusCode)
	}
	return nil
}

// Fetch downloads the member array the sync server holds.
func (s *SyncService) Fetch(ctx context.Context) ([]models.Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/family-members", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync server returned %d", resp.StatusCode)
	}

	var members []models.Member
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return members, nil
}

// RestoreIfEmpty seeds an empty local store from the sync server's copy, the
// same fallback the client app used when its local storage was blank. It
// returns the number of members restored; mirror unavailability is not an
// error, just nothing to restore from.
func (s *SyncService) RestoreIfEmpty(ctx context.Context, store storage.Store) (int, error) {
	local, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(local) > 0 {
		return 0, nil
	}

	remote, err := s.Fetch(ctx)
	if err != nil {
		log.Printf("[Sync] No remote copy available: %v", err)
		return 0, nil
	}
	if len(remote) == 0 {
		return 0, nil
	}

	if err := store.Save(ctx, remote); err != nil {
		return 0, err
	}
	log.Printf("[Sync] Restored %d members from %s", len(remote), s.baseURL)
	return len(remote), nil
}
