package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zekroTJA/timedmap"

	"room-service/internal/model"
)

var ErrDraftNotFound = errors.New("repository: draft not found")

// DraftStore keeps registration drafts for a limited time. Every Save
// restarts the draft's lifetime.
type DraftStore interface {
	Save(ctx context.Context, d *model.Draft) error
	Get(ctx context.Context, id string) (*model.Draft, error)
	Delete(ctx context.Context, id string) error
}

// MemoryDraftStore keeps drafts in process. Drafts are lost on restart.
type MemoryDraftStore struct {
	drafts *timedmap.TimedMap
	ttl    time.Duration
}

func NewMemoryDraftStore(ttl, cleanupInterval time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{drafts: timedmap.New(cleanupInterval), ttl: ttl}
}

func (s *MemoryDraftStore) Save(_ context.Context, d *model.Draft) error {
	// Stored as JSON so callers never share the snapshot's slices.
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("MemoryDraftStore.Save: %w", err)
	}
	s.drafts.Set(d.ID, b, s.ttl)
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*model.Draft, error) {
	b, ok := s.drafts.GetValue(id).([]byte)
	if !ok {
		return nil, ErrDraftNotFound
	}
	var d model.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("MemoryDraftStore.Get: %w", err)
	}
	return &d, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	if !s.drafts.Contains(id) {
		return ErrDraftNotFound
	}
	s.drafts.Remove(id)
	return nil
}

// Close stops the expiry cleaner.
func (s *MemoryDraftStore) Close() error {
	s.drafts.StopCleaner()
	return nil
}

// RedisDraftStore shares drafts between service instances.
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

func draftKey(id string) string {
	return "room-service:draft:" + id
}

func (s *RedisDraftStore) Save(ctx context.Context, d *model.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("RedisDraftStore.Save: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(d.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("RedisDraftStore.Save: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*model.Draft, error) {
	b, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("RedisDraftStore.Get: %w", err)
	}
	var d model.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("RedisDraftStore.Get: %w", err)
	}
	return &d, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("RedisDraftStore.Delete: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (s *RedisDraftStore) Close() error {
	return s.rdb.Close()
}

var (
	_ DraftStore = (*MemoryDraftStore)(nil)
	_ DraftStore = (*RedisDraftStore)(nil)
)
