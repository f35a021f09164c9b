package store

import (
	"context"
	"encoding/json"
	"time"

	"shorter/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ClickStore appends immutable click events to a per-code Redis list.
// Events are never mutated or deleted, and they outlive the link they
// reference.
type ClickStore struct {
	redis *redis.Client
}

func NewClickStore(rdb *redis.Client) *ClickStore {
	return &ClickStore{redis: rdb}
}

// Record appends a click event for code. Fails with ErrNotFound when the
// code does not currently resolve, so unknown codes can never poison the
// event log. The write is durable in Redis before Record returns.
func (s *ClickStore) Record(ctx context.Context, code, ip, userAgent string) (*model.ClickEvent, error) {
	exists, err := s.redis.Exists(ctx, linkKey(code)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	event := model.ClickEvent{
		ID:        uuid.New().String(),
		ShortURL:  code,
		ClickedAt: time.Now(),
		IP:        ip,
		UserAgent: userAgent,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	if err := s.redis.RPush(ctx, clicksKey(code), data).Err(); err != nil {
		return nil, err
	}

	return &event, nil
}

// ListByCode returns the full click history for a code, oldest first.
func (s *ClickStore) ListByCode(ctx context.Context, code string) ([]model.ClickEvent, error) {
	entries, err := s.redis.LRange(ctx, clicksKey(code), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	events := make([]model.ClickEvent, 0, len(entries))
	for _, entry := range entries {
		var event model.ClickEvent
		if err := json.Unmarshal([]byte(entry), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// CountByCode returns the number of recorded clicks for a code, computed
// from the event log at read time.
func (s *ClickStore) CountByCode(ctx context.Context, code string) (int64, error) {
	count, err := s.redis.LLen(ctx, clicksKey(code)).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return count, nil
}
