package store

import (
	"context"
	"encoding/json"
	"time"

	"shorter/config"
	"shorter/model"
	"shorter/shortid"
	"shorter/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultCodeLength = 8
	defaultMaxRetries = 5
)

// LinkStore persists short-code to long-URL mappings. Uniqueness of short
// codes is enforced by SETNX at the storage layer, not by a check-then-insert
// in application code.
type LinkStore struct {
	redis      *redis.Client
	codeLength int
	maxRetries int
	generate   func(int) (string, error)
}

// NewLinkStore creates a link store with the configured code length and
// collision retry budget.
func NewLinkStore(rdb *redis.Client, cfg config.ShortenerConfig) *LinkStore {
	codeLength := cfg.CodeLength
	if codeLength <= 0 {
		codeLength = defaultCodeLength
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &LinkStore{
		redis:      rdb,
		codeLength: codeLength,
		maxRetries: maxRetries,
		generate:   shortid.Generate,
	}
}

// Create validates longURL, assigns a fresh short code, and persists the
// link. An empty email creates an anonymous link that appears on no
// dashboard. Returns ErrCodeExhausted when the retry budget runs out.
func (s *LinkStore) Create(ctx context.Context, longURL, email string) (*model.Link, error) {
	if err := utils.ValidateURL(longURL); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.generate(s.codeLength)
		if err != nil {
			return nil, err
		}

		link := model.Link{
			ID:        uuid.New().String(),
			LongURL:   longURL,
			ShortURL:  code,
			Email:     email,
			CreatedAt: time.Now(),
		}

		data, err := json.Marshal(link)
		if err != nil {
			return nil, err
		}

		// SETNX loses to any concurrent insert of the same code, so two
		// creates can never both claim it.
		ok, err := s.redis.SetNX(ctx, linkKey(code), data, 0).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Warn().
				Str("short_url", code).
				Int("attempt", attempt+1).
				Msg("Collision detected, retrying")
			continue
		}

		if err := s.redis.HSet(ctx, linkIndexKey, link.ID, code).Err(); err != nil {
			return nil, err
		}
		if email != "" {
			if err := s.redis.SAdd(ctx, ownerKey(email), code).Err(); err != nil {
				return nil, err
			}
		}

		return &link, nil
	}

	return nil, ErrCodeExhausted
}

// Resolve returns the link for a short code, or ErrNotFound.
func (s *LinkStore) Resolve(ctx context.Context, code string) (*model.Link, error) {
	data, err := s.redis.Get(ctx, linkKey(code)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var link model.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetByID returns the link with the given id, or ErrNotFound.
func (s *LinkStore) GetByID(ctx context.Context, id string) (*model.Link, error) {
	code, err := s.redis.HGet(ctx, linkIndexKey, id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, code)
}

// ListByOwner returns all links owned by email. Order is unspecified;
// callers that need ordering must sort.
func (s *LinkStore) ListByOwner(ctx context.Context, email string) ([]model.Link, error) {
	codes, err := s.redis.SMembers(ctx, ownerKey(email)).Result()
	if err != nil {
		return nil, err
	}

	links := make([]model.Link, 0, len(codes))
	for _, code := range codes {
		link, err := s.Resolve(ctx, code)
		if err == ErrNotFound {
			// Dangling owner-set entry, drop it
			s.redis.SRem(ctx, ownerKey(email), code)
			continue
		} else if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, nil
}

// Delete removes a link by id. Subsequent resolves of its code fail with
// ErrNotFound. Click events already recorded for the code are retained.
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	code, err := s.redis.HGet(ctx, linkIndexKey, id).Result()
	if err == redis.Nil {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	link, err := s.Resolve(ctx, code)
	if err == ErrNotFound {
		s.redis.HDel(ctx, linkIndexKey, id)
		return ErrNotFound
	} else if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, linkKey(code)).Err(); err != nil {
		return err
	}
	if err := s.redis.HDel(ctx, linkIndexKey, id).Err(); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to remove link index entry")
	}
	if link.Email != "" {
		if err := s.redis.SRem(ctx, ownerKey(link.Email), code).Err(); err != nil {
			log.Error().Err(err).Str("email", link.Email).Msg("Failed to remove owner set entry")
		}
	}

	log.Info().
		Str("id", id).
		Str("short_url", code).
		Msg("Link deleted")
	return nil
}
