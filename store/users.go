package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"shorter/model"
	"shorter/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserStore persists user records keyed by email.
type UserStore struct {
	redis *redis.Client
}

func NewUserStore(rdb *redis.Client) *UserStore {
	return &UserStore{redis: rdb}
}

// Ensure creates the user on first sign-in and returns the existing record
// on every later call, updating the display name when it changed. The
// returned bool is true when a new record was created. An existing user is
// success, never a conflict; the identity provider calls this on every
// sign-in.
func (s *UserStore) Ensure(ctx context.Context, email, name string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateEmail(email); err != nil {
		return nil, false, err
	}

	existing, err := s.get(ctx, email)
	if err != nil && err != ErrNotFound {
		return nil, false, err
	}
	if existing != nil {
		if name != "" && existing.Name != name {
			existing.Name = name
			if err := s.put(ctx, existing); err != nil {
				return nil, false, err
			}
			log.Info().Str("email", email).Msg("User display name updated")
		}
		return existing, false, nil
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, false, err
	}

	// SETNX so two concurrent first sign-ins end up with one record
	ok, err := s.redis.SetNX(ctx, userKey(email), data, 0).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		winner, err := s.get(ctx, email)
		if err != nil {
			return nil, false, err
		}
		return winner, false, nil
	}

	log.Info().Str("email", email).Msg("User registered")
	return user, true, nil
}

func (s *UserStore) get(ctx context.Context, email string) (*model.User, error) {
	data, err := s.redis.Get(ctx, userKey(email)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) put(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, userKey(user.Email), data, 0).Err()
}
