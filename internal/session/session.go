// Package session stores transient per-user flow state in Redis with a
// fixed TTL. At most one flow is active per user: a profile field edit, a
// hero stat edit, a party wizard, or a global search. Abandoned flows
// simply expire; the persisted registration pipeline never does.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"party-finder-bot/internal/model"
)

// Kind discriminates the active flow.
type Kind string

const (
	KindProfileEdit  Kind = "profile_edit"
	KindHeroEdit     Kind = "hero_edit"
	KindPartyWizard  Kind = "party_wizard"
	KindGlobalSearch Kind = "global_search"
)

// State is the per-user flow document. Only the fields of the active Kind
// are meaningful.
type State struct {
	Kind Kind `json:"kind"`

	// KindProfileEdit
	ProfileField model.ProfileField `json:"profile_field,omitempty"`

	// KindHeroEdit
	HeroField model.HeroField `json:"hero_field,omitempty"`
	ClassID   string          `json:"class_id,omitempty"`
	HeroID    string          `json:"hero_id,omitempty"`

	// KindPartyWizard
	Party *PartyDraft `json:"party,omitempty"`

	// KindGlobalSearch
	SearchField model.SearchField `json:"search_field,omitempty"`
	SearchQuery string            `json:"search_query,omitempty"`
}

// PartyDraft accumulates wizard choices until the final step persists a
// party.
type PartyDraft struct {
	Mode        model.GameMode `json:"mode,omitempty"`
	PlayerCount int            `json:"player_count,omitempty"`
	ClassID     string         `json:"class_id,omitempty"`
}

// Store is a TTL-evicted session store backed by Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. Entries expire after ttl.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

// Get returns the user's active flow, or nil when none is active.
func (s *Store) Get(ctx context.Context, userID int64) (*State, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &state, nil
}

// Set replaces the user's active flow and resets the TTL. Last write wins;
// handlers hold the user lock to keep one flow active at a time.
func (s *Store) Set(ctx context.Context, userID int64, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Clear drops the user's active flow.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
