package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	redisclient "github.com/vendygo/vendygo-backend/pkg/redis"
)

// Profile is the serialized user record cached for the lifetime of a session.
type Profile struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	BusinessName string         `json:"business_name"`
	Location     string         `json:"location"`
	Role         enums.UserRole `json:"role"`
	Rating       float64        `json:"rating"`
	AvatarURL    string         `json:"avatar_url"`
	TotalTrades  int            `json:"total_trades"`
	Specialties  []string       `json:"specialties"`
	JoinedAt     time.Time      `json:"joined_at"`
}

type profileKeyer interface {
	ProfileKey(userID string) string
}

// ProfileStore persists session profile records in Redis.
type ProfileStore struct {
	store sessionStore
	keyer profileKeyer
	ttl   time.Duration
}

// NewProfileStore constructs a profile store sharing the refresh-session TTL.
func NewProfileStore(client *redisclient.Client, ttl time.Duration) (*ProfileStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("profile ttl must be positive")
	}
	return &ProfileStore{store: client, keyer: client, ttl: ttl}, nil
}

// Save writes the serialized profile under the user's session key.
func (s *ProfileStore) Save(ctx context.Context, profile Profile) error {
	if profile.ID == uuid.Nil {
		return fmt.Errorf("profile id is required")
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return s.store.Set(ctx, s.keyer.ProfileKey(profile.ID.String()), string(payload), s.ttl)
}

// Load returns the stored profile, or nil when no usable record exists.
// A record that fails to parse is discarded and treated as a missing
// session rather than surfaced as an error.
func (s *ProfileStore) Load(ctx context.Context, userID string) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	key := s.keyer.ProfileKey(userID)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		_ = s.store.Del(ctx, key)
		return nil, nil
	}
	return &profile, nil
}

// Clear removes the stored profile for the user.
func (s *ProfileStore) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	return s.store.Del(ctx, s.keyer.ProfileKey(userID))
}
