package session

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vendygo/vendygo-backend/pkg/enums"
)

func (m *mockStore) ProfileKey(userID string) string {
	return "profile:" + userID
}

func TestProfileStoreRoundTrip(t *testing.T) {
	store := newMockStore()
	ps := &ProfileStore{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	profile := Profile{
		ID:           uuid.New(),
		Name:         "Ravi Kumar",
		Email:        "ravi@chaatcorner.in",
		Phone:        "+91 98765 43210",
		BusinessName: "Chaat Corner",
		Location:     "Mumbai",
		Role:         enums.UserRoleVendor,
		Rating:       5.0,
		AvatarURL:    "https://cdn.vendygo.in/avatars/default.png",
		TotalTrades:  3,
		Specialties:  []string{"chaat", "snacks"},
		JoinedAt:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := ps.Save(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := ps.Load(ctx, profile.ID.String())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored profile")
	}
	if !reflect.DeepEqual(*loaded, profile) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *loaded, profile)
	}
}

func TestProfileStoreMissingRecord(t *testing.T) {
	store := newMockStore()
	ps := &ProfileStore{store: store, keyer: store, ttl: time.Hour}

	loaded, err := ps.Load(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil profile for missing record, got %+v", loaded)
	}
}

func TestProfileStoreCorruptRecordDiscarded(t *testing.T) {
	store := newMockStore()
	ps := &ProfileStore{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	userID := uuid.NewString()
	key := store.ProfileKey(userID)
	store.data[key] = "{not json"

	loaded, err := ps.Load(ctx, userID)
	if err != nil {
		t.Fatalf("corrupt record must not surface an error, got %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected corrupt record to read as logged out, got %+v", loaded)
	}
	if _, exists := store.data[key]; exists {
		t.Fatal("expected corrupt record to be discarded")
	}
}

func TestProfileStoreClear(t *testing.T) {
	store := newMockStore()
	ps := &ProfileStore{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	profile := Profile{ID: uuid.New(), Name: "Lakshmi", Role: enums.UserRoleWholesaler, Rating: 5}
	if err := ps.Save(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ps.Clear(ctx, profile.ID.String()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, err := ps.Load(ctx, profile.ID.String())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected profile removed after clear")
	}
}
