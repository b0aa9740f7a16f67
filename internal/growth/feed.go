package growth

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/config"
)

// Commitment is one quantity delta destined for a campaign ledger.
type Commitment struct {
	CampaignID uuid.UUID
	Delta      int
}

// Feed yields the next batch of external commitments. Implementations may
// poll a broker, read a partner API, or synthesize demo traffic.
type Feed interface {
	Name() string
	Next(ctx context.Context) ([]Commitment, error)
}

type campaignSource interface {
	OpenCampaignIDs(ctx context.Context) ([]uuid.UUID, error)
}

// RandomFeed synthesizes a small random delta per open campaign. It stands
// in for real off-platform purchase data in demo environments.
type RandomFeed struct {
	campaigns campaignSource
	minDelta  int
	maxDelta  int
	intn      func(n int) int
}

// NewRandomFeed builds a demo feed over the open campaigns.
func NewRandomFeed(campaigns campaignSource, cfg config.GrowthConfig) (*RandomFeed, error) {
	if campaigns == nil {
		return nil, fmt.Errorf("campaign source is required")
	}
	if cfg.MinDelta <= 0 || cfg.MaxDelta < cfg.MinDelta {
		return nil, fmt.Errorf("invalid delta range [%d, %d]", cfg.MinDelta, cfg.MaxDelta)
	}
	return &RandomFeed{
		campaigns: campaigns,
		minDelta:  cfg.MinDelta,
		maxDelta:  cfg.MaxDelta,
		intn:      rand.Intn,
	}, nil
}

// Name identifies the feed in logs and metrics.
func (f *RandomFeed) Name() string { return "random" }

// Next returns one commitment per open campaign.
func (f *RandomFeed) Next(ctx context.Context) ([]Commitment, error) {
	ids, err := f.campaigns.OpenCampaignIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("open campaigns: %w", err)
	}
	batch := make([]Commitment, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, Commitment{
			CampaignID: id,
			Delta:      f.minDelta + f.intn(f.maxDelta-f.minDelta+1),
		})
	}
	return batch, nil
}
