package coop

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	pkgerrors "github.com/vendygo/vendygo-backend/pkg/errors"
	"github.com/vendygo/vendygo-backend/pkg/pagination"
)

type fakeRepo struct {
	campaigns     map[uuid.UUID]*models.CoopCampaign
	participants  map[uuid.UUID][]models.CoopParticipant
	contributions map[string]*models.CoopContribution
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		campaigns:     make(map[uuid.UUID]*models.CoopCampaign),
		participants:  make(map[uuid.UUID][]models.CoopParticipant),
		contributions: make(map[string]*models.CoopContribution),
	}
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CoopCampaign, error) {
	campaign, ok := f.campaigns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *campaign
	clone.Participants = append([]models.CoopParticipant(nil), f.participants[id]...)
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.CoopCampaign, error) {
	out := make([]models.CoopCampaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if cursor != nil {
		filtered := out[:0]
		for _, c := range out {
			if c.CreatedAt.Before(cursor.CreatedAt) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ListOpen(ctx context.Context) ([]models.CoopCampaign, error) {
	now := nowFunc()
	out := []models.CoopCampaign{}
	for _, c := range f.campaigns {
		if now.After(c.Deadline) || c.CurrentCommitted >= c.MaxCapacity {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]models.CoopCampaign, error) {
	out := []models.CoopCampaign{}
	for _, c := range f.campaigns {
		if c.WholesalerID == wholesalerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, campaign *models.CoopCampaign) error {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	clone := *campaign
	f.campaigns[campaign.ID] = &clone
	return nil
}

func (f *fakeRepo) Commit(ctx context.Context, params CommitParams) (*models.CoopCampaign, error) {
	campaign, ok := f.campaigns[params.CampaignID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if nowFunc().After(campaign.Deadline) {
		return nil, ErrPastDeadline
	}
	if campaign.CurrentCommitted+params.Quantity > campaign.MaxCapacity {
		return nil, ErrCapacityExceeded
	}

	f.participants[campaign.ID] = append(f.participants[campaign.ID], models.CoopParticipant{
		CampaignID:        campaign.ID,
		VendorName:        params.VendorName,
		Quantity:          params.Quantity,
		ContributionCents: params.ContributionCents,
	})
	campaign.CurrentCommitted += params.Quantity

	if params.UserID != nil {
		key := campaign.ID.String() + "/" + params.UserID.String()
		if existing, ok := f.contributions[key]; ok {
			existing.Quantity += params.Quantity
			existing.ContributionCents += params.ContributionCents
		} else {
			f.contributions[key] = &models.CoopContribution{
				CampaignID:        campaign.ID,
				UserID:            *params.UserID,
				Quantity:          params.Quantity,
				ContributionCents: params.ContributionCents,
			}
		}
	}

	clone := *campaign
	return &clone, nil
}

func (f *fakeRepo) ListContributions(ctx context.Context, userID uuid.UUID) ([]models.CoopContribution, error) {
	out := []models.CoopContribution{}
	for _, c := range f.contributions {
		if c.UserID == userID {
			clone := *c
			if campaign, ok := f.campaigns[c.CampaignID]; ok {
				campaignClone := *campaign
				clone.Campaign = &campaignClone
			}
			out = append(out, clone)
		}
	}
	return out, nil
}

func (f *fakeRepo) committedSum(campaignID uuid.UUID) int {
	total := 0
	for _, p := range f.participants[campaignID] {
		total += p.Quantity
	}
	return total
}

type fakeUserFinder struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func basmatiCampaign(deadline time.Time) *models.CoopCampaign {
	return &models.CoopCampaign{
		ID:                  uuid.New(),
		WholesalerID:        uuid.New(),
		Name:                "Premium Basmati Rice",
		Category:            enums.ProductCategoryGrains,
		Unit:                "kg",
		WholesalePriceCents: 8500,
		RetailPriceCents:    14000,
		MinimumOrder:        500,
		CurrentCommitted:    320,
		MaxCapacity:         1000,
		Deadline:            deadline,
	}
}

func setupService(t *testing.T) (Service, *fakeRepo, *models.CoopCampaign, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	campaign := basmatiCampaign(time.Now().Add(72 * time.Hour))
	repo.campaigns[campaign.ID] = campaign

	vendorID := uuid.New()
	finder := &fakeUserFinder{users: map[uuid.UUID]*models.User{
		vendorID: {ID: vendorID, BusinessName: "Spice Garden Restaurant", Role: enums.UserRoleVendor},
	}}

	svc, err := NewService(ServiceParams{Repo: repo, UserRepo: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, campaign, vendorID
}

func TestJoinWorkedExample(t *testing.T) {
	svc, repo, campaign, vendorID := setupService(t)

	receipt, err := svc.Join(context.Background(), campaign.ID, vendorID, 100)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if campaign.CurrentCommitted != 420 {
		t.Fatalf("expected committed 420, got %d", campaign.CurrentCommitted)
	}
	if got := Progress(campaign); got != 84.0 {
		t.Fatalf("expected progress 84.0, got %v", got)
	}
	if receipt.ContributionCents != 850000 {
		t.Fatalf("expected contribution 850000 cents, got %d", receipt.ContributionCents)
	}
	if receipt.SavingsCents != 550000 {
		t.Fatalf("expected savings 550000 cents, got %d", receipt.SavingsCents)
	}

	rows := repo.participants[campaign.ID]
	if len(rows) != 1 || rows[0].VendorName != "Spice Garden Restaurant" {
		t.Fatalf("expected one participant row for the vendor, got %+v", rows)
	}
}

func TestJoinKeepsCommittedEqualToParticipantSum(t *testing.T) {
	svc, repo, campaign, vendorID := setupService(t)
	ctx := context.Background()

	// seed rows so the invariant starts true
	repo.participants[campaign.ID] = []models.CoopParticipant{
		{CampaignID: campaign.ID, VendorName: "Food Corner Delhi", Quantity: 320, ContributionCents: 2720000},
	}

	for _, qty := range []int{100, 50, 30} {
		if _, err := svc.Join(ctx, campaign.ID, vendorID, qty); err != nil {
			t.Fatalf("join %d: %v", qty, err)
		}
		if sum := repo.committedSum(campaign.ID); sum != campaign.CurrentCommitted {
			t.Fatalf("invariant broken: committed=%d participant sum=%d", campaign.CurrentCommitted, sum)
		}
	}
}

func TestJoinZeroOrNegativeQuantityNeverMutates(t *testing.T) {
	svc, repo, campaign, vendorID := setupService(t)
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		_, err := svc.Join(ctx, campaign.ID, vendorID, qty)
		if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
		if campaign.CurrentCommitted != 320 {
			t.Fatalf("qty %d: state mutated, committed=%d", qty, campaign.CurrentCommitted)
		}
		if len(repo.participants[campaign.ID]) != 0 {
			t.Fatalf("qty %d: participant row appended", qty)
		}
	}
}

func TestJoinPastDeadline(t *testing.T) {
	repo := newFakeRepo()
	campaign := basmatiCampaign(time.Now().Add(-time.Hour))
	repo.campaigns[campaign.ID] = campaign
	vendorID := uuid.New()
	finder := &fakeUserFinder{users: map[uuid.UUID]*models.User{
		vendorID: {ID: vendorID, BusinessName: "Late Vendor"},
	}}
	svc, err := NewService(ServiceParams{Repo: repo, UserRepo: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Join(context.Background(), campaign.ID, vendorID, 10)
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestJoinBeyondCapacityRejected(t *testing.T) {
	svc, _, campaign, vendorID := setupService(t)

	// 320 committed, capacity 1000: 681 would overflow
	_, err := svc.Join(context.Background(), campaign.ID, vendorID, 681)
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if campaign.CurrentCommitted != 320 {
		t.Fatalf("state mutated on rejected join, committed=%d", campaign.CurrentCommitted)
	}
}

func TestRepeatJoinsAccumulateContribution(t *testing.T) {
	svc, repo, campaign, vendorID := setupService(t)
	ctx := context.Background()

	if _, err := svc.Join(ctx, campaign.ID, vendorID, 40); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := svc.Join(ctx, campaign.ID, vendorID, 60); err != nil {
		t.Fatalf("second join: %v", err)
	}

	summary, err := svc.MyContributions(ctx, vendorID)
	if err != nil {
		t.Fatalf("contributions: %v", err)
	}
	if len(summary.Entries) != 1 {
		t.Fatalf("expected single accumulated entry, got %d", len(summary.Entries))
	}
	entry := summary.Entries[0]
	if entry.Quantity != 100 {
		t.Fatalf("expected accumulated quantity 100, got %d", entry.Quantity)
	}
	if entry.ContributionCents != 850000 {
		t.Fatalf("expected accumulated contribution 850000, got %d", entry.ContributionCents)
	}
	if summary.TotalSavingsCents != 550000 {
		t.Fatalf("expected total savings 550000, got %d", summary.TotalSavingsCents)
	}
	if rows := repo.participants[campaign.ID]; len(rows) != 2 {
		t.Fatalf("expected a participant row per join, got %d", len(rows))
	}
}

func TestOpenCampaignIDsSkipsExpiredAndFull(t *testing.T) {
	svc, repo, open, _ := setupService(t)
	ctx := context.Background()

	expired := basmatiCampaign(time.Now().Add(-time.Hour))
	repo.campaigns[expired.ID] = expired

	full := basmatiCampaign(time.Now().Add(72 * time.Hour))
	full.CurrentCommitted = full.MaxCapacity
	repo.campaigns[full.ID] = full

	ids, err := svc.OpenCampaignIDs(ctx)
	if err != nil {
		t.Fatalf("open campaigns: %v", err)
	}
	if len(ids) != 1 || ids[0] != open.ID {
		t.Fatalf("expected only the open campaign, got %v", ids)
	}
}

func TestApplyExternalCommitmentClampsToHeadroom(t *testing.T) {
	svc, repo, campaign, _ := setupService(t)
	ctx := context.Background()

	campaign.CurrentCommitted = 990 // headroom 10

	applied, err := svc.ApplyExternalCommitment(ctx, campaign.ID, 25)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied != 10 {
		t.Fatalf("expected clamp to 10, got %d", applied)
	}
	if campaign.CurrentCommitted != 1000 {
		t.Fatalf("expected committed 1000, got %d", campaign.CurrentCommitted)
	}

	// full campaign absorbs nothing
	applied, err = svc.ApplyExternalCommitment(ctx, campaign.ID, 5)
	if err != nil {
		t.Fatalf("apply on full: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected no-op on full campaign, got %d", applied)
	}

	rows := repo.participants[campaign.ID]
	if len(rows) != 1 || rows[0].VendorName != feedVendorName {
		t.Fatalf("expected one feed-attributed row, got %+v", rows)
	}
}

func TestProgressMonotonicAndCapped(t *testing.T) {
	campaign := basmatiCampaign(time.Now().Add(time.Hour))

	prev := 0.0
	for _, committed := range []int{0, 100, 250, 499, 500, 750, 1000} {
		campaign.CurrentCommitted = committed
		got := Progress(campaign)
		if got < prev {
			t.Fatalf("progress regressed at committed=%d: %v < %v", committed, got, prev)
		}
		if got > 100 {
			t.Fatalf("progress exceeded cap at committed=%d: %v", committed, got)
		}
		prev = got
	}
	campaign.CurrentCommitted = 500
	if got := Progress(campaign); got != 100.0 {
		t.Fatalf("expected 100 at minimum, got %v", got)
	}
}

func TestSavingsForQuantity(t *testing.T) {
	campaign := basmatiCampaign(time.Now().Add(time.Hour))
	if got := SavingsForQuantity(campaign, 100); got != 550000 {
		t.Fatalf("expected 550000, got %d", got)
	}
	if got := SavingsForQuantity(campaign, 0); got != 0 {
		t.Fatalf("expected 0 for zero quantity, got %d", got)
	}
}

func TestIsDeadlineSoon(t *testing.T) {
	now := time.Now()
	campaign := basmatiCampaign(now.Add(12 * time.Hour))
	if !IsDeadlineSoon(campaign, now) {
		t.Fatal("expected deadline within 24h to be soon")
	}
	campaign.Deadline = now.Add(48 * time.Hour)
	if IsDeadlineSoon(campaign, now) {
		t.Fatal("48h out should not be soon")
	}
	campaign.Deadline = now.Add(-time.Hour)
	if IsDeadlineSoon(campaign, now) {
		t.Fatal("a passed deadline is not soon")
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()
	wholesalerID := uuid.New()

	base := CreateCampaignRequest{
		Name:                "Kerala Spices Mix",
		Category:            "spices",
		Unit:                "kg",
		WholesalePriceCents: 28000,
		RetailPriceCents:    42000,
		MinimumOrder:        300,
		MaxCapacity:         500,
		Deadline:            time.Now().Add(7 * 24 * time.Hour),
	}

	if _, err := svc.CreateCampaign(ctx, wholesalerID, base); err != nil {
		t.Fatalf("valid campaign rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateCampaignRequest)
	}{
		{"bad category", func(r *CreateCampaignRequest) { r.Category = "gadgets" }},
		{"retail below wholesale", func(r *CreateCampaignRequest) { r.RetailPriceCents = 20000 }},
		{"zero minimum", func(r *CreateCampaignRequest) { r.MinimumOrder = 0 }},
		{"capacity below minimum", func(r *CreateCampaignRequest) { r.MaxCapacity = 100 }},
		{"past deadline", func(r *CreateCampaignRequest) { r.Deadline = time.Now().Add(-time.Hour) }},
	}
	for _, tc := range cases {
		req := base
		tc.mutate(&req)
		_, err := svc.CreateCampaign(ctx, wholesalerID, req)
		if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestListCampaignsPaginates(t *testing.T) {
	svc, repo, _, _ := setupService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		c := basmatiCampaign(time.Now().Add(72 * time.Hour))
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		repo.campaigns[c.ID] = c
	}

	first, err := svc.ListCampaigns(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Campaigns) != 2 {
		t.Fatalf("expected 2 campaigns on first page, got %d", len(first.Campaigns))
	}
	if first.NextCursor == "" {
		t.Fatalf("expected next cursor on first page")
	}

	second, err := svc.ListCampaigns(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Campaigns) != 2 {
		t.Fatalf("expected 2 campaigns on second page, got %d", len(second.Campaigns))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor after final page, got %q", second.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, c := range append(first.Campaigns, second.Campaigns...) {
		if seen[c.ID] {
			t.Fatalf("campaign %s returned twice across pages", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestListCampaignsRejectsBadCursor(t *testing.T) {
	svc, _, _, _ := setupService(t)
	_, err := svc.ListCampaigns(context.Background(), pagination.Params{Cursor: "not-base64!!"})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}
