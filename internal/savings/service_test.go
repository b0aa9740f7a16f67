package savings

import (
	"context"
	"testing"

	pkgerrors "github.com/vendygo/vendygo-backend/pkg/errors"
)

func TestEstimate(t *testing.T) {
	svc := NewService()

	// 100 kg/month, retail 140.00, wholesale 85.00
	resp, err := svc.Estimate(context.Background(), EstimateRequest{
		MonthlyQuantity:     100,
		Unit:                "kg",
		RetailPriceCents:    14000,
		WholesalePriceCents: 8500,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	if resp.MonthlyRetailCostCents != 1400000 {
		t.Fatalf("expected retail cost 1400000, got %d", resp.MonthlyRetailCostCents)
	}
	if resp.MonthlyCoopCostCents != 850000 {
		t.Fatalf("expected coop cost 850000, got %d", resp.MonthlyCoopCostCents)
	}
	if resp.MonthlySavingsCents != 550000 {
		t.Fatalf("expected monthly savings 550000, got %d", resp.MonthlySavingsCents)
	}
	if resp.SavingsPercent != 39.3 {
		t.Fatalf("expected savings percent 39.3, got %v", resp.SavingsPercent)
	}
	if resp.AnnualSavingsCents != 6600000 {
		t.Fatalf("expected annual savings 6600000, got %d", resp.AnnualSavingsCents)
	}
}

func TestEstimateValidation(t *testing.T) {
	svc := NewService()

	cases := []struct {
		name string
		req  EstimateRequest
	}{
		{"zero quantity", EstimateRequest{MonthlyQuantity: 0, RetailPriceCents: 100, WholesalePriceCents: 50}},
		{"negative quantity", EstimateRequest{MonthlyQuantity: -5, RetailPriceCents: 100, WholesalePriceCents: 50}},
		{"zero retail", EstimateRequest{MonthlyQuantity: 10, RetailPriceCents: 0, WholesalePriceCents: 50}},
		{"zero wholesale", EstimateRequest{MonthlyQuantity: 10, RetailPriceCents: 100, WholesalePriceCents: 0}},
		{"retail below wholesale", EstimateRequest{MonthlyQuantity: 10, RetailPriceCents: 40, WholesalePriceCents: 50}},
		{"retail equals wholesale", EstimateRequest{MonthlyQuantity: 10, RetailPriceCents: 50, WholesalePriceCents: 50}},
	}
	for _, tc := range cases {
		_, err := svc.Estimate(context.Background(), tc.req)
		if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
