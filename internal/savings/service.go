package savings

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vendygo/vendygo-backend/pkg/errors"
)

// EstimateRequest holds a vendor's monthly buying pattern for one product.
type EstimateRequest struct {
	MonthlyQuantity     int    `json:"monthly_quantity" validate:"required,gt=0"`
	Unit                string `json:"unit"`
	RetailPriceCents    int64  `json:"retail_price_cents" validate:"required,gt=0"`
	WholesalePriceCents int64  `json:"wholesale_price_cents" validate:"required,gt=0"`
}

// EstimateResponse compares retail spend against co-op spend.
type EstimateResponse struct {
	MonthlyRetailCostCents int64   `json:"monthly_retail_cost_cents"`
	MonthlyCoopCostCents   int64   `json:"monthly_coop_cost_cents"`
	MonthlySavingsCents    int64   `json:"monthly_savings_cents"`
	SavingsPercent         float64 `json:"savings_percent"`
	AnnualSavingsCents     int64   `json:"annual_savings_cents"`
}

// Service estimates co-op savings. Stateless.
type Service interface {
	Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error)
}

type service struct{}

// NewService constructs the savings calculator.
func NewService() Service {
	return &service{}
}

func (s *service) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	if req.MonthlyQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "monthly quantity must be greater than zero")
	}
	if req.RetailPriceCents <= 0 || req.WholesalePriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be greater than zero")
	}
	if req.RetailPriceCents <= req.WholesalePriceCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price must exceed wholesale price")
	}

	qty := decimal.NewFromInt(int64(req.MonthlyQuantity))
	retailCost := qty.Mul(decimal.NewFromInt(req.RetailPriceCents))
	coopCost := qty.Mul(decimal.NewFromInt(req.WholesalePriceCents))
	monthly := retailCost.Sub(coopCost)

	percent, _ := monthly.
		Div(retailCost).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		Float64()

	return &EstimateResponse{
		MonthlyRetailCostCents: retailCost.IntPart(),
		MonthlyCoopCostCents:   coopCost.IntPart(),
		MonthlySavingsCents:    monthly.IntPart(),
		SavingsPercent:         percent,
		AnnualSavingsCents:     monthly.Mul(decimal.NewFromInt(12)).IntPart(),
	}, nil
}
