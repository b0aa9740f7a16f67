package controllers

import (
	"net/http"

	"github.com/vendygo/vendygo-backend/api/responses"
	"github.com/vendygo/vendygo-backend/api/validators"
	"github.com/vendygo/vendygo-backend/internal/savings"
	"github.com/vendygo/vendygo-backend/pkg/logger"
)

// SavingsEstimate compares retail spend against co-op spend.
func SavingsEstimate(svc savings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body savings.EstimateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		estimate, err := svc.Estimate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, estimate)
	}
}
