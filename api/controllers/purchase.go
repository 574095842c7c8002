package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/api/responses"
	"github.com/dromero/devicestore-backend/api/validators"
	"github.com/dromero/devicestore-backend/internal/purchase"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
	"github.com/dromero/devicestore-backend/pkg/logger"
)

type submitPurchasePayload struct {
	DeviceID       int64           `json:"device_id" validate:"required,gt=0"`
	ConfirmedTotal decimal.Decimal `json:"confirmed_total" validate:"required"`
}

// PurchaseSubmit assembles and submits the session's configuration.
// ConfirmedTotal is the total the client showed the user at confirmation;
// the submission is refused if the selection prices differently now.
func PurchaseSubmit(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))

		var payload submitPurchasePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, payload.DeviceID)
		}

		receipt, err := svc.Submit(ctx, sessionID, payload.DeviceID, payload.ConfirmedTotal)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
