package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dromero/devicestore-backend/api/responses"
	"github.com/dromero/devicestore-backend/api/validators"
	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/pricing"
	"github.com/dromero/devicestore-backend/internal/selection"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
	"github.com/dromero/devicestore-backend/pkg/logger"
	"github.com/dromero/devicestore-backend/pkg/metrics"
)

type selectOptionPayload struct {
	DeviceID  int64  `json:"device_id" validate:"required,gt=0"`
	GroupName string `json:"group_name" validate:"required"`
	OptionID  int64  `json:"option_id" validate:"required,gt=0"`
}

type setAddOnPayload struct {
	DeviceID int64 `json:"device_id" validate:"required,gt=0"`
	// Selected nil means toggle.
	Selected *bool `json:"selected"`
}

type sessionQuoteView struct {
	DeviceID int64           `json:"device_id"`
	State    selection.State `json:"state"`
	Quote    pricing.Quote   `json:"quote"`
}

// SessionSelectOption records the chosen option for one customization group
// and returns the freshly priced configuration. The option must exist on the
// named group of the device; anything stale on the client side surfaces here
// as a validation error.
func SessionSelectOption(catalogSvc catalog.Service, selectionSvc selection.Service, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if catalogSvc == nil || selectionSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session services unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))

		var payload selectOptionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, payload.DeviceID)
		}

		device, err := catalogSvc.GetDevice(ctx, payload.DeviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		group, ok := device.FindGroup(payload.GroupName)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customization group not found on device").WithDetails(map[string]any{
				"group_name": payload.GroupName,
			}))
			return
		}

		var option catalog.Option
		found := false
		for _, candidate := range group.Options {
			if candidate.ID == payload.OptionID {
				option = candidate
				found = true
				break
			}
		}
		if !found {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "option does not belong to the customization group").WithDetails(map[string]any{
				"group_name": payload.GroupName,
				"option_id":  payload.OptionID,
			}))
			return
		}

		state, err := selectionSvc.SelectOption(ctx, sessionID, group.Name, option)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceSession(*device, state, m))
	}
}

// SessionSetAddOn sets or toggles one add-on for the session. A body without
// an explicit "selected" value flips the current toggle.
func SessionSetAddOn(catalogSvc catalog.Service, selectionSvc selection.Service, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if catalogSvc == nil || selectionSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session services unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))

		addOnID, err := parseAddOnID(chi.URLParam(r, "addOnId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setAddOnPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, payload.DeviceID)
		}

		device, err := catalogSvc.GetDevice(ctx, payload.DeviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if _, ok := device.FindAddOn(addOnID); !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "add-on does not belong to the device").WithDetails(map[string]any{
				"add_on_id": addOnID,
			}))
			return
		}

		var state selection.State
		if payload.Selected != nil {
			state, err = selectionSvc.SetAddOn(ctx, sessionID, addOnID, *payload.Selected)
		} else {
			state, err = selectionSvc.ToggleAddOn(ctx, sessionID, addOnID)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceSession(*device, state, m))
	}
}

// SessionQuote reprices the session's current selection against the device.
// Nothing is cached: every call recomputes from the stored state.
func SessionQuote(catalogSvc catalog.Service, selectionSvc selection.Service, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if catalogSvc == nil || selectionSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session services unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))

		deviceID, err := parseDeviceID(r.URL.Query().Get("deviceId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, deviceID)
		}

		device, err := catalogSvc.GetDevice(ctx, deviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := selectionSvc.Get(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceSession(*device, state, m))
	}
}

// SessionClear discards the session's selection state.
func SessionClear(selectionSvc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if selectionSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "selection service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if err := selectionSvc.Clear(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

func priceSession(device catalog.AggregatedDevice, state selection.State, m *metrics.StorefrontMetrics) sessionQuoteView {
	start := time.Now()
	quote := pricing.Compute(device, state.Options, state.SelectedAddOnIDs())
	m.ObserveQuoteDuration(device.Device.Name, time.Since(start))

	return sessionQuoteView{
		DeviceID: device.Device.ID,
		State:    state,
		Quote:    quote,
	}
}

func parseAddOnID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "add-on id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "add-on id must be a positive integer")
	}
	return id, nil
}
