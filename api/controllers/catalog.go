package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dromero/devicestore-backend/api/responses"
	"github.com/dromero/devicestore-backend/internal/catalog"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
	"github.com/dromero/devicestore-backend/pkg/logger"
)

// DeviceList returns every device with its customization groups, add-ons, and
// features joined in.
func DeviceList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		devices, err := svc.ListDevices(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, devices)
	}
}

// DeviceDetail returns one aggregated device by id.
func DeviceDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		deviceID, err := parseDeviceID(chi.URLParam(r, "deviceId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, deviceID)
		}

		device, err := svc.GetDevice(ctx, deviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, device)
	}
}

func parseDeviceID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "device id must be a positive integer")
	}
	return id, nil
}
