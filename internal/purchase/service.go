package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/selection"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
	"github.com/dromero/devicestore-backend/pkg/logger"
	"github.com/dromero/devicestore-backend/pkg/metrics"
)

type deviceLoader interface {
	GetDevice(ctx context.Context, deviceID int64) (*catalog.AggregatedDevice, error)
}

type selectionStore interface {
	Get(ctx context.Context, sessionID string) (selection.State, error)
	Clear(ctx context.Context, sessionID string) error
}

type submitLock interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SubmitLockKey(sessionID string) string
}

// Receipt is returned to the caller after a successful submission.
type Receipt struct {
	Record  Record `json:"record"`
	Message string `json:"message,omitempty"`
}

// Service assembles and submits purchases.
type Service interface {
	Submit(ctx context.Context, sessionID string, deviceID int64, confirmedTotal decimal.Decimal) (*Receipt, error)
}

type service struct {
	devices   deviceLoader
	selection selectionStore
	submitter Submitter
	lock      submitLock
	lockTTL   time.Duration
	metrics   *metrics.StorefrontMetrics
	logger    *logger.Logger
	now       func() time.Time
}

// ServiceParams collects the collaborators the purchase service needs.
type ServiceParams struct {
	Devices   deviceLoader
	Selection selectionStore
	Submitter Submitter
	Lock      submitLock
	LockTTL   time.Duration
	Metrics   *metrics.StorefrontMetrics
	Logger    *logger.Logger
}

// NewService builds the purchase service.
func NewService(params ServiceParams) (Service, error) {
	if params.Devices == nil {
		return nil, fmt.Errorf("device loader required")
	}
	if params.Selection == nil {
		return nil, fmt.Errorf("selection store required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("submit lock required")
	}
	if params.LockTTL <= 0 {
		params.LockTTL = 30 * time.Second
	}
	return &service{
		devices:   params.Devices,
		selection: params.Selection,
		submitter: params.Submitter,
		lock:      params.Lock,
		lockTTL:   params.LockTTL,
		metrics:   params.Metrics,
		logger:    params.Logger,
		now:       time.Now,
	}, nil
}

// Submit assembles the purchase record for the session's current selection
// and posts it to the sales service. At most one submission may be in flight
// per session; the record is fully assembled before any network call. On
// success the session's selection state is discarded; on failure it is
// preserved so the user can retry without re-entering choices.
func (s *service) Submit(ctx context.Context, sessionID string, deviceID int64, confirmedTotal decimal.Decimal) (*Receipt, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if deviceID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}

	lockKey := s.lock.SubmitLockKey(sessionID)
	acquired, err := s.lock.SetNX(ctx, lockKey, uuid.NewString(), s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeSubmissionInFlight, "a submission is already in progress for this session")
	}
	defer func() {
		if err := s.lock.Del(context.WithoutCancel(ctx), lockKey); err != nil && s.logger != nil {
			s.logger.Error(ctx, "release submit lock", err)
		}
	}()

	device, err := s.devices.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	state, err := s.selection.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	record, err := Assemble(*device, state, confirmedTotal, s.now())
	if err != nil {
		return nil, err
	}

	result, err := s.submitter.SubmitSale(ctx, *record)
	if err != nil {
		s.metrics.IncSubmitFailure(device.Device.Name)
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "submit sale")
	}
	if !result.Success {
		s.metrics.IncSubmitFailure(device.Device.Name)
		message := result.Message
		if message == "" {
			message = "sale rejected by the sales service"
		}
		return nil, pkgerrors.New(pkgerrors.CodeSubmission, message)
	}

	s.metrics.IncSubmitSuccess(device.Device.Name)

	if err := s.selection.Clear(context.WithoutCancel(ctx), sessionID); err != nil && s.logger != nil {
		s.logger.Error(ctx, "clear selection after purchase", err)
	}

	return &Receipt{Record: *record, Message: result.Message}, nil
}
