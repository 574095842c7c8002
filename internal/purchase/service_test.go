package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/selection"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

type stubDevices struct {
	device *catalog.AggregatedDevice
	err    error
}

func (s *stubDevices) GetDevice(ctx context.Context, deviceID int64) (*catalog.AggregatedDevice, error) {
	return s.device, s.err
}

type stubSelection struct {
	state    selection.State
	getErr   error
	clearErr error
	cleared  bool
}

func (s *stubSelection) Get(ctx context.Context, sessionID string) (selection.State, error) {
	return s.state, s.getErr
}

func (s *stubSelection) Clear(ctx context.Context, sessionID string) error {
	s.cleared = true
	return s.clearErr
}

type stubSubmitter struct {
	result SubmitResult
	err    error
	calls  int
	record Record
}

func (s *stubSubmitter) SubmitSale(ctx context.Context, record Record) (SubmitResult, error) {
	s.calls++
	s.record = record
	return s.result, s.err
}

type stubLock struct {
	acquired bool
	setErr   error
	released bool
}

func (s *stubLock) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return s.acquired, s.setErr
}

func (s *stubLock) Del(ctx context.Context, keys ...string) error {
	s.released = true
	return nil
}

func (s *stubLock) SubmitLockKey(sessionID string) string {
	return "ds:submit_lock:" + sessionID
}

func newTestService(t *testing.T, devices *stubDevices, sel *stubSelection, sub *stubSubmitter, lock *stubLock) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Devices:   devices,
		Selection: sel,
		Submitter: sub,
		Lock:      lock,
		LockTTL:   30 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func fullSelection(device catalog.AggregatedDevice) selection.State {
	state := selection.NewState()
	state.SelectOption("Color", device.Groups[0].Options[1])
	state.SelectOption("Storage", device.Groups[1].Options[0])
	state.SetAddOn(200, true)
	return state
}

func TestSubmitHappyPath(t *testing.T) {
	device := testDevice()
	devices := &stubDevices{device: &device}
	sel := &stubSelection{state: fullSelection(device)}
	sub := &stubSubmitter{result: SubmitResult{Success: true, Message: "ok"}}
	lock := &stubLock{acquired: true}
	svc := newTestService(t, devices, sel, sub, lock)

	// Base 120, Warranty promoted to free.
	receipt, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if receipt.Message != "ok" {
		t.Fatalf("unexpected message %q", receipt.Message)
	}
	if !receipt.Record.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected total %s", receipt.Record.Total)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one submission, got %d", sub.calls)
	}
	if !sub.record.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("submitted record total %s", sub.record.Total)
	}
	if !sel.cleared {
		t.Fatal("selection must be cleared after a successful submission")
	}
	if !lock.released {
		t.Fatal("submit lock must be released")
	}
}

func TestSubmitInFlightConflict(t *testing.T) {
	device := testDevice()
	sub := &stubSubmitter{}
	svc := newTestService(t, &stubDevices{device: &device}, &stubSelection{state: selection.NewState()}, sub, &stubLock{acquired: false})

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(100))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSubmissionInFlight {
		t.Fatalf("expected in-flight code, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatal("submitter must not be called while another submission is in flight")
	}
}

func TestSubmitLockFailureIsDependencyError(t *testing.T) {
	device := testDevice()
	svc := newTestService(t, &stubDevices{device: &device}, &stubSelection{state: selection.NewState()}, &stubSubmitter{}, &stubLock{setErr: errors.New("redis down")})

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(100))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestSubmitTransportFailurePreservesSelection(t *testing.T) {
	device := testDevice()
	sel := &stubSelection{state: fullSelection(device)}
	sub := &stubSubmitter{err: errors.New("connection refused")}
	lock := &stubLock{acquired: true}
	svc := newTestService(t, &stubDevices{device: &device}, sel, sub, lock)

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(120))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("expected submission code, got %v", err)
	}
	if sel.cleared {
		t.Fatal("selection must survive a failed submission")
	}
	if !lock.released {
		t.Fatal("submit lock must be released after failure")
	}
}

func TestSubmitRejectedVerdict(t *testing.T) {
	device := testDevice()
	sel := &stubSelection{state: fullSelection(device)}
	sub := &stubSubmitter{result: SubmitResult{Success: false, Message: "stock agotado"}}
	svc := newTestService(t, &stubDevices{device: &device}, sel, sub, &stubLock{acquired: true})

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(120))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("expected submission code, got %v", err)
	}
	if typed.Message() != "stock agotado" {
		t.Fatalf("remote message must be preserved, got %q", typed.Message())
	}
	if sel.cleared {
		t.Fatal("selection must survive a rejected submission")
	}
}

func TestSubmitStaleTotalDoesNotReachSubmitter(t *testing.T) {
	device := testDevice()
	sel := &stubSelection{state: fullSelection(device)}
	sub := &stubSubmitter{}
	svc := newTestService(t, &stubDevices{device: &device}, sel, sub, &stubLock{acquired: true})

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(99))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStaleTotal {
		t.Fatalf("expected stale total code, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatal("a stale total must abort before the network call")
	}
}

func TestSubmitDeviceLookupFailure(t *testing.T) {
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
	svc := newTestService(t, &stubDevices{err: notFound}, &stubSelection{state: selection.NewState()}, &stubSubmitter{}, &stubLock{acquired: true})

	_, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(100))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	device := testDevice()
	svc := newTestService(t, &stubDevices{device: &device}, &stubSelection{state: selection.NewState()}, &stubSubmitter{}, &stubLock{acquired: true})

	_, err := svc.Submit(context.Background(), "", 1, decimal.NewFromInt(100))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code for empty session, got %v", err)
	}

	_, err = svc.Submit(context.Background(), "s1", 0, decimal.NewFromInt(100))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code for zero device id, got %v", err)
	}
}

func TestSubmitClearFailureStillSucceeds(t *testing.T) {
	device := testDevice()
	sel := &stubSelection{state: fullSelection(device), clearErr: errors.New("redis down")}
	svc := newTestService(t, &stubDevices{device: &device}, sel, &stubSubmitter{result: SubmitResult{Success: true}}, &stubLock{acquired: true})

	receipt, err := svc.Submit(context.Background(), "s1", 1, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("a failed cleanup must not fail the purchase: %v", err)
	}
	if receipt == nil {
		t.Fatal("expected a receipt")
	}
}
