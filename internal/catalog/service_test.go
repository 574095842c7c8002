package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

type stubSource struct {
	snapshot    Snapshot
	devicesErr  error
	groupsErr   error
	optionsErr  error
	addOnsErr   error
	featuresErr error
}

func (s *stubSource) FetchDevices(ctx context.Context) ([]Device, error) {
	return s.snapshot.Devices, s.devicesErr
}

func (s *stubSource) FetchCustomizationGroups(ctx context.Context) ([]CustomizationGroup, error) {
	return s.snapshot.Groups, s.groupsErr
}

func (s *stubSource) FetchOptions(ctx context.Context) ([]Option, error) {
	return s.snapshot.Options, s.optionsErr
}

func (s *stubSource) FetchAddOns(ctx context.Context) ([]AddOn, error) {
	return s.snapshot.AddOns, s.addOnsErr
}

func (s *stubSource) FetchFeatures(ctx context.Context) ([]Feature, error) {
	return s.snapshot.Features, s.featuresErr
}

func TestNewServiceRequiresSource(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestListDevicesAggregates(t *testing.T) {
	svc, err := NewService(&stubSource{snapshot: testSnapshot()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	devices, err := svc.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if len(devices[0].Groups) != 2 {
		t.Fatalf("expected joined groups, got %d", len(devices[0].Groups))
	}
}

func TestListDevicesIsAllOrNothing(t *testing.T) {
	cases := []struct {
		name   string
		source *stubSource
	}{
		{"devices fail", &stubSource{snapshot: testSnapshot(), devicesErr: errors.New("boom")}},
		{"groups fail", &stubSource{snapshot: testSnapshot(), groupsErr: errors.New("boom")}},
		{"options fail", &stubSource{snapshot: testSnapshot(), optionsErr: errors.New("boom")}},
		{"add-ons fail", &stubSource{snapshot: testSnapshot(), addOnsErr: errors.New("boom")}},
		{"features fail", &stubSource{snapshot: testSnapshot(), featuresErr: errors.New("boom")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(tc.source)
			if err != nil {
				t.Fatalf("NewService: %v", err)
			}

			devices, err := svc.ListDevices(context.Background())
			if err == nil {
				t.Fatal("expected aggregation failure")
			}
			if devices != nil {
				t.Fatal("partial aggregation must not be returned")
			}

			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeAggregation {
				t.Fatalf("expected aggregation code, got %v", err)
			}
		})
	}
}

func TestGetDevice(t *testing.T) {
	svc, err := NewService(&stubSource{snapshot: testSnapshot()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	device, err := svc.GetDevice(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}
	if device.Device.Name != "Phone Y" {
		t.Fatalf("unexpected device %+v", device.Device)
	}
	if !device.Device.BasePrice.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected base price %s", device.Device.BasePrice)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	svc, err := NewService(&stubSource{snapshot: testSnapshot()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.GetDevice(context.Background(), 999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}
