package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

// Source is the remote catalog-fetch collaborator. Each method returns one of
// the five source collections.
type Source interface {
	FetchDevices(ctx context.Context) ([]Device, error)
	FetchCustomizationGroups(ctx context.Context) ([]CustomizationGroup, error)
	FetchOptions(ctx context.Context) ([]Option, error)
	FetchAddOns(ctx context.Context) ([]AddOn, error)
	FetchFeatures(ctx context.Context) ([]Feature, error)
}

// Service exposes the aggregated catalog.
type Service interface {
	ListDevices(ctx context.Context) ([]AggregatedDevice, error)
	GetDevice(ctx context.Context, deviceID int64) (*AggregatedDevice, error)
}

type service struct {
	source Source
}

// NewService builds a catalog service backed by the provided source.
func NewService(source Source) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &service{source: source}, nil
}

// ListDevices fetches the five collections concurrently and joins them. The
// join is all-or-nothing: any single fetch failure fails the whole
// aggregation rather than producing a partial view.
func (s *service) ListDevices(ctx context.Context) ([]AggregatedDevice, error) {
	var snapshot Snapshot

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		devices, err := s.source.FetchDevices(groupCtx)
		if err != nil {
			return fmt.Errorf("fetch devices: %w", err)
		}
		snapshot.Devices = devices
		return nil
	})
	group.Go(func() error {
		groups, err := s.source.FetchCustomizationGroups(groupCtx)
		if err != nil {
			return fmt.Errorf("fetch customization groups: %w", err)
		}
		snapshot.Groups = groups
		return nil
	})
	group.Go(func() error {
		options, err := s.source.FetchOptions(groupCtx)
		if err != nil {
			return fmt.Errorf("fetch options: %w", err)
		}
		snapshot.Options = options
		return nil
	})
	group.Go(func() error {
		addOns, err := s.source.FetchAddOns(groupCtx)
		if err != nil {
			return fmt.Errorf("fetch add-ons: %w", err)
		}
		snapshot.AddOns = addOns
		return nil
	})
	group.Go(func() error {
		features, err := s.source.FetchFeatures(groupCtx)
		if err != nil {
			return fmt.Errorf("fetch features: %w", err)
		}
		snapshot.Features = features
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAggregation, err, "aggregate catalog")
	}

	return Aggregate(snapshot), nil
}

// GetDevice returns the aggregated view for a single device.
func (s *service) GetDevice(ctx context.Context, deviceID int64) (*AggregatedDevice, error) {
	devices, err := s.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].Device.ID == deviceID {
			return &devices[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
}
