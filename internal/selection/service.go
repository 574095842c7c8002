package selection

import (
	"context"
	"fmt"

	"github.com/dromero/devicestore-backend/internal/catalog"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

// Service mutates and reads per-session selection state. Each session is
// owned by a single interaction at a time, so operations are plain
// load-modify-save without cross-session coordination.
type Service interface {
	Get(ctx context.Context, sessionID string) (State, error)
	SelectOption(ctx context.Context, sessionID, groupName string, option catalog.Option) (State, error)
	SetAddOn(ctx context.Context, sessionID string, addOnID int64, selected bool) (State, error)
	ToggleAddOn(ctx context.Context, sessionID string, addOnID int64) (State, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store Store
}

// NewService builds a selection service backed by the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("selection store required")
	}
	return &service{store: store}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	return state, nil
}

func (s *service) SelectOption(ctx context.Context, sessionID, groupName string, option catalog.Option) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if groupName == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	state.SelectOption(groupName, option)
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save selection")
	}
	return state, nil
}

func (s *service) SetAddOn(ctx context.Context, sessionID string, addOnID int64, selected bool) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	state.SetAddOn(addOnID, selected)
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save selection")
	}
	return state, nil
}

func (s *service) ToggleAddOn(ctx context.Context, sessionID string, addOnID int64) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	state.ToggleAddOn(addOnID)
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save selection")
	}
	return state, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selection")
	}
	return nil
}
