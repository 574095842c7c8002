package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/internal/catalog"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

type failingStore struct {
	loadErr   error
	saveErr   error
	deleteErr error
}

func (f *failingStore) Load(ctx context.Context, sessionID string) (State, error) {
	if f.loadErr != nil {
		return State{}, f.loadErr
	}
	return NewState(), nil
}

func (f *failingStore) Save(ctx context.Context, sessionID string, state State) error {
	return f.saveErr
}

func (f *failingStore) Delete(ctx context.Context, sessionID string) error {
	return f.deleteErr
}

func TestNewServiceRequiresStore(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestGetUnknownSessionIsEmpty(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	state, err := svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(state.Options) != 0 || len(state.AddOns) != 0 {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestSelectOptionPersists(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	option := catalog.Option{ID: 101, Name: "Blue", AdditionalPrice: decimal.NewFromInt(20)}
	if _, err := svc.SelectOption(ctx, "s1", "Color", option); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}

	state, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Options["Color"].ID != 101 {
		t.Fatalf("expected option 101, got %+v", state.Options["Color"])
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.SetAddOn(ctx, "s1", 200, true); err != nil {
		t.Fatalf("SetAddOn: %v", err)
	}

	other, err := svc.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(other.AddOns) != 0 {
		t.Fatalf("session s2 must not see s1 state: %+v", other.AddOns)
	}
}

func TestToggleAddOnRoundTrip(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	state, err := svc.ToggleAddOn(ctx, "s1", 200)
	if err != nil {
		t.Fatalf("ToggleAddOn: %v", err)
	}
	if !state.AddOns[200] {
		t.Fatal("expected add-on on after first toggle")
	}

	state, err = svc.ToggleAddOn(ctx, "s1", 200)
	if err != nil {
		t.Fatalf("ToggleAddOn: %v", err)
	}
	if state.AddOns[200] {
		t.Fatal("expected add-on off after second toggle")
	}
}

func TestClearResetsSession(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.SetAddOn(ctx, "s1", 200, true); err != nil {
		t.Fatalf("SetAddOn: %v", err)
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	state, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(state.AddOns) != 0 {
		t.Fatalf("expected cleared state, got %+v", state.AddOns)
	}
}

func TestValidationErrors(t *testing.T) {
	svc, err := NewService(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	checks := []error{}
	_, err = svc.Get(ctx, "")
	checks = append(checks, err)
	_, err = svc.SelectOption(ctx, "", "Color", catalog.Option{})
	checks = append(checks, err)
	_, err = svc.SelectOption(ctx, "s1", "", catalog.Option{})
	checks = append(checks, err)
	_, err = svc.SetAddOn(ctx, "", 200, true)
	checks = append(checks, err)
	_, err = svc.ToggleAddOn(ctx, "", 200)
	checks = append(checks, err)
	checks = append(checks, svc.Clear(ctx, ""))

	for i, err := range checks {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("check %d: expected validation code, got %v", i, err)
		}
	}
}

func TestStoreFailuresMapToDependencyErrors(t *testing.T) {
	boom := errors.New("redis down")
	ctx := context.Background()

	svc, err := NewService(&failingStore{loadErr: boom})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.Get(ctx, "s1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code on load failure, got %v", err)
	}

	svc, err = NewService(&failingStore{saveErr: boom})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.SetAddOn(ctx, "s1", 200, true)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code on save failure, got %v", err)
	}

	svc, err = NewService(&failingStore{deleteErr: boom})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	err = svc.Clear(ctx, "s1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code on delete failure, got %v", err)
	}
}
