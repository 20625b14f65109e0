package target

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	targets map[string]*Target // keyed by date|driver
	byID    map[string]*Target
	sales   map[string]decimal.Decimal // keyed by date|driver
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		targets: make(map[string]*Target),
		byID:    make(map[string]*Target),
		sales:   make(map[string]decimal.Decimal),
	}
}

func key(date, driverID string) string { return date + "|" + driverID }

func (f *fakeRepo) UpsertTarget(_ context.Context, t *Target) error {
	driverID := ""
	if t.DriverID != nil {
		driverID = t.DriverID.String()
	}
	k := key(t.Date.Format(dateLayout), driverID)
	if existing, ok := f.targets[k]; ok {
		existing.Amount = t.Amount
		return nil
	}
	f.targets[k] = t
	f.byID[t.ID.String()] = t
	return nil
}

func (f *fakeRepo) GetTargetByID(_ context.Context, id string) (*Target, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeRepo) GetTarget(_ context.Context, date, driverID string) (*Target, error) {
	t, ok := f.targets[key(date, driverID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeRepo) ListTargets(_ context.Context, from, to string) ([]*Target, error) {
	var out []*Target
	for _, t := range f.targets {
		d := t.Date.Format(dateLayout)
		if d >= from && d <= to {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) SumSales(_ context.Context, date, driverID string) (decimal.Decimal, error) {
	return f.sales[key(date, driverID)], nil
}

func (f *fakeRepo) DeleteTarget(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func TestSetTargetOverwritesSamePair(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()

	if _, err := svc.SetTarget(context.Background(), UpsertTargetRequest{
		Date:     "2026-08-29",
		DriverID: driver,
		Amount:   decimal.NewFromInt(10000),
	}, ""); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	updated, err := svc.SetTarget(context.Background(), UpsertTargetRequest{
		Date:     "2026-08-29",
		DriverID: driver,
		Amount:   decimal.NewFromInt(15000),
	}, "")
	if err != nil {
		t.Fatalf("SetTarget overwrite: %v", err)
	}
	if len(repo.targets) != 1 {
		t.Errorf("target rows = %d, want 1", len(repo.targets))
	}
	if !updated.Amount.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("amount = %s, want 15000", updated.Amount)
	}
}

func TestSetTargetRejectsNegativeAmount(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.SetTarget(context.Background(), UpsertTargetRequest{
		Date:   "2026-08-29",
		Amount: decimal.NewFromInt(-100),
	}, ""); err == nil {
		t.Fatal("expected error for negative target amount")
	}
}

func TestGetAchievement(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()

	if _, err := svc.SetTarget(context.Background(), UpsertTargetRequest{
		Date:     "2026-08-29",
		DriverID: driver,
		Amount:   decimal.NewFromInt(10000),
	}, ""); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	repo.sales[key("2026-08-29", driver)] = decimal.NewFromInt(7500)

	a, err := svc.GetAchievement(context.Background(), "2026-08-29", driver)
	if err != nil {
		t.Fatalf("GetAchievement: %v", err)
	}
	if !a.Achieved.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("achieved = %s, want 7500", a.Achieved)
	}
	if !a.Percent.Equal(decimal.NewFromInt(75)) {
		t.Errorf("percent = %s, want 75", a.Percent)
	}
}

func TestGetAchievementZeroTarget(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.SetTarget(context.Background(), UpsertTargetRequest{
		Date:   "2026-08-29",
		Amount: decimal.Zero,
	}, ""); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}

	a, err := svc.GetAchievement(context.Background(), "2026-08-29", "")
	if err != nil {
		t.Fatalf("GetAchievement: %v", err)
	}
	if !a.Percent.IsZero() {
		t.Errorf("percent = %s, want 0 for a zero target", a.Percent)
	}
}
