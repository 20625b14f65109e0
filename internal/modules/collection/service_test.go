package collection

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	collections map[string]*Collection
	settled     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{collections: map[string]*Collection{}}
}

func (f *fakeRepo) CreateCollection(_ context.Context, c *Collection) error {
	c.CreatedAt = time.Now()
	f.collections[c.ID.String()] = c
	return nil
}

func (f *fakeRepo) GetCollectionByID(_ context.Context, id string) (*Collection, error) {
	c, ok := f.collections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeRepo) ListCollections(_ context.Context, collectionType, status, orderID string) ([]*Collection, error) {
	var out []*Collection
	for _, c := range f.collections {
		if collectionType != "" && string(c.Type) != collectionType {
			continue
		}
		if status != "" && string(c.Status) != status {
			continue
		}
		if orderID != "" && (c.OrderID == nil || c.OrderID.String() != orderID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) Complete(_ context.Context, c *Collection) error {
	now := time.Now()
	c.Status = StatusComplete
	c.CompletedAt = &now
	if c.Type == TypeCredit {
		f.settled = append(f.settled, c.ID.String())
	}
	return nil
}

func TestCreateCollectionNeedsOrderOrCustomer(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.CreateCollection(context.Background(), CreateCollectionRequest{
		Type:   "CREDIT",
		Amount: decimal.NewFromInt(500),
	})
	if err == nil {
		t.Fatal("expected collection without order or customer to be rejected")
	}
}

func TestCreateCollectionRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.CreateCollection(context.Background(), CreateCollectionRequest{
		Type:       "CHEQUE",
		CustomerID: uuid.NewString(),
		Amount:     decimal.NewFromInt(-100),
	})
	if err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}

func TestCompleteCreditCollectionSettlesOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.CreateCollection(context.Background(), CreateCollectionRequest{
		Type:       "CREDIT",
		OrderID:    uuid.NewString(),
		CustomerID: uuid.NewString(),
		Amount:     decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", created.Status)
	}

	done, err := svc.CompleteCollection(context.Background(), created.ID.String())
	if err != nil {
		t.Fatalf("CompleteCollection: %v", err)
	}
	if done.Status != StatusComplete {
		t.Errorf("status = %s, want COMPLETE", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if len(repo.settled) != 1 {
		t.Fatalf("settlements = %d, want 1", len(repo.settled))
	}

	if _, err := svc.CompleteCollection(context.Background(), created.ID.String()); err == nil {
		t.Fatal("expected second completion to be rejected")
	}
	if len(repo.settled) != 1 {
		t.Errorf("settlements after retry = %d, want 1", len(repo.settled))
	}
}

func TestListCollectionsFiltersByOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	orderID := uuid.NewString()

	for _, oid := range []string{orderID, uuid.NewString()} {
		if _, err := svc.CreateCollection(context.Background(), CreateCollectionRequest{
			Type:    "CHEQUE",
			OrderID: oid,
			Amount:  decimal.NewFromInt(300),
		}); err != nil {
			t.Fatalf("CreateCollection: %v", err)
		}
	}

	got, err := svc.ListCollections(context.Background(), "", "", orderID)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("collections = %d, want 1", len(got))
	}
	if got[0].OrderID.String() != orderID {
		t.Errorf("order_id = %s, want %s", got[0].OrderID, orderID)
	}
}
