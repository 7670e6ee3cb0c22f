package leads

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
	"github.com/pearltrails/engagement-ledger/snapshot"
)

type stubNotifier struct {
	err   error
	calls int
}

func (n *stubNotifier) Notify(ctx context.Context, lead ledger.Lead) error {
	n.calls++
	return n.err
}

type failingStore struct {
	inner   ledger.SnapshotStore
	saveErr error
}

func (f *failingStore) Load(ctx context.Context, slot string) ([]byte, error) {
	return f.inner.Load(ctx, slot)
}

func (f *failingStore) Save(ctx context.Context, slot string, body []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(ctx, slot, body)
}

func testLog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestCaptureSurvivesRelayFailure(t *testing.T) {
	ctx := context.Background()
	notifier := &stubNotifier{err: errors.New("relay down")}

	var failedID string
	r := NewRegistry(ctx, snapshot.NewMemory(), notifier, testLog(),
		WithRelayFailureObserver(func(leadID string, err error) {
			failedID = leadID
		}))

	lead, err := r.Capture(ctx, ledger.SourceInquiryForm, "Gorilla Trek", ledger.LeadData{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("capture failed despite relay being best-effort: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one relay attempt, got %d", notifier.calls)
	}
	if failedID != lead.ID {
		t.Fatalf("relay failure observer got lead %q, want %q", failedID, lead.ID)
	}

	all := r.All()
	if len(all) != 1 {
		t.Fatalf("expected one stored lead, got %d", len(all))
	}
	got := all[0]
	if got.ID != lead.ID || got.Status != ledger.StatusNew || got.Timestamp.IsZero() {
		t.Fatalf("stored lead is incomplete: %+v", got)
	}
}

func TestCapturePersistsBeforeNotify(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()

	var persistedAtNotify bool
	r := NewRegistry(ctx, store, nil, testLog())
	r.notifier = notifierFunc(func(ctx context.Context, lead ledger.Lead) error {
		_, err := store.Load(ctx, ledger.SlotLeads)
		persistedAtNotify = err == nil
		return nil
	})

	if _, err := r.Capture(ctx, ledger.SourceTourBooking, "", ledger.LeadData{}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !persistedAtNotify {
		t.Fatal("lead was not durable when the relay was attempted")
	}
}

type notifierFunc func(ctx context.Context, lead ledger.Lead) error

func (f notifierFunc) Notify(ctx context.Context, lead ledger.Lead) error { return f(ctx, lead) }

func TestCaptureAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, snapshot.NewMemory(), nil, testLog())

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		lead, err := r.Capture(ctx, ledger.SourceServiceInquiry, "", ledger.LeadData{})
		if err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
		if seen[lead.ID] {
			t.Fatalf("duplicate lead id %q", lead.ID)
		}
		seen[lead.ID] = true
	}
}

func TestCaptureOrdersMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, snapshot.NewMemory(), nil, testLog())

	first, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})
	second, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatal("leads are not ordered most-recent-first")
	}
}

func TestUpdateStatusUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, snapshot.NewMemory(), nil, testLog())

	lead, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})

	if err := r.UpdateStatus(ctx, "nonexistent-id", ledger.StatusBooked); err != nil {
		t.Fatalf("unknown id should be a no-op, got: %v", err)
	}

	all := r.All()
	if len(all) != 1 || all[0].ID != lead.ID || all[0].Status != ledger.StatusNew {
		t.Fatalf("no-op update altered the registry: %+v", all)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, snapshot.NewMemory(), nil, testLog())

	lead, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})

	err := r.UpdateStatus(ctx, lead.ID, ledger.LeadStatus("archived"))
	if !errors.Is(err, ledger.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestLeadLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, snapshot.NewMemory(), nil, testLog())

	lead, err := r.Capture(ctx, "inquiry_modal", "Gorilla Trek", ledger.LeadData{
		FullName: "A. Bennett",
		Email:    "a@x.com",
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	if got := r.All()[0].Status; got != ledger.StatusNew {
		t.Fatalf("fresh lead status = %q, want %q", got, ledger.StatusNew)
	}

	if err := r.UpdateStatus(ctx, lead.ID, ledger.StatusBooked); err != nil {
		t.Fatalf("update status: %v", err)
	}

	all := r.All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one lead after update, got %d", len(all))
	}
	if all[0].Status != ledger.StatusBooked {
		t.Fatalf("status = %q, want %q", all[0].Status, ledger.StatusBooked)
	}
	if all[0].ID != lead.ID || !all[0].Timestamp.Equal(lead.Timestamp) {
		t.Fatal("id or timestamp changed during status update")
	}
}

func TestDeleteRemovesPermanently(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	r := NewRegistry(ctx, store, nil, testLog())

	keep, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})
	drop, _ := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{})

	if err := r.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, "nonexistent-id"); err != nil {
		t.Fatalf("unknown id should be a no-op, got: %v", err)
	}

	// Deletion must survive reconstruction.
	reloaded := NewRegistry(ctx, store, nil, testLog())
	all := reloaded.All()
	if len(all) != 1 || all[0].ID != keep.ID {
		t.Fatalf("expected only lead %q after reload, got %+v", keep.ID, all)
	}
}

func TestRoundTripReconstruction(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	r := NewRegistry(ctx, store, nil, testLog())

	a, _ := r.Capture(ctx, ledger.SourceInquiryForm, "Gorilla Trek", ledger.LeadData{Email: "a@x.com"})
	b, _ := r.Capture(ctx, ledger.SourceTourBooking, "", ledger.LeadData{FullName: "B"})
	if err := r.UpdateStatus(ctx, a.ID, ledger.StatusContacted); err != nil {
		t.Fatalf("update status: %v", err)
	}

	before := r.All()
	after := NewRegistry(ctx, store, nil, testLog()).All()

	if len(before) != len(after) {
		t.Fatalf("lead count changed across reconstruction: %d != %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Status != after[i].Status ||
			!before[i].Timestamp.Equal(after[i].Timestamp) || !reflect.DeepEqual(before[i].Data, after[i].Data) {
			t.Fatalf("lead %d differs after reconstruction:\n%+v\n%+v", i, before[i], after[i])
		}
	}
	if after[0].ID != b.ID {
		t.Fatal("ordering lost across reconstruction")
	}
}

func TestCaptureSurfacesPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	notifier := &stubNotifier{}
	store := &failingStore{inner: snapshot.NewMemory(), saveErr: errors.New("quota exceeded")}
	r := NewRegistry(ctx, store, notifier, testLog())

	if _, err := r.Capture(ctx, ledger.SourceInquiryForm, "", ledger.LeadData{}); err == nil {
		t.Fatal("expected an error when the snapshot write fails")
	}
	if notifier.calls != 0 {
		t.Fatal("relay must not be attempted for a lead that was never durable")
	}
	if len(r.All()) != 0 {
		t.Fatal("a lead that failed to persist must not remain in memory")
	}
}

func TestUnparsableSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	if err := store.Save(ctx, ledger.SlotLeads, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt snapshot: %v", err)
	}

	r := NewRegistry(ctx, store, nil, testLog())
	if got := len(r.All()); got != 0 {
		t.Fatalf("expected empty registry from corrupt snapshot, got %d leads", got)
	}
}
