// Package leads implements the lead registry: durable capture and
// lifecycle management of prospect inquiries.
package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithRelayFailureObserver registers a callback invoked whenever the relay
// attempt for a captured lead fails. Capture still succeeds in that case;
// the callback exists so callers and tests can observe the failure.
func WithRelayFailureObserver(fn func(leadID string, err error)) Option {
	return func(r *Registry) {
		r.onRelayFailure = fn
	}
}

// Registry stores leads most-recent-first and persists the full list on
// every mutation. All mutations are serialized by a single mutex, and the
// snapshot write happens inside the critical section, so no two writers can
// interleave a read-modify-write and lose an update.
type Registry struct {
	store          ledger.SnapshotStore
	notifier       ledger.Notifier
	log            *zap.SugaredLogger
	onRelayFailure func(leadID string, err error)

	mu    sync.Mutex
	leads []ledger.Lead
}

// NewRegistry loads the persisted lead list. A missing or unparsable
// snapshot is not an error; the registry starts empty.
func NewRegistry(ctx context.Context, store ledger.SnapshotStore, notifier ledger.Notifier, log *zap.SugaredLogger, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		notifier: notifier,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}

	raw, err := store.Load(ctx, ledger.SlotLeads)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, &r.leads); jerr != nil {
			log.Warnw("leads: unparsable snapshot, starting empty", "error", jerr.Error())
			r.leads = nil
		}
	case errors.Is(err, ledger.ErrSnapshotNotFound):
		// First run.
	default:
		log.Warnw("leads: snapshot load failed, starting empty", "error", err.Error())
	}

	return r
}

// Capture stores a new lead and then attempts the relay notification. The
// returned error reflects durability only: the lead is persisted before the
// relay is attempted, and a relay failure is logged and swallowed.
func (r *Registry) Capture(ctx context.Context, source, packageViewing string, data ledger.LeadData) (ledger.Lead, error) {
	lead := ledger.Lead{
		ID:             uuid.NewString(),
		Source:         source,
		Timestamp:      time.Now().UTC(),
		Status:         ledger.StatusNew,
		PackageViewing: packageViewing,
		Data:           data,
	}

	r.mu.Lock()
	r.leads = append([]ledger.Lead{lead}, r.leads...)
	if err := r.persistLocked(ctx); err != nil {
		// Keep memory consistent with the durable slot.
		r.leads = r.leads[1:]
		r.mu.Unlock()
		return ledger.Lead{}, fmt.Errorf("persisting lead: %w", err)
	}
	r.mu.Unlock()

	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, lead); err != nil {
			r.log.Errorw("leads: relay failed", "lead_id", lead.ID, "source", lead.Source, "error", err.Error())
			if r.onRelayFailure != nil {
				r.onRelayFailure(lead.ID, err)
			}
		}
	}

	return lead, nil
}

// All returns every lead, most recent first.
func (r *Registry) All() []ledger.Lead {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ledger.Lead, len(r.leads))
	copy(out, r.leads)
	return out
}

// UpdateStatus moves a lead to a new lifecycle state. An unknown id is a
// no-op, not an error.
func (r *Registry) UpdateStatus(ctx context.Context, id string, status ledger.LeadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads[i].Status = status
			return r.persistLocked(ctx)
		}
	}

	return nil
}

// Delete removes a lead permanently. An unknown id is a no-op.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return r.persistLocked(ctx)
		}
	}

	return nil
}

func (r *Registry) persistLocked(ctx context.Context) error {
	body, err := json.Marshal(r.leads)
	if err != nil {
		return fmt.Errorf("encoding leads: %w", err)
	}
	return r.store.Save(ctx, ledger.SlotLeads, body)
}
