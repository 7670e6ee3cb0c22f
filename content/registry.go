// Package content implements the lodging content registry.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
)

// Registry is the CRUD store for lodge records. Filtering methods never
// mutate state; all mutation goes through Update and Toggle, and every
// mutation persists the full list before returning.
type Registry struct {
	store ledger.SnapshotStore
	log   *zap.SugaredLogger

	mu     sync.Mutex
	lodges []ledger.Lodge
}

// NewRegistry loads the persisted lodge list. When no snapshot exists, or
// the snapshot is unparsable, the registry seeds the built-in default
// lodges and persists them as the initial state. Seeding never duplicates
// an id already present.
func NewRegistry(ctx context.Context, store ledger.SnapshotStore, log *zap.SugaredLogger) *Registry {
	r := &Registry{
		store: store,
		log:   log,
	}

	raw, err := store.Load(ctx, ledger.SlotLodges)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, &r.lodges); jerr != nil {
			log.Warnw("content: unparsable snapshot, reseeding defaults", "error", jerr.Error())
			r.seed(ctx)
		}
	case errors.Is(err, ledger.ErrSnapshotNotFound):
		r.seed(ctx)
	default:
		log.Warnw("content: snapshot load failed, reseeding defaults", "error", err.Error())
		r.seed(ctx)
	}

	return r
}

func (r *Registry) seed(ctx context.Context) {
	seen := make(map[string]bool, len(r.lodges))
	for _, l := range r.lodges {
		seen[l.ID] = true
	}
	for _, l := range DefaultLodges() {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		r.lodges = append(r.lodges, l)
	}

	if err := r.persistLocked(ctx); err != nil {
		r.log.Warnw("content: persisting seed data failed", "error", err.Error())
	}
}

// All returns every active lodge.
func (r *Registry) All() []ledger.Lodge {
	return r.filter(func(l ledger.Lodge) bool {
		return l.Active
	})
}

// AdminAll returns every lodge regardless of flags.
func (r *Registry) AdminAll() []ledger.Lodge {
	return r.filter(func(l ledger.Lodge) bool {
		return true
	})
}

// Featured returns lodges that are both featured and active.
func (r *Registry) Featured() []ledger.Lodge {
	return r.filter(func(l ledger.Lodge) bool {
		return l.Featured && l.Active
	})
}

// ByRegion returns active lodges in the given region. Matching is
// case-insensitive and ignores surrounding whitespace.
func (r *Registry) ByRegion(region string) []ledger.Lodge {
	want := strings.TrimSpace(region)
	return r.filter(func(l ledger.Lodge) bool {
		return l.Active && strings.EqualFold(strings.TrimSpace(l.Region), want)
	})
}

// Update merges the non-nil patch fields into the lodge with the given id
// and persists. An unknown id is a no-op. The id itself is immutable.
func (r *Registry) Update(ctx context.Context, id string, patch ledger.LodgePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lodges {
		if r.lodges[i].ID != id {
			continue
		}
		apply(&r.lodges[i], patch)
		return r.persistLocked(ctx)
	}

	return nil
}

// Toggle flips the named boolean flag, which must be "active" or
// "featured". An unknown id is a no-op.
func (r *Registry) Toggle(ctx context.Context, id, field string) error {
	if field != "active" && field != "featured" {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidFlag, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lodges {
		if r.lodges[i].ID != id {
			continue
		}
		if field == "active" {
			r.lodges[i].Active = !r.lodges[i].Active
		} else {
			r.lodges[i].Featured = !r.lodges[i].Featured
		}
		return r.persistLocked(ctx)
	}

	return nil
}

func (r *Registry) filter(keep func(ledger.Lodge) bool) []ledger.Lodge {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ledger.Lodge, 0, len(r.lodges))
	for _, l := range r.lodges {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func apply(lodge *ledger.Lodge, patch ledger.LodgePatch) {
	if patch.Name != nil {
		lodge.Name = *patch.Name
	}
	if patch.Location != nil {
		lodge.Location = *patch.Location
	}
	if patch.Region != nil {
		lodge.Region = *patch.Region
	}
	if patch.ImageURL != nil {
		lodge.ImageURL = *patch.ImageURL
	}
	if patch.Description != nil {
		lodge.Description = *patch.Description
	}
	if patch.Gallery != nil {
		lodge.Gallery = *patch.Gallery
	}
	if patch.Active != nil {
		lodge.Active = *patch.Active
	}
	if patch.Featured != nil {
		lodge.Featured = *patch.Featured
	}
}

func (r *Registry) persistLocked(ctx context.Context) error {
	body, err := json.Marshal(r.lodges)
	if err != nil {
		return fmt.Errorf("encoding lodges: %w", err)
	}
	return r.store.Save(ctx, ledger.SlotLodges, body)
}
