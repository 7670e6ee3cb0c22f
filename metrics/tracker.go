// Package metrics counts content interactions and exposes them as a
// ranked leaderboard.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
)

// labels maps known content ids to display names for the leaderboard.
var labels = map[string]string{
	"gorilla-trekking":     "Gorilla Trekking",
	"chimpanzee-tracking":  "Chimpanzee Tracking",
	"big-five-safari":      "Big Five Safari",
	"nile-falls-cruise":    "Nile Falls Cruise",
	"bwindi-lodges":        "Bwindi Lodges",
	"queen-elizabeth-park": "Queen Elizabeth Park",
	"murchison-falls-park": "Murchison Falls Park",
	"kibale-forest":        "Kibale Forest",
	"custom-itinerary":     "Custom Itinerary",
	"travel-consultation":  "Travel Consultation",
}

// record is the persisted form of one counter. Records are kept in
// first-seen order so that ranking ties stay stable across restarts.
type record struct {
	ID     string `json:"id"`
	Clicks int    `json:"clicks"`
}

// Tracker is the engagement metrics store.
type Tracker struct {
	store ledger.SnapshotStore
	log   *zap.SugaredLogger

	mu      sync.Mutex
	records []record
}

// NewTracker loads the persisted counters. A missing or unparsable snapshot
// starts the tracker empty.
func NewTracker(ctx context.Context, store ledger.SnapshotStore, log *zap.SugaredLogger) *Tracker {
	t := &Tracker{
		store: store,
		log:   log,
	}

	raw, err := store.Load(ctx, ledger.SlotMetrics)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, &t.records); jerr != nil {
			log.Warnw("metrics: unparsable snapshot, starting empty", "error", jerr.Error())
			t.records = nil
		}
	case errors.Is(err, ledger.ErrSnapshotNotFound):
		// First run.
	default:
		log.Warnw("metrics: snapshot load failed, starting empty", "error", err.Error())
	}

	return t
}

// Track increments the counter for contentID, creating it at 1 if absent.
func (t *Tracker) Track(ctx context.Context, contentID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	found := false
	for i := range t.records {
		if t.records[i].ID == contentID {
			t.records[i].Clicks++
			found = true
			break
		}
	}
	if !found {
		t.records = append(t.records, record{ID: contentID, Clicks: 1})
	}

	return t.persistLocked(ctx)
}

// Ranked returns the leaderboard sorted by clicks descending. Ties keep
// first-seen order. The projection never mutates stored state.
func (t *Tracker) Ranked() []ledger.RankedMetric {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ledger.RankedMetric, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, ledger.RankedMetric{
			ID:     rec.ID,
			Label:  labelFor(rec.ID),
			Clicks: rec.Clicks,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Clicks > out[j].Clicks
	})

	return out
}

// Clear resets every counter.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = nil
	return t.persistLocked(ctx)
}

func (t *Tracker) persistLocked(ctx context.Context) error {
	body, err := json.Marshal(t.records)
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	return t.store.Save(ctx, ledger.SlotMetrics, body)
}

// labelFor resolves a display name for a content id. Unknown ids fall back
// to the id with hyphens replaced by spaces, upper-cased.
func labelFor(id string) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return strings.ToUpper(strings.ReplaceAll(id, "-", " "))
}
