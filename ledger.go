// Package ledger holds the domain types and contracts of the engagement
// ledger: lead capture, interaction metrics and the lodging content registry.
package ledger

import (
	"context"
	"errors"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrLodgeNotFound    = errors.New("lodge not found")
	ErrInvalidStatus    = errors.New("invalid lead status")
	ErrInvalidFlag      = errors.New("invalid lodge flag")
)

// Snapshot slot names. Each store owns exactly one slot and always writes
// its complete state to it.
const (
	SlotLeads   = "leads"
	SlotMetrics = "engagement_metrics"
	SlotLodges  = "lodges"
)

// SnapshotStore persists the full JSON state of a store under a fixed slot
// key. Load returns ErrSnapshotNotFound when the slot has never been written.
type SnapshotStore interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, body []byte) error
}

// Notifier delivers a best-effort notification about a freshly captured
// lead. Implementations report failures honestly; the lead registry owns
// the decision to swallow them.
type Notifier interface {
	Notify(ctx context.Context, lead Lead) error
}
