// Package relay delivers best-effort notifications about captured leads.
// Implementations report errors honestly; the lead registry decides to
// swallow them so that capture never fails because the relay is down.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
)

// Config is the required properties to use the HTTP relay endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	ReplyTo   string
	Timeout   time.Duration
}

// Dispatcher posts a lead notification to a remote form-relay endpoint.
// A single attempt is made per lead; the client timeout bounds how long a
// hung endpoint can stall the caller.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	log    *zap.SugaredLogger
}

func NewDispatcher(cfg Config, log *zap.SugaredLogger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// payload is the flat notification body the relay endpoint expects.
type payload struct {
	AccessKey      string `json:"access_key,omitempty"`
	Subject        string `json:"subject"`
	ReplyTo        string `json:"replyto,omitempty"`
	LeadID         string `json:"lead_id"`
	Timestamp      string `json:"timestamp"`
	Source         string `json:"source"`
	PackageViewing string `json:"package_viewing,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TravelDates    string `json:"travel_dates,omitempty"`
	PartySize      string `json:"party_size,omitempty"`
	Budget         string `json:"budget,omitempty"`
	Accommodation  string `json:"accommodation,omitempty"`
	Interests      string `json:"interests,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Notify posts the lead to the configured endpoint. Any non-2xx response
// or transport error is returned as an error.
func (d *Dispatcher) Notify(ctx context.Context, lead ledger.Lead) error {
	body, err := json.Marshal(buildPayload(d.cfg, lead))
	if err != nil {
		return fmt.Errorf("encoding relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("relay endpoint returned %s", resp.Status)
	}

	return nil
}

func buildPayload(cfg Config, lead ledger.Lead) payload {
	return payload{
		AccessKey:      cfg.AccessKey,
		Subject:        subjectFor(lead),
		ReplyTo:        cfg.ReplyTo,
		LeadID:         lead.ID,
		Timestamp:      lead.Timestamp.Format(time.RFC3339),
		Source:         lead.Source,
		PackageViewing: lead.PackageViewing,
		FullName:       lead.Data.FullName,
		Email:          lead.Data.Email,
		Phone:          lead.Data.Phone,
		TravelDates:    lead.Data.TravelDates,
		PartySize:      lead.Data.PartySize,
		Budget:         lead.Data.Budget,
		Accommodation:  lead.Data.Accommodation,
		Interests:      strings.Join(lead.Data.Interests, ", "),
		Message:        lead.Data.Message,
	}
}

func subjectFor(lead ledger.Lead) string {
	if lead.PackageViewing != "" {
		return fmt.Sprintf("New safari inquiry: %s (%s)", lead.PackageViewing, lead.Source)
	}
	return fmt.Sprintf("New safari inquiry (%s)", lead.Source)
}
