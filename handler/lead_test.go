package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
	"github.com/pearltrails/engagement-ledger/leads"
	"github.com/pearltrails/engagement-ledger/snapshot"
)

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, lead ledger.Lead) error {
	return errors.New("relay down")
}

func newLeadRouter(t *testing.T) (*chi.Mux, *leads.Registry) {
	t.Helper()

	log := zap.NewNop().Sugar()
	registry := leads.NewRegistry(context.Background(), snapshot.NewMemory(), failingNotifier{}, log)
	lh := NewLeadHandler(registry, log)

	r := chi.NewRouter()
	r.Route("/leads", func(r chi.Router) {
		r.Post("/", lh.Capture)
		r.Get("/", lh.List)
		r.Patch("/{id}/status", lh.UpdateStatus)
		r.Delete("/{id}", lh.Delete)
	})
	return r, registry
}

func TestCaptureRespondsCreatedDespiteRelayFailure(t *testing.T) {
	router, registry := newLeadRouter(t)

	body := `{"source":"inquiry-form","package_viewing":"Gorilla Trek","data":{"full_name":"A. Bennett","email":"a@x.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var lead ledger.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if lead.ID == "" || lead.Status != ledger.StatusNew {
		t.Fatalf("unexpected lead in response: %+v", lead)
	}

	if got := registry.All(); len(got) != 1 || got[0].ID != lead.ID {
		t.Fatalf("lead not durable after capture: %+v", got)
	}
}

func TestCaptureRequiresSource(t *testing.T) {
	router, _ := newLeadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"data":{}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	router, registry := newLeadRouter(t)

	lead, err := registry.Capture(context.Background(), ledger.SourceInquiryForm, "", ledger.LeadData{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/leads/"+lead.ID+"/status", strings.NewReader(`{"status":"archived"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	router, registry := newLeadRouter(t)

	lead, err := registry.Capture(context.Background(), ledger.SourceInquiryForm, "", ledger.LeadData{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/leads/"+lead.ID+"/status", strings.NewReader(`{"status":"booked"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := registry.All()[0].Status; got != ledger.StatusBooked {
		t.Fatalf("status = %q, want %q", got, ledger.StatusBooked)
	}

	req = httptest.NewRequest(http.MethodDelete, "/leads/"+lead.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := registry.All(); len(got) != 0 {
		t.Fatalf("lead still present after delete: %+v", got)
	}
}
