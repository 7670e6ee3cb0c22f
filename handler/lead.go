package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
	"github.com/pearltrails/engagement-ledger/leads"
)

type LeadHandler struct {
	registry *leads.Registry
	log      *zap.SugaredLogger
}

func NewLeadHandler(registry *leads.Registry, log *zap.SugaredLogger) *LeadHandler {
	return &LeadHandler{
		registry: registry,
		log:      log,
	}
}

type captureRequest struct {
	Source         string          `json:"source"`
	PackageViewing string          `json:"package_viewing,omitempty"`
	Data           ledger.LeadData `json:"data"`
}

type statusRequest struct {
	Status ledger.LeadStatus `json:"status"`
}

// Capture stores the inquiry and responds 201 once it is durable. The
// relay attempt happens after persistence and never affects the response.
func (lh LeadHandler) Capture(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req captureRequest
	if err := decode(r, &req); err != nil {
		lh.log.Errorw("Capture", "error", err.Error())
		respondErr(ctx, rw, http.StatusBadRequest, err)
		return
	}
	if req.Source == "" {
		respondErr(ctx, rw, http.StatusBadRequest, errors.New("source is required"))
		return
	}

	lead, err := lh.registry.Capture(ctx, req.Source, req.PackageViewing, req.Data)
	if err != nil {
		lh.log.Errorw("Capture", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, err)
		return
	}

	respond(ctx, rw, http.StatusCreated, lead)
}

func (lh LeadHandler) List(rw http.ResponseWriter, r *http.Request) {
	respond(r.Context(), rw, http.StatusOK, lh.registry.All())
}

func (lh LeadHandler) UpdateStatus(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decode(r, &req); err != nil {
		lh.log.Errorw("UpdateStatus", "error", err.Error())
		respondErr(ctx, rw, http.StatusBadRequest, err)
		return
	}

	if err := lh.registry.UpdateStatus(ctx, id, req.Status); err != nil {
		lh.log.Errorw("UpdateStatus", "error", err.Error())
		switch {
		case errors.Is(err, ledger.ErrInvalidStatus):
			respondErr(ctx, rw, http.StatusBadRequest, err)
		default:
			respondErr(ctx, rw, http.StatusInternalServerError, err)
		}
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}

func (lh LeadHandler) Delete(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := lh.registry.Delete(ctx, id); err != nil {
		lh.log.Errorw("Delete", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, err)
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}
