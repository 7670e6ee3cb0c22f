package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
	"github.com/pearltrails/engagement-ledger/content"
)

type LodgeHandler struct {
	registry *content.Registry
	log      *zap.SugaredLogger
}

func NewLodgeHandler(registry *content.Registry, log *zap.SugaredLogger) *LodgeHandler {
	return &LodgeHandler{
		registry: registry,
		log:      log,
	}
}

func (lh LodgeHandler) List(rw http.ResponseWriter, r *http.Request) {
	respond(r.Context(), rw, http.StatusOK, lh.registry.All())
}

func (lh LodgeHandler) Featured(rw http.ResponseWriter, r *http.Request) {
	respond(r.Context(), rw, http.StatusOK, lh.registry.Featured())
}

func (lh LodgeHandler) ByRegion(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region := chi.URLParam(r, "region")
	if region == "" {
		respondErr(ctx, rw, http.StatusBadRequest, errors.New("region is required"))
		return
	}

	respond(ctx, rw, http.StatusOK, lh.registry.ByRegion(region))
}

func (lh LodgeHandler) AdminList(rw http.ResponseWriter, r *http.Request) {
	respond(r.Context(), rw, http.StatusOK, lh.registry.AdminAll())
}

func (lh LodgeHandler) Update(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var patch ledger.LodgePatch
	if err := decode(r, &patch); err != nil {
		lh.log.Errorw("Update", "error", err.Error())
		respondErr(ctx, rw, http.StatusBadRequest, err)
		return
	}

	if err := lh.registry.Update(ctx, id, patch); err != nil {
		lh.log.Errorw("Update", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, err)
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}

func (lh LodgeHandler) Toggle(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	field := chi.URLParam(r, "field")

	if err := lh.registry.Toggle(ctx, id, field); err != nil {
		lh.log.Errorw("Toggle", "error", err.Error())
		switch {
		case errors.Is(err, ledger.ErrInvalidFlag):
			respondErr(ctx, rw, http.StatusBadRequest, err)
		default:
			respondErr(ctx, rw, http.StatusInternalServerError, err)
		}
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}
