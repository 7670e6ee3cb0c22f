package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pearltrails/engagement-ledger/metrics"
)

type MetricHandler struct {
	tracker *metrics.Tracker
	log     *zap.SugaredLogger
}

func NewMetricHandler(tracker *metrics.Tracker, log *zap.SugaredLogger) *MetricHandler {
	return &MetricHandler{
		tracker: tracker,
		log:     log,
	}
}

func (mh MetricHandler) Track(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contentID := chi.URLParam(r, "contentID")
	if contentID == "" {
		respondErr(ctx, rw, http.StatusBadRequest, errors.New("content id is required"))
		return
	}

	if err := mh.tracker.Track(ctx, contentID); err != nil {
		mh.log.Errorw("Track", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, err)
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}

func (mh MetricHandler) Ranking(rw http.ResponseWriter, r *http.Request) {
	respond(r.Context(), rw, http.StatusOK, mh.tracker.Ranked())
}

func (mh MetricHandler) Clear(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := mh.tracker.Clear(ctx); err != nil {
		mh.log.Errorw("Clear", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, err)
		return
	}

	respond(ctx, rw, http.StatusNoContent, nil)
}
