package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/safal938/board28-sub000/internal/apperr"
)

// LayoutTimeline handles POST /api/timeline/layout.
//
//	@Summary		Place dated items using the temporal scale
//	@Tags			timeline
//	@Produce		json
//	@Success		200	{object}	layout.Result
//	@Router			/timeline/layout [post]
func (h *Handler) LayoutTimeline(w http.ResponseWriter, r *http.Request) {
	res, err := h.layout.Place(r.Context())
	if err != nil {
		writeError(w, err, "layout timeline")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// TimelineScale handles GET /api/timeline/scale?date=2021-06-01.
//
//	@Summary		Evaluate the temporal scale at a date
//	@Tags			timeline
//	@Produce		json
//	@Param			date	query		string	true	"RFC 3339 timestamp or YYYY-MM-DD"
//	@Success		200		{object}	ScaleResponse
//	@Failure		400		{object}	errResponse
//	@Router			/timeline/scale [get]
func (h *Handler) TimelineScale(w http.ResponseWriter, r *http.Request) {
	d, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "timeline scale")
		return
	}
	s, err := h.layout.Scale(r.Context())
	if err != nil {
		writeError(w, err, "timeline scale")
		return
	}
	events := max(0, s.Len()-2)
	writeJSON(w, http.StatusOK, ScaleResponse{Date: d, X: s.At(d), Events: events, Empty: s.Empty()})
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: query parameter 'date' is required", apperr.ErrInvalidArgument)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date %q is not RFC 3339 or YYYY-MM-DD", apperr.ErrInvalidArgument, raw)
}
