package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(h *Handler, maxBody int64, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(BodyLimit(maxBody))

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/{id}", h.GetItem)
		r.Delete("/{id}", h.DeleteItem)
		r.Put("/{id}/position", h.MoveItem)
		r.Post("/{id}/place-at-center", h.PlaceAtCenter)
	})

	r.Route("/viewport", func(r chi.Router) {
		r.Get("/", h.GetViewport)
		r.Put("/", h.SetViewport)
		r.Post("/wheel", h.Wheel)
		r.Post("/zoom-in", h.ZoomIn)
		r.Post("/zoom-out", h.ZoomOut)
		r.Post("/reset", h.ResetView)
		r.Post("/pan/begin", h.PanBegin)
		r.Post("/pan/move", h.PanMove)
		r.Post("/pan/end", h.PanEnd)
		r.Get("/center-world", h.CenterWorld)
	})

	r.Post("/camera/center-on-item", h.CenterOnItem)
	r.Post("/camera/center-on-sub-element", h.CenterOnSubElement)
	r.Post("/camera/cancel", h.CancelCamera)

	r.Post("/keys", h.Key)
	r.Post("/surface", h.Surface)

	r.Post("/timeline/layout", h.LayoutTimeline)
	r.Get("/timeline/scale", h.TimelineScale)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
