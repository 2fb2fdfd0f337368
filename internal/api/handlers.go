package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/index"
	"github.com/safal938/board28-sub000/internal/itemservice"
	"github.com/safal938/board28-sub000/internal/layout"
)

// Handler holds API route handlers.
type Handler struct {
	items  *itemservice.Service
	board  *board.Board
	layout *layout.Layout
}

// NewHandler creates a new Handler.
func NewHandler(items *itemservice.Service, b *board.Board, l *layout.Layout) *Handler {
	return &Handler{items: items, board: b, layout: l}
}

// ListItems handles GET /api/items.
//
//	@Summary		List items with optional pagination and filtering
//	@Tags			items
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			kind	query		string	false	"Filter by kind"
//	@Param			track	query		string	false	"Filter by track"
//	@Param			q		query		string	false	"Title substring"
//	@Success		200		{object}	ItemListResponse
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.items.List(r.Context(), index.ListFilter{
		Kind:   q.Get("kind"),
		Track:  q.Get("track"),
		Query:  q.Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err, "list items")
		return
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: total})
}

// GetItem handles GET /api/items/{id}.
//
//	@Summary		Get a single item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	models.Item
//	@Failure		404	{object}	errResponse
//	@Router			/items/{id} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "get item", slog.String("item_id", id))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// CreateItem handles POST /api/items.
//
//	@Summary		Create an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateItemRequest	true	"Item to create"
//	@Success		201		{object}	models.Item
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/items [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "create item")
		return
	}
	it, err := h.items.Create(r.Context(), req.Item())
	if err != nil {
		writeError(w, err, "create item", slog.String("item_id", req.ID))
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// DeleteItem handles DELETE /api/items/{id}.
//
//	@Summary		Delete an item
//	@Tags			items
//	@Param			id	path	string	true	"Item id"
//	@Success		204	"Item deleted"
//	@Failure		404	{object}	errResponse
//	@Router			/items/{id} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.items.Delete(r.Context(), id); err != nil {
		writeError(w, err, "delete item", slog.String("item_id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveItem handles PUT /api/items/{id}/position.
//
//	@Summary		Move an item in world coordinates
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Item id"
//	@Param			body	body		PositionRequest	true	"New position"
//	@Success		200		{object}	models.Item
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/items/{id}/position [put]
func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req PositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "move item")
		return
	}
	it, err := h.items.MoveTo(r.Context(), id, *req.X, *req.Y)
	if err != nil {
		writeError(w, err, "move item", slog.String("item_id", id))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// PlaceAtCenter handles POST /api/items/{id}/place-at-center.
//
//	@Summary		Move an item to the world point at the viewport center
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	models.Item
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/items/{id}/place-at-center [post]
func (h *Handler) PlaceAtCenter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, err := h.board.PlaceAtCenter(r.Context(), h.items, id)
	if err != nil {
		writeError(w, err, "place item at center", slog.String("item_id", id))
		return
	}
	writeJSON(w, http.StatusOK, it)
}
