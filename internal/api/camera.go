package api

import (
	"net/http"

	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/surface"
)

// command runs a board command and answers with the viewport snapshot.
func (h *Handler) command(w http.ResponseWriter, r *http.Request, cmd board.Command) {
	rep, err := h.board.Do(r.Context(), cmd)
	if err != nil {
		writeError(w, err, "board "+cmd.Name)
		return
	}
	writeJSON(w, http.StatusOK, viewportResponse(rep))
}

// GetViewport handles GET /api/viewport.
//
//	@Summary		Current viewport
//	@Tags			viewport
//	@Produce		json
//	@Success		200	{object}	ViewportResponse
//	@Router			/viewport [get]
func (h *Handler) GetViewport(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdGetViewport})
}

// SetViewport handles PUT /api/viewport.
//
//	@Summary		Replace the viewport
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ViewportRequest	true	"Viewport"
//	@Success		200		{object}	ViewportResponse
//	@Failure		400		{object}	errResponse
//	@Router			/viewport [put]
func (h *Handler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "set viewport")
		return
	}
	h.command(w, r, board.Command{
		Name:     board.CmdSetViewport,
		Viewport: geom.Viewport{X: req.X, Y: req.Y, Zoom: *req.Zoom},
	})
}

// Wheel handles POST /api/viewport/wheel.
func (h *Handler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "wheel")
		return
	}
	h.command(w, r, board.Command{Name: board.CmdWheel, Point: geom.Point{X: req.X, Y: req.Y}, DeltaY: req.DeltaY})
}

// ZoomIn handles POST /api/viewport/zoom-in.
func (h *Handler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdZoomIn})
}

// ZoomOut handles POST /api/viewport/zoom-out.
func (h *Handler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdZoomOut})
}

// ResetView handles POST /api/viewport/reset.
func (h *Handler) ResetView(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdResetView})
}

// PanBegin handles POST /api/viewport/pan/begin.
//
//	@Summary		Start a drag
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PointerRequest	true	"Pointer position"
//	@Success		200		{object}	PanBeginResponse
//	@Router			/viewport/pan/begin [post]
func (h *Handler) PanBegin(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "pan begin")
		return
	}
	rep, err := h.board.Do(r.Context(), board.Command{
		Name:   board.CmdPanBegin,
		Point:  geom.Point{X: req.X, Y: req.Y},
		OnItem: req.OnItem,
	})
	if err != nil {
		writeError(w, err, "pan begin")
		return
	}
	writeJSON(w, http.StatusOK, PanBeginResponse{ViewportResponse: viewportResponse(rep), Started: rep.Started})
}

// PanMove handles POST /api/viewport/pan/move.
func (h *Handler) PanMove(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "pan move")
		return
	}
	h.command(w, r, board.Command{Name: board.CmdPanMove, Point: geom.Point{X: req.X, Y: req.Y}})
}

// PanEnd handles POST /api/viewport/pan/end.
func (h *Handler) PanEnd(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdPanEnd})
}

// CenterWorld handles GET /api/viewport/center-world.
//
//	@Summary		World point at the container center
//	@Tags			viewport
//	@Produce		json
//	@Success		200	{object}	CenterWorldResponse
//	@Success		204	"Container size not reported yet"
//	@Router			/viewport/center-world [get]
func (h *Handler) CenterWorld(w http.ResponseWriter, r *http.Request) {
	c, err := h.board.ViewportCenterWorld(r.Context())
	if err != nil {
		writeError(w, err, "viewport center")
		return
	}
	if c == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CenterOnItem handles POST /api/camera/center-on-item.
//
//	@Summary		Fly the camera to an item
//	@Tags			camera
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CenterOnItemRequest	true	"Target"
//	@Success		200		{object}	CenterResponse
//	@Failure		400		{object}	errResponse
//	@Router			/camera/center-on-item [post]
func (h *Handler) CenterOnItem(w http.ResponseWriter, r *http.Request) {
	var req CenterOnItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "center on item")
		return
	}
	h.center(w, r, board.Command{
		Name:      board.CmdCenterOnItem,
		ItemID:    req.ItemID,
		FinalZoom: req.FinalZoom,
		Duration:  req.duration(),
	})
}

// CenterOnSubElement handles POST /api/camera/center-on-sub-element.
func (h *Handler) CenterOnSubElement(w http.ResponseWriter, r *http.Request) {
	var req CenterOnSubElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "center on sub-element")
		return
	}
	h.center(w, r, board.Command{
		Name:       board.CmdCenterOnSubElement,
		ItemID:     req.ItemID,
		SubElement: req.SubElement,
		FinalZoom:  req.FinalZoom,
		Duration:   req.duration(),
	})
}

func (h *Handler) center(w http.ResponseWriter, r *http.Request, cmd board.Command) {
	rep, err := h.board.Do(r.Context(), cmd)
	if err != nil {
		writeError(w, err, "board "+cmd.Name)
		return
	}
	writeJSON(w, http.StatusOK, CenterResponse{Started: rep.Started, Phase: rep.Phase.String()})
}

// CancelCamera handles POST /api/camera/cancel.
func (h *Handler) CancelCamera(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, board.Command{Name: board.CmdCancel})
}

// Key handles POST /api/keys.
//
//	@Summary		Keyboard shortcut
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			body	body		KeyRequest	true	"Key chord"
//	@Success		200		{object}	KeyResponse
//	@Router			/keys [post]
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "key")
		return
	}
	rep, err := h.board.Do(r.Context(), board.Command{Name: board.CmdKey, Key: req.Key})
	if err != nil {
		writeError(w, err, "key")
		return
	}
	writeJSON(w, http.StatusOK, KeyResponse{Handled: rep.Handled, Started: rep.Started})
}

// Surface handles POST /api/surface.
//
//	@Summary		Report container size and element bounds
//	@Tags			viewport
//	@Accept			json
//	@Param			body	body	SurfaceRequest	true	"Measurements"
//	@Success		204		"Applied"
//	@Router			/surface [post]
func (h *Handler) Surface(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "surface")
		return
	}
	if err := h.board.Report(r.Context(), surface.Report(req)); err != nil {
		writeError(w, err, "surface")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
