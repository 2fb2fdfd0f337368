package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/surface"
)

// CreateItemRequest is the request body for creating an item. An empty id
// is replaced by a generated one and a missing height means auto.
type CreateItemRequest struct {
	ID      string         `json:"id,omitempty" example:"vitals-2021"`
	Kind    string         `json:"kind,omitempty" example:"event"`
	Title   string         `json:"title" example:"Admission"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Width   float64        `json:"width" example:"240"`
	Height  *models.Height `json:"height,omitempty"`
	Date    *time.Time     `json:"date,omitempty"`
	EndDate *time.Time     `json:"end_date,omitempty"`
	Track   string         `json:"track,omitempty"`
	Body    string         `json:"body,omitempty"`
}

// Validate implements validation.Validatable.
func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Length(0, 200)),
		validation.Field(&r.Width, validation.Min(0.0)),
		validation.Field(&r.Height, validation.By(func(any) error {
			if r.Height != nil && !r.Height.Auto && r.Height.Value < 0 {
				return validation.NewError("validation_height_negative", "must be auto or no less than 0")
			}
			return nil
		})),
		validation.Field(&r.EndDate, validation.By(func(any) error {
			if r.EndDate != nil && (r.Date == nil || r.EndDate.Before(*r.Date)) {
				return validation.NewError("validation_end_date", "requires a date no later than end_date")
			}
			return nil
		})),
	)
}

// Item converts the request into a domain item.
func (r CreateItemRequest) Item() models.Item {
	height := models.Auto()
	if r.Height != nil {
		height = *r.Height
	}
	return models.Item{
		ID: r.ID, Kind: r.Kind, Title: r.Title,
		X: r.X, Y: r.Y, Width: r.Width, Height: height,
		Date: r.Date, EndDate: r.EndDate, Track: r.Track, Body: r.Body,
	}
}

// ItemListResponse wraps paginated item listings.
type ItemListResponse struct {
	Items []models.Item `json:"items" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// PositionRequest moves an item in world coordinates.
type PositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Validate implements validation.Validatable.
func (r PositionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.X, validation.NotNil),
		validation.Field(&r.Y, validation.NotNil),
	)
}

// ViewportRequest replaces the viewport. Zoom is clamped to the policy.
type ViewportRequest struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Zoom *float64 `json:"zoom"`
}

// Validate implements validation.Validatable.
func (r ViewportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Zoom, validation.NotNil, validation.Min(0.0).Exclusive()),
	)
}

// WheelRequest is a wheel gesture at a screen point.
type WheelRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
}

// PointerRequest is a pan gesture sample at a screen point.
type PointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	OnItem bool    `json:"on_item,omitempty"`
}

// CenterOnItemRequest starts a fly-to. Zero values select the defaults.
type CenterOnItemRequest struct {
	ItemID     string  `json:"item_id" example:"vitals-2021"`
	FinalZoom  float64 `json:"final_zoom,omitempty" example:"0.8"`
	DurationMS int64   `json:"duration_ms,omitempty" example:"1200"`
}

// Validate implements validation.Validatable.
func (r CenterOnItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required),
		validation.Field(&r.FinalZoom, validation.Min(0.0)),
		validation.Field(&r.DurationMS, validation.Min(int64(0)), validation.Max(int64(60_000))),
	)
}

func (r CenterOnItemRequest) duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// CenterOnSubElementRequest starts a fly-to toward a named sub-element.
type CenterOnSubElementRequest struct {
	CenterOnItemRequest
	SubElement string `json:"sub_element" example:"lab-table"`
}

// Validate implements validation.Validatable.
func (r CenterOnSubElementRequest) Validate() error {
	if err := r.CenterOnItemRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubElement, validation.Required),
	)
}

// CenterResponse reports whether a fly-to started.
type CenterResponse struct {
	Started bool   `json:"started"`
	Phase   string `json:"phase" example:"zooming_out"`
}

// KeyRequest is a keyboard shortcut such as "ctrl+r".
type KeyRequest struct {
	Key string `json:"key" example:"ctrl+r"`
}

// Validate implements validation.Validatable.
func (r KeyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Key, validation.Required, validation.Length(1, 32)),
	)
}

// KeyResponse reports whether the key matched a shortcut.
type KeyResponse struct {
	Handled bool `json:"handled"`
	Started bool `json:"started"`
}

// SurfaceRequest reports display measurements.
type SurfaceRequest surface.Report

// Validate implements validation.Validatable.
func (r SurfaceRequest) Validate() error {
	if r.Container != nil && (r.Container.Width < 0 || r.Container.Height < 0) {
		return validation.Errors{"container": validation.NewError("validation_container", "must not be negative")}
	}
	for id, b := range r.Elements {
		if id == "" || b.Width < 0 || b.Height < 0 {
			return validation.Errors{"elements": validation.NewError("validation_element", "bounds must not be negative and ids not empty")}
		}
	}
	return nil
}

// ViewportResponse is the viewport snapshot returned by viewport operations.
type ViewportResponse struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Zoom      float64 `json:"zoom" example:"1"`
	Transform string  `json:"transform" example:"translate(0px, 0px) scale(1)"`
	Dragging  bool    `json:"dragging"`
	Phase     string  `json:"phase" example:"idle"`
}

func viewportResponse(r board.Reply) ViewportResponse {
	return ViewportResponse{
		X: r.Viewport.X, Y: r.Viewport.Y, Zoom: r.Viewport.Zoom,
		Transform: r.Transform,
		Dragging:  r.Dragging,
		Phase:     r.Phase.String(),
	}
}

// PanBeginResponse reports whether the drag started.
type PanBeginResponse struct {
	ViewportResponse
	Started bool `json:"started"`
}

// CenterWorldResponse is the world point at the container center.
type CenterWorldResponse = geom.CenterWorld

// ScaleResponse is the temporal scale evaluated at one date.
type ScaleResponse struct {
	Date   time.Time `json:"date"`
	X      float64   `json:"x"`
	Events int       `json:"events"`
	Empty  bool      `json:"empty"`
}
