// Package viewport holds the board camera state and turns pointer, wheel and
// button input into camera mutations. It never touches item data.
package viewport

import (
	"fmt"
	"strconv"

	"github.com/safal938/board28-sub000/internal/geom"
)

// ZoomPolicy bounds the zoom factor and sets the per-input zoom steps.
// Wheel and button steps are independent.
type ZoomPolicy struct {
	Min        float64
	Max        float64
	WheelStep  float64
	ButtonStep float64
}

// DefaultZoomPolicy returns the bounds and steps the board ships with.
func DefaultZoomPolicy() ZoomPolicy {
	return ZoomPolicy{Min: 0.1, Max: 3.0, WheelStep: 0.1, ButtonStep: 0.2}
}

// Clamp limits zoom to the policy bounds.
func (p ZoomPolicy) Clamp(zoom float64) float64 {
	return geom.Clamp(zoom, p.Min, p.Max)
}

// Controller owns the Viewport. It is not safe for concurrent use; the
// board loop is its only caller.
type Controller struct {
	policy    ZoomPolicy
	vp        geom.Viewport
	container geom.Size

	dragging     bool
	dragStart    geom.Point
	lastPanPoint geom.Point

	onChange func(geom.Viewport)
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy overrides the default zoom policy.
func WithPolicy(p ZoomPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithOnChange registers a callback run after every viewport replacement.
func WithOnChange(fn func(geom.Viewport)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController returns a controller at the identity viewport.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		policy: DefaultZoomPolicy(),
		vp:     geom.Identity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the active zoom policy.
func (c *Controller) Policy() ZoomPolicy { return c.policy }

// Viewport returns the current camera state.
func (c *Controller) Viewport() geom.Viewport { return c.vp }

// Container returns the last known size of the viewing container.
func (c *Controller) Container() geom.Size { return c.container }

// SetContainerSize records the viewing container's client size.
func (c *Controller) SetContainerSize(s geom.Size) { c.container = s }

// Dragging reports whether a pan gesture is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// SetViewport clamps zoom and replaces the camera state.
func (c *Controller) SetViewport(next geom.Viewport) {
	next.Zoom = c.policy.Clamp(next.Zoom)
	c.vp = next
	if c.onChange != nil {
		c.onChange(next)
	}
}

// OnWheel zooms around the screen point under the cursor. A positive deltaY
// zooms out, anything else zooms in.
func (c *Controller) OnWheel(screen geom.Point, deltaY float64) {
	factor := 1 + c.policy.WheelStep
	if deltaY > 0 {
		factor = 1 - c.policy.WheelStep
	}
	c.zoomAround(screen, factor)
}

// ZoomIn zooms in around the container center by the button step.
func (c *Controller) ZoomIn() {
	c.zoomAround(c.container.Center(), 1+c.policy.ButtonStep)
}

// ZoomOut zooms out around the container center by the button step.
func (c *Controller) ZoomOut() {
	c.zoomAround(c.container.Center(), 1-c.policy.ButtonStep)
}

// zoomAround scales by factor while keeping the world point under anchor
// fixed on screen.
func (c *Controller) zoomAround(anchor geom.Point, factor float64) {
	newZoom := c.policy.Clamp(c.vp.Zoom * factor)
	world := c.vp.ScreenToWorld(anchor)
	c.SetViewport(geom.Viewport{
		X:    anchor.X - world.X*newZoom,
		Y:    anchor.Y - world.Y*newZoom,
		Zoom: newZoom,
	})
}

// BeginPan starts a drag at screen. Drags that originate on an item are
// refused so the item can handle the gesture; the return value reports
// whether panning started.
func (c *Controller) BeginPan(screen geom.Point, onItem bool) bool {
	if onItem {
		return false
	}
	c.dragging = true
	c.dragStart = screen
	c.lastPanPoint = c.vp.Offset()
	return true
}

// OnPanMove translates the camera by the pointer delta since BeginPan.
func (c *Controller) OnPanMove(screen geom.Point) {
	if !c.dragging {
		return
	}
	c.SetViewport(geom.Viewport{
		X:    c.lastPanPoint.X + (screen.X - c.dragStart.X),
		Y:    c.lastPanPoint.Y + (screen.Y - c.dragStart.Y),
		Zoom: c.vp.Zoom,
	})
}

// EndPan finishes the drag.
func (c *Controller) EndPan() { c.dragging = false }

// ResetView returns the camera to the identity viewport.
func (c *Controller) ResetView() {
	c.dragging = false
	c.SetViewport(geom.Identity)
}

// CenterWorld returns the world point at the container's center. ok is
// false while the container size is unknown.
func (c *Controller) CenterWorld() (geom.CenterWorld, bool) {
	if !c.container.Known() {
		return geom.CenterWorld{}, false
	}
	p := c.vp.ScreenToWorld(c.container.Center())
	return geom.CenterWorld{X: p.X, Y: p.Y, Zoom: c.vp.Zoom}, true
}

// Transform returns the CSS transform renderers apply to the world layer.
func (c *Controller) Transform() string {
	return Transform(c.vp)
}

// Transform formats v as a CSS translate+scale transform.
func Transform(v geom.Viewport) string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", num(v.X), num(v.Y), num(v.Zoom))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
