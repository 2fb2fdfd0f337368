package camera

import (
	"log/slog"
	"time"

	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/viewport"
)

// FrameID identifies a pending frame callback. Zero means none.
type FrameID uint64

// Scheduler runs a callback on the next display frame.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// Target is the viewport the engine drives. *viewport.Controller satisfies it.
type Target interface {
	Viewport() geom.Viewport
	SetViewport(geom.Viewport)
	Container() geom.Size
}

// Items resolves item geometry by id.
type Items interface {
	Item(id string) (models.Item, bool)
}

// Measurer reports on-screen bounds of rendered elements.
type Measurer interface {
	Bounds(elementID string) (geom.Rect, bool)
}

// SubElementID is the element identifier of a named sub-element of an item.
func SubElementID(itemID, sub string) string {
	return itemID + "#" + sub
}

// Settings are the engine defaults.
type Settings struct {
	FinalZoom           float64
	SubElementFinalZoom float64
	Duration            time.Duration
	ZoomOutFactor       float64
	FallbackHeight      float64
}

// DefaultSettings returns the stock fly-to parameters.
func DefaultSettings() Settings {
	return Settings{
		FinalZoom:           0.8,
		SubElementFinalZoom: 1.2,
		Duration:            1200 * time.Millisecond,
		ZoomOutFactor:       0.3,
		FallbackHeight:      400,
	}
}

// Engine animates a Target along at most one trajectory at a time. Like the
// controller it drives, it is confined to the board loop.
type Engine struct {
	target   Target
	sched    Scheduler
	items    Items
	measurer Measurer
	policy   viewport.ZoomPolicy
	settings Settings
	logger   *slog.Logger
	now      func() time.Time

	frame   FrameID
	active  *Trajectory
	startAt time.Time
	phase   Phase
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSettings overrides DefaultSettings.
func WithSettings(s Settings) EngineOption {
	return func(e *Engine) { e.settings = s }
}

// WithPolicy sets the zoom policy used to clamp trajectory zooms.
func WithPolicy(p viewport.ZoomPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithLogger sets the logger for warnings.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithClock replaces time.Now for trajectory start times.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an idle engine.
func NewEngine(target Target, sched Scheduler, items Items, measurer Measurer, opts ...EngineOption) *Engine {
	e := &Engine{
		target:   target,
		sched:    sched,
		items:    items,
		measurer: measurer,
		policy:   viewport.DefaultZoomPolicy(),
		settings: DefaultSettings(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the phase of the active trajectory.
func (e *Engine) State() Phase { return e.phase }

// Active returns a copy of the running trajectory, if any.
func (e *Engine) Active() (Trajectory, bool) {
	if e.active == nil {
		return Trajectory{}, false
	}
	return *e.active, true
}

// CenterOn flies to the geometric center of an item. Non-positive
// finalZoom or duration select the defaults. It reports whether an
// animation started.
func (e *Engine) CenterOn(itemID string, finalZoom float64, duration time.Duration) bool {
	if finalZoom <= 0 {
		finalZoom = e.settings.FinalZoom
	}
	if duration <= 0 {
		duration = e.settings.Duration
	}

	item, ok := e.items.Item(itemID)
	if !ok {
		e.logger.Warn("camera: center target not found", slog.String("item_id", itemID))
		return false
	}

	height := item.Height.Value
	if item.Height.Auto {
		height = e.measureHeight(item.ID)
	}
	mid := geom.Point{X: item.X + item.Width/2, Y: item.Y + height/2}

	e.start(mid, finalZoom, duration)
	return true
}

// CenterOnSubElement flies to the measured center of a named sub-element
// of an item, falling back to the item's own center when the sub-element
// has not been measured.
func (e *Engine) CenterOnSubElement(itemID, sub string, finalZoom float64, duration time.Duration) bool {
	if finalZoom <= 0 {
		finalZoom = e.settings.SubElementFinalZoom
	}
	if duration <= 0 {
		duration = e.settings.Duration
	}

	if _, ok := e.items.Item(itemID); !ok {
		e.logger.Warn("camera: center target not found", slog.String("item_id", itemID))
		return false
	}

	box, ok := e.measurer.Bounds(SubElementID(itemID, sub))
	if !ok {
		e.logger.Warn("camera: sub-element not measured, centering on item",
			slog.String("item_id", itemID),
			slog.String("sub_element", sub))
		return e.CenterOn(itemID, finalZoom, duration)
	}

	mid := e.target.Viewport().ScreenToWorld(box.Center())
	e.start(mid, finalZoom, duration)
	return true
}

// Cancel stops the running trajectory, leaving the viewport where the last
// frame put it.
func (e *Engine) Cancel() {
	if e.frame != 0 {
		e.sched.CancelFrame(e.frame)
		e.frame = 0
	}
	e.active = nil
	e.phase = Idle
}

func (e *Engine) measureHeight(itemID string) float64 {
	if box, ok := e.measurer.Bounds(itemID); ok && box.Height > 0 {
		return box.Height / e.target.Viewport().Zoom
	}
	e.logger.Warn("camera: auto height not measurable, using fallback",
		slog.String("item_id", itemID),
		slog.Float64("fallback_height", e.settings.FallbackHeight))
	return e.settings.FallbackHeight
}

func (e *Engine) start(dest geom.Point, finalZoom float64, duration time.Duration) {
	e.Cancel()

	tr := Plan(PlanParams{
		Start:         e.target.Viewport(),
		Destination:   dest,
		FinalZoom:     finalZoom,
		Container:     e.target.Container(),
		Duration:      duration,
		Policy:        e.policy,
		ZoomOutFactor: e.settings.ZoomOutFactor,
	})
	e.active = &tr
	e.startAt = e.now()
	e.phase = ZoomingOut
	e.frame = e.sched.RequestFrame(e.step)
}

func (e *Engine) step(now time.Time) {
	if e.active == nil {
		return
	}
	elapsed := now.Sub(e.startAt)
	e.target.SetViewport(e.active.Sample(elapsed))

	if elapsed >= e.active.Duration() {
		e.frame = 0
		e.active = nil
		e.phase = Idle
		return
	}
	e.phase = e.active.Phase(elapsed)
	e.frame = e.sched.RequestFrame(e.step)
}
