package camera

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/viewport"
)

// fakeScheduler records registrations and lets tests fire frames by hand.
type fakeScheduler struct {
	next      FrameID
	pending   map[FrameID]func(time.Time)
	requested int
	cancelled int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[FrameID]func(time.Time))}
}

func (s *fakeScheduler) RequestFrame(fn func(time.Time)) FrameID {
	s.next++
	s.requested++
	s.pending[s.next] = fn
	return s.next
}

func (s *fakeScheduler) CancelFrame(id FrameID) {
	if _, ok := s.pending[id]; ok {
		s.cancelled++
		delete(s.pending, id)
	}
}

// fire runs every pending callback once with now.
func (s *fakeScheduler) fire(now time.Time) {
	batch := s.pending
	s.pending = make(map[FrameID]func(time.Time))
	for _, fn := range batch {
		fn(now)
	}
}

type itemMap map[string]models.Item

func (m itemMap) Item(id string) (models.Item, bool) {
	it, ok := m[id]
	return it, ok
}

type boundsMap map[string]geom.Rect

func (m boundsMap) Bounds(id string) (geom.Rect, bool) {
	r, ok := m[id]
	return r, ok
}

type countingTarget struct {
	*viewport.Controller
	sets int
}

func (c *countingTarget) SetViewport(v geom.Viewport) {
	c.sets++
	c.Controller.SetViewport(v)
}

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, items itemMap, bounds boundsMap) (*Engine, *countingTarget, *fakeScheduler) {
	t.Helper()
	ctrl := viewport.NewController()
	ctrl.SetContainerSize(geom.Size{Width: 1000, Height: 800})
	target := &countingTarget{Controller: ctrl}
	sched := newFakeScheduler()
	e := NewEngine(target, sched, items, bounds,
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return epoch }))
	return e, target, sched
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, EaseInOutQuad(0))
	assert.InDelta(t, 0.5, EaseInOutQuad(0.5), 1e-12)
	assert.InDelta(t, 1.0, EaseInOutQuad(1), 1e-12)
	assert.InDelta(t, 0.125, EaseInOutQuad(0.25), 1e-12)
	assert.InDelta(t, 0.875, EaseInOutQuad(0.75), 1e-12)
}

func TestTrajectorySamplePoints(t *testing.T) {
	container := geom.Size{Width: 1000, Height: 800}
	start := geom.Viewport{X: -200, Y: 100, Zoom: 1.5}
	dest := geom.Point{X: 2400, Y: -600}
	tr := Plan(PlanParams{
		Start:         start,
		Destination:   dest,
		FinalZoom:     0.8,
		Container:     container,
		Duration:      1200 * time.Millisecond,
		Policy:        viewport.DefaultZoomPolicy(),
		ZoomOutFactor: 0.3,
	})

	assert.Equal(t, start, tr.Sample(0))

	end := tr.Sample(1200 * time.Millisecond)
	assert.InDelta(t, 0.8, end.Zoom, 1e-12)
	centered := end.WorldToScreen(dest)
	assert.InDelta(t, 500, centered.X, 1e-9)
	assert.InDelta(t, 400, centered.Y, 1e-9)
	assert.Equal(t, tr.Final, tr.Sample(5*time.Second))

	assert.InDelta(t, 0.45, tr.ZoomOutZoom, 1e-12)
	assert.InDelta(t, tr.ZoomOutZoom, tr.Sample(400*time.Millisecond).Zoom, 1e-12)
	assert.InDelta(t, tr.ZoomOutZoom, tr.Sample(800*time.Millisecond).Zoom, 1e-12)
}

func TestTrajectoryZoomOutHoldsCurrentCenter(t *testing.T) {
	container := geom.Size{Width: 1000, Height: 800}
	start := geom.Viewport{X: 30, Y: -70, Zoom: 2}
	origin := start.ScreenToWorld(container.Center())
	tr := Plan(PlanParams{
		Start:         start,
		Destination:   geom.Point{X: -5000, Y: 5000},
		FinalZoom:     1,
		Container:     container,
		Duration:      900 * time.Millisecond,
		Policy:        viewport.DefaultZoomPolicy(),
		ZoomOutFactor: 0.3,
	})

	for _, ms := range []int{50, 120, 200, 299} {
		v := tr.Sample(time.Duration(ms) * time.Millisecond)
		c := v.ScreenToWorld(container.Center())
		assert.InDelta(t, origin.X, c.X, 1e-6, "elapsed %dms", ms)
		assert.InDelta(t, origin.Y, c.Y, 1e-6, "elapsed %dms", ms)
		assert.Equal(t, ZoomingOut, tr.Phase(time.Duration(ms)*time.Millisecond))
	}
	assert.Equal(t, Panning, tr.Phase(300*time.Millisecond))
	assert.Equal(t, ZoomingIn, tr.Phase(600*time.Millisecond))
	assert.Equal(t, Idle, tr.Phase(900*time.Millisecond))
}

func TestTrajectoryZoomOutAtFloorIsNoop(t *testing.T) {
	start := geom.Viewport{X: 10, Y: 10, Zoom: 0.2}
	tr := Plan(PlanParams{
		Start:         start,
		Destination:   geom.Point{X: 100, Y: 100},
		FinalZoom:     0.8,
		Container:     geom.Size{Width: 400, Height: 400},
		Duration:      300 * time.Millisecond,
		Policy:        viewport.ZoomPolicy{Min: 0.2, Max: 3},
		ZoomOutFactor: 0.3,
	})
	assert.Equal(t, 0.2, tr.ZoomOutZoom)
	mid := tr.Sample(50 * time.Millisecond)
	assert.InDelta(t, start.X, mid.X, 1e-9)
	assert.InDelta(t, start.Zoom, mid.Zoom, 1e-9)
	assert.Equal(t, ZoomingOut, tr.Phase(50*time.Millisecond))
}

func TestCenterOnDrivesFramesUntilDone(t *testing.T) {
	items := itemMap{"card-1": {ID: "card-1", X: 1000, Y: 2000, Width: 300, Height: models.Fixed(200)}}
	e, target, sched := newTestEngine(t, items, boundsMap{})

	require.True(t, e.CenterOn("card-1", 0, 0))
	assert.Equal(t, ZoomingOut, e.State())
	assert.Equal(t, 1, len(sched.pending))

	for ms := 0; ms <= 1200; ms += 100 {
		sched.fire(epoch.Add(time.Duration(ms) * time.Millisecond))
	}

	assert.Equal(t, Idle, e.State())
	assert.Empty(t, sched.pending, "no frame may be scheduled after the duration")
	assert.Equal(t, 13, target.sets)

	v := target.Viewport()
	assert.InDelta(t, 0.8, v.Zoom, 1e-12)
	c := v.WorldToScreen(geom.Point{X: 1150, Y: 2100})
	assert.InDelta(t, 500, c.X, 1e-9)
	assert.InDelta(t, 400, c.Y, 1e-9)
}

func TestCenterOnUnknownItemIsNoop(t *testing.T) {
	e, target, sched := newTestEngine(t, itemMap{}, boundsMap{})
	assert.False(t, e.CenterOn("missing", 1, time.Second))
	assert.Equal(t, 0, sched.requested)
	assert.Equal(t, 0, target.sets)
	assert.Equal(t, Idle, e.State())
}

func TestCenterOnAutoHeight(t *testing.T) {
	items := itemMap{
		"measured": {ID: "measured", X: 0, Y: 0, Width: 200, Height: models.Auto()},
		"unknown":  {ID: "unknown", X: 0, Y: 0, Width: 200, Height: models.Auto()},
	}
	// Rendered at zoom 1 the element is 600px tall, so 600 world units.
	bounds := boundsMap{"measured": {X: 0, Y: 0, Width: 200, Height: 600}}
	e, _, _ := newTestEngine(t, items, bounds)

	require.True(t, e.CenterOn("measured", 1, time.Second))
	tr, ok := e.Active()
	require.True(t, ok)
	assert.InDelta(t, 300, tr.destination.Y, 1e-9)

	require.True(t, e.CenterOn("unknown", 1, time.Second))
	tr, _ = e.Active()
	assert.InDelta(t, 200, tr.destination.Y, 1e-9, "fallback height 400 halves to 200")
	assert.InDelta(t, 100, tr.destination.X, 1e-9)
}

func TestNewTrajectoryCancelsPrevious(t *testing.T) {
	items := itemMap{
		"a": {ID: "a", X: 0, Y: 0, Width: 100, Height: models.Fixed(100)},
		"b": {ID: "b", X: 5000, Y: 5000, Width: 100, Height: models.Fixed(100)},
	}
	e, target, sched := newTestEngine(t, items, boundsMap{})

	require.True(t, e.CenterOn("a", 1, time.Second))
	sched.fire(epoch.Add(100 * time.Millisecond))
	require.Len(t, sched.pending, 1)

	require.True(t, e.CenterOn("b", 1, time.Second))
	assert.Equal(t, 1, sched.cancelled, "A's pending frame must be cancelled")
	assert.Len(t, sched.pending, 1, "only B remains registered")

	setsBefore := target.sets
	sched.fire(epoch.Add(time.Second))
	assert.Equal(t, setsBefore+1, target.sets)
	end := target.Viewport().WorldToScreen(geom.Point{X: 5050, Y: 5050})
	assert.InDelta(t, 500, end.X, 1e-9)
	assert.InDelta(t, 400, end.Y, 1e-9)
	assert.Empty(t, sched.pending)
}

func TestCancelStopsFrames(t *testing.T) {
	items := itemMap{"a": {ID: "a", Width: 10, Height: models.Fixed(10)}}
	e, target, sched := newTestEngine(t, items, boundsMap{})
	require.True(t, e.CenterOn("a", 0, 0))

	e.Cancel()
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, sched.pending)
	sched.fire(epoch.Add(time.Second))
	assert.Equal(t, 0, target.sets)
}

func TestCenterOnSubElement(t *testing.T) {
	items := itemMap{"card": {ID: "card", X: 0, Y: 0, Width: 400, Height: models.Fixed(400)}}
	bounds := boundsMap{SubElementID("card", "labs"): {X: 300, Y: 200, Width: 100, Height: 50}}
	e, target, _ := newTestEngine(t, items, bounds)
	target.Controller.SetViewport(geom.Viewport{X: 100, Y: 50, Zoom: 0.5})

	require.True(t, e.CenterOnSubElement("card", "labs", 0, 0))
	tr, ok := e.Active()
	require.True(t, ok)
	// Screen center (350, 225) seen through {100, 50, 0.5}.
	assert.InDelta(t, 500, tr.destination.X, 1e-9)
	assert.InDelta(t, 350, tr.destination.Y, 1e-9)
	assert.InDelta(t, 1.2, tr.Final.Zoom, 1e-12)
}

func TestCenterOnSubElementFallsBackToItem(t *testing.T) {
	items := itemMap{"card": {ID: "card", X: 100, Y: 100, Width: 200, Height: models.Fixed(100)}}
	e, _, _ := newTestEngine(t, items, boundsMap{})

	require.True(t, e.CenterOnSubElement("card", "missing", 0, 0))
	tr, _ := e.Active()
	assert.InDelta(t, 200, tr.destination.X, 1e-9)
	assert.InDelta(t, 150, tr.destination.Y, 1e-9)
	assert.InDelta(t, 1.2, tr.Final.Zoom, 1e-12)

	assert.False(t, e.CenterOnSubElement("nope", "missing", 0, 0))
}

func TestCenterOnSubElementUnknownItemIgnoresStaleBounds(t *testing.T) {
	bounds := boundsMap{SubElementID("ghost", "lab"): {X: 100, Y: 100, Width: 50, Height: 50}}
	e, target, sched := newTestEngine(t, itemMap{}, bounds)
	before := target.Viewport()

	assert.False(t, e.CenterOnSubElement("ghost", "lab", 0, 0))
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, sched.pending)

	sched.fire(epoch.Add(2 * time.Second))
	assert.Equal(t, 0, target.sets)
	assert.Equal(t, before, target.Viewport())
}
