package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/camera"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/surface"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeItems struct {
	mu    sync.Mutex
	items map[string]models.Item
	order []string
}

func newFakeItems(items ...models.Item) *fakeItems {
	f := &fakeItems{items: map[string]models.Item{}}
	for _, it := range items {
		f.items[it.ID] = it
		f.order = append(f.order, it.ID)
	}
	return f
}

func (f *fakeItems) Item(id string) (models.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	return it, ok
}

func (f *fakeItems) First() (models.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.order) == 0 {
		return models.Item{}, false
	}
	return f.items[f.order[0]], true
}

func (f *fakeItems) MoveTo(_ context.Context, id string, x, y float64) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	it.X, it.Y = x, y
	f.items[id] = it
	return &it, nil
}

type recorder struct {
	mu   sync.Mutex
	seen []geom.Viewport
}

func (r *recorder) observe(v geom.Viewport, _ string) {
	r.mu.Lock()
	r.seen = append(r.seen, v)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func startBoard(t *testing.T, items Items, opts ...Option) *Board {
	t.Helper()
	b := New(items, append([]Option{WithFrameInterval(2 * time.Millisecond)}, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	return b
}

func eventually(t *testing.T, timeout time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func withContainer(t *testing.T, b *Board, w, h float64) {
	t.Helper()
	require.NoError(t, b.Report(context.Background(), surface.Report{Container: &geom.Size{Width: w, Height: h}}))
}

func TestFrameSchedulerOrderAndCancel(t *testing.T) {
	s := NewFrameScheduler()
	var got []int
	s.RequestFrame(func(time.Time) { got = append(got, 1) })
	id := s.RequestFrame(func(time.Time) { got = append(got, 2) })
	s.RequestFrame(func(time.Time) {
		got = append(got, 3)
		s.RequestFrame(func(time.Time) { got = append(got, 4) })
	})
	s.CancelFrame(id)

	assert.Equal(t, 2, s.Tick(time.Now()))
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, 1, s.Pending(), "callback registered during tick waits")
	s.Tick(time.Now())
	assert.Equal(t, []int{1, 3, 4}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestFrameSchedulerCancelDropsQueuedIDs(t *testing.T) {
	s := NewFrameScheduler()
	for range 50 {
		s.CancelFrame(s.RequestFrame(func(time.Time) {}))
	}
	keep := s.RequestFrame(func(time.Time) {})
	s.CancelFrame(keep + 100)

	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, []camera.FrameID{keep}, s.order)
	assert.Equal(t, 1, s.Tick(time.Now()))
	assert.Empty(t, s.order)
}

func TestCenterOnItemAnimatesToCenter(t *testing.T) {
	items := newFakeItems(models.Item{ID: "card", X: 1000, Y: 500, Width: 200, Height: models.Fixed(100)})
	rec := &recorder{}
	b := startBoard(t, items, WithObserver(rec.observe))
	withContainer(t, b, 800, 600)
	ctx := context.Background()

	started, err := b.CenterOnItem(ctx, "card", 1, 60*time.Millisecond)
	require.NoError(t, err)
	require.True(t, started)

	eventually(t, 2*time.Second, func() bool {
		r, err := b.State(ctx)
		return err == nil && r.Phase == camera.Idle
	}, "trajectory never finished")

	center, err := b.ViewportCenterWorld(ctx)
	require.NoError(t, err)
	require.NotNil(t, center)
	assert.InDelta(t, 1100, center.X, 1e-6)
	assert.InDelta(t, 550, center.Y, 1e-6)
	assert.InDelta(t, 1, center.Zoom, 1e-9)
	assert.Greater(t, rec.count(), 1, "observer sees each frame")
}

func TestCenterOnUnknownItem(t *testing.T) {
	b := startBoard(t, newFakeItems())
	started, err := b.CenterOnItem(context.Background(), "ghost", 0, 0)
	require.NoError(t, err)
	assert.False(t, started)
}

func TestViewportCenterNullUntilMeasured(t *testing.T) {
	b := startBoard(t, newFakeItems())
	c, err := b.ViewportCenterWorld(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestResetKeyCancelsTrajectory(t *testing.T) {
	items := newFakeItems(models.Item{ID: "card", X: 5000, Y: 5000, Width: 10, Height: models.Fixed(10)})
	b := startBoard(t, items)
	withContainer(t, b, 800, 600)
	ctx := context.Background()

	_, err := b.CenterOnItem(ctx, "card", 1, time.Hour)
	require.NoError(t, err)
	r, err := b.Do(ctx, Command{Name: CmdKey, Key: " Ctrl+R "})
	require.NoError(t, err)
	assert.True(t, r.Handled)
	assert.Equal(t, camera.Idle, r.Phase)
	assert.Equal(t, geom.Identity, r.Viewport)

	time.Sleep(20 * time.Millisecond)
	r, err = b.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, geom.Identity, r.Viewport, "no frames after reset")
}

func TestCenterFirstItemKey(t *testing.T) {
	items := newFakeItems(
		models.Item{ID: "a", X: 0, Y: 0, Width: 100, Height: models.Fixed(100)},
		models.Item{ID: "b", X: 900, Y: 900, Width: 100, Height: models.Fixed(100)},
	)
	b := startBoard(t, items)
	withContainer(t, b, 800, 600)

	r, err := b.Do(context.Background(), Command{Name: CmdKey, Key: "ctrl+1"})
	require.NoError(t, err)
	assert.True(t, r.Handled)
	assert.True(t, r.Started)

	r, err = b.Do(context.Background(), Command{Name: CmdKey, Key: "ctrl+z"})
	require.NoError(t, err)
	assert.False(t, r.Handled)
}

func TestGesturesThroughCommands(t *testing.T) {
	b := startBoard(t, newFakeItems())
	withContainer(t, b, 800, 600)
	ctx := context.Background()

	r, err := b.Do(ctx, Command{Name: CmdWheel, Point: geom.Point{X: 200, Y: 100}, DeltaY: -1})
	require.NoError(t, err)
	assert.InDelta(t, 1.1, r.Viewport.Zoom, 1e-9)

	r, err = b.Do(ctx, Command{Name: CmdPanBegin, Point: geom.Point{X: 10, Y: 10}})
	require.NoError(t, err)
	require.True(t, r.Started)
	before := r.Viewport
	r, err = b.Do(ctx, Command{Name: CmdPanMove, Point: geom.Point{X: 40, Y: 30}})
	require.NoError(t, err)
	assert.InDelta(t, before.X+30, r.Viewport.X, 1e-9)
	assert.InDelta(t, before.Y+20, r.Viewport.Y, 1e-9)
	r, err = b.Do(ctx, Command{Name: CmdPanEnd})
	require.NoError(t, err)
	assert.False(t, r.Dragging)

	r, err = b.SetViewport(ctx, geom.Viewport{Zoom: 50})
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.Viewport.Zoom)
}

func TestUnknownCommand(t *testing.T) {
	b := startBoard(t, newFakeItems())
	_, err := b.Do(context.Background(), Command{Name: "explode"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestPlaceAtCenter(t *testing.T) {
	items := newFakeItems(models.Item{ID: "n", Width: 200, Height: models.Fixed(100)})
	b := startBoard(t, items)
	ctx := context.Background()

	_, err := b.PlaceAtCenter(ctx, items, "n")
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "no container yet")

	withContainer(t, b, 800, 600)
	it, err := b.PlaceAtCenter(ctx, items, "n")
	require.NoError(t, err)
	assert.Equal(t, 300.0, it.X)
	assert.Equal(t, 250.0, it.Y)
}

func TestDoAfterStop(t *testing.T) {
	b := New(newFakeItems())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = b.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, err := b.State(context.Background())
	assert.True(t, errors.Is(err, apperr.ErrClosed))
}
