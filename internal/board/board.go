// Package board owns the live camera: one goroutine holds the viewport
// controller, the camera engine, the surface registry and the frame
// scheduler, and serves named commands sent on a channel.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/camera"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/surface"
	"github.com/safal938/board28-sub000/internal/viewport"
)

// Items is the item provider the board reads from.
type Items interface {
	camera.Items
	First() (models.Item, bool)
}

// Keymap binds keyboard shortcuts. Keys are compared case-insensitively
// with surrounding spaces ignored.
type Keymap struct {
	ResetView       string
	CenterFirstItem string
}

// DefaultKeymap returns the stock shortcuts.
func DefaultKeymap() Keymap {
	return Keymap{ResetView: "ctrl+r", CenterFirstItem: "ctrl+1"}
}

// Board serves commands from a single owner goroutine started by Run.
type Board struct {
	items    Items
	policy   viewport.ZoomPolicy
	settings camera.Settings
	keys     Keymap
	interval time.Duration
	logger   *slog.Logger
	observe  func(geom.Viewport, string)

	cmds chan Command
	done chan struct{}

	// Owned by the Run goroutine.
	ctrl    *viewport.Controller
	engine  *camera.Engine
	surface *surface.Registry
	frames  *FrameScheduler
}

// Option configures a Board.
type Option func(*Board)

// WithPolicy sets the zoom policy.
func WithPolicy(p viewport.ZoomPolicy) Option {
	return func(b *Board) { b.policy = p }
}

// WithCameraSettings sets the fly-to defaults.
func WithCameraSettings(s camera.Settings) Option {
	return func(b *Board) { b.settings = s }
}

// WithKeymap sets the keyboard shortcuts.
func WithKeymap(k Keymap) Option {
	return func(b *Board) { b.keys = k }
}

// WithFrameInterval sets the tick interval used while frames are pending.
func WithFrameInterval(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithObserver registers fn to receive every viewport change with its CSS
// transform. fn runs on the board goroutine and must not block.
func WithObserver(fn func(v geom.Viewport, transform string)) Option {
	return func(b *Board) { b.observe = fn }
}

// New builds a board. Commands are served once Run is called.
func New(items Items, opts ...Option) *Board {
	b := &Board{
		items:    items,
		policy:   viewport.DefaultZoomPolicy(),
		settings: camera.DefaultSettings(),
		keys:     DefaultKeymap(),
		interval: 16 * time.Millisecond,
		logger:   slog.Default(),
		cmds:     make(chan Command),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.ctrl = viewport.NewController(
		viewport.WithPolicy(b.policy),
		viewport.WithOnChange(b.changed),
	)
	b.surface = surface.NewRegistry()
	b.frames = NewFrameScheduler()
	b.engine = camera.NewEngine(b.ctrl, b.frames, items, b.surface,
		camera.WithSettings(b.settings),
		camera.WithPolicy(b.policy),
		camera.WithLogger(b.logger),
	)
	return b
}

// Run serves commands until ctx is cancelled. Any in-flight trajectory is
// cancelled on the way out. Run must be called at most once.
func (b *Board) Run(ctx context.Context) error {
	defer close(b.done)

	var ticker *time.Ticker
	var tick <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			b.engine.Cancel()
			b.logger.Info("board: stopped")
			return nil
		case cmd := <-b.cmds:
			cmd.reply <- b.handle(cmd)
		case now := <-tick:
			b.frames.Tick(now)
		}

		switch pending := b.frames.Pending() > 0; {
		case pending && ticker == nil:
			ticker = time.NewTicker(b.interval)
			tick = ticker.C
		case !pending && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
}

// Do sends cmd to the board loop and waits for the reply. It fails with
// apperr.ErrClosed once the loop has stopped.
func (b *Board) Do(ctx context.Context, cmd Command) (Reply, error) {
	cmd.reply = make(chan Reply, 1)
	select {
	case b.cmds <- cmd:
	case <-b.done:
		return Reply{}, apperr.ErrClosed
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
	select {
	case r := <-cmd.reply:
		return r, r.Err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

func (b *Board) handle(cmd Command) Reply {
	var r Reply
	switch cmd.Name {
	case CmdCenterOnItem:
		r.Started = b.engine.CenterOn(cmd.ItemID, cmd.FinalZoom, cmd.Duration)
	case CmdCenterOnSubElement:
		r.Started = b.engine.CenterOnSubElement(cmd.ItemID, cmd.SubElement, cmd.FinalZoom, cmd.Duration)
	case CmdGetViewport, CmdGetViewportCenterWorld:
	case CmdSetViewport:
		b.ctrl.SetViewport(cmd.Viewport)
	case CmdWheel:
		b.ctrl.OnWheel(cmd.Point, cmd.DeltaY)
	case CmdZoomIn:
		b.ctrl.ZoomIn()
	case CmdZoomOut:
		b.ctrl.ZoomOut()
	case CmdPanBegin:
		r.Started = b.ctrl.BeginPan(cmd.Point, cmd.OnItem)
	case CmdPanMove:
		b.ctrl.OnPanMove(cmd.Point)
	case CmdPanEnd:
		b.ctrl.EndPan()
	case CmdResetView:
		b.reset()
	case CmdCancel:
		b.engine.Cancel()
	case CmdKey:
		r.Handled, r.Started = b.key(cmd.Key)
	case CmdSurface:
		b.surface.Apply(cmd.Surface)
		if cmd.Surface.Container != nil {
			b.ctrl.SetContainerSize(*cmd.Surface.Container)
		}
	default:
		r.Err = fmt.Errorf("%w: unknown board command %q", apperr.ErrInvalidArgument, cmd.Name)
		return r
	}

	r.Viewport = b.ctrl.Viewport()
	r.Transform = b.ctrl.Transform()
	r.Dragging = b.ctrl.Dragging()
	r.Phase = b.engine.State()
	if c, ok := b.ctrl.CenterWorld(); ok {
		r.Center = &c
	}
	return r
}

func (b *Board) reset() {
	b.engine.Cancel()
	b.ctrl.ResetView()
}

func (b *Board) key(k string) (handled, started bool) {
	switch normalizeKey(k) {
	case "":
		return false, false
	case normalizeKey(b.keys.ResetView):
		b.reset()
		return true, false
	case normalizeKey(b.keys.CenterFirstItem):
		first, ok := b.items.First()
		if !ok {
			b.logger.Warn("board: no items to center on")
			return true, false
		}
		return true, b.engine.CenterOn(first.ID, 0, 0)
	}
	return false, false
}

func (b *Board) changed(v geom.Viewport) {
	if b.observe != nil {
		b.observe(v, viewport.Transform(v))
	}
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), " ", ""))
}
