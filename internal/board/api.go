package board

import (
	"context"
	"fmt"
	"time"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/surface"
)

// CenterOnItem starts a fly-to toward an item. Zero finalZoom or duration
// select the defaults. It reports whether the item was found.
func (b *Board) CenterOnItem(ctx context.Context, id string, finalZoom float64, d time.Duration) (bool, error) {
	r, err := b.Do(ctx, Command{Name: CmdCenterOnItem, ItemID: id, FinalZoom: finalZoom, Duration: d})
	return r.Started, err
}

// CenterOnSubElement starts a fly-to toward a measured sub-element.
func (b *Board) CenterOnSubElement(ctx context.Context, id, sub string, finalZoom float64, d time.Duration) (bool, error) {
	r, err := b.Do(ctx, Command{Name: CmdCenterOnSubElement, ItemID: id, SubElement: sub, FinalZoom: finalZoom, Duration: d})
	return r.Started, err
}

// ViewportCenterWorld returns the world point at the container center, or
// nil while the container size is unknown.
func (b *Board) ViewportCenterWorld(ctx context.Context) (*geom.CenterWorld, error) {
	r, err := b.Do(ctx, Command{Name: CmdGetViewportCenterWorld})
	return r.Center, err
}

// State returns the current viewport snapshot.
func (b *Board) State(ctx context.Context) (Reply, error) {
	return b.Do(ctx, Command{Name: CmdGetViewport})
}

// SetViewport replaces the viewport, clamping zoom.
func (b *Board) SetViewport(ctx context.Context, v geom.Viewport) (Reply, error) {
	return b.Do(ctx, Command{Name: CmdSetViewport, Viewport: v})
}

// ResetView cancels any fly-to and returns to the identity viewport.
func (b *Board) ResetView(ctx context.Context) (Reply, error) {
	return b.Do(ctx, Command{Name: CmdResetView})
}

// Report applies display measurements.
func (b *Board) Report(ctx context.Context, rep surface.Report) error {
	_, err := b.Do(ctx, Command{Name: CmdSurface, Surface: rep})
	return err
}

// Mover persists item positions.
type Mover interface {
	Item(id string) (models.Item, bool)
	MoveTo(ctx context.Context, id string, x, y float64) (*models.Item, error)
}

// PlaceAtCenter moves an item so its center sits on the world point at the
// viewport center. Items with an auto height are placed with their top
// edge on that point.
func (b *Board) PlaceAtCenter(ctx context.Context, m Mover, id string) (*models.Item, error) {
	center, err := b.ViewportCenterWorld(ctx)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, fmt.Errorf("%w: container size not reported yet", apperr.ErrInvalidArgument)
	}
	it, ok := m.Item(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	y := center.Y
	if !it.Height.Auto {
		y -= it.Height.Value / 2
	}
	return m.MoveTo(ctx, id, center.X-it.Width/2, y)
}
