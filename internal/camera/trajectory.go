// Package camera animates the board viewport toward an item or a named
// sub-element with a three-phase fly-to: zoom out around the current
// center, pan at the zoomed-out level, then zoom in on the target.
package camera

import (
	"time"

	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/viewport"
)

// Phase identifies which leg of a trajectory is active.
type Phase int

const (
	Idle Phase = iota
	ZoomingOut
	Panning
	ZoomingIn
)

func (p Phase) String() string {
	switch p {
	case ZoomingOut:
		return "zooming_out"
	case Panning:
		return "panning"
	case ZoomingIn:
		return "zooming_in"
	default:
		return "idle"
	}
}

// EaseInOutQuad accelerates through the first half and decelerates through
// the second.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Trajectory is the precomputed path of one fly-to.
type Trajectory struct {
	Start       geom.Viewport
	ZoomOutZoom float64
	// Through is the viewport at the end of the zoom-out phase.
	Through geom.Viewport
	// Target centers the destination at ZoomOutZoom (end of the pan phase).
	Target geom.Viewport
	Final  geom.Viewport

	T1, T2, T3 time.Duration

	origin      geom.Point
	destination geom.Point
	container   geom.Size
}

// PlanParams are the inputs of Plan.
type PlanParams struct {
	Start geom.Viewport
	// Destination is the world point to center at the end.
	Destination geom.Point
	FinalZoom   float64
	Container   geom.Size
	Duration    time.Duration
	Policy      viewport.ZoomPolicy
	// ZoomOutFactor scales Start.Zoom to obtain the zoomed-out level.
	ZoomOutFactor float64
}

// Plan computes a closed-form three-phase trajectory.
func Plan(p PlanParams) Trajectory {
	origin := p.Start.ScreenToWorld(p.Container.Center())
	zoomOut := p.Policy.Clamp(p.Start.Zoom * p.ZoomOutFactor)
	finalZoom := p.Policy.Clamp(p.FinalZoom)

	third := p.Duration / 3
	return Trajectory{
		Start:       p.Start,
		ZoomOutZoom: zoomOut,
		Through:     geom.Centering(origin, zoomOut, p.Container),
		Target:      geom.Centering(p.Destination, zoomOut, p.Container),
		Final:       geom.Centering(p.Destination, finalZoom, p.Container),
		T1:          third,
		T2:          2 * third,
		T3:          p.Duration,
		origin:      origin,
		destination: p.Destination,
		container:   p.Container,
	}
}

// Duration returns the total length of the trajectory.
func (tr Trajectory) Duration() time.Duration { return tr.T3 }

// Phase returns the leg active at elapsed, or Idle once the trajectory is
// over.
func (tr Trajectory) Phase(elapsed time.Duration) Phase {
	switch {
	case elapsed >= tr.T3:
		return Idle
	case elapsed < tr.T1:
		return ZoomingOut
	case elapsed < tr.T2:
		return Panning
	default:
		return ZoomingIn
	}
}

// Sample returns the viewport at elapsed.
func (tr Trajectory) Sample(elapsed time.Duration) geom.Viewport {
	if elapsed <= 0 {
		return tr.Start
	}
	if elapsed >= tr.T3 {
		return tr.Final
	}

	switch tr.Phase(elapsed) {
	case ZoomingOut:
		k := EaseInOutQuad(fraction(elapsed, 0, tr.T1))
		if k == 0 {
			return tr.Start
		}
		zoom := geom.Lerp(tr.Start.Zoom, tr.ZoomOutZoom, k)
		return geom.Centering(tr.origin, zoom, tr.container)
	case Panning:
		k := EaseInOutQuad(fraction(elapsed, tr.T1, tr.T2))
		return geom.Viewport{
			X:    geom.Lerp(tr.Through.X, tr.Target.X, k),
			Y:    geom.Lerp(tr.Through.Y, tr.Target.Y, k),
			Zoom: tr.ZoomOutZoom,
		}
	default:
		k := EaseInOutQuad(fraction(elapsed, tr.T2, tr.T3))
		zoom := geom.Lerp(tr.ZoomOutZoom, tr.Final.Zoom, k)
		return geom.Centering(tr.destination, zoom, tr.container)
	}
}

func fraction(elapsed, from, to time.Duration) float64 {
	span := to - from
	if span <= 0 {
		return 1
	}
	return geom.Clamp(float64(elapsed-from)/float64(span), 0, 1)
}
