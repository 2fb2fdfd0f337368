// Package geom defines the value types shared by the viewport and camera:
// points, sizes, rectangles and the world-to-screen camera transform.
package geom

// Point is a position in either world or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of a box of this size anchored at the origin.
func (s Size) Center() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// Known reports whether both dimensions are positive.
func (s Size) Known() bool { return s.Width > 0 && s.Height > 0 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Viewport is the camera transform: world space is scaled by Zoom, then
// translated by (X, Y) to produce screen space.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Identity is the viewport a board mounts with.
var Identity = Viewport{X: 0, Y: 0, Zoom: 1}

// Offset returns the translation part of the viewport.
func (v Viewport) Offset() Point { return Point{X: v.X, Y: v.Y} }

// WorldToScreen maps a world point into screen space.
func (v Viewport) WorldToScreen(p Point) Point {
	return p.Scale(v.Zoom).Add(v.Offset())
}

// ScreenToWorld maps a screen point into world space.
func (v Viewport) ScreenToWorld(p Point) Point {
	return p.Sub(v.Offset()).Scale(1 / v.Zoom)
}

// Centering returns the viewport at zoom that puts world point c at the
// center of a container of the given size.
func Centering(c Point, zoom float64, container Size) Viewport {
	mid := container.Center()
	return Viewport{
		X:    mid.X - c.X*zoom,
		Y:    mid.Y - c.Y*zoom,
		Zoom: zoom,
	}
}

// CenterWorld is the world point at the middle of the container together
// with the zoom it is seen at.
type CenterWorld struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by k.
func Lerp(a, b, k float64) float64 {
	return a + (b-a)*k
}
