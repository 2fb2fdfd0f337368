// Package surface keeps the display measurements browsers report: the
// viewing container's client size and the screen-space bounding boxes of
// rendered cards and their named sub-elements.
package surface

import (
	"maps"

	"github.com/safal938/board28-sub000/internal/geom"
)

// Report is one batch of measurements from a client.
type Report struct {
	Container *geom.Size           `json:"container,omitempty"`
	Elements  map[string]geom.Rect `json:"elements,omitempty"`
	Removed   []string             `json:"removed,omitempty"`
	// Replace drops every previously known element before applying Elements.
	Replace bool `json:"replace,omitempty"`
}

// Registry holds the latest measurements. It is not safe for concurrent
// use; the board loop owns it.
type Registry struct {
	container geom.Size
	elements  map[string]geom.Rect
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{elements: make(map[string]geom.Rect)}
}

// Apply merges a report into the registry.
func (r *Registry) Apply(rep Report) {
	if rep.Container != nil {
		r.container = *rep.Container
	}
	if rep.Replace {
		clear(r.elements)
	}
	maps.Copy(r.elements, rep.Elements)
	for _, id := range rep.Removed {
		delete(r.elements, id)
	}
}

// Bounds returns the last reported screen bounds of an element.
func (r *Registry) Bounds(elementID string) (geom.Rect, bool) {
	b, ok := r.elements[elementID]
	return b, ok
}

// ContainerSize returns the last reported container client size.
func (r *Registry) ContainerSize() geom.Size { return r.container }

// Len returns the number of measured elements.
func (r *Registry) Len() int { return len(r.elements) }
