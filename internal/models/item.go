// Package models defines the domain types of the board.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Item kinds recognised by the timeline layout. Other kinds are stored
// and rendered but never placed by the layout.
const (
	KindEvent      = "event"
	KindLab        = "lab"
	KindMedication = "medication"
)

// Item is a card on the board, positioned in world coordinates.
type Item struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind,omitempty"`
	Title     string     `json:"title,omitempty"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Height    Height     `json:"height"`
	Date      *time.Time `json:"date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Track     string     `json:"track,omitempty"`
	Body      string     `json:"body,omitempty"`
	Checksum  string     `json:"checksum,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Dated reports whether the item carries a date the timeline can place.
func (i Item) Dated() bool { return i.Date != nil && !i.Date.IsZero() }

// ItemMetadata is a lightweight representation returned by storage listings.
type ItemMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutoHeight is the wire form of an unmeasured height.
const AutoHeight = "auto"

// Height is either a fixed number of world units or the "auto" sentinel,
// meaning the renderer sizes the card and the value must be measured.
type Height struct {
	Value float64
	Auto  bool
}

// Fixed returns a numeric height.
func Fixed(v float64) Height { return Height{Value: v} }

// Auto returns the "auto" sentinel.
func Auto() Height { return Height{Auto: true} }

func (h Height) String() string {
	if h.Auto {
		return AutoHeight
	}
	return strconv.FormatFloat(h.Value, 'f', -1, 64)
}

// MarshalJSON emits a number or "auto".
func (h Height) MarshalJSON() ([]byte, error) {
	if h.Auto {
		return json.Marshal(AutoHeight)
	}
	return json.Marshal(h.Value)
}

// UnmarshalJSON accepts a number, "auto" or a numeric string.
func (h *Height) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return h.set(v)
}

// MarshalYAML emits a number or "auto".
func (h Height) MarshalYAML() (any, error) {
	if h.Auto {
		return AutoHeight, nil
	}
	return h.Value, nil
}

// UnmarshalYAML accepts a number or "auto".
func (h *Height) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return h.set(v)
}

func (h *Height) set(v any) error {
	switch t := v.(type) {
	case nil:
		*h = Auto()
	case float64:
		*h = Fixed(t)
	case int:
		*h = Fixed(float64(t))
	case string:
		if t == AutoHeight || t == "" {
			*h = Auto()
			return nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fmt.Errorf("models: invalid height %q", t)
		}
		*h = Fixed(f)
	default:
		return fmt.Errorf("models: invalid height type %T", v)
	}
	return nil
}
