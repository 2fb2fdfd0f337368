// Package layout places dated items on the timeline once, using the
// polylinear temporal scale. After placement the positions are plain world
// coordinates; nothing re-derives them from the scale at render time.
package layout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/timescale"
)

// Settings control the timeline geometry.
type Settings struct {
	Width        float64
	Padding      float64
	OriginX      float64
	OriginY      float64
	TrackSpacing float64
}

// DefaultSettings returns the stock timeline geometry.
func DefaultSettings() Settings {
	return Settings{Width: 4000, Padding: 100, TrackSpacing: 320}
}

// Items is the slice of the item provider the layout needs.
type Items interface {
	Dated(ctx context.Context) ([]models.Item, error)
	Update(ctx context.Context, id string, fn func(*models.Item)) (*models.Item, error)
}

// Placement is the computed position of one item.
type Placement struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
	Span  bool    `json:"span"`
}

// Result summarises a layout run.
type Result struct {
	Events int         `json:"events"`
	Placed []Placement `json:"placed"`
}

// Layout builds scales from the current dated items and writes placements
// back through the item provider.
type Layout struct {
	items    Items
	cache    *timescale.Cache
	settings Settings
	logger   *slog.Logger
}

// New creates a Layout. A nil cache disables memoization.
func New(items Items, cache *timescale.Cache, s Settings, logger *slog.Logger) *Layout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Layout{items: items, cache: cache, settings: s, logger: logger}
}

// Settings returns the timeline geometry.
func (l *Layout) Settings() Settings { return l.settings }

// Scale returns the temporal scale over the dates of every placeable item.
func (l *Layout) Scale(ctx context.Context) (*timescale.Scale, error) {
	items, err := l.placeable(ctx)
	if err != nil {
		return nil, err
	}
	return l.scale(items), nil
}

// Place computes placements for every placeable item and persists them.
// Items that fail to update are logged and skipped.
func (l *Layout) Place(ctx context.Context) (Result, error) {
	items, err := l.placeable(ctx)
	if err != nil {
		return Result{}, err
	}
	plan := Plan(items, l.scale(items), l.settings)

	res := Result{Events: len(items), Placed: make([]Placement, 0, len(plan))}
	for _, p := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, err := l.items.Update(ctx, p.ID, func(it *models.Item) {
			it.X = p.X
			it.Y = p.Y
			if p.Span {
				it.Width = p.Width
			}
		})
		if err != nil {
			l.logger.Warn("layout: place item failed",
				slog.String("item_id", p.ID),
				slog.String("error", err.Error()))
			continue
		}
		res.Placed = append(res.Placed, p)
	}
	l.logger.Info("layout: timeline placed",
		slog.Int("events", res.Events),
		slog.Int("placed", len(res.Placed)))
	return res, nil
}

// Plan computes placements without side effects. x is the scaled start
// date offset by OriginX; y is the row of the item's track, tracks taking
// rows in order of first appearance. Items with an end date span the
// scaled interval.
func Plan(items []models.Item, scale *timescale.Scale, s Settings) []Placement {
	rows := make(map[string]int)
	out := make([]Placement, 0, len(items))
	for _, it := range items {
		if !it.Dated() {
			continue
		}
		row, ok := rows[it.Track]
		if !ok {
			row = len(rows)
			rows[it.Track] = row
		}
		x := scale.At(*it.Date)
		p := Placement{
			ID:    it.ID,
			X:     s.OriginX + x,
			Y:     s.OriginY + float64(row)*s.TrackSpacing,
			Width: it.Width,
		}
		if it.EndDate != nil && it.EndDate.After(*it.Date) {
			p.Width = scale.At(*it.EndDate) - x
			p.Span = true
		}
		out = append(out, p)
	}
	return out
}

func (l *Layout) placeable(ctx context.Context) ([]models.Item, error) {
	dated, err := l.items.Dated(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout: list dated items: %w", err)
	}
	out := dated[:0:0]
	for _, it := range dated {
		if Placeable(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *Layout) scale(items []models.Item) *timescale.Scale {
	dates := make([]time.Time, 0, len(items))
	for _, it := range items {
		dates = append(dates, *it.Date)
	}
	if l.cache == nil {
		return timescale.New(dates, l.settings.Width, l.settings.Padding)
	}
	return l.cache.Get(dates, l.settings.Width, l.settings.Padding)
}

// Placeable reports whether the timeline positions the item.
func Placeable(it models.Item) bool {
	if !it.Dated() {
		return false
	}
	switch it.Kind {
	case models.KindEvent, models.KindLab, models.KindMedication:
		return true
	}
	return false
}
