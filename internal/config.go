package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/camera"
	"github.com/safal938/board28-sub000/internal/layout"
	"github.com/safal938/board28-sub000/internal/viewport"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Board    BoardConfig       `yaml:"board"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Viewport ViewportConfig    `yaml:"viewport"`
	Camera   CameraConfig      `yaml:"camera"`
	Timeline TimelineConfig    `yaml:"timeline"`
	Frames   FramesConfig      `yaml:"frames"`
	Keys     KeysConfig        `yaml:"keys"`
	SSE      SSEConfig         `yaml:"sse"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{
		&c.App, &c.Board, &c.SQLite, &c.Viewport, &c.Camera,
		&c.Timeline, &c.Frames, &c.Keys, &c.SSE,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Camera.FinalZoom < c.Viewport.ZoomMin || c.Camera.FinalZoom > c.Viewport.ZoomMax {
		return fmt.Errorf("camera: final_zoom %g outside viewport zoom range [%g, %g]",
			c.Camera.FinalZoom, c.Viewport.ZoomMin, c.Viewport.ZoomMax)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port         int   `yaml:"port"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MaxBodyBytes, validation.Min(int64(0))),
	)
}

// BoardConfig holds the path to the directory of card files.
type BoardConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the board configuration.
func (c *BoardConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ViewportConfig holds the zoom bounds and steps.
type ViewportConfig struct {
	ZoomMin    float64 `yaml:"zoom_min"`
	ZoomMax    float64 `yaml:"zoom_max"`
	WheelStep  float64 `yaml:"wheel_step"`
	ButtonStep float64 `yaml:"button_step"`
}

// Validate validates the viewport configuration.
func (c *ViewportConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ZoomMin, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.ZoomMax, validation.Required),
		validation.Field(&c.WheelStep, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0).Exclusive()),
		validation.Field(&c.ButtonStep, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0).Exclusive()),
	); err != nil {
		return err
	}
	if c.ZoomMax < c.ZoomMin {
		return errors.New("viewport: zoom_max must not be below zoom_min")
	}
	return nil
}

// Policy converts the configuration into a zoom policy.
func (c *ViewportConfig) Policy() viewport.ZoomPolicy {
	return viewport.ZoomPolicy{Min: c.ZoomMin, Max: c.ZoomMax, WheelStep: c.WheelStep, ButtonStep: c.ButtonStep}
}

// CameraConfig holds the fly-to defaults.
type CameraConfig struct {
	FinalZoom           float64       `yaml:"final_zoom"`
	SubElementFinalZoom float64       `yaml:"sub_element_final_zoom"`
	Duration            time.Duration `yaml:"duration"`
	ZoomOutFactor       float64       `yaml:"zoom_out_factor"`
	FallbackHeight      float64       `yaml:"fallback_height"`
}

// Validate validates the camera configuration.
func (c *CameraConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FinalZoom, validation.Required),
		validation.Field(&c.SubElementFinalZoom, validation.Required),
		validation.Field(&c.Duration, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.ZoomOutFactor, validation.Required, validation.Max(1.0)),
		validation.Field(&c.FallbackHeight, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// Settings converts the configuration into engine settings.
func (c *CameraConfig) Settings() camera.Settings {
	return camera.Settings{
		FinalZoom:           c.FinalZoom,
		SubElementFinalZoom: c.SubElementFinalZoom,
		Duration:            c.Duration,
		ZoomOutFactor:       c.ZoomOutFactor,
		FallbackHeight:      c.FallbackHeight,
	}
}

// TimelineConfig holds the timeline layout geometry.
type TimelineConfig struct {
	Width        float64 `yaml:"width"`
	Padding      float64 `yaml:"padding"`
	OriginX      float64 `yaml:"origin_x"`
	OriginY      float64 `yaml:"origin_y"`
	TrackSpacing float64 `yaml:"track_spacing"`
	CacheSize    int     `yaml:"cache_size"`
}

// Validate validates the timeline configuration.
func (c *TimelineConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.Padding, validation.Min(0.0)),
		validation.Field(&c.TrackSpacing, validation.Min(0.0)),
		validation.Field(&c.CacheSize, validation.Min(0)),
	); err != nil {
		return err
	}
	if 2*c.Padding >= c.Width {
		return errors.New("timeline: padding leaves no room on the track")
	}
	return nil
}

// Settings converts the configuration into layout settings.
func (c *TimelineConfig) Settings() layout.Settings {
	return layout.Settings{
		Width:        c.Width,
		Padding:      c.Padding,
		OriginX:      c.OriginX,
		OriginY:      c.OriginY,
		TrackSpacing: c.TrackSpacing,
	}
}

// FramesConfig holds the frame scheduler tick interval.
type FramesConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Validate validates the frames configuration.
func (c *FramesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(time.Millisecond), validation.Max(time.Second)),
	)
}

// KeysConfig binds the keyboard shortcuts.
type KeysConfig struct {
	ResetView       string `yaml:"reset_view"`
	CenterFirstItem string `yaml:"center_first_item"`
}

// Validate validates the keys configuration.
func (c *KeysConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ResetView, validation.Required),
		validation.Field(&c.CenterFirstItem, validation.Required),
	); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(c.ResetView), strings.TrimSpace(c.CenterFirstItem)) {
		return errors.New("keys: reset_view and center_first_item must differ")
	}
	return nil
}

// Keymap converts the configuration into board shortcuts.
func (c *KeysConfig) Keymap() board.Keymap {
	return board.Keymap{ResetView: c.ResetView, CenterFirstItem: c.CenterFirstItem}
}

// SSEConfig holds the event stream settings.
type SSEConfig struct {
	BoardThrottle time.Duration `yaml:"board_throttle"`
}

// Validate validates the SSE configuration.
func (c *SSEConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BoardThrottle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	policy := viewport.DefaultZoomPolicy()
	cam := camera.DefaultSettings()
	tl := layout.DefaultSettings()
	keys := board.DefaultKeymap()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:         8080,
				MaxBodyBytes: 1 << 20,
			},
		},
		Board: BoardConfig{
			Path: "./board",
		},
		SQLite: SQLiteConfig{
			Path: "./board.db",
		},
		Viewport: ViewportConfig{
			ZoomMin:    policy.Min,
			ZoomMax:    policy.Max,
			WheelStep:  policy.WheelStep,
			ButtonStep: policy.ButtonStep,
		},
		Camera: CameraConfig{
			FinalZoom:           cam.FinalZoom,
			SubElementFinalZoom: cam.SubElementFinalZoom,
			Duration:            cam.Duration,
			ZoomOutFactor:       cam.ZoomOutFactor,
			FallbackHeight:      cam.FallbackHeight,
		},
		Timeline: TimelineConfig{
			Width:        tl.Width,
			Padding:      tl.Padding,
			OriginX:      tl.OriginX,
			OriginY:      tl.OriginY,
			TrackSpacing: tl.TrackSpacing,
			CacheSize:    16,
		},
		Frames: FramesConfig{
			Interval: 16 * time.Millisecond,
		},
		Keys: KeysConfig{
			ResetView:       keys.ResetView,
			CenterFirstItem: keys.CenterFirstItem,
		},
		SSE: SSEConfig{
			BoardThrottle: 2 * time.Second,
		},
	}
}
