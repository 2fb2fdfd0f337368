package internal

import "io"

// Mode selects which front end Run serves.
type Mode int

// Modes.
const (
	// ModeServe runs the HTTP API, SSE stream and board watcher.
	ModeServe Mode = iota
	// ModeMCP serves MCP tools over stdin/stdout.
	ModeMCP
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode selects the front end.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithLogOutput redirects the JSON log stream.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
