package internal

import (
	"io"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer
	exportDir string
	watch     bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput redirects the JSON log stream. The mcp command logs to
// stderr because stdout carries the protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithExportDir overrides export.dir from the configuration.
func WithExportDir(dir string) Option {
	return func(a *application) {
		a.exportDir = dir
	}
}

// WithWatch keeps the export command running and republishes on database changes.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}

func newApplication(opts []Option) *application {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
