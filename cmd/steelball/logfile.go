package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/appengine-ltd/steelball/internal/config"
	"github.com/appengine-ltd/steelball/internal/logger"
)

// terminalLogWriter sends logs to steelball.log in the user config dir so
// they do not tear the terminal UI, falling back to discarding them. The
// returned close func is always safe to call.
func terminalLogWriter(cfg config.Config) (io.Writer, func() error) {
	noop := func() error { return nil }
	dir, err := config.Dir()
	if err != nil {
		return io.Discard, noop
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard, noop
	}
	f, err := os.OpenFile(filepath.Join(dir, "steelball.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, noop
	}
	logger.For("cli").WithField("level", cfg.Log.Level).Debug("terminal session logging to file")
	return f, f.Close
}
