// Package session opens the project, logger and history store shared by the
// gwtbuild commands.
package session

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/history"
	"github.com/flarebyte/gwtbuild/internal/logging"
	"github.com/flarebyte/gwtbuild/internal/step"
)

// Session is an opened project.
type Session struct {
	Project *config.Project
	Log     *zap.Logger
	Context *step.Context
	History *history.Store
}

// Flags holds the persistent root flags.
type Flags struct {
	Config   string
	LogLevel string
	NoColor  bool
}

// ReadFlags reads the persistent flags declared on the root command.
func ReadFlags(cmd *cobra.Command) (Flags, error) {
	var f Flags
	var err error
	if f.Config, err = cmd.Flags().GetString("config"); err != nil {
		return f, err
	}
	if f.LogLevel, err = cmd.Flags().GetString("log-level"); err != nil {
		return f, err
	}
	if f.NoColor, err = cmd.Flags().GetBool("no-color"); err != nil {
		return f, err
	}
	if f.Config == "" {
		f.Config = config.DefaultPath
	}
	return f, nil
}

// NewLogger builds the logger for the given flags and applies the colour
// setting process-wide.
func NewLogger(f Flags) (*zap.Logger, error) {
	if f.NoColor {
		color.NoColor = true
	}
	return logging.New(logging.Options{Level: f.LogLevel, NoColor: color.NoColor})
}

// Open loads the project file and, when history is enabled, opens the run
// history as the step recorder.
func Open(cmd *cobra.Command) (*Session, error) {
	f, err := ReadFlags(cmd)
	if err != nil {
		return nil, err
	}
	log, err := NewLogger(f)
	if err != nil {
		return nil, err
	}
	p, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	log.Debug("project loaded", zap.String("name", p.Name), zap.String("path", p.Path))
	s := &Session{Project: p, Log: log, Context: step.NewContext(p, log, nil)}
	if p.History.Enabled {
		h, err := history.Open(p.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		s.History = h
		s.Context.Recorder = h
	}
	return s, nil
}

// Close releases the history store and flushes the logger.
func (s *Session) Close() {
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			s.Log.Warn("failed to close history", zap.Error(err))
		}
	}
	_ = s.Log.Sync()
}
