// Package grep runs one grepline invocation: it resolves the run
// configuration, compiles the patterns, and searches every source in order.
package grep

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/odvcencio/grepline/pkg/config"
	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/logging"
	"github.com/odvcencio/grepline/pkg/matcher"
	"github.com/odvcencio/grepline/pkg/output"
	"github.com/odvcencio/grepline/pkg/runconfig"
	"github.com/odvcencio/grepline/pkg/source"
)

// BuildInfo describes the binary for --version.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// IO carries the process streams and environment for a run.
type IO struct {
	Stdin            io.Reader
	Stdout           io.Writer
	Stderr           io.Writer
	Env              config.Env
	StdoutIsTerminal bool
	Build            BuildInfo
}

// Run executes grepline with args (program name excluded). Finding no
// matching line is not an error. Unreadable sources are reported on Stderr
// and skipped; configuration, matching, and output failures are returned.
func Run(args []string, streams IO) error {
	cfg, err := config.Load(streams.Env)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, streams.Stderr)
	defer logger.Close()

	logger.Info(logging.CategoryRun, "run_started", "", map[string]any{
		"args":   len(args),
		"config": cfg.Path,
	})

	if err := search(args, streams, cfg, logger); err != nil {
		logFailure(logger, err)
		return err
	}
	return nil
}

func search(args []string, streams IO, cfg *config.Config, logger *logging.Logger) error {
	rc, err := runconfig.Build(args, runconfig.Deps{
		Env:              streams.Env,
		Stdin:            source.NewStdin(streams.Stdin),
		StdoutIsTerminal: streams.StdoutIsTerminal,
		Logger:           logger,
		FileConfig:       cfg,
	})
	if err != nil {
		return err
	}
	opts := rc.Options()

	switch {
	case opts.ShowHelp:
		return writeHelp(streams.Stdout)
	case opts.ShowVersion:
		return writeVersion(streams.Stdout, streams.Build)
	}

	m, err := matcher.Compile(opts)
	if err != nil {
		return err
	}

	buf := output.NewBuffer(streams.Stdout, cfg.BufferSize)
	for _, src := range rc.Sources() {
		if err := src.Load(); err != nil {
			reportUnreadable(logger, src, err, opts.NoMessages)
			continue
		}

		spans, err := matcher.SearchLines(m, src.Content())
		if err != nil {
			return err
		}

		if err := buf.Render(&opts, src, spans); err != nil {
			if errors.Is(err, output.ErrSilentMatch) {
				logger.Info(logging.CategoryRun, "silent_match", "", map[string]any{"source": src.DisplayName()})
				return nil
			}
			logRenderFailure(logger, buf, err)
			return err
		}
	}

	if opts.Silent {
		return nil
	}
	if err := buf.Flush(); err != nil {
		logRenderFailure(logger, buf, err)
		return err
	}

	logger.Debug(logging.CategoryOutput, "output_flushed", "", map[string]any{"bytes": buf.Written()})
	logger.Info(logging.CategoryRun, "run_finished", "", map[string]any{"sources": len(rc.Sources())})
	return nil
}

// logFailure records the failing code and, for grepline errors, where the
// error was raised.
func logFailure(logger *logging.Logger, err error) {
	details := map[string]any{"code": string(gerrors.GetCode(err))}
	if e, ok := gerrors.As(err); ok {
		details["stack"] = e.StackTrace()
	}
	logger.Debug(logging.CategoryRun, "run_failed", err.Error(), details)
}

func logRenderFailure(logger *logging.Logger, buf *output.Buffer, err error) {
	logger.Info(logging.CategoryOutput, "render_write_failed", err.Error(), map[string]any{
		"bytes_written": buf.Written(),
	})
}

func newLogger(cfg *config.Config, stderr io.Writer) *logging.Logger {
	logger := logging.New(stderr)
	logger.SetMinLevel(logging.Level(cfg.Log.Level))
	if cfg.Log.File == "" {
		return logger
	}

	sink, err := logging.NewFileSink(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
	if err != nil {
		logger.Warn(logging.CategoryConfig, "event_log_unavailable", fmt.Sprintf("event log disabled: %v", err), nil)
		return logger
	}
	logger.SetSink(sink)
	return logger
}

// reportUnreadable prints the per-source failure unless messages are
// suppressed. The event is recorded either way.
func reportUnreadable(logger *logging.Logger, src *source.Ref, err error, quiet bool) {
	message := unreadableMessage(src, err)
	details := map[string]any{"path": src.Path}
	if quiet {
		logger.Info(logging.CategorySource, "source_unreadable", message, details)
		return
	}
	logger.Warn(logging.CategorySource, "source_unreadable", message, details)
}

func unreadableMessage(src *source.Ref, err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("%s not found!", src.Path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("Insufficient permissions to read from %s", src.Path)
	}
	if e, ok := gerrors.As(err); ok && e.Underlying != nil {
		return e.Underlying.Error()
	}
	return err.Error()
}
