// Package runconfig builds the frozen configuration for one invocation from
// command-line arguments, the configuration file, and the environment.
package runconfig

import (
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/odvcencio/grepline/pkg/colors"
	"github.com/odvcencio/grepline/pkg/config"
	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/logging"
	"github.com/odvcencio/grepline/pkg/options"
	"github.com/odvcencio/grepline/pkg/source"
)

// RunConfig is the resolved sources and options for one run.
type RunConfig struct {
	sources []*source.Ref
	options options.RunOptions
}

// Sources returns the content sources in command-line order.
func (c *RunConfig) Sources() []*source.Ref {
	return c.sources
}

// Options returns a copy of the run options.
func (c *RunConfig) Options() options.RunOptions {
	return c.options.Clone()
}

// Deps are the collaborators Build reads from instead of process globals.
type Deps struct {
	Env              config.Env
	Stdin            *source.Stdin
	StdoutIsTerminal bool
	Logger           *logging.Logger
	// FileConfig is the loaded configuration file; nil means defaults.
	FileConfig *config.Config
}

// Build resolves args (program name excluded) into a RunConfig.
func Build(args []string, deps Deps) (*RunConfig, error) {
	cfg := deps.FileConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	pre, err := options.Preprocess(args)
	if err != nil {
		return nil, err
	}

	// Palette warnings are held until the options say whether the run is
	// silent.
	var warnings []string
	collect := func(message string) { warnings = append(warnings, message) }

	base := options.Default()
	base.Palette = colors.Resolve(cfg.Colors, deps.Env.Getenv(config.EnvColors), collect)
	base.Engine = options.Engine(cfg.Engine)
	base.FilePrefix = len(pre.Sources) > 1

	autoColor := DetectColor(deps.Env, deps.StdoutIsTerminal)
	switch cfg.Color {
	case config.ColorAlways:
		base.ColorOutput = true
	case config.ColorNever:
		base.ColorOutput = false
	default:
		base.ColorOutput = autoColor
	}

	loader := func(path string) (string, error) {
		return source.ReadText(path, deps.Stdin)
	}
	resolver := options.NewResolver(base, loader, autoColor)
	for _, tok := range pre.Tokens {
		if err := resolver.Apply(tok); err != nil {
			return nil, err
		}
	}
	opts := resolver.Options()
	reportPalette(deps.Logger, warnings, opts.Silent)

	if !pre.HasPatternSource() && !opts.ShowHelp && !opts.ShowVersion {
		return nil, gerrors.New(gerrors.ErrCodeNoPattern, "At least one pattern must be given!")
	}

	refs := make([]*source.Ref, len(pre.Sources))
	for i, path := range pre.Sources {
		refs[i] = source.New(path, deps.Stdin)
	}

	deps.Logger.Debug(logging.CategoryConfig, "run_config_built", "resolved run configuration", map[string]any{
		"sources":  len(refs),
		"patterns": len(opts.Patterns),
		"color":    opts.ColorOutput,
		"engine":   string(opts.Engine),
	})

	return &RunConfig{sources: refs, options: opts}, nil
}

// DetectColor decides automatic color output. NO_COLOR and CLICOLOR=0
// disable it; CLICOLOR_FORCE enables it off-terminal; otherwise stdout must
// be a terminal whose TERM is set and not "dumb".
func DetectColor(env config.Env, stdoutIsTerminal bool) bool {
	out := termenv.NewOutput(io.Discard,
		termenv.WithEnvironment(env),
		termenv.WithTTY(stdoutIsTerminal),
		termenv.WithProfile(termenv.ANSI),
	)
	if out.EnvNoColor() {
		return false
	}
	if force, _ := env.Bool(config.EnvCliColorForce); force {
		return true
	}
	if !stdoutIsTerminal {
		return false
	}
	term := strings.TrimSpace(env.Getenv(config.EnvTerm))
	return term != "" && term != "dumb"
}

func reportPalette(logger *logging.Logger, warnings []string, silent bool) {
	for _, message := range warnings {
		if silent {
			logger.Info(logging.CategoryPalette, "palette_rejected", message, nil)
			continue
		}
		logger.Warn(logging.CategoryPalette, "palette_rejected", message, nil)
	}
}
