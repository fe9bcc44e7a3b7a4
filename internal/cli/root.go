// Package cli implements the timeboard command-line interface: global
// flags, config loading, output modes and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/timeboard/internal/definition"
	"github.com/mesh-intelligence/timeboard/internal/paths"
	"github.com/mesh-intelligence/timeboard/pkg/timeboard"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir      string
	definitionsDir string
	jsonMode       bool
	verbose        bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags  rootFlags
	cfg    *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "timeboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "timeboard",
		Short: "Query business calendars built from timeboard definitions",
		Long: "Timeboard builds custom calendars of workshifts from YAML definitions\n" +
			"and answers duty-aware questions about them: which workshift holds an\n" +
			"instant, where a roll of N workshifts lands, how many periods an\n" +
			"interval covers.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.definitionsDir, "definitions-dir", "", "directory holding named definitions (default: working directory)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug records to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newValidateCmd())
	root.AddCommand(a.newWorkshiftCmd())
	root.AddCommand(a.newRollCmd())
	root.AddCommand(a.newCountCmd())
	root.AddCommand(a.newWorktimeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	var se *systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// systemError marks failures of the environment rather than of the input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// setup loads config.yaml and builds the logger. The version and init
// commands run without a config.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger, _ = newLogger(cmd.ErrOrStderr(), a.flags.verbose, "")
	if cmd.Name() == "version" || cmd.Name() == "init" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysErr("load config: %w", err)
	}
	a.cfg = cfg
	if cfg.GetString(cfgKeyOutput) == outputJSON {
		a.flags.jsonMode = true
	}
	logger, err := newLogger(cmd.ErrOrStderr(), a.flags.verbose, cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("config loaded", "config_dir", configDir)
	return nil
}

// newLogger returns a text logger on w. verbose forces debug; otherwise
// level names the minimum level and defaults to warn. An unknown level is
// an error.
func newLogger(w io.Writer, verbose bool, level string) (*slog.Logger, error) {
	lvl := slog.LevelWarn
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", cfgKeyLogLevel, level, err)
		}
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// loadBoard resolves a definition argument and builds its timeboard.
func (a *app) loadBoard(arg string) (*timeboard.Timeboard, error) {
	dir, err := paths.ResolveDefinitionsDir(a.flags.definitionsDir, a.cfg.GetString(cfgKeyDefinitionsDir))
	if err != nil {
		return nil, sysErr("resolve definitions dir: %w", err)
	}
	path := paths.DefinitionPath(arg, dir)
	a.logger.Debug("loading definition", "path", path)

	d, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	tb, err := d.Build(a.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tb, nil
}
