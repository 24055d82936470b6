package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/compare"
	"github.com/sdejongh/stall/pkg/config"
	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/output"
	"github.com/sdejongh/stall/pkg/ratelimit"
	"github.com/sdejongh/stall/pkg/stall"
	"github.com/sdejongh/stall/pkg/storage"
	"github.com/sdejongh/stall/pkg/sync"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	logMaxSize    = 10 * 1024 * 1024 // 10 MB
	logMaxBackups = 5
)

// environment is the resolved state shared by every command
type environment struct {
	cfg    *config.Config
	flags  *GlobalFlags
	fs     afero.Fs
	logger *logging.SlogLogger
	stdout io.Writer
	stderr io.Writer

	stallDir  string
	storePath string
}

// newEnvironment loads the configuration, applies the flags and resolves the
// stall location. stallPath overrides --stall when not empty.
func newEnvironment(cmd *cobra.Command, flags *GlobalFlags, stallPath string) (*environment, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	env := &environment{
		cfg:    cfg,
		flags:  flags,
		fs:     afero.NewOsFs(),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}

	if stallPath == "" {
		stallPath = flags.Stall
	}
	env.stallDir, env.storePath, err = resolveStall(env.fs, stallPath, cfg.Stall.File)
	if err != nil {
		return nil, err
	}

	env.logger, err = createLogger(cfg, flags, env.stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return env, nil
}

// applyFlagsToConfig applies command-line flags to configuration
func applyFlagsToConfig(cfg *config.Config, flags *GlobalFlags) {
	if flags.ShortNames {
		cfg.Stall.ShortNames = true
	}
	if flags.PromoteWarnings {
		cfg.Stall.PromoteWarnings = true
	}
	if flags.Quiet {
		cfg.Output.Quiet = true
	}
	if flags.Output != "" {
		cfg.Output.Format = flags.Output
	}
	if flags.Color != "" {
		cfg.Output.Color = flags.Color
	}
}

// resolveStall returns the stall directory and store file for path. path
// may name the directory or the store file itself; empty means the working
// directory.
func resolveStall(fsys afero.Fs, path, fileName string) (string, string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("failed to get working directory: %w", err)
		}
		path = cwd
	}

	path, err := platform.ResolveRemote(path)
	if err != nil {
		return "", "", err
	}

	info, err := fsys.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return filepath.Dir(path), path, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", "", fmt.Errorf("failed to access stall %s: %w", path, err)
	}
	return path, filepath.Join(path, fileName), nil
}

// createLogger builds the console and file logger from configuration
func createLogger(cfg *config.Config, flags *GlobalFlags, console io.Writer) (*logging.SlogLogger, error) {
	if !cfg.Logging.Enabled {
		return logging.Discard(), nil
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	switch {
	case flags.Quiet:
		level = logging.ErrorLevel
	case flags.Verbose:
		level = logging.DebugLevel
	}

	logFile := ""
	if cfg.Logging.File != "" {
		expanded, err := platform.ExpandHome(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		logFile = expanded
	}

	return logging.New(logging.Config{
		Console:      console,
		ConsoleLevel: level,
		Color:        colorEnabled(cfg.Output.Color, console),
		File:         logFile,
		FileFormat:   logging.Format(cfg.Logging.Format),
		FileLevel:    level,
		MaxSize:      logMaxSize,
		MaxBackups:   logMaxBackups,
	})
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return platform.IsTerminal(w)
	}
}

// Close releases the log outputs
func (env *environment) Close() error {
	return env.logger.Close()
}

// loadStore reads the store file of the stall
func (env *environment) loadStore() (*stall.Store, error) {
	store, err := stall.ReadFromPath(env.fs, env.storePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no stall file found at %s (use `init` to create one): %w", env.storePath, err)
		}
		return nil, err
	}
	store.SetLogger(env.logger)
	return store, nil
}

// saveStore writes the store back when it changed
func (env *environment) saveStore(ctx context.Context, store *stall.Store) error {
	if !store.Modified() {
		return nil
	}
	if _, err := store.WriteToLoadPath(env.fs); err != nil {
		return err
	}
	env.logger.Debug(ctx, "Saved stall file", logging.Fields{"path": store.LoadPath()})
	return nil
}

// warn logs a warning, returning err when warnings are promoted to errors
func (env *environment) warn(ctx context.Context, msg string, err error, fields logging.Fields) error {
	if fields == nil {
		fields = logging.Fields{}
	}
	fields["error"] = err.Error()
	env.logger.Warn(ctx, msg, fields)
	if env.cfg.Stall.PromoteWarnings {
		return err
	}
	return nil
}

// printf writes a plain message unless output is quiet
func (env *environment) printf(format string, args ...any) {
	if env.cfg.Output.Quiet {
		return
	}
	fmt.Fprintf(env.stdout, format, args...)
}

// newFormatter creates the configured output formatter
func (env *environment) newFormatter() (output.Formatter, error) {
	return output.New(env.cfg.Output.Format, output.Options{
		Writer:     env.stdout,
		ErrWriter:  env.stderr,
		ShortNames: env.cfg.Stall.ShortNames,
		Color:      colorEnabled(env.cfg.Output.Color, env.stdout),
		Quiet:      env.cfg.Output.Quiet,
	})
}

// newCopier creates the copier selected by stall.copy_method
func (env *environment) newCopier() (storage.Copier, error) {
	if env.cfg.Stall.CopyMethod == models.CopySubprocess {
		return storage.NewCommandCopier(), nil
	}

	bufferSize, err := env.cfg.BufferBytes()
	if err != nil {
		return nil, err
	}
	bandwidth, err := env.cfg.BandwidthBytes()
	if err != nil {
		return nil, err
	}

	backend := storage.NewFS(env.fs)
	backend.SetBufferSize(bufferSize)

	copier := storage.NewBufferedCopier(backend)
	copier.SetLimiter(ratelimit.NewLimiter(bandwidth))
	if env.showProgress() {
		copier.SetProgress(output.NewProgress(env.stderr).Wrap)
	}
	return copier, nil
}

func (env *environment) showProgress() bool {
	out := env.cfg.Output
	return out.Progress && !out.Quiet && out.Format == "human" && platform.IsTerminal(env.stderr)
}

// newEngine wires the comparator and copier into an engine
func (env *environment) newEngine(formatter output.Formatter) (*sync.Engine, error) {
	comparator := compare.NewComparator(env.fs)
	comparator.Tolerance = env.cfg.Compare.MtimeTolerance

	copier, err := env.newCopier()
	if err != nil {
		return nil, fmt.Errorf("failed to create copier: %w", err)
	}

	return sync.NewEngine(comparator, copier, formatter, env.logger, clockwork.NewRealClock()), nil
}

// operation creates a collect or distribute operation
func (env *environment) operation(direction models.Direction, selectors []string, force, dryRun bool) *models.SyncOperation {
	return &models.SyncOperation{
		ID:              uuid.New().String(),
		Direction:       direction,
		StallDir:        env.stallDir,
		Selectors:       selectors,
		Force:           force,
		DryRun:          dryRun,
		PromoteWarnings: env.cfg.Stall.PromoteWarnings,
		CreatedAt:       time.Now(),
	}
}

// run executes op over store, writes the optional run report, and maps the
// outcome to an exit code
func (env *environment) run(ctx context.Context, store *stall.Store, op *models.SyncOperation) error {
	formatter, err := env.newFormatter()
	if err != nil {
		return err
	}
	engine, err := env.newEngine(formatter)
	if err != nil {
		return err
	}

	report, runErr := engine.Run(ctx, store, op)
	if report == nil {
		return runErr
	}

	if env.flags.Report != "" {
		if err := output.WriteReport(env.fs, report, env.flags.Report, env.flags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write run report: %w", err)
		}
	}

	if runErr != nil {
		formatter.Error(runErr)
		return &ExitError{Code: 1, Err: runErr}
	}
	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
