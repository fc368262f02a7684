package defrag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/nodeconfig"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const DefaultInterpreter = "python"

// DefaultScript is the defragger entry point, relative to the codebase.
var DefaultScript = filepath.Join("defragger", "defragger_main.py")

// BasedirError is returned when the cluster-sim basedir does not exist.
type BasedirError struct {
	Path string
}

func (e BasedirError) Error() string {
	return fmt.Sprintf("Directory does not exist: %s", e.Path)
}

func (e BasedirError) ExitCode() int {
	return 1
}

// Defragger launches the defragger of one node of a simulated cluster.
type Defragger struct {
	Fs      afero.Fs
	Basedir string
	// Node is the 1-based node whose config is loaded
	Node        int
	Interpreter string
	Script      string
	// Environ is the caller environment the node config is layered on
	Environ []string
	// Strict validates the node config before launching
	Strict bool

	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Command checks the basedir, loads the node config and returns the process to launch.
// Nothing is started.
func (d Defragger) Command() (launch.Command, error) {
	logger := d.logger()

	if info, err := d.Fs.Stat(d.Basedir); err != nil || !info.IsDir() {
		return launch.Command{}, BasedirError{d.Basedir}
	}

	config, err := nodeconfig.Load(d.Fs, d.Basedir, d.Node, func(name string) (string, bool) {
		return launch.Lookup(d.Environ, name)
	})
	if err != nil {
		return launch.Command{}, err
	}
	logger.Debug("Loaded node config", "file", config.File, "variables", config.Len())
	if missing := config.Missing(); len(missing) > 0 {
		logger.Warn("Node config does not define every cluster variable", "file", config.File, "missing", missing)
	}
	if extra := lo.Reject(config.Names(), func(name string, _ int) bool { return nodeconfig.InCatalog(name) }); len(extra) > 0 {
		logger.Debug("Node config defines variables outside the cluster catalog", "file", config.File, "extra", extra)
	}

	if d.Strict {
		settings, err := config.Settings()
		if err == nil {
			err = settings.Validate()
		}
		if err != nil {
			return launch.Command{}, fmt.Errorf("invalid node config %s: %w", config.File, err)
		}
	}

	return launch.Command{
		Name:      "defragger",
		Path:      d.Interpreter,
		Args:      []string{d.Script},
		Env:       launch.Environ(d.Environ, config.Environ()),
		Overrides: config.Environ(),
		Stdin:     d.Stdin,
		Stdout:    d.Stdout,
		Stderr:    d.Stderr,
	}, nil
}

// Run launches the defragger and waits for it. The error carries the defragger's
// exit status, see launch.ExitCode.
func (d Defragger) Run(ctx context.Context) error {
	command, err := d.Command()
	if err != nil {
		return err
	}

	logger := d.logger()
	logger.Info("Starting defragger", "basedir", d.Basedir, "node", d.Node, "command", command.String())
	if err := launch.Run(ctx, command); err != nil {
		logger.Error("Defragger failed", "error", err)
		return err
	}
	logger.Info("Defragger completed")
	return nil
}

func (d Defragger) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger.With("component", "defrag")
}
