package docs

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/nodeconfig"
	"github.com/samber/lo"
)

const (
	DefaultMake = "make"
	DocsDirName = "docs"
)

var DefaultTargets = []string{"clean", "html"}

// Build runs the documentation build of a codebase.
type Build struct {
	Codebase string
	Make     string
	Targets  []string
	// Environ is the caller environment the build variables are layered on
	Environ []string

	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Overrides returns the variables set for the build: every cluster variable bound to
// the empty string so the documented modules import cleanly, and the codebase location.
func (b Build) Overrides() []string {
	env := lo.Map(nodeconfig.Empty(), func(v nodeconfig.Var, _ int) string { return v.String() })
	return append(env, "CODEBASE="+b.Codebase, "PYTHONPATH="+b.Codebase)
}

// Steps returns one command per target, in order.
func (b Build) Steps() []launch.Command {
	overrides := b.Overrides()
	env := launch.Environ(b.Environ, overrides)
	targets := lo.Ternary(len(b.Targets) > 0, b.Targets, DefaultTargets)

	return lo.Map(targets, func(target string, _ int) launch.Command {
		return launch.Command{
			Name:      "make " + target,
			Path:      lo.Ternary(b.Make != "", b.Make, DefaultMake),
			Args:      []string{target},
			Dir:       filepath.Join(b.Codebase, DocsDirName),
			Env:       env,
			Overrides: overrides,
			Stdout:    b.Stdout,
			Stderr:    b.Stderr,
		}
	})
}

// Run executes the steps in order and stops at the first failure, whose exit status
// is carried by the returned error.
func (b Build) Run(ctx context.Context) error {
	return b.RunEach(ctx, nil)
}

// RunEach is Run with a hook around every step. The hook receives the step and a
// function launching a command; it may adjust the step before launching it.
func (b Build) RunEach(ctx context.Context, hook func(step launch.Command, run func(launch.Command) error) error) error {
	logger := b.logger()
	if hook == nil {
		hook = func(step launch.Command, run func(launch.Command) error) error { return run(step) }
	}

	for _, step := range b.Steps() {
		logger.Info("Running documentation step", "step", step.Name, "dir", step.Dir)
		err := hook(step, func(command launch.Command) error {
			return launch.Run(ctx, command)
		})
		if err != nil {
			logger.Error("Documentation step failed", "step", step.Name, "error", err)
			return err
		}
	}

	logger.Info("Documentation built", "output", filepath.Join(b.Codebase, DocsDirName))
	return nil
}

func (b Build) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger.With("component", "docs")
}
