package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xmhha/sesslink/pkg/config"
	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/display"
	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/systems/process"
	"github.com/0xmhha/sesslink/pkg/tracker"
	"github.com/0xmhha/sesslink/pkg/watcher"
)

// app wires the registry and its collaborators for one shell.
type app struct {
	config *config.Config
	logger logger.Logger

	// dir is the shell's working directory. It backs the directory
	// context and the directory new process sessions start in.
	dir string

	finder    discovery.Finder
	watcher   watcher.Watcher // nil unless tracking is enabled
	tracker   tracker.Tracker
	registry  *registry.Registry
	process   *process.System
	formatter display.Formatter
}

// newApp builds the components described by cfg. sel answers registry
// prompts.
func newApp(cfg *config.Config, sel registry.Selector, log logger.Logger) (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	format, err := display.ParseFormat(cfg.Display.Format)
	if err != nil {
		return nil, err
	}

	a := &app{
		config:    cfg,
		logger:    log,
		dir:       contexts.NormalizePath(cwd, cfg.Context.FollowSymlinks),
		finder:    discovery.New(cfg.Context.ProjectMarkers, log.Named("discovery")),
		formatter: display.New(display.Config{Format: format, Compact: cfg.Display.Compact}),
	}

	if cfg.Tracker.Enabled {
		a.watcher, err = watcher.New(watcher.Config{
			DebounceInterval: cfg.Tracker.DebounceInterval,
			Extensions:       cfg.Tracker.Extensions,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize watcher: %w", err)
		}
	}
	a.tracker = tracker.New(tracker.Config{WorkspaceDirs: cfg.Tracker.WorkspaceDirs}, a.watcher, log)

	resolver := contexts.New(contexts.Options{
		Directory:      a.workdir,
		Document:       a.tracker,
		Projects:       a.finder,
		FollowSymlinks: cfg.Context.FollowSymlinks,
		StrictPaths:    cfg.Context.StrictPaths,
	})

	a.registry = registry.New(registry.Config{
		Resolver:        resolver,
		Selector:        sel,
		OneToOneTypes:   cfg.OneToOne(),
		DisableFriendly: !cfg.Registry.UseFriendlySessions,
	}, log)

	a.process = process.New(process.Config{
		Command:     cfg.Systems.Process.Command,
		Args:        cfg.Systems.Process.Args,
		Directory:   a.workdir,
		StrictPaths: cfg.Context.StrictPaths,
		KillTimeout: cfg.Systems.Process.KillTimeout,
	}, log)
	if err := a.registry.RegisterSystem(a.process); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) workdir() (string, error) {
	return a.dir, nil
}

// system is the name every shell command operates on.
func (a *app) system() string {
	return a.process.Name()
}

// watching reports whether the document tracker should run.
func (a *app) watching() bool {
	return a.watcher != nil
}

// chdir moves the shell to dir, relative to the current one.
func (a *app) chdir(dir string) error {
	dir = a.abs(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	a.dir = contexts.NormalizePath(dir, a.config.Context.FollowSymlinks)
	a.finder.Invalidate()
	return nil
}

// abs resolves path against the shell's directory.
func (a *app) abs(path string) string {
	path = discovery.ExpandHome(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	return filepath.Clean(path)
}

// find returns the session of the shell's system called name.
func (a *app) find(name string) (*session.Session, error) {
	for _, s := range a.registry.SystemSessions(a.system()) {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", registry.ErrUnknownSession, name)
}

// shutdown kills the sessions still registered and releases the watcher.
func (a *app) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Systems.Process.KillTimeout)
	defer cancel()

	err := a.registry.Quit(ctx, a.system())

	if a.watcher != nil {
		if cerr := a.watcher.Close(); cerr != nil {
			a.logger.Error("failed to close watcher", "error", cerr)
		}
	}
	return err
}
