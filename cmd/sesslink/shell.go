package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/sesslink/pkg/config"
	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/selector"
	"github.com/0xmhha/sesslink/pkg/session"
)

const shellPrompt = "sesslink> "

// shellCommand runs the interactive session shell.
type shellCommand struct {
	config *config.Config
	logger logger.Logger
	in     io.Reader
	out    io.Writer

	console *selector.Console
	app     *app
}

// shellEntry is one shell command.
type shellEntry struct {
	name string
	args string
	help string
	run  func(ctx context.Context, args []string) error
}

// Execute runs the shell until exit, end of input or ctx is done. Sessions
// still registered when the shell ends are killed.
func (c *shellCommand) Execute(ctx context.Context) error {
	console, err := selector.NewConsole(c.in, c.out)
	if err != nil {
		return fmt.Errorf("failed to open console: %w", err)
	}
	defer func() {
		if cerr := console.Close(); cerr != nil {
			c.logger.Warn("failed to restore terminal", "error", cerr)
		}
	}()
	c.console = console

	// Zero edits accepts exact answers only, which is what disabling
	// fuzzy matching does.
	maxDistance := c.config.Prompt.MaxDistance
	if maxDistance == 0 {
		maxDistance = -1
	}
	sel := selector.New(selector.Config{MaxDistance: maxDistance}, console, c.logger)

	a, err := newApp(c.config, sel, c.logger)
	if err != nil {
		return err
	}
	c.app = a
	defer func() {
		if serr := a.shutdown(ctx); serr != nil {
			c.logger.Error("failed to kill sessions", "error", serr)
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	if a.watching() {
		g.Go(func() error {
			if err := a.tracker.Run(gctx); err != nil {
				c.logger.Warn("document tracking stopped", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return c.loop(gctx)
	})

	return g.Wait()
}

// loop reads and dispatches commands.
func (c *shellCommand) loop(ctx context.Context) error {
	c.printf("sesslink %s, type \"help\" for commands\n", version)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := c.console.ReadLine(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return nil
		}
		c.dispatch(ctx, args)
	}
}

func (c *shellCommand) dispatch(ctx context.Context, args []string) {
	for _, entry := range c.entries() {
		if entry.name != args[0] || entry.run == nil {
			continue
		}

		err := entry.run(ctx, args[1:])
		switch {
		case err == nil:
		case errors.Is(err, registry.ErrSelectionCancelled):
			c.printf("cancelled\n")
		default:
			c.logger.Debug("command failed", "command", args[0], "error", err)
			c.printf("error: %v\n", err)
		}
		return
	}

	c.printf("unknown command %q, type \"help\" for commands\n", args[0])
}

func (c *shellCommand) entries() []shellEntry {
	return []shellEntry{
		{"start", "", "start a session in the current directory", c.runStart},
		{"kill", "[name]", "kill a session", c.runKill},
		{"restart", "[name]", "restart a session, keeping its name and links", c.runRestart},
		{"sessions", "", "list sessions, most relevant first", c.runSessions},
		{"linked", "[type...]", "list sessions linked to the current context", c.runLinked},
		{"friendly", "", "list sessions friendly to the current context", c.runFriendly},
		{"all", "", "list every session", c.runAll},
		{"current", "", "show the session that applies here", c.runCurrent},
		{"ensure", "[--new] [--all]", "pick the session(s) to act on here", c.runEnsure},
		{"link", "[type]", "link a session to the current context", c.runLink},
		{"unlink", "", "remove links relevant to the current context", c.runUnlink},
		{"links", "", "list every link", c.runLinks},
		{"info", "", "describe sessions with their links", c.runInfo},
		{"projects", "[dir...]", "list projects below the workspace directories", c.runProjects},
		{"context", "", "show the current context values", c.runContext},
		{"cd", "<dir>", "change the current directory", c.runCd},
		{"pwd", "", "print the current directory", c.runPwd},
		{"open", "[doc]", "make doc the active document, or clear it", c.runOpen},
		{"quit", "", "kill every session", c.runQuit},
		{"help", "", "show this help", c.runHelp},
		{"exit", "", "leave the shell", nil},
	}
}

func (c *shellCommand) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(c.console, format, args...); err != nil {
		c.logger.Warn("failed to write output", "error", err)
	}
}

func (c *shellCommand) printSessions(sessions []*session.Session) error {
	return c.app.formatter.FormatSessions(c.console, c.app.system(), sessions)
}

// pick returns the named session, or the one that applies here. When
// nothing applies the user picks among every session.
func (c *shellCommand) pick(ctx context.Context, args []string, prompt string) (*session.Session, error) {
	if len(args) > 0 {
		return c.app.find(args[0])
	}

	s, err := c.app.registry.EnsureOne(ctx, c.app.system(), prompt)
	if errors.Is(err, registry.ErrNoSessions) {
		return c.app.registry.SelectSession(ctx, c.app.system(), prompt, false)
	}
	return s, err
}

func (c *shellCommand) runStart(ctx context.Context, _ []string) error {
	s, err := c.app.registry.StartSession(ctx, c.app.system())
	if err != nil {
		return err
	}
	c.printf("started %s\n", s.Name)
	return nil
}

func (c *shellCommand) runKill(ctx context.Context, args []string) error {
	s, err := c.pick(ctx, args, "Kill which session? ")
	if err != nil {
		return err
	}
	if err := c.app.registry.KillSession(ctx, c.app.system(), s); err != nil {
		return err
	}
	c.printf("killed %s\n", s.Name)
	return nil
}

func (c *shellCommand) runRestart(ctx context.Context, args []string) error {
	s, err := c.pick(ctx, args, "Restart which session? ")
	if err != nil {
		return err
	}
	restarted, err := c.app.registry.RestartSession(ctx, c.app.system(), s)
	if err != nil {
		return err
	}
	c.printf("restarted %s\n", restarted.Name)
	return nil
}

func (c *shellCommand) runSessions(_ context.Context, _ []string) error {
	return c.printSessions(c.app.registry.Sessions(c.app.system()))
}

func (c *shellCommand) runLinked(_ context.Context, args []string) error {
	return c.printSessions(c.app.registry.LinkedSessions(c.app.system(), contexts.ParseTypes(args)...))
}

func (c *shellCommand) runFriendly(_ context.Context, _ []string) error {
	return c.printSessions(c.app.registry.FriendlySessions(c.app.system()))
}

func (c *shellCommand) runAll(_ context.Context, _ []string) error {
	return c.printSessions(c.app.registry.SystemSessions(c.app.system()))
}

func (c *shellCommand) runCurrent(_ context.Context, _ []string) error {
	s := c.app.registry.CurrentSession(c.app.system())
	if s == nil {
		c.printf("no session\n")
		return nil
	}
	c.printf("%s\n", s.Name)
	return nil
}

func (c *shellCommand) runEnsure(ctx context.Context, args []string) error {
	var opts registry.EnsureOptions
	for _, arg := range args {
		switch arg {
		case "--new", "-n":
			opts.AllowNew = true
		case "--all", "-a":
			opts.AllowAll = true
		default:
			return fmt.Errorf("unknown flag %q (usage: ensure [--new] [--all])", arg)
		}
	}

	sessions, err := c.app.registry.EnsureSession(ctx, c.app.system(), "Session: ", opts)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		c.app.process.Touch(s)
	}
	c.printf("using %s\n", strings.Join(session.Names(sessions), ", "))
	return nil
}

func (c *shellCommand) runLink(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.New("usage: link [type]")
	}

	s, err := c.app.registry.SelectSession(ctx, c.app.system(), "Link which session? ", true)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		err = c.app.registry.LinkWithLeastSpecific(c.app.system(), s)
	} else {
		err = c.app.registry.LinkWith(c.app.system(), s, contexts.ParseType(args[0]))
	}
	if err != nil {
		return err
	}

	for _, l := range c.app.registry.SessionLinks(c.app.system(), s) {
		c.printf("%s\n", l)
	}
	return nil
}

func (c *shellCommand) runUnlink(ctx context.Context, _ []string) error {
	removed, err := c.app.registry.Unlink(ctx, c.app.system())
	if err != nil {
		return err
	}
	for _, l := range removed {
		c.printf("removed %s\n", l)
	}
	return nil
}

func (c *shellCommand) runLinks(_ context.Context, _ []string) error {
	return c.app.formatter.FormatLinks(c.console, c.app.registry.Links(""))
}

func (c *shellCommand) runInfo(_ context.Context, _ []string) error {
	return c.app.formatter.FormatInfo(c.console, c.app.system(), c.app.registry.Describe(c.app.system()))
}

func (c *shellCommand) runProjects(_ context.Context, args []string) error {
	bases := args
	if len(bases) == 0 {
		bases = c.config.Tracker.WorkspaceDirs
	}
	if len(bases) == 0 {
		bases = []string{c.app.dir}
	}
	dirs := make([]string, len(bases))
	for i, dir := range bases {
		dirs[i] = c.app.abs(dir)
	}

	projects, err := c.app.finder.Discover(dirs)
	if err != nil {
		return err
	}
	return c.app.formatter.FormatProjects(c.console, projects)
}

func (c *shellCommand) runContext(_ context.Context, _ []string) error {
	res := c.app.registry.Resolver()
	for _, t := range contexts.DefaultTypes() {
		value, ok := res.Current(t)
		if !ok {
			value = "-"
		}
		c.printf("%-10s %s\n", t, value)
	}
	return nil
}

func (c *shellCommand) runCd(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: cd <dir>")
	}
	if err := c.app.chdir(args[0]); err != nil {
		return err
	}
	c.printf("%s\n", c.app.dir)
	return nil
}

func (c *shellCommand) runPwd(_ context.Context, _ []string) error {
	c.printf("%s\n", c.app.dir)
	return nil
}

func (c *shellCommand) runOpen(_ context.Context, args []string) error {
	switch len(args) {
	case 0:
		c.app.tracker.Clear()
		c.printf("no active document\n")
	case 1:
		doc := c.app.abs(args[0])
		c.app.tracker.SetActive(doc)
		c.printf("document %s\n", doc)
	default:
		return errors.New("usage: open [doc]")
	}
	return nil
}

func (c *shellCommand) runQuit(ctx context.Context, _ []string) error {
	if err := c.app.registry.Quit(ctx, c.app.system()); err != nil {
		return err
	}
	c.printf("all sessions killed\n")
	return nil
}

func (c *shellCommand) runHelp(_ context.Context, _ []string) error {
	c.printf("Commands:\n")
	for _, entry := range c.entries() {
		usage := strings.TrimSpace(entry.name + " " + entry.args)
		c.printf("  %-24s %s\n", usage, entry.help)
	}
	return nil
}
