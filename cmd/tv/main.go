package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/metrics"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
	"github.com/vanderheijden86/treeview/pkg/version"
	"github.com/vanderheijden86/treeview/pkg/watcher"
)

type cliOptions struct {
	path       string
	configPath string
	print      bool
	width      int
	height     int
	noWatch    bool
	openAll    bool
	selectKey  string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var o cliOptions
	fs := flag.NewFlagSet("tv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tv/config.yaml)")
	fs.BoolVar(&o.print, "print", false, "Render one frame to stdout and exit")
	fs.IntVar(&o.width, "width", 0, "Frame width for --print (default terminal width)")
	fs.IntVar(&o.height, "height", 0, "Frame height for --print (default terminal height)")
	fs.BoolVar(&o.noWatch, "no-watch", false, "Do not reload when the path changes")
	fs.BoolVar(&o.openAll, "open-all", false, "Start with every node open")
	fs.StringVar(&o.selectKey, "select", "", "Initial selection as a dotted path, e.g. 0.2.1")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tv [options] [path]")
		fmt.Fprintln(stderr, "\nBrowse a directory or an outline document (.yaml, .yml, .json) as a tree.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 1 {
		return o, fmt.Errorf("expected at most one path, got %d", fs.NArg())
	}
	o.path = fs.Arg(0)
	if o.path == "" {
		o.path = "."
	}
	if o.width < 0 || o.height < 0 {
		return o, errors.New("--width and --height must not be negative")
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole program; it returns the exit code so deferred cleanup
// runs on every path.
func run(args []string, stdout, stderr io.Writer) int {
	defer debug.Close()
	defer func() {
		if debug.Enabled() {
			debug.Dump("metrics", metrics.Collect())
		}
	}()

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	cfg := loadConfig(opts.configPath, stderr)

	res, err := loader.Load(context.Background(), opts.path, loader.OptionsFromConfig(cfg.Loader))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading %s: %v\n", opts.path, err)
		return 1
	}

	state := initialState(res.Items, opts)

	if opts.print {
		fd := -1
		if f, ok := stdout.(*os.File); ok {
			fd = int(f.Fd())
		}
		w, h := frameSize(opts, fd)
		fmt.Fprintln(stdout, renderFrame(lipgloss.NewRenderer(stdout), cfg, res, state, w, h))
		return 0
	}

	modelOpts := []ui.Option{
		ui.WithConfig(cfg),
		ui.WithTitle(res.Title),
		ui.WithState(state),
		ui.WithLoader(reloadFunc(res.Path, cfg)),
	}
	if cfg.Watch.Enabled && !opts.noWatch {
		w, err := startWatcher(res.Path, cfg)
		if err != nil {
			// Non-fatal: ctrl+r still reloads by hand
			debug.Log("tv: watcher unavailable: %v", err)
		} else {
			defer w.Stop()
			modelOpts = append(modelOpts, ui.WithWatcher(w))
		}
	}

	if err := runTUIProgram(ui.NewModel(res.Items, modelOpts...)); err != nil {
		fmt.Fprintf(stderr, "Error running tv: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file, falling back to defaults on any error.
func loadConfig(path string, stderr io.Writer) config.Config {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		debug.Log("tv: using default config: %v", err)
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}

// initialState applies --open-all and --select to a fresh state.
func initialState(items []tree.Item, opts cliOptions) *tree.State {
	s := tree.NewState()
	if opts.openAll {
		s.OpenAll(items)
	}
	if opts.selectKey != "" {
		id := tree.ParseKey(opts.selectKey)
		if tree.Resolve(items, id) != nil {
			s.Reveal(id)
			s.Select(id)
			return s
		}
		debug.Log("tv: --select %q does not name a node", opts.selectKey)
	}
	s.SelectFirst(items)
	return s
}

// frameSize picks the --print dimensions: explicit flags win, then the
// terminal size, then 80x24.
func frameSize(opts cliOptions, fd int) (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(fd); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	if opts.width > 0 {
		w = opts.width
	}
	if opts.height > 0 {
		h = opts.height
	}
	return w, h
}

// renderFrame draws a single frame of the tree widget.
func renderFrame(r *lipgloss.Renderer, cfg config.Config, res loader.Result, s *tree.State, width, height int) string {
	w := ui.NewWidget(ui.DefaultTheme(r)).WithConfig(cfg.UI)
	if w.Title == "" {
		w.Title = res.Title
	}
	return w.Render(s, res.Items, width, height)
}

func reloadFunc(path string, cfg config.Config) ui.LoadFunc {
	opts := loader.OptionsFromConfig(cfg.Loader)
	return func(ctx context.Context) (loader.Result, error) {
		return loader.Load(ctx, path, opts)
	}
}

func startWatcher(path string, cfg config.Config) (*watcher.Watcher, error) {
	w, err := watcher.New(path,
		watcher.WithDebounceDuration(cfg.Watch.Debounce),
		watcher.WithPollInterval(cfg.Watch.PollInterval),
		watcher.WithForcePoll(cfg.Watch.ForcePoll),
		watcher.WithIgnore(cfg.Loader.Ignore...),
		watcher.WithOnError(func(err error) { debug.Log("tv: watcher: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
