package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"treekit/internal/checkbox"
	"treekit/internal/config"
	"treekit/internal/debug"
	"treekit/internal/engine"
	appErrors "treekit/internal/errors"
	"treekit/internal/source"
	"treekit/internal/ui"
	"treekit/internal/ui/theme"
)

const (
	loadTimeout  = 30 * time.Second
	spinnerDelay = 300 * time.Millisecond
)

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("treekit", flag.ExitOnError)
	flags := registerFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if *flags.version {
		writeVersion(os.Stdout)
		os.Exit(0)
	}

	visited := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) {
		visited[f.Name] = struct{}{}
	})

	if err := config.ApplyOverrides(overridesFromFlags(flags, visited, fs)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		if err := config.Set(config.KeySourcePath, strings.Join(fs.Args(), ",")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	env := runEnv{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newSpinner: func() startupReporter {
			return newStartupSpinner(os.Stderr, spinnerDelay)
		},
		newProgram: func(app *ui.App) programRunner {
			return tea.NewProgram(app, tea.WithAltScreen())
		},
	}
	if err := run(computeRuntimeOptions(flags, visited, fs), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	version     *bool
	source      *string
	format      *string
	table       *string
	debug       *bool
	print       *bool
	search      *string
	expandDepth *int
	accordion   *bool
	strict      *bool
	compact     *bool
	watch       *bool
	theme       *string
	detail      *string
}

// registerFlags defines the command line. Defaults come from the loaded
// configuration so --help shows the effective values.
func registerFlags(fs *flag.FlagSet) cliFlags {
	mode, _ := config.CheckMode()
	return cliFlags{
		version:     fs.Bool("version", false, "Print version information and exit"),
		source:      fs.String("source", strings.Join(config.GetStringSlice(config.KeySourcePath), ","), "Comma separated source files (json, yaml or sqlite)"),
		format:      fs.String("format", config.GetString(config.KeySourceFormat), "Source format; detected from the extension when empty"),
		table:       fs.String("table", config.GetString(config.KeySourceTable), "Table to read from sqlite sources"),
		debug:       fs.Bool("debug", false, "Write a debug log to ~/.treekit/debug.log"),
		print:       fs.Bool("print", false, "Print the tree to stdout instead of starting the browser"),
		search:      fs.String("search", "", "Initial search query"),
		expandDepth: fs.Int("expand-depth", config.GetInt(config.KeyExpandDepth), "Open branches down to this depth on start (0 keeps everything closed)"),
		accordion:   fs.Bool("accordion", config.GetBool(config.KeyAccordion), "Keep at most one sibling expanded"),
		strict:      fs.Bool("strict", mode == checkbox.Strict, "Make every checkbox independent"),
		compact:     fs.Bool("compact", config.GetBool(config.KeyViewCompact), "Show runs of single-child folders as one a/b/c row"),
		watch:       fs.Bool("watch", config.GetBool(config.KeySourceWatch), "Reload the source when it changes on disk"),
		theme:       fs.String("theme", config.GetString(config.KeyTheme), "Color theme ("+strings.Join(theme.Available(), ", ")+")"),
		detail:      fs.String("detail-format", config.GetString(config.KeyViewDetail), "Detail pane markdown style (dark, light, plain)"),
	}
}

// overridesFromFlags maps explicitly set flags onto configuration keys.
func overridesFromFlags(f cliFlags, visited map[string]struct{}, fs *flag.FlagSet) map[string]any {
	out := map[string]any{}
	if flagWasExplicitlySet("source", visited, fs) {
		out[config.KeySourcePath] = strings.TrimSpace(*f.source)
	}
	if flagWasExplicitlySet("format", visited, fs) {
		out[config.KeySourceFormat] = strings.TrimSpace(*f.format)
	}
	if flagWasExplicitlySet("table", visited, fs) {
		out[config.KeySourceTable] = strings.TrimSpace(*f.table)
	}
	if flagWasExplicitlySet("expand-depth", visited, fs) {
		out[config.KeyExpandDepth] = *f.expandDepth
	}
	if flagWasExplicitlySet("accordion", visited, fs) {
		out[config.KeyAccordion] = *f.accordion
	}
	if flagWasExplicitlySet("strict", visited, fs) {
		mode := checkbox.Cascading
		if *f.strict {
			mode = checkbox.Strict
		}
		out[config.KeyCheckMode] = mode.String()
	}
	if flagWasExplicitlySet("compact", visited, fs) {
		out[config.KeyViewCompact] = *f.compact
	}
	if flagWasExplicitlySet("watch", visited, fs) {
		out[config.KeySourceWatch] = *f.watch
	}
	if flagWasExplicitlySet("theme", visited, fs) {
		out[config.KeyTheme] = strings.TrimSpace(*f.theme)
	}
	if flagWasExplicitlySet("detail-format", visited, fs) {
		out[config.KeyViewDetail] = strings.TrimSpace(*f.detail)
	}
	return out
}

func flagWasExplicitlySet(name string, visited map[string]struct{}, fs *flag.FlagSet) bool {
	if _, ok := visited[name]; ok {
		return true
	}
	if fs == nil {
		return false
	}
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	return f.Value.String() != f.DefValue
}

type runtimeOptions struct {
	debug        bool
	print        bool
	query        string
	expandDepth  int
	watch        bool
	theme        string
	detailFormat string
	buffer       int
	debounce     time.Duration
	navigation   bool
	loop         bool
	showCount    bool
}

// computeRuntimeOptions reads the settings that do not live in engine
// options. Overrides must already be applied.
func computeRuntimeOptions(f cliFlags, visited map[string]struct{}, fs *flag.FlagSet) runtimeOptions {
	rt := runtimeOptions{
		expandDepth:  config.GetInt(config.KeyExpandDepth),
		watch:        config.GetBool(config.KeySourceWatch),
		theme:        config.GetString(config.KeyTheme),
		detailFormat: config.GetString(config.KeyViewDetail),
		buffer:       config.GetInt(config.KeyViewBuffer),
		debounce:     config.GetDuration(config.KeySearchDebounce),
		navigation:   config.GetBool(config.KeySearchNavigation),
		loop:         config.GetBool(config.KeySearchLoop),
		showCount:    config.GetBool(config.KeySearchShowCount),
	}
	if f.debug != nil {
		rt.debug = *f.debug
	}
	if f.print != nil {
		rt.print = *f.print
	}
	if f.search != nil && flagWasExplicitlySet("search", visited, fs) {
		rt.query = strings.TrimSpace(*f.search)
	}
	if rt.expandDepth < 0 {
		rt.expandDepth = 0
	}
	return rt
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

type runEnv struct {
	stdout     io.Writer
	stderr     io.Writer
	newSpinner func() startupReporter
	newProgram programFactory
}

// sourceSpecs turns the configured paths into load specs.
func sourceSpecs() ([]source.Spec, error) {
	paths := config.GetStringSlice(config.KeySourcePath)
	if len(paths) == 0 {
		return nil, appErrors.New(appErrors.CodeInvalidInput, "no source given; pass --source or a path", nil)
	}
	format, err := source.ParseFormat(config.GetString(config.KeySourceFormat))
	if err != nil {
		return nil, err
	}
	specs := make([]source.Spec, 0, len(paths))
	for _, p := range paths {
		specs = append(specs, source.Spec{
			Path:   p,
			Format: format,
			Table:  config.GetString(config.KeySourceTable),
			Fields: config.Fields(),
		})
	}
	return specs, nil
}

func run(rt runtimeOptions, env runEnv) error {
	if err := debug.Init(rt.debug); err != nil {
		return fmt.Errorf("init debug log: %w", err)
	}
	defer debug.Close()

	opts, err := config.EngineOptions()
	if err != nil {
		return err
	}
	specs, err := sourceSpecs()
	if err != nil {
		return err
	}

	var reporter startupReporter = noopReporter{}
	if !rt.print && env.newSpinner != nil {
		reporter = env.newSpinner()
	}

	reporter.Stage(stageLoading, fmt.Sprintf("%d source(s)", len(specs)))
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	raw, err := source.LoadAll(ctx, specs)
	cancel()
	if err != nil {
		reporter.Stop()
		return err
	}
	debug.Logf("loaded %d records from %d source(s)", len(raw), len(specs))

	reporter.Stage(stageBuilding, fmt.Sprintf("%d records", len(raw)))
	eng := engine.New(opts, debug.Logger("engine: "))
	eng.Init(raw)
	if len(opts.DefaultExpanded) == 0 && rt.expandDepth > 0 {
		eng.ExpandToDepth(rt.expandDepth)
	}
	reporter.Stage(stageReady, "")
	reporter.Stop()

	if !theme.SetTheme(rt.theme) {
		debug.Logf("unknown theme %q, using %s", rt.theme, theme.CurrentName())
	}

	label := strings.Join(config.GetStringSlice(config.KeySourcePath), ", ")
	if rt.print {
		if rt.query != "" {
			eng.SetSearch(rt.query)
		}
		printTree(env.stdout, eng)
		printSummary(env.stdout, summaryFor(eng, Version, label, rt.query))
		return nil
	}

	cfg := ui.Config{
		Engine:       eng,
		Version:      Version,
		Source:       label,
		Debounce:     rt.debounce,
		Navigation:   rt.navigation,
		Loop:         rt.loop,
		ShowCount:    rt.showCount,
		Buffer:       rt.buffer,
		DetailFormat: rt.detailFormat,
		InitialQuery: rt.query,
		PersistCheckMode: func(m checkbox.Mode) error {
			return config.Save(config.KeyCheckMode, m.String())
		},
		Logger: debug.Logger("ui: "),
	}

	if rt.watch {
		if len(specs) != 1 {
			fmt.Fprintln(env.stderr, "Warning: --watch needs exactly one source; not watching")
		} else {
			w, err := source.NewWatcher(specs[0], source.WithWatchLogger(debug.Logger("watch: ")))
			if err != nil {
				return err
			}
			watchCtx, stop := context.WithCancel(context.Background())
			defer stop()
			if err := w.Start(watchCtx); err != nil {
				return err
			}
			defer w.Stop()
			cfg.Updates = w.Updates()
		}
	}

	return runProgram(cfg, ui.NewApp, env.newProgram)
}

func runProgram(cfg ui.Config, builder func(ui.Config) *ui.App, factory programFactory) error {
	if cfg.Engine == nil {
		return fmt.Errorf("initialize UI: engine is nil")
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	app := builder(cfg)
	defer app.Close()

	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
