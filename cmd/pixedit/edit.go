package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/pixedit/internal/appstate"
	"github.com/example/pixedit/internal/editor"
	"github.com/rs/zerolog/log"
)

// runWindow blocks until the editor window closes.
var runWindow = func(a *appstate.AppState) { a.Run() }

// editCmd opens the editor window.
type editCmd struct {
	*root
	fs     *flag.FlagSet
	file   string
	output string
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image to load when the window opens")
	fs.StringVar(&e.output, "output", "", "path offered when saving (defaults to the loaded file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case fs.NArg() == 0:
	case fs.NArg() == 1 && e.file == "":
		e.file = fs.Arg(0)
	default:
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	s := editor.New()
	if e.file != "" {
		if err := s.Load(e.file); err != nil {
			return fmt.Errorf("open %s: %w", e.file, err)
		}
	}
	output := e.output
	if output == "" {
		output = e.file
	}
	cfg := e.settings()
	title := windowTitle(titleOptions{File: filepath.Base(e.file)})
	if e.file == "" {
		title = windowTitle(titleOptions{})
	}
	state := appstate.New(
		appstate.WithSession(s),
		appstate.WithOutput(output),
		appstate.WithSaveDir(cfg.SaveDir),
		appstate.WithTheme(e.palette()),
		appstate.WithNotifier(e.notifier),
		appstate.WithCamera(cfg.Camera.Device, cfg.Camera.Warmup),
		appstate.WithTitle(title),
		appstate.WithOnClose(func() { log.Debug().Str("info", s.Info()).Msg("window closed") }),
	)
	runWindow(state)
	return nil
}
