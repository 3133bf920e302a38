package main

import (
	"fmt"
	"strings"

	"github.com/example/pixedit/internal/appstate"
)

type titleOptions struct {
	File   string
	Source string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{appstate.ProgramTitle}

	if file := strings.TrimSpace(opts.File); file != "" {
		parts = append(parts, file)
	}
	if source := strings.TrimSpace(opts.Source); source != "" {
		parts = append(parts, source)
	}

	extras := make([]string, 0, len(opts.Extras)+3)
	if v := strings.TrimSpace(version); v != "" {
		extras = append(extras, fmt.Sprintf("v%s", v))
	}
	if c := strings.TrimSpace(commit); c != "" {
		extras = append(extras, fmt.Sprintf("commit %s", c))
	}
	if d := strings.TrimSpace(date); d != "" {
		extras = append(extras, d)
	}
	extras = append(extras, opts.Extras...)

	return strings.Join(append(parts, extras...), " - ")
}
