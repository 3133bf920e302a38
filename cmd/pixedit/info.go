package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/imageops"
)

// imageInfo is the machine readable form printed by info -json.
type imageInfo struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

// infoCmd describes an image file.
type infoCmd struct {
	*root
	fs       *flag.FlagSet
	file     string
	jsonMode bool
}

func (i *infoCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	i := &infoCmd{root: r.subcommand("info"), fs: fs}
	fs.Usage = usageFunc(i)
	fs.StringVar(&i.file, "file", "", "image file to describe")
	fs.BoolVar(&i.jsonMode, "json", false, "print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case fs.NArg() == 0:
	case fs.NArg() == 1 && i.file == "":
		i.file = fs.Arg(0)
	default:
		return nil, &UsageError{of: i}
	}
	if i.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	return i, nil
}

func (i *infoCmd) Run() error {
	s := editor.New()
	if err := s.Load(i.file); err != nil {
		return fmt.Errorf("open %s: %w", i.file, err)
	}
	img := s.Image()
	info := imageInfo{
		Path:     i.file,
		Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(i.file)), "."),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Channels: imageops.Channels(img),
	}
	if !i.jsonMode {
		fmt.Fprintf(i.stdout(), "%s: %s\n", i.file, s.Info())
		return nil
	}
	data, err := sonic.ConfigStd.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode info: %w", err)
	}
	fmt.Fprintln(i.stdout(), string(data))
	return nil
}
