// Package app wires the registry client, the serializer and the database
// writer into a single fetch-and-write cycle. It owns no state beyond one
// run: the whole transmitter list is held in memory and the database file
// is replaced only after everything succeeded.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/large-farva/flybydb/internal/config"
	"github.com/large-farva/flybydb/internal/fetch"
	"github.com/large-farva/flybydb/internal/flybydb"
	"github.com/large-farva/flybydb/internal/names"
	"github.com/large-farva/flybydb/internal/satnogs"
)

// ErrDeclined is returned when the overwrite confirmation was refused.
var ErrDeclined = errors.New("overwrite declined")

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	FS     afero.Fs

	// Path is the resolved database location.
	Path string

	// DryRun prints the database to Stdout instead of writing Path.
	DryRun bool
	Stdout io.Writer

	// Confirm is consulted before an existing database is replaced. A nil
	// Confirm replaces without asking.
	Confirm func(path string) (bool, error)

	// Color enables ANSI styling in Inspect output.
	Color bool
}

// App runs conversions against one configuration.
type App struct {
	log     *log.Logger
	cfg     config.Config
	fs      afero.Fs
	path    string
	dryRun  bool
	stdout  io.Writer
	confirm func(string) (bool, error)
	color   bool

	fetcher *fetch.Client
	source  *satnogs.Client
}

// Result describes a finished run.
type Result struct {
	Path    string
	Summary flybydb.Summary
	Bytes   int
	Written bool
}

// New creates an App. Missing Logger, FS and Stdout default to a discarded
// logger, the OS filesystem and os.Stdout.
func New(opts Options) *App {
	a := &App{
		log:     opts.Logger,
		cfg:     opts.Cfg,
		fs:      opts.FS,
		path:    opts.Path,
		dryRun:  opts.DryRun,
		stdout:  opts.Stdout,
		confirm: opts.Confirm,
		color:   opts.Color,
	}
	if a.log == nil {
		a.log = log.New(io.Discard)
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	a.fetcher = fetch.New(fetch.Options{
		Timeout:   opts.Cfg.Timeout(),
		UserAgent: opts.Cfg.Source.UserAgent,
	})
	a.source = satnogs.NewClient(a.fetcher, opts.Cfg.Source.URL)
	return a
}

// Run fetches the transmitter list, serializes it and replaces the
// database. Any failure returns before the database is touched.
func (a *App) Run(ctx context.Context) (Result, error) {
	res := Result{Path: a.path}

	a.log.Info("fetching transmitters", "url", a.source.URL)
	raws, err := a.source.Transmitters(ctx)
	if err != nil {
		return res, err
	}
	a.log.Debug("decoded transmitters", "count", len(raws))

	opts := flybydb.Options{}
	if src := a.cfg.Names.TLE; src != "" {
		cat, err := names.Load(ctx, a.fs, a.fetcher, src)
		if err != nil {
			a.log.Warn("display names unavailable, using record ids", "tle", src, "err", err)
		} else {
			a.log.Debug("loaded display names", "tle", src, "satellites", len(cat))
			opts.Names = cat
		}
	}

	data, sum, err := flybydb.Marshal(raws, opts)
	if err != nil {
		return res, err
	}
	res.Summary = sum
	res.Bytes = len(data)

	for _, id := range sum.Overfull {
		a.log.Warn("flyby reads only the first transponders of an entry", "norad", id, "limit", flybydb.MaxTransponders)
	}

	if a.dryRun {
		if _, err := a.stdout.Write(data); err != nil {
			return res, fmt.Errorf("write stdout: %w", err)
		}
		return res, nil
	}

	if a.confirm != nil {
		exists, err := afero.Exists(a.fs, a.path)
		if err != nil {
			return res, err
		}
		if exists {
			ok, err := a.confirm(a.path)
			if err != nil {
				return res, err
			}
			if !ok {
				return res, ErrDeclined
			}
		}
	}

	if err := flybydb.WriteFile(a.fs, a.path, data); err != nil {
		return res, err
	}
	res.Written = true

	a.log.Info("wrote transponder database",
		"path", a.path,
		"satellites", sum.Entries,
		"transponders", sum.Transponders,
		"bytes", len(data),
	)
	return res, nil
}
