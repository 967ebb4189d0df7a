// Flybydb regenerates the flyby transponder database from SatNOGS DB.
//
// It fetches the transmitter list, converts it to flyby's line-oriented
// format and atomically replaces $XDG_DATA_HOME/flyby/flyby.db. An existing
// database is only replaced after confirmation, or with --yes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/large-farva/flybydb/internal/app"
	"github.com/large-farva/flybydb/internal/config"
	"github.com/large-farva/flybydb/internal/logger"
	"github.com/large-farva/flybydb/internal/transponder"
	"github.com/large-farva/flybydb/internal/xdg"
)

// Exit codes. Failure kinds are kept apart so scripts can tell a network
// outage from bad registry data.
const (
	exitOK         = 0
	exitError      = 1
	exitUsage      = 2
	exitFetch      = 3
	exitParse      = 4
	exitValidation = 5
	exitWrite      = 6
	exitDeclined   = 7
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = pflag.StringP("config", "c", "", "Path to config TOML (default $XDG_CONFIG_HOME/flyby/flybydb.toml if present)")
		source     = pflag.StringP("source", "s", "", "Transmitter endpoint URL")
		output     = pflag.StringP("output", "o", "", "Database path (default $XDG_DATA_HOME/flyby/flyby.db)")
		tle        = pflag.StringP("tle", "t", "", "TLE file or URL providing satellite display names")
		yes        = pflag.BoolP("yes", "y", false, "Replace an existing database without asking")
		dryRun     = pflag.BoolP("dry-run", "n", false, "Print the database to stdout instead of writing it")
		inspect    = pflag.Bool("inspect", false, "Summarize the existing database and exit")
		logLevel   = pflag.String("log-level", "", "Log level (debug, info, warn, error)")
		version    = pflag.Bool("version", false, "Print version and exit")
	)
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() > 0 {
		usage()
		return exitUsage
	}
	if *version {
		fmt.Printf("flybydb %s (built %s)\n", app.Version, app.BuiltAt)
		return exitOK
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: config:", err)
		return exitError
	}
	if *source != "" {
		cfg.Source.URL = *source
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if *tle != "" {
		cfg.Names.TLE = *tle
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitUsage
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})

	path := cfg.Output.Path
	if path == "" {
		if path, err = xdg.DBPath(os.Getenv); err != nil {
			log.Error("cannot resolve database path", "err", err)
			return exitError
		}
	}

	opts := app.Options{
		Logger: log,
		Cfg:    cfg,
		Path:   path,
		DryRun: *dryRun,
		Color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
	if !*yes {
		opts.Confirm = confirmOverwrite
	}
	a := app.New(opts)

	if *inspect {
		if err := a.Inspect(os.Stdout); err != nil {
			log.Error("inspect failed", "err", err)
			return exitError
		}
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.Run(ctx); err != nil {
		log.Error("conversion failed", "err", err)
		return exitCode(err)
	}
	return exitOK
}

// loadConfig reads path, or the per-user default config when path is
// empty. A missing default file is not an error.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	def, err := xdg.ConfigPath(os.Getenv)
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(def)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// confirmOverwrite asks on the terminal whether path may be replaced.
// Without a terminal there is nobody to ask, so the run is declined.
func confirmOverwrite(path string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("%w: %s exists and stdin is not a terminal, rerun with --yes", app.ErrDeclined, path)
	}

	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Overwrite %s?", path)).
			Description("The transponder database will be regenerated from SatNOGS DB.").
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, transponder.ErrFetch):
		return exitFetch
	case errors.Is(err, transponder.ErrParse):
		return exitParse
	case errors.Is(err, transponder.ErrValidation):
		return exitValidation
	case errors.Is(err, transponder.ErrWrite):
		return exitWrite
	case errors.Is(err, app.ErrDeclined):
		return exitDeclined
	default:
		return exitError
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `
  flybydb — regenerate the flyby transponder database from SatNOGS DB

  USAGE
    flybydb [flags]

  FLAGS
    -c, --config PATH     Config TOML (default $XDG_CONFIG_HOME/flyby/flybydb.toml)
    -s, --source URL      Transmitter endpoint (default https://db.satnogs.org/api/transmitters/)
    -o, --output PATH     Database path (default $XDG_DATA_HOME/flyby/flyby.db)
    -t, --tle SRC         TLE file or URL; its names replace record ids as entry names
    -y, --yes             Replace an existing database without asking
    -n, --dry-run         Print the database to stdout
        --inspect         Summarize the existing database and exit
        --log-level LVL   debug, info, warn or error
        --version         Print version and exit

  EXIT STATUS
    0 ok, 1 error, 2 usage, 3 fetch failed, 4 malformed response,
    5 invalid record, 6 write failed, 7 overwrite declined

  EXAMPLES
    flybydb
    flybydb --yes --tle https://celestrak.org/NORAD/elements/gp.php?GROUP=amateur&FORMAT=tle
    flybydb --dry-run | less
    flybydb --inspect

`)
}
