package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"ndexplorer/internal/di"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/models"
	"ndexplorer/internal/printer"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/structures"
	"ndexplorer/internal/tui"
)

const usage = `Usage: ndexplorer <command> [flags]

Commands:
  serve   run the read-only proxy in front of the NextDNS API
  view    open the interactive log viewer
  logs    print logs to stdout

Run "ndexplorer <command> --help" for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = serve(args)
	case "view":
		err = view(args)
	case "logs":
		err = logs(args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func commonFlags(name string) (*pflag.FlagSet, *structures.CliFlags) {
	flags := &structures.CliFlags{}
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the config file")
	fs.BoolVarP(&flags.DebugMode, "debug", "d", false, "debug logging to stderr")
	return fs, flags
}

func sourceFlags(fs *pflag.FlagSet, flags *structures.CliFlags) {
	fs.BoolVar(&flags.Direct, "direct", false, "call the NextDNS API directly instead of the proxy")
	fs.StringVar(&flags.APIURL, "api", "", "proxy base URL (overrides viewer.apiUrl)")
}

func serve(args []string) error {
	fs, flags := commonFlags("serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := di.InitServer(flags)
	if err != nil {
		return err
	}
	return app.Run()
}

func view(args []string) error {
	fs, flags := commonFlags("view")
	sourceFlags(fs, flags)
	if err := fs.Parse(args); err != nil {
		return err
	}
	// The console writer would draw over the full-screen UI.
	flags.DebugMode = false

	viewer, err := di.InitViewer(flags)
	if err != nil {
		return err
	}
	defer viewer.Logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tui.Run(ctx, viewer)
}

func logs(args []string) error {
	fs, flags := commonFlags("logs")
	sourceFlags(fs, flags)

	var (
		opts   printer.Options
		preset string
		asJSON bool
		output string
	)
	fs.StringVar(&preset, "preset", "", "date range preset: 1h, 24h or 3d (default 1h when no bounds are given)")
	fs.StringVar(&opts.Form.From, "from", "", "start of the range, YYYY-MM-DDTHH:MM[:SS] local time")
	fs.StringVar(&opts.Form.To, "to", "", "end of the range, YYYY-MM-DDTHH:MM[:SS] local time")
	fs.StringVar(&opts.Form.Status, "status", "", "default, blocked, allowed or error")
	fs.StringVar(&opts.Form.DeviceID, "device", "", "device id")
	fs.StringVar(&opts.Filters.DomainQuery, "domain", "", "show only domains containing this text")
	fs.StringVar(&opts.Filters.TrackerQuery, "tracker", "", "show only trackers containing this text")
	fs.BoolVar(&opts.Filters.HideTrackers, "hide-trackers", false, "hide queries attributed to a tracker")
	fs.IntVar(&opts.Pages, "pages", 1, "pages to load per search, 0 for all")
	fs.IntVar(&opts.Refresh, "refresh", 0, "re-run the 1h preset every 30, 60 or 300 seconds")
	fs.BoolVar(&asJSON, "json", false, "print one JSON record per line")
	fs.StringVarP(&output, "output", "o", "", "write to this file instead of stdout; a .zst suffix compresses it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if preset != "" {
		p, ok := models.ParsePreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", preset)
		}
		opts.Preset = p
	}

	viewer, err := di.InitViewer(flags)
	if err != nil {
		return err
	}
	defer viewer.Logger.Close()

	format := printer.FormatText
	if asJSON {
		format = printer.FormatJSON
	}
	var w io.Writer = os.Stdout
	if output != "" {
		file, err := printer.OpenOutput(output)
		if err != nil {
			return err
		}
		defer func() {
			if cErr := file.Close(); cErr != nil {
				viewer.Logger.Errorf(providers.TypeApp, "logs: closing %s: %v", output, cErr)
			}
		}()
		w = file
	}

	runner := printer.NewRunner(
		explorer.NewPageFetcher(viewer.Source, viewer.Logger),
		printer.NewPrinter(w, format, nil),
		explorer.NewRealClock(),
		viewer.Logger,
		nil,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx, opts); err != nil {
		viewer.Logger.Errorf(providers.TypeApp, "logs: %v", err)
		return displayError(err)
	}
	return nil
}

func displayError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return errors.New(models.Message(appErr))
	}
	return err
}
