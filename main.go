package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sort"

	"github.com/joho/godotenv"
	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/walutomat/config"
	v1 "github.com/lukehollenback/walutomat/exchange/walutomat/v1"
	v2 "github.com/lukehollenback/walutomat/exchange/walutomat/v2"
	"github.com/lukehollenback/walutomat/logger"
	"github.com/sirupsen/logrus"
)

//
// app bundles everything a command needs.
//
type app struct {
	cfg        *config.Config
	log        *logrus.Logger
	httpClient *http.Client
	out        io.Writer
	au         aurora.Aurora
}

func (o *app) v1() *v1.Client {
	return v1.NewClient(
		o.cfg.API.BaseURL, o.cfg.API.Key, o.cfg.API.Secret,
		v1.WithHTTPClient(o.httpClient),
		v1.WithLogger(logger.WithComponent(o.log, "v1-client")),
	)
}

func (o *app) v2() *v2.Client {
	return v2.NewClient(
		o.cfg.API.BaseURL, o.cfg.API.Key,
		v2.WithHTTPClient(o.httpClient),
		v2.WithLogger(logger.WithComponent(o.log, "v2-client")),
	)
}

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML configuration file. Defaults apply when omitted.")
	envPath := flag.String("env", ".env", "Path to a dotenv file holding WT_KEY / WT_SECRET. Ignored when missing.")
	noColor := flag.Bool("no-color", false, "Disable coloured output.")

	flag.Usage = usage
	flag.Parse()

	//
	// Load credentials from the dotenv file before the configuration reads the environment.
	//
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s. (Error: %s)\n", *envPath, err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration. (Error: %s)\n", err)
		os.Exit(1)
	}

	log := logger.New()
	if err := logger.Configure(log, cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging. (Error: %s)\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	name := flag.Arg(0)

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n", name)
		usage()
		os.Exit(2)
	}

	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: cfg.API.Timeout},
		out:        os.Stdout,
		au:         aurora.NewAurora(!*noColor),
	}

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		logger.WithComponent(log, name).WithError(err).Error("Command failed.")
		os.Exit(1)
	}
}

func usage() {
	w := flag.CommandLine.Output()

	fmt.Fprintf(w, "Usage: walutomat [flags] <command> [command flags]\n\nFlags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(w, "\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}
