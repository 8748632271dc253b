package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	zlog "github.com/rs/zerolog/log"

	"github.com/ndewijer/papertrade/internal/cli"
	"github.com/ndewijer/papertrade/internal/config"
	"github.com/ndewijer/papertrade/internal/logger"
	"github.com/ndewijer/papertrade/internal/render"
	"github.com/ndewijer/papertrade/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	zlog.Logger = log

	app := cli.NewApp(cfg, log)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	flag.BoolVar(&app.Plain, "plain", false, "print raw markdown instead of styled terminal output")
	flag.IntVar(&app.Width, "width", render.DefaultWidth, "word wrap width of styled output")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	status := commander.Execute(context.Background())
	app.Close()
	os.Exit(int(status))
}
