package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"hrdash/internal/app/server"
	"hrdash/internal/platform/config"
	"hrdash/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, addr, logLevel string
	var consoleLog bool

	flagSet := pflag.NewFlagSet("hrdash", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default: $HRDASH_CONFIG)")
	flagSet.StringVar(&addr, "addr", "", "listen address, overrides APP_ADDR")
	flagSet.StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	flagSet.BoolVar(&consoleLog, "console", false, "human readable log output")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: consoleLog})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server failed")
		return err
	}
	return nil
}
