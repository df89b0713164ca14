package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/classfund/classfund/internal/cmd/seeder"
	"github.com/classfund/classfund/internal/platform/config"
)

func main() {
	cfg, err := seeder.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seeder.Run(ctx, cfg); err != nil {
		config.Exitf("seed: %v", err)
	}
}
