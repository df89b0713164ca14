package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/classfund/classfund/internal/cmd/serverd"
	"github.com/classfund/classfund/internal/platform/config"
)

func main() {
	cfg, err := serverd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[CLASSFUND] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serverd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
