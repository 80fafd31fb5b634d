package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikmy/klaro/internal/app"
	"github.com/nikmy/klaro/pkg/environment"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config")
	envName := flag.String("env", "", "environment (dev, prod)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}
	if *envName != "" {
		cfg.Environment = environment.FromString(*envName)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	defer cancel()

	svc, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init service"))
	}

	err = svc.Seed(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = svc.Run(ctx)
	if err != nil {
		log.Error(err)
	}

	stdlog.Println("Graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	err = svc.Shutdown(shutdownCtx)
	if err != nil {
		log.Error(errors.WrapFail(err, "shutdown"))
	}

	stdlog.Println("Shutdown complete")
}
