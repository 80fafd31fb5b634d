package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/nikmy/klaro/internal/app"
	"github.com/nikmy/klaro/internal/lambdaproxy"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

func main() {
	// Configured through KLARO_* variables unless a file is given.
	cfg, err := app.LoadConfig(os.Getenv("KLARO_CONFIG"))
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	err = cfg.RequireSharedStorage()
	if err != nil {
		stdlog.Panic(err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx := context.Background()

	svc, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init service"))
	}

	err = svc.Seed(ctx)
	if err != nil {
		log.Panic(err)
	}

	lambda.Start(lambdaproxy.New(svc.Server.App(), log).Handle)
}
