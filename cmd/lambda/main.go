package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/lastmatch-logger/internal/app"
	"github.com/riskibarqy/lastmatch-logger/internal/config"
	"github.com/riskibarqy/lastmatch-logger/internal/interfaces/lambdaapi"
	"github.com/riskibarqy/lastmatch-logger/internal/observability"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"runtime", "lambda",
	)
	logging.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("load .env failed", "error", envErr)
	}

	if _, err := observability.InitUptrace(cfg, logger); err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	handler, err := app.NewHTTPHandler(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	adapter := lambdaapi.NewAdapter(handler, logger)

	// Spans must be exported before the execution environment freezes.
	lambda.Start(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := adapter.Handle(ctx, event)
		if cfg.UptraceEnabled {
			uptrace.ForceFlush(ctx)
		}
		_ = logger.Sync()
		return resp, err
	})
}
