package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/lastmatch-logger/external/gsheets"
	"github.com/riskibarqy/lastmatch-logger/external/riot"
	"github.com/riskibarqy/lastmatch-logger/internal/config"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/infrastructure/fetchproxy"
	"github.com/riskibarqy/lastmatch-logger/internal/interfaces/httpapi"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
)

// NewHTTPHandler wires clients, the match report service and the router.
// Missing secrets are not an error here; fetch-data reports them per request.
func NewHTTPHandler(cfg config.Config, logger *logging.Logger) (http.Handler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	target := matchreport.SheetTarget{
		SpreadsheetID:   cfg.SheetsSpreadsheetID,
		SpreadsheetName: cfg.SheetsSpreadsheetName,
		WorksheetName:   cfg.SheetsWorksheetName,
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("sheet target: %w", err)
	}

	riotClient := riot.NewClient(riot.ClientConfig{
		RegionalBaseURL: cfg.RiotRegionalBaseURL,
		PlatformBaseURL: cfg.RiotPlatformBaseURL,
		APIKey:          cfg.RiotAPIKey,
		Timeout:         cfg.RiotTimeout,
		Logger:          logger,
		CircuitBreaker:  cfg.RiotCircuit,
	})
	sheetsClient := gsheets.NewClient(gsheets.ClientConfig{
		CredentialsJSON: cfg.GoogleServiceAccountKey,
		Timeout:         cfg.SheetsTimeout,
		Logger:          logger,
		CircuitBreaker:  cfg.SheetsCircuit,
	})
	logger.Info("riot routing configured",
		"regional_route", cfg.RiotRegionalRoute,
		"platform_route", cfg.RiotPlatformRoute,
		"regional_base_url", cfg.RiotRegionalBaseURL,
		"platform_base_url", cfg.RiotPlatformBaseURL,
	)
	proxyClient := fetchproxy.NewClient(nil, cfg.ProxyTargetBaseURL, "", cfg.ProxyTimeout, logger)

	matchReportSvc := usecase.NewMatchReportService(riotClient, sheetsClient, cfg.SheetsLocation, logger)
	handler := httpapi.NewHandler(matchReportSvc, proxyClient, target, cfg.SheetsLocation, logger)

	return httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins), nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	router, err := NewHTTPHandler(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
