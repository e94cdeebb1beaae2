package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
// Secrets may be empty here; requests report them as missing.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level

	RiotAPIKey          string
	RiotRegionalRoute   string
	RiotPlatformRoute   string
	RiotRegionalBaseURL string
	RiotPlatformBaseURL string
	RiotTimeout         time.Duration
	RiotCircuit         resilience.CircuitBreakerConfig

	GoogleServiceAccountKey string
	SheetsSpreadsheetName   string
	SheetsSpreadsheetID     string
	SheetsWorksheetName     string
	SheetsLocation          *time.Location
	SheetsTimeout           time.Duration
	SheetsCircuit           resilience.CircuitBreakerConfig

	ProxyTargetBaseURL string
	ProxyTimeout       time.Duration

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	PprofEnabled           bool
	PprofAddr              string
}

var (
	regionalRoutes = []string{"americas", "asia", "europe", "sea"}
	platformRoutes = []string{
		"br1", "la1", "la2", "na1",
		"eun1", "euw1", "tr1", "me1", "ru",
		"kr", "jp1",
		"oc1", "sg2", "tw2", "vn2",
	}
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	regionalRoute, err := parseRoute("RIOT_REGIONAL_ROUTE", getEnv("RIOT_REGIONAL_ROUTE", "americas"), regionalRoutes)
	if err != nil {
		return Config{}, err
	}
	platformRoute, err := parseRoute("RIOT_PLATFORM_ROUTE", getEnv("RIOT_PLATFORM_ROUTE", "la2"), platformRoutes)
	if err != nil {
		return Config{}, err
	}
	riotTimeout, err := parsePositiveDuration("RIOT_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	riotCircuit, err := parseCircuit("RIOT")
	if err != nil {
		return Config{}, err
	}

	sheetsLocation, err := time.LoadLocation(strings.TrimSpace(getEnv("SHEETS_TIMEZONE", "UTC")))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_TIMEZONE: %w", err)
	}
	sheetsTimeout, err := parsePositiveDuration("SHEETS_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	sheetsCircuit, err := parseCircuit("SHEETS")
	if err != nil {
		return Config{}, err
	}
	worksheetName := strings.TrimSpace(getEnv("SHEETS_WORKSHEET_NAME", "MatchData"))
	spreadsheetName := strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_NAME", "RiotDataLog"))
	spreadsheetID := strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_ID", ""))

	proxyTimeout, err := parsePositiveDuration("PROXY_TIMEOUT", "8s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "lastmatch-logger"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           logLevel,

		RiotAPIKey:          strings.TrimSpace(getEnv("RIOT_API_KEY", "")),
		RiotRegionalRoute:   regionalRoute,
		RiotPlatformRoute:   platformRoute,
		RiotRegionalBaseURL: trimBaseURL(getEnv("RIOT_REGIONAL_BASE_URL", routeBaseURL(regionalRoute))),
		RiotPlatformBaseURL: trimBaseURL(getEnv("RIOT_PLATFORM_BASE_URL", routeBaseURL(platformRoute))),
		RiotTimeout:         riotTimeout,
		RiotCircuit:         riotCircuit,

		GoogleServiceAccountKey: strings.TrimSpace(getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", "")),
		SheetsSpreadsheetName:   spreadsheetName,
		SheetsSpreadsheetID:     spreadsheetID,
		SheetsWorksheetName:     worksheetName,
		SheetsLocation:          sheetsLocation,
		SheetsTimeout:           sheetsTimeout,
		SheetsCircuit:           sheetsCircuit,

		ProxyTargetBaseURL: parseProxyTarget(),
		ProxyTimeout:       proxyTimeout,

		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		PprofEnabled:           pprofEnabled,
		PprofAddr:              getEnv("PPROF_ADDR", "127.0.0.1:6060"),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SheetsWorksheetName == "" {
		return Config{}, fmt.Errorf("SHEETS_WORKSHEET_NAME cannot be empty")
	}
	if cfg.SheetsSpreadsheetID == "" && cfg.SheetsSpreadsheetName == "" {
		return Config{}, fmt.Errorf("SHEETS_SPREADSHEET_NAME or SHEETS_SPREADSHEET_ID is required")
	}

	return cfg, nil
}

func parseCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultsFor(prefix)

	enabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", strconv.FormatBool(defaults.Enabled)))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	failureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", defaults.FailureThreshold)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	openTimeout, err := parsePositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", defaults.OpenTimeout.String())
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return d, nil
}

func parseRoute(key, raw string, known []string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(known, value) {
		return "", fmt.Errorf("invalid %s %q: valid values are %s", key, raw, strings.Join(known, ", "))
	}
	return value, nil
}

func routeBaseURL(route string) string {
	return "https://" + route + ".api.riotgames.com"
}

// parseProxyTarget prefers an explicit base URL, then the deployment host.
func parseProxyTarget() string {
	if target := strings.TrimSpace(getEnv("PROXY_TARGET_BASE_URL", "")); target != "" {
		return trimBaseURL(target)
	}
	if host := strings.TrimSpace(getEnv("VERCEL_URL", "")); host != "" {
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "https://" + host
		}
		return trimBaseURL(host)
	}
	return "http://localhost:8080"
}

func trimBaseURL(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), "/")
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
