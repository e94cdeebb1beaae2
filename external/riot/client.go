package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/resilience"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	serviceName            = "riot"
	defaultRegionalBaseURL = "https://americas.api.riotgames.com"
	defaultPlatformBaseURL = "https://la2.api.riotgames.com"
	defaultTimeout         = 5 * time.Second
	maxResponseBytes       = 4 << 20
	maxErrorBodyBytes      = 2048
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)
var errRiotTransient = crerr.New("riot transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	RegionalBaseURL string
	PlatformBaseURL string
	APIKey          string
	Timeout         time.Duration
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client reads account, match and mastery data from the Riot Games API.
// It implements usecase.GameDataProvider.
type Client struct {
	httpClient      *http.Client
	regionalBaseURL string
	platformBaseURL string
	apiKey          string
	timeout         time.Duration
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
	flight          singleflight.Group
}

var _ usecase.GameDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		httpClient:      httpClient,
		regionalBaseURL: baseURLOrDefault(cfg.RegionalBaseURL, defaultRegionalBaseURL),
		platformBaseURL: baseURLOrDefault(cfg.PlatformBaseURL, defaultPlatformBaseURL),
		apiKey:          strings.TrimSpace(cfg.APIKey),
		timeout:         timeout,
		logger:          logger,
		breaker: resilience.NewNamedCircuitBreaker(serviceName, cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "dependency", name, "from", from, "to", to)
		}),
	}
}

func (c *Client) CheckCredentials() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: RIOT_API_KEY is not set", usecase.ErrConfigurationMissing)
	}
	return nil
}

func (c *Client) ResolveAccount(ctx context.Context, id matchreport.PlayerIdentifier) (string, error) {
	path := "/riot/account/v1/accounts/by-riot-id/" + url.PathEscape(id.GameName) + "/" + url.PathEscape(id.TagLine)

	var out accountResponse
	if err := c.getJSON(ctx, c.regionalBaseURL, path, nil, &out); err != nil {
		return "", fmt.Errorf("resolve account %s: %w", id.String(), err)
	}
	if strings.TrimSpace(out.PUUID) == "" {
		return "", fmt.Errorf("%w: account response for %s has no puuid", usecase.ErrMalformedResponse, id.String())
	}

	return out.PUUID, nil
}

// ListRecentMatchIDs returns at most count ids, newest first. An empty slice is not an error.
func (c *Client) ListRecentMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: match count must be >= 1", usecase.ErrInvalidInput)
	}

	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	query := url.Values{}
	query.Set("count", strconv.Itoa(count))

	var ids []string
	if err := c.getJSON(ctx, c.regionalBaseURL, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	if len(ids) > count {
		ids = ids[:count]
	}

	return ids, nil
}

func (c *Client) FetchMatchDetail(ctx context.Context, matchID string) (matchreport.MatchDetail, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)

	var out matchResponse
	if err := c.getJSON(ctx, c.regionalBaseURL, path, nil, &out); err != nil {
		return matchreport.MatchDetail{}, fmt.Errorf("fetch match %s: %w", matchID, err)
	}
	if out.Info == nil {
		return matchreport.MatchDetail{}, fmt.Errorf("%w: match %s has no info section", usecase.ErrMalformedResponse, matchID)
	}

	return out.toDomain(matchID), nil
}

// FetchMastery maps a provider 404 to unknown mastery values.
func (c *Client) FetchMastery(ctx context.Context, puuid string, championID int) (matchreport.MasteryInfo, error) {
	path := "/lol/champion-mastery/v4/champion-masteries/by-puuid/" + url.PathEscape(puuid) +
		"/by-champion/" + strconv.Itoa(championID)

	var out masteryResponse
	if err := c.getJSON(ctx, c.platformBaseURL, path, nil, &out); err != nil {
		if upstream, ok := usecase.AsUpstreamError(err); ok && upstream.StatusCode == http.StatusNotFound {
			c.logger.InfoContext(ctx, "no champion mastery recorded", "champion_id", championID)
			return matchreport.UnknownMastery(championID), nil
		}
		return matchreport.MasteryInfo{}, fmt.Errorf("fetch mastery champion_id=%d: %w", championID, err)
	}

	return out.toDomain(championID), nil
}

func (c *Client) getJSON(ctx context.Context, baseURL, path string, query url.Values, target any) error {
	values := url.Values{}
	for key, items := range query {
		values[key] = append([]string(nil), items...)
	}
	flightKey := baseURL + path + "?" + values.Encode()
	values.Set("api_key", c.apiKey)
	fullURL := baseURL + path + "?" + values.Encode()

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("riot.path", path),
			attribute.String("riot.host", baseURL),
		)
	}

	// The flight is shared by every caller with the same key, so it runs
	// detached from any one of them and each caller waits on its own ctx.
	flight := c.flight.DoChan(flightKey, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(sharedCtx, "riot circuit breaker rejected request", "dependency", c.breaker.Name(), "state", c.breaker.State())
			return nil, fmt.Errorf("%w: riot api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}

		raw, reqErr := c.executeRequest(sharedCtx, fullURL)
		c.record(reqErr)
		return raw, reqErr
	})

	var result singleflight.Result
	select {
	case result = <-flight:
	case <-ctx.Done():
		return fmt.Errorf("riot request abandoned: %w", ctx.Err())
	}
	if result.Err != nil {
		return result.Err
	}

	raw, ok := result.Val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", result.Val)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode riot payload: %v", usecase.ErrMalformedResponse, err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %s", c.sanitize(err.Error()))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstream := &usecase.UpstreamError{
			Service: serviceName,
			Cause:   fmt.Errorf("%w: send request: %s", errRiotTransient, c.sanitize(err.Error())),
		}
		c.logger.WarnContext(ctx, "riot request failed", "url", redactAPIURL(fullURL), "error", upstream)
		return nil, upstream
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		upstream := &usecase.UpstreamError{
			Service: serviceName,
			Cause:   fmt.Errorf("%w: read response body: %v", errRiotTransient, err),
		}
		c.logger.WarnContext(ctx, "riot response read failed", "url", redactAPIURL(fullURL), "error", upstream)
		return nil, upstream
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	upstream := &usecase.UpstreamError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Body:       c.sanitize(limitBody(raw, maxErrorBodyBytes)),
	}
	if isRetryableStatus(resp.StatusCode) {
		upstream.Cause = errRiotTransient
	}

	if resp.StatusCode == http.StatusNotFound {
		c.logger.DebugContext(ctx, "riot resource not found", "url", redactAPIURL(fullURL))
	} else {
		c.logger.WarnContext(ctx, "riot request rejected",
			"url", redactAPIURL(fullURL),
			"status", resp.StatusCode,
			"body", abbreviateBody(raw),
		)
	}
	return nil, upstream
}

// record feeds the breaker. Only transport failures, 429 and 5xx count against Riot.
func (c *Client) record(err error) {
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case crerr.Is(err, errRiotTransient):
		c.breaker.RecordFailure()
	default:
		c.breaker.RecordSuccess()
	}
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func baseURLOrDefault(raw, fallback string) string {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		return fallback
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "api_key=REDACTED")
	}
	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func limitBody(body []byte, limit int) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
