package fetchproxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serviceName     = "fetch-data"
	defaultPath     = "/api/fetch-data"
	defaultTimeout  = 8 * time.Second
	maxResponseSize = 1 << 20
)

// Client calls a deployed fetch-data endpoint on behalf of browsers that cannot reach it directly.
type Client struct {
	httpClient *http.Client
	targetURL  string
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, path string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}

	return &Client{
		httpClient: httpClient,
		targetURL:  buildURL(baseURL, path),
		logger:     logger,
	}
}

// Fetch returns the target's JSON body untouched when it answers 2xx.
func (c *Client) Fetch(ctx context.Context, id matchreport.PlayerIdentifier) ([]byte, error) {
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	query := url.Values{}
	query.Set("gameName", id.GameName)
	query.Set("tagLine", id.TagLine)
	fullURL := c.targetURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create proxy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	c.logger.InfoContext(ctx, "proxying fetch-data request", "target_url", fullURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &usecase.UpstreamError{Service: serviceName, Cause: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &usecase.UpstreamError{Service: serviceName, Cause: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "fetch-data target non-2xx",
			"status_code", resp.StatusCode,
			"target_url", fullURL,
		)
		return nil, &usecase.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if !sonic.Valid(body) {
		return nil, fmt.Errorf("%w: fetch-data answered with a non-JSON body", usecase.ErrMalformedResponse)
	}

	return body, nil
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
