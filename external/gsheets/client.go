package gsheets

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/resilience"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	serviceName          = "sheets"
	defaultTimeout       = 5 * time.Second
	spreadsheetMimeType  = "application/vnd.google-apps.spreadsheet"
	serviceAccountType   = "service_account"
	appendSuccessMessage = "Data appended successfully."
)

var errSheetsTransient = crerr.New("sheets transient failure")

// ClientConfig configures the sheet writer. HTTPClient and Endpoint bypass
// service-account auth and are meant for fakes.
type ClientConfig struct {
	CredentialsJSON string
	Timeout         time.Duration
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
	HTTPClient      *http.Client
	Endpoint        string
}

type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

type services struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// Client appends rows to a Google spreadsheet tab. It implements usecase.SheetAppender.
type Client struct {
	credentials []byte
	timeout     time.Duration
	logger      *logging.Logger
	breaker     *resilience.CircuitBreaker
	httpClient  *http.Client
	endpoint    string

	keyCheck sync.Once
	keyErr   error

	mu  sync.Mutex
	svc *services
}

var _ usecase.SheetAppender = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		credentials: []byte(strings.TrimSpace(cfg.CredentialsJSON)),
		timeout:     timeout,
		logger:      logger,
		breaker: resilience.NewNamedCircuitBreaker(serviceName, cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "dependency", name, "from", from, "to", to)
		}),
		httpClient: cfg.HTTPClient,
		endpoint:   strings.TrimSpace(cfg.Endpoint),
	}
}

// CheckCredentials validates the shape of the service-account key without contacting Google.
func (c *Client) CheckCredentials() error {
	if len(c.credentials) == 0 {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY is not set", usecase.ErrConfigurationMissing)
	}

	var key serviceAccountKey
	if err := sonic.Unmarshal(c.credentials, &key); err != nil {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY is not valid JSON", usecase.ErrConfigurationMissing)
	}
	if key.Type != serviceAccountType {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY is not a service account key", usecase.ErrConfigurationMissing)
	}
	if strings.TrimSpace(key.ClientEmail) == "" || strings.TrimSpace(key.PrivateKey) == "" {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY is missing client_email or private_key", usecase.ErrConfigurationMissing)
	}

	c.keyCheck.Do(func() {
		c.keyErr = c.checkSigningKey(key.PrivateKey)
	})
	return c.keyErr
}

// checkSigningKey rejects keys that only fail once a token is requested.
func (c *Client) checkSigningKey(privateKey string) error {
	if err := parsePrivateKey(privateKey); err != nil {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY private_key is unusable: %v", usecase.ErrConfigurationMissing, err)
	}
	if _, err := google.CredentialsFromJSON(context.Background(), c.credentials, sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope); err != nil {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY rejected: %v", usecase.ErrConfigurationMissing, err)
	}
	return nil
}

func parsePrivateKey(raw string) error {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return errors.New("no PEM block")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
		return errors.New("not a PKCS#8 or PKCS#1 private key")
	}
	return nil
}

// Append writes row as one new line under the last filled row of the target tab.
// Every failure is reported in the outcome; nothing is returned as an error.
func (c *Client) Append(ctx context.Context, target matchreport.SheetTarget, row matchreport.SheetRow) matchreport.AppendOutcome {
	if err := target.Validate(); err != nil {
		return appendFailed(err)
	}
	if err := c.CheckCredentials(); err != nil {
		return appendFailed(err)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "sheets circuit breaker rejected request", "dependency", c.breaker.Name(), "state", c.breaker.State())
		return appendFailed(fmt.Errorf("%w: google sheets is temporarily unavailable", usecase.ErrDependencyUnavailable))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.append(ctx, target, row)
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case errors.Is(err, context.Canceled):
		c.breaker.Release()
	case isTransient(err):
		c.breaker.RecordFailure()
	default:
		c.breaker.RecordSuccess()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "sheet append failed",
			"spreadsheet", spreadsheetLabel(target),
			"worksheet", target.WorksheetName,
			"error", err,
		)
		return appendFailed(err)
	}

	c.logger.InfoContext(ctx, "sheet row appended", "spreadsheet", spreadsheetLabel(target), "worksheet", target.WorksheetName)
	return matchreport.AppendSucceeded(appendSuccessMessage)
}

func (c *Client) append(ctx context.Context, target matchreport.SheetTarget, row matchreport.SheetRow) error {
	svc, err := c.services(ctx)
	if err != nil {
		return err
	}

	spreadsheetID := strings.TrimSpace(target.SpreadsheetID)
	if spreadsheetID == "" {
		spreadsheetID, err = findSpreadsheetID(ctx, svc.drive, target.SpreadsheetName)
		if err != nil {
			return err
		}
	}

	if err := ensureWorksheet(ctx, svc.sheets, spreadsheetID, target.WorksheetName); err != nil {
		return err
	}

	values := &sheets.ValueRange{Values: [][]interface{}{[]interface{}(row)}}
	_, err = svc.sheets.Spreadsheets.Values.
		Append(spreadsheetID, worksheetRange(target.WorksheetName), values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError("append row", err)
	}

	return nil
}

func (c *Client) services(ctx context.Context) (*services, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	// Token refreshes outlive the first request.
	base := context.WithoutCancel(ctx)
	opts, err := c.clientOptions(base)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := sheets.NewService(base, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(base, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	c.svc = &services{sheets: sheetsSvc, drive: driveSvc}
	return c.svc, nil
}

func (c *Client) clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	if c.httpClient != nil {
		opts := []option.ClientOption{option.WithHTTPClient(c.httpClient)}
		if c.endpoint != "" {
			opts = append(opts, option.WithEndpoint(c.endpoint))
		}
		return opts, nil
	}

	transport := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, transport)

	creds, err := google.CredentialsFromJSON(ctx, c.credentials, sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account key: %v", usecase.ErrConfigurationMissing, err)
	}

	httpClient := oauth2.NewClient(ctx, creds.TokenSource)
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return opts, nil
}

func findSpreadsheetID(ctx context.Context, svc *drive.Service, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQueryValue(name), spreadsheetMimeType)

	list, err := svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapAPIError("find spreadsheet", err)
	}
	if len(list.Files) == 0 || list.Files[0] == nil || list.Files[0].Id == "" {
		return "", fmt.Errorf("%w: spreadsheet %q not found or not shared with the service account", usecase.ErrNotFound, name)
	}

	return list.Files[0].Id, nil
}

func ensureWorksheet(ctx context.Context, svc *sheets.Service, spreadsheetID, worksheet string) error {
	doc, err := svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError("read spreadsheet", err)
	}

	for _, sheet := range doc.Sheets {
		if sheet != nil && sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return nil
		}
	}
	return fmt.Errorf("%w: worksheet %q not found", usecase.ErrNotFound, worksheet)
}

// wrapAPIError keeps the Google status in an UpstreamError and marks 429/5xx and transport errors as transient.
func wrapAPIError(step string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = http.StatusText(apiErr.Code)
		}
		upstream := &usecase.UpstreamError{Service: serviceName, StatusCode: apiErr.Code, Body: message}
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			upstream.Cause = errSheetsTransient
		}
		return fmt.Errorf("%s: %w", step, upstream)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", step, err)
	}

	return fmt.Errorf("%s: %w", step, &usecase.UpstreamError{
		Service: serviceName,
		Cause:   fmt.Errorf("%w: %v", errSheetsTransient, err),
	})
}

func isTransient(err error) bool {
	return crerr.Is(err, errSheetsTransient)
}

func appendFailed(err error) matchreport.AppendOutcome {
	return matchreport.AppendFailed("Failed to append to Google Sheet: %s", err.Error())
}

func worksheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'!A1"
}

var queryValueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escapeQueryValue(v string) string {
	return queryValueEscaper.Replace(v)
}

func spreadsheetLabel(target matchreport.SheetTarget) string {
	if target.SpreadsheetID != "" {
		return target.SpreadsheetID
	}
	return target.SpreadsheetName
}
