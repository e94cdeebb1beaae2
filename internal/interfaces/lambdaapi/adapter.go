package lambdaapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
)

const requestIDHeader = "X-Request-ID"

// Adapter serves API Gateway proxy events with the same http.Handler the
// long-running server uses.
type Adapter struct {
	proxy  *httpadapter.HandlerAdapter
	logger *logging.Logger
}

func NewAdapter(handler http.Handler, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{proxy: httpadapter.New(handler), logger: logger}
}

func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := a.proxy.ProxyWithContext(ctx, withGatewayRequestID(event))
	if err != nil {
		a.logger.WarnContext(ctx, "rejecting gateway event", "path", event.Path, "error", err)
		return errorResponse(http.StatusBadRequest, "malformed gateway event"), nil
	}
	return resp, nil
}

// withGatewayRequestID fills X-Request-ID from the gateway request id when the
// caller sent none. The proxy reads MultiValueHeaders when present, Headers otherwise.
func withGatewayRequestID(event events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	gatewayID := strings.TrimSpace(event.RequestContext.RequestID)
	if gatewayID == "" || hasHeader(event, requestIDHeader) {
		return event
	}

	if event.MultiValueHeaders != nil {
		headers := make(map[string][]string, len(event.MultiValueHeaders)+1)
		for key, values := range event.MultiValueHeaders {
			headers[key] = values
		}
		headers[requestIDHeader] = []string{gatewayID}
		event.MultiValueHeaders = headers
		return event
	}

	headers := make(map[string]string, len(event.Headers)+1)
	for key, value := range event.Headers {
		headers[key] = value
	}
	headers[requestIDHeader] = gatewayID
	event.Headers = headers
	return event
}

func hasHeader(event events.APIGatewayProxyRequest, name string) bool {
	for key, values := range event.MultiValueHeaders {
		if strings.EqualFold(key, name) && len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			return true
		}
	}
	for key, value := range event.Headers {
		if strings.EqualFold(key, name) && strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, err := sonic.MarshalString(map[string]string{"error": message})
	if err != nil {
		body = `{"error":"internal server error"}`
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}
