package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
)

const internalErrorMessage = "internal server error"

// errorResponse is the only error shape this API returns.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()
	_ = ctx

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeRawJSON passes an already encoded JSON document through untouched.
func writeRawJSON(ctx context.Context, w http.ResponseWriter, status int, body []byte) {
	ctx, span := startSpan(ctx, "httpapi.writeRawJSON")
	defer span.End()
	_ = ctx

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	markSpanFailure(ctx, status, message)
	writeJSON(ctx, w, status, errorResponse{Error: message})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, http.StatusInternalServerError, internalErrorMessage)
}
