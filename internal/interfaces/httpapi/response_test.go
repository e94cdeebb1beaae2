package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestWriteError_FlatErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, http.StatusBadRequest, "bad payload")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected only the error key, got %v", body)
	}
	if got, _ := body["error"].(string); got != "bad payload" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestWriteInternalError_GenericMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body errorResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error != internalErrorMessage {
		t.Fatalf("unexpected error message: %q", body.Error)
	}
}

func TestWriteRawJSON_PassesBodyThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRawJSON(context.Background(), rec, http.StatusOK, []byte(`{"kda":"7/2/10"}`))

	if rec.Body.String() != `{"kda":"7/2/10"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
