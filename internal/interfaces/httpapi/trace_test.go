package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.FetchData", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "proxy handler span", in: "httpapi.Handler.ProxyData", want: true},
		{name: "helper span", in: "httpapi.writeError", want: false},
		{name: "bare prefix", in: "httpapi.Handler.", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_NoParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.FetchData")
	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span without a parent")
	}
	markSpanFailure(got, 500, "internal server error")
}
