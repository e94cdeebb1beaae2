package httpapi

import (
	"net/http"

	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
)

const (
	missingProxyParams = "Game name and tag line are required."
	proxyFailurePrefix = "Proxy failed to fetch data: "
)

// ProxyData relays a lookup to the deployment's own fetch-data endpoint and
// returns its body as is.
func (h *Handler) ProxyData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxyData")
	defer span.End()

	query := playerQueryFromRequest(r)
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, http.StatusBadRequest, missingProxyParams)
		return
	}
	if h.proxy == nil {
		h.logger.ErrorContext(ctx, "proxy target is not configured")
		writeError(ctx, w, http.StatusInternalServerError, proxyFailurePrefix+"proxy target is not configured")
		return
	}

	body, err := h.proxy.Fetch(ctx, query.identifier())
	if err != nil {
		status := http.StatusInternalServerError
		if upstream, ok := usecase.AsUpstreamError(err); ok {
			status = upstream.HTTPStatus()
		}
		h.logger.WarnContext(ctx, "proxy fetch failed", "status", status, "error", err)
		writeError(ctx, w, status, proxyFailurePrefix+err.Error())
		return
	}

	writeRawJSON(ctx, w, http.StatusOK, body)
}
