package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
)

const notFoundMessage = "Not Found. Use /api/fetch-data."

// ProxyFetcher forwards a player lookup to a deployed fetch-data endpoint.
type ProxyFetcher interface {
	Fetch(ctx context.Context, id matchreport.PlayerIdentifier) ([]byte, error)
}

type Handler struct {
	matchReportService *usecase.MatchReportService
	proxy              ProxyFetcher
	sheetTarget        matchreport.SheetTarget
	location           *time.Location
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchReportService *usecase.MatchReportService,
	proxy ProxyFetcher,
	sheetTarget matchreport.SheetTarget,
	location *time.Location,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		matchReportService: matchReportService,
		proxy:              proxy,
		sheetTarget:        sheetTarget,
		location:           location,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotFound")
	defer span.End()

	writeError(ctx, w, http.StatusNotFound, notFoundMessage)
}

type playerQuery struct {
	GameName string `validate:"required"`
	TagLine  string `validate:"required"`
}

func playerQueryFromRequest(r *http.Request) playerQuery {
	query := r.URL.Query()
	return playerQuery{
		GameName: strings.TrimSpace(query.Get("gameName")),
		TagLine:  strings.TrimSpace(query.Get("tagLine")),
	}
}

func (q playerQuery) identifier() matchreport.PlayerIdentifier {
	return matchreport.PlayerIdentifier{GameName: q.GameName, TagLine: q.TagLine}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
