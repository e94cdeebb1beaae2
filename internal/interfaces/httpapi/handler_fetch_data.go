package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/usecase"
)

const (
	fetchSuccessMessage     = "Data fetched and logged successfully."
	missingPlayerParams     = "Missing 'gameName' or 'tagLine' query parameter."
	noRecentMatchesMessage  = "No recent matches found for this player."
	playerNotInMatchMessage = "Player data not found in the latest match details."
)

var upstreamLabels = map[string]string{
	"riot":   "Riot API Error",
	"sheets": "Google Sheets Error",
}

type matchReportResponse struct {
	Message               string                   `json:"message"`
	MatchID               string                   `json:"matchId"`
	MatchStartTime        string                   `json:"matchStartTime"`
	GameResult            string                   `json:"gameResult"`
	ChampionPlayed        string                   `json:"championPlayed"`
	ChampionID            int                      `json:"championId"`
	Kills                 int                      `json:"kills"`
	Deaths                int                      `json:"deaths"`
	Assists               int                      `json:"assists"`
	KDA                   string                   `json:"kda"`
	ChampionMasteryLevel  matchreport.MasteryValue `json:"championMasteryLevel"`
	ChampionMasteryPoints matchreport.MasteryValue `json:"championMasteryPoints"`
	GoogleSheetStatus     string                   `json:"googleSheetStatus"`
	GoogleSheetMessage    string                   `json:"googleSheetMessage"`
}

// FetchData resolves the player's latest match, logs it to the sheet and reports it.
func (h *Handler) FetchData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FetchData")
	defer span.End()

	if err := h.matchReportService.CheckConfiguration(); err != nil {
		h.logger.ErrorContext(ctx, "fetch data configuration missing", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	query := playerQueryFromRequest(r)
	if err := h.validateRequest(ctx, query); err != nil {
		h.logger.InfoContext(ctx, "fetch data rejected", "error", err)
		writeError(ctx, w, http.StatusBadRequest, missingPlayerParams)
		return
	}

	result := h.matchReportService.Run(ctx, query.identifier(), h.sheetTarget)
	h.writeMatchReport(ctx, w, result)
}

func (h *Handler) writeMatchReport(ctx context.Context, w http.ResponseWriter, result usecase.AggregationResult) {
	switch result.Kind {
	case usecase.ResultSuccess:
		writeJSON(ctx, w, http.StatusOK, h.matchReportToResponse(result.Report))
	case usecase.ResultNoRecentMatches:
		writeError(ctx, w, http.StatusNotFound, noRecentMatchesMessage)
	case usecase.ResultPlayerNotInMatch:
		writeError(ctx, w, http.StatusNotFound, playerNotInMatchMessage)
	case usecase.ResultUpstreamFailure:
		status, message := upstreamFailure(result.Err)
		writeError(ctx, w, status, message)
	case usecase.ResultConfigurationMissing:
		writeError(ctx, w, http.StatusInternalServerError, result.Err.Error())
	case usecase.ResultInvalidInput:
		writeError(ctx, w, http.StatusBadRequest, missingPlayerParams)
	case usecase.ResultUnexpected:
		h.logger.ErrorContext(ctx, "fetch data failed unexpectedly", "error", result.Err)
		writeInternalError(ctx, w)
	default:
		h.logger.ErrorContext(ctx, "unhandled match report result", "kind", result.Kind.String())
		writeInternalError(ctx, w)
	}
}

func (h *Handler) matchReportToResponse(report matchreport.Report) matchReportResponse {
	summary := report.Summary

	startedAt := ""
	if !summary.StartedAt.IsZero() {
		startedAt = summary.StartedAt.In(h.location).Format(matchreport.TimestampLayout)
	}

	return matchReportResponse{
		Message:               fetchSuccessMessage,
		MatchID:               summary.MatchID,
		MatchStartTime:        startedAt,
		GameResult:            summary.ResultLabel(),
		ChampionPlayed:        summary.ChampionName,
		ChampionID:            summary.ChampionID,
		Kills:                 summary.Kills,
		Deaths:                summary.Deaths,
		Assists:               summary.Assists,
		KDA:                   summary.KDA(),
		ChampionMasteryLevel:  report.Mastery.Level,
		ChampionMasteryPoints: report.Mastery.Points,
		GoogleSheetStatus:     report.Sheet.Status(),
		GoogleSheetMessage:    report.Sheet.Message,
	}
}

// upstreamFailure keeps the upstream 4xx/5xx, 503 for a tripped breaker and 500 otherwise.
func upstreamFailure(err error) (int, string) {
	if upstream, ok := usecase.AsUpstreamError(err); ok {
		return upstream.HTTPStatus(), upstreamMessage(upstream)
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		return http.StatusServiceUnavailable, err.Error()
	}
	if err == nil {
		return http.StatusInternalServerError, internalErrorMessage
	}
	return http.StatusInternalServerError, err.Error()
}

func upstreamMessage(upstream *usecase.UpstreamError) string {
	label, ok := upstreamLabels[upstream.Service]
	if !ok {
		label = "Upstream Error"
	}

	if upstream.StatusCode == 0 {
		if upstream.Cause != nil {
			return label + ": " + upstream.Cause.Error()
		}
		return label + ": request failed"
	}

	body := strings.TrimSpace(upstream.Body)
	if body == "" {
		body = http.StatusText(upstream.StatusCode)
	}
	return fmt.Sprintf("%s: %d %s", label, upstream.StatusCode, body)
}
