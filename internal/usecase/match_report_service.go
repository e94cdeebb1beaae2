package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// recentMatchCount is how many match ids are requested; only the newest is summarized.
const recentMatchCount = 1

// GameDataProvider is the read side of the game statistics provider.
type GameDataProvider interface {
	CheckCredentials() error
	ResolveAccount(ctx context.Context, id matchreport.PlayerIdentifier) (string, error)
	ListRecentMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	FetchMatchDetail(ctx context.Context, matchID string) (matchreport.MatchDetail, error)
	FetchMastery(ctx context.Context, puuid string, championID int) (matchreport.MasteryInfo, error)
}

// SheetAppender writes one row to an external spreadsheet.
type SheetAppender interface {
	CheckCredentials() error
	Append(ctx context.Context, target matchreport.SheetTarget, row matchreport.SheetRow) matchreport.AppendOutcome
}

type ResultKind int

const (
	ResultUnexpected ResultKind = iota
	ResultSuccess
	ResultNoRecentMatches
	ResultPlayerNotInMatch
	ResultUpstreamFailure
	ResultConfigurationMissing
	ResultInvalidInput
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultNoRecentMatches:
		return "no_recent_matches"
	case ResultPlayerNotInMatch:
		return "player_not_in_match"
	case ResultUpstreamFailure:
		return "upstream_failure"
	case ResultConfigurationMissing:
		return "configuration_missing"
	case ResultInvalidInput:
		return "invalid_input"
	default:
		return "unexpected"
	}
}

// AggregationResult is the only value handed from the pipeline to the response builder.
// Report is set for ResultSuccess, Err for the failure kinds.
type AggregationResult struct {
	Kind   ResultKind
	Report matchreport.Report
	Err    error
}

type MatchReportService struct {
	provider GameDataProvider
	sheets   SheetAppender
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchReportService(provider GameDataProvider, sheets SheetAppender, location *time.Location, logger *logging.Logger) *MatchReportService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}

	return &MatchReportService{
		provider: provider,
		sheets:   sheets,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckConfiguration reports the first missing or unusable credential.
func (s *MatchReportService) CheckConfiguration() error {
	if err := s.provider.CheckCredentials(); err != nil {
		return err
	}
	if err := s.sheets.CheckCredentials(); err != nil {
		return err
	}
	return nil
}

func (s *MatchReportService) Run(ctx context.Context, id matchreport.PlayerIdentifier, target matchreport.SheetTarget) (result AggregationResult) {
	ctx, span := startPipelineSpan(ctx, "usecase.MatchReportService.Run", attribute.String("lastmatch.player", id.String()))
	defer func() { endPipelineSpan(span, result) }()

	if err := id.Validate(); err != nil {
		return AggregationResult{Kind: ResultInvalidInput, Err: fmt.Errorf("%w: %v", ErrInvalidInput, err)}
	}

	puuid, err := s.provider.ResolveAccount(ctx, id)
	if err != nil {
		return s.failure(ctx, "resolve account", id, err)
	}

	matchIDs, err := s.provider.ListRecentMatchIDs(ctx, puuid, recentMatchCount)
	if err != nil {
		return s.failure(ctx, "list recent matches", id, err)
	}
	if len(matchIDs) == 0 {
		s.logger.InfoContext(ctx, "no recent matches", "player", id.String())
		return AggregationResult{
			Kind: ResultNoRecentMatches,
			Err:  fmt.Errorf("%w: no recent matches found for this player", ErrNotFound),
		}
	}

	detail, err := s.provider.FetchMatchDetail(ctx, matchIDs[0])
	if err != nil {
		return s.failure(ctx, "fetch match detail", id, err)
	}
	if detail.MatchID == "" {
		detail.MatchID = matchIDs[0]
	}

	participant, ok := detail.FindParticipant(puuid)
	if !ok {
		s.logger.WarnContext(ctx, "player missing from match participants", "player", id.String(), "match_id", detail.MatchID)
		return AggregationResult{
			Kind: ResultPlayerNotInMatch,
			Err:  fmt.Errorf("%w: player data not found in the latest match details", ErrNotFound),
		}
	}
	summary := matchreport.NewMatchSummary(detail, participant)

	mastery, err := s.provider.FetchMastery(ctx, puuid, summary.ChampionID)
	if err != nil {
		return s.failure(ctx, "fetch champion mastery", id, err)
	}

	row := matchreport.NewSheetRow(s.now().In(s.location), id, summary, mastery)
	outcome := s.sheets.Append(ctx, target, row)
	if !outcome.Succeeded {
		s.logger.WarnContext(ctx, "sheet append failed",
			"player", id.String(),
			"match_id", summary.MatchID,
			"message", outcome.Message,
		)
	}

	return AggregationResult{
		Kind: ResultSuccess,
		Report: matchreport.Report{
			Player:  id,
			Summary: summary,
			Mastery: mastery,
			Sheet:   outcome,
		},
	}
}

func (s *MatchReportService) failure(ctx context.Context, step string, id matchreport.PlayerIdentifier, err error) AggregationResult {
	kind := classify(err)
	s.logger.WarnContext(ctx, "match report step failed",
		"step", step,
		"player", id.String(),
		"kind", kind.String(),
		"error", err,
	)

	return AggregationResult{Kind: kind, Err: err}
}

func classify(err error) ResultKind {
	switch {
	case err == nil:
		return ResultUnexpected
	case crerr.Is(err, ErrConfigurationMissing):
		return ResultConfigurationMissing
	case crerr.Is(err, ErrInvalidInput):
		return ResultInvalidInput
	}
	if _, ok := AsUpstreamError(err); ok {
		return ResultUpstreamFailure
	}
	if crerr.Is(err, ErrMalformedResponse) || crerr.Is(err, ErrDependencyUnavailable) {
		return ResultUpstreamFailure
	}
	return ResultUnexpected
}
