package matchreport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

const (
	ResultVictory = "Victory"
	ResultDefeat  = "Defeat"

	unknownValue = "unknown"

	// TimestampLayout is used for every human-readable timestamp written to the sheet.
	TimestampLayout = "2006-01-02 15:04:05"
)

// PlayerIdentifier is the Riot ID a caller looks a player up by.
type PlayerIdentifier struct {
	GameName string
	TagLine  string
}

func (p PlayerIdentifier) Validate() error {
	if strings.TrimSpace(p.GameName) == "" {
		return fmt.Errorf("game name is required")
	}
	if strings.TrimSpace(p.TagLine) == "" {
		return fmt.Errorf("tag line is required")
	}

	return nil
}

func (p PlayerIdentifier) String() string {
	return p.GameName + "#" + p.TagLine
}

// Participant is one player's line in a match record.
type Participant struct {
	PUUID        string
	ChampionName string
	ChampionID   int
	Kills        int
	Deaths       int
	Assists      int
	Win          bool
}

// MatchDetail is the subset of a provider match record the report needs.
type MatchDetail struct {
	MatchID       string
	GameStartedAt time.Time
	Participants  []Participant
}

// FindParticipant returns the participant owning puuid. A match holds at most one.
func (m MatchDetail) FindParticipant(puuid string) (Participant, bool) {
	if puuid == "" {
		return Participant{}, false
	}
	for _, p := range m.Participants {
		if p.PUUID == puuid {
			return p, true
		}
	}

	return Participant{}, false
}

type MatchSummary struct {
	MatchID      string
	Win          bool
	ChampionName string
	ChampionID   int
	Kills        int
	Deaths       int
	Assists      int
	StartedAt    time.Time
}

func NewMatchSummary(detail MatchDetail, p Participant) MatchSummary {
	return MatchSummary{
		MatchID:      detail.MatchID,
		Win:          p.Win,
		ChampionName: p.ChampionName,
		ChampionID:   p.ChampionID,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		StartedAt:    detail.GameStartedAt,
	}
}

func (s MatchSummary) KDA() string {
	return fmt.Sprintf("%d/%d/%d", s.Kills, s.Deaths, s.Assists)
}

func (s MatchSummary) ResultLabel() string {
	if s.Win {
		return ResultVictory
	}
	return ResultDefeat
}

// MasteryValue is a mastery figure the provider may omit.
// The zero value is unknown, which keeps it apart from a real zero.
type MasteryValue struct {
	value int64
	known bool
}

func KnownMastery(v int64) MasteryValue {
	return MasteryValue{value: v, known: true}
}

func (m MasteryValue) Known() bool {
	return m.known
}

func (m MasteryValue) String() string {
	if !m.Known() {
		return unknownValue
	}
	return strconv.FormatInt(m.value, 10)
}

// SheetValue is the cell value written for this figure.
func (m MasteryValue) SheetValue() any {
	if !m.Known() {
		return unknownValue
	}
	return m.value
}

func (m MasteryValue) MarshalJSON() ([]byte, error) {
	if !m.Known() {
		return sonic.Marshal(unknownValue)
	}
	return []byte(strconv.FormatInt(m.value, 10)), nil
}

type MasteryInfo struct {
	ChampionID int
	Level      MasteryValue
	Points     MasteryValue
}

// UnknownMastery is what a player with no recorded mastery on championID gets.
func UnknownMastery(championID int) MasteryInfo {
	return MasteryInfo{ChampionID: championID}
}

// SheetRow is one appended line, in column order.
type SheetRow []any

func NewSheetRow(calledAt time.Time, id PlayerIdentifier, summary MatchSummary, mastery MasteryInfo) SheetRow {
	return SheetRow{
		calledAt.Format(TimestampLayout),
		id.GameName,
		id.TagLine,
		summary.MatchID,
		summary.ResultLabel(),
		summary.ChampionName,
		summary.KDA(),
		mastery.Level.SheetValue(),
		mastery.Points.SheetValue(),
	}
}

// SheetTarget names the spreadsheet and tab rows are appended to.
// SpreadsheetID wins over SpreadsheetName when both are set.
type SheetTarget struct {
	SpreadsheetID   string
	SpreadsheetName string
	WorksheetName   string
}

func (t SheetTarget) Validate() error {
	if strings.TrimSpace(t.SpreadsheetID) == "" && strings.TrimSpace(t.SpreadsheetName) == "" {
		return fmt.Errorf("spreadsheet id or name is required")
	}
	if strings.TrimSpace(t.WorksheetName) == "" {
		return fmt.Errorf("worksheet name is required")
	}

	return nil
}

const (
	AppendStatusSuccess = "success"
	AppendStatusFailure = "failure"
)

type AppendOutcome struct {
	Succeeded bool
	Message   string
}

func AppendSucceeded(message string) AppendOutcome {
	return AppendOutcome{Succeeded: true, Message: message}
}

func AppendFailed(format string, args ...any) AppendOutcome {
	return AppendOutcome{Message: fmt.Sprintf(format, args...)}
}

func (o AppendOutcome) Status() string {
	if o.Succeeded {
		return AppendStatusSuccess
	}
	return AppendStatusFailure
}

// Report is everything a successful run gathered.
type Report struct {
	Player  PlayerIdentifier
	Summary MatchSummary
	Mastery MasteryInfo
	Sheet   AppendOutcome
}
