package riot

import (
	"time"

	"github.com/riskibarqy/lastmatch-logger/internal/domain/matchreport"
)

type accountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type matchResponse struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info *matchInfo `json:"info"`
}

type matchInfo struct {
	GameStartTimestamp int64         `json:"gameStartTimestamp"`
	Participants       []participant `json:"participants"`
}

type participant struct {
	PUUID        string `json:"puuid"`
	ChampionName string `json:"championName"`
	ChampionID   int    `json:"championId"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	Win          bool   `json:"win"`
}

// masteryResponse keeps pointers so an omitted figure stays unknown.
type masteryResponse struct {
	ChampionID     int    `json:"championId"`
	ChampionLevel  *int64 `json:"championLevel"`
	ChampionPoints *int64 `json:"championPoints"`
}

func (m matchResponse) toDomain(fallbackID string) matchreport.MatchDetail {
	detail := matchreport.MatchDetail{MatchID: m.Metadata.MatchID}
	if detail.MatchID == "" {
		detail.MatchID = fallbackID
	}
	if m.Info == nil {
		return detail
	}
	if m.Info.GameStartTimestamp > 0 {
		detail.GameStartedAt = time.UnixMilli(m.Info.GameStartTimestamp).UTC()
	}

	detail.Participants = make([]matchreport.Participant, 0, len(m.Info.Participants))
	for _, p := range m.Info.Participants {
		detail.Participants = append(detail.Participants, matchreport.Participant{
			PUUID:        p.PUUID,
			ChampionName: p.ChampionName,
			ChampionID:   p.ChampionID,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			Win:          p.Win,
		})
	}
	return detail
}

func (m masteryResponse) toDomain(championID int) matchreport.MasteryInfo {
	info := matchreport.UnknownMastery(championID)
	if m.ChampionLevel != nil {
		info.Level = matchreport.KnownMastery(*m.ChampionLevel)
	}
	if m.ChampionPoints != nil {
		info.Points = matchreport.KnownMastery(*m.ChampionPoints)
	}
	return info
}
