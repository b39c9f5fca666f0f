package simulator

import (
	"math"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

// NoPenalty is the penalty value of an unpenalized result row.
const NoPenalty = "0s"

// formatResults converts the final standings into result rows.
// standings must be sorted by position.
func formatResults(standings []*standing, totalLaps int) []model.RaceResultRow {
	leaderTime := standings[0].totalTime
	ret := make([]model.RaceResultRow, len(standings))
	for i, st := range standings {
		ret[i] = model.RaceResultRow{
			Position:         i + 1,
			CompetitorID:     st.competitor.ID,
			CompetitorName:   st.competitor.Name,
			CompetitorNumber: st.competitor.Number,
			TeamID:           st.competitor.Team.ID,
			TeamName:         st.competitor.Team.Name,
			StartPosition:    st.startPosition,
			TotalTime:        FormatLapTime(st.totalTime),
			Gap:              FormatGap(st.totalTime - leaderTime),
			FastestLap:       FormatLapTime(st.fastestLap),
			FastestLapNumber: st.fastestLapNumber,
			PitStops:         st.pitStops,
			Penalty:          NoPenalty,
			LapsCompleted:    totalLaps,
		}
	}
	return ret
}

// fastestLapOfRace compares best laps on millisecond resolution.
// Equal times are resolved in favor of the lowest competitor id.
func fastestLapOfRace(standings []*standing) model.FastestLap {
	var best *standing
	bestMs := int64(math.MaxInt64)
	for _, st := range standings {
		ms := int64(math.Round(st.fastestLap * 1000))
		if ms < bestMs || (ms == bestMs && st.competitor.ID < best.competitor.ID) {
			best = st
			bestMs = ms
		}
	}
	return model.FastestLap{
		CompetitorID:   best.competitor.ID,
		CompetitorName: best.competitor.Name,
		Time:           FormatLapTime(best.fastestLap),
		Lap:            best.fastestLapNumber,
	}
}
