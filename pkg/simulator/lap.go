package simulator

import (
	"cmp"
	"slices"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

// simulateLap updates all standings for one lap and re-sorts them by total time.
func (s *Simulator) simulateLap(standings []*standing, lap, totalLaps int) {
	pitted := make(map[int]bool)
	for _, st := range standings {
		lapTime := s.params.BaseLapTime * st.performance
		lapTime += s.between(-s.params.LapJitter, s.params.LapJitter)
		lapTime += float64(lap) / float64(totalLaps) * s.params.TireDegradation

		if s.shouldPitStop(lap, st.pitStops, totalLaps) {
			lapTime += s.between(s.params.PitLossMin, s.params.PitLossMax)
			st.pitStops++
			pitted[st.competitor.ID] = true
			s.l.Debug("pit stop",
				log.Int("competitor", st.competitor.ID),
				log.Int("lap", lap),
				log.Int("stops", st.pitStops))
		}

		if lapTime < st.fastestLap {
			st.fastestLap = lapTime
			st.fastestLapNumber = lap
		}
		st.totalTime += lapTime
		st.lapTimes = append(st.lapTimes, lapTime)
	}

	slices.SortStableFunc(standings, func(a, b *standing) int {
		return cmp.Compare(a.totalTime, b.totalTime)
	})
	for i, st := range standings {
		st.position = i + 1
	}

	if s.observer != nil {
		s.observer(lapUpdate(standings, lap, totalLaps, pitted))
	}
}

//nolint:whitespace // editor/linter issue
func lapUpdate(
	standings []*standing, lap, totalLaps int, pitted map[int]bool,
) model.LapUpdate {
	ret := model.LapUpdate{
		Lap:       lap,
		TotalLaps: totalLaps,
		Positions: make([]model.LapPosition, len(standings)),
	}
	for i, st := range standings {
		ret.Positions[i] = model.LapPosition{
			Position:     st.position,
			CompetitorID: st.competitor.ID,
			LapTime:      st.lapTimes[len(st.lapTimes)-1],
			TotalTime:    st.totalTime,
			Pitted:       pitted[st.competitor.ID],
			PitStops:     st.pitStops,
		}
	}
	return ret
}
