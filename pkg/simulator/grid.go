package simulator

import (
	"cmp"
	"math"
	"slices"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

// standing is the mutable per competitor race state.
type standing struct {
	competitor       model.Competitor
	performance      float64
	position         int
	startPosition    int
	totalTime        float64
	fastestLap       float64
	fastestLapNumber int
	pitStops         int
	lapTimes         []float64
}

type gridSlot struct {
	competitor     model.Competitor
	performance    float64
	qualifyingTime float64
}

func (s *Simulator) generateGrid(roster []model.Competitor) []*standing {
	grid := make([]gridSlot, 0, len(roster))
	for _, c := range roster {
		perf := s.params.performance(c.Team.Name)
		skill := s.between(s.params.SkillMin, s.params.SkillMax)
		grid = append(grid, gridSlot{
			competitor:     c,
			performance:    perf,
			qualifyingTime: s.params.BaseLapTime * perf * skill,
		})
	}
	slices.SortStableFunc(grid, func(a, b gridSlot) int {
		return cmp.Compare(a.qualifyingTime, b.qualifyingTime)
	})

	ret := make([]*standing, len(grid))
	for i := range grid {
		ret[i] = &standing{
			competitor:    grid[i].competitor,
			performance:   grid[i].performance,
			position:      i + 1,
			startPosition: i + 1,
			fastestLap:    math.Inf(1),
		}
	}
	return ret
}
