package simulator

import "maps"

type (
	// Params holds the tunable constants of the simulation.
	Params struct {
		BaseLapTime        float64            // seconds
		DefaultLaps        int                // used if the circuit has no lap count
		DefaultPerformance float64            // for teams missing in TeamPerformance
		TeamPerformance    map[string]float64 // team name -> lap time multiplier
		SkillMin           float64            // driver skill factor range for qualifying
		SkillMax           float64
		LapJitter          float64 // lap time variation is drawn from [-LapJitter, LapJitter)
		TireDegradation    float64 // seconds added at the final lap, grows linearly
		PitWindows         []PitWindow
		PitLossMin         float64 // time lost in pit lane, drawn from [PitLossMin, PitLossMax)
		PitLossMax         float64
	}

	// PitWindow describes when the n-th pit stop may happen.
	// The index of the window within Params.PitWindows is the number of stops
	// a car must have taken before this window applies.
	PitWindow struct {
		FirstLap    int
		LastLap     int
		Threshold   float64 // a car stops if a uniform draw is greater than this
		MinRaceLaps int     // window only applies if the race has more laps than this
	}
)

//nolint:gochecknoglobals,mnd // default table
var defaultTeamPerformance = map[string]float64{
	"Red Bull":     1.000,
	"Ferrari":      0.985,
	"McLaren":      0.980,
	"Mercedes":     0.975,
	"Aston Martin": 0.965,
	"Alpine":       0.955,
	"Williams":     0.945,
	"AlphaTauri":   0.940,
	"Alfa Romeo":   0.935,
	"Haas":         0.930,
}

func DefaultTeamPerformance() map[string]float64 {
	return maps.Clone(defaultTeamPerformance)
}

//nolint:mnd // defaults
func DefaultParams() Params {
	return Params{
		BaseLapTime:        90,
		DefaultLaps:        50,
		DefaultPerformance: 0.92,
		TeamPerformance:    DefaultTeamPerformance(),
		SkillMin:           0.98,
		SkillMax:           1.02,
		LapJitter:          1,
		TireDegradation:    0.5,
		PitWindows: []PitWindow{
			{FirstLap: 15, LastLap: 30, Threshold: 0.85},
			{FirstLap: 40, LastLap: 55, Threshold: 0.90, MinRaceLaps: 50},
		},
		PitLossMin: 22,
		PitLossMax: 24,
	}
}

func (p *Params) performance(teamName string) float64 {
	if v, ok := p.TeamPerformance[teamName]; ok {
		return v
	}
	return p.DefaultPerformance
}

func (p *Params) maxPitStops() int {
	return len(p.PitWindows)
}
