package simulator

import (
	"math/rand/v2"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

type (
	// Simulator generates race outcomes.
	// A Simulator owns its random source and is not safe for concurrent use.
	// Create one per goroutine.
	Simulator struct {
		params   Params
		rnd      *rand.Rand
		observer func(model.LapUpdate)
		l        *log.Logger
	}
	Option func(s *Simulator)
)

func WithParams(p Params) Option {
	return func(s *Simulator) {
		s.params = p
	}
}

// WithTeamPerformance replaces the team performance table.
func WithTeamPerformance(table map[string]float64) Option {
	return func(s *Simulator) {
		s.params.TeamPerformance = table
	}
}

func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rnd = r
	}
}

// WithSeed makes the simulation reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithLapObserver registers a callback which is called after each simulated lap.
func WithLapObserver(cb func(model.LapUpdate)) Option {
	return func(s *Simulator) {
		s.observer = cb
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.l = l
	}
}

func New(opts ...Option) *Simulator {
	ret := &Simulator{
		params: DefaultParams(),
		l:      log.Default().Named("simulator"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		//nolint:gosec // no crypto needed
		ret.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if ret.params.DefaultLaps <= 0 {
		ret.params.DefaultLaps = DefaultParams().DefaultLaps
	}
	if ret.params.TeamPerformance == nil {
		ret.params.TeamPerformance = map[string]float64{}
	}
	return ret
}

func (s *Simulator) Params() Params {
	return s.params
}

// Simulate runs a complete race for the roster on the given circuit.
// The roster must not be empty. A circuit without a positive lap count
// is raced over Params.DefaultLaps laps.
func (s *Simulator) Simulate(
	roster []model.Competitor,
	circuit model.Circuit,
) (*model.RaceSimulationResult, error) {
	if len(roster) == 0 {
		return nil, ErrInvalidRoster
	}
	totalLaps := circuit.Laps
	if totalLaps <= 0 {
		totalLaps = s.params.DefaultLaps
	}
	s.l.Debug("starting simulation",
		log.Int("competitors", len(roster)),
		log.Int("laps", totalLaps),
		log.String("circuit", circuit.Name))

	standings := s.generateGrid(roster)
	for lap := 1; lap <= totalLaps; lap++ {
		s.simulateLap(standings, lap, totalLaps)
	}

	ret := &model.RaceSimulationResult{
		Standings:  formatResults(standings, totalLaps),
		TotalLaps:  totalLaps,
		FastestLap: fastestLapOfRace(standings),
	}
	s.l.Debug("simulation done",
		log.Int("winner", ret.Standings[0].CompetitorID),
		log.String("totalTime", ret.Standings[0].TotalTime),
		log.String("fastestLap", ret.FastestLap.Time))
	return ret, nil
}

func (s *Simulator) between(minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*s.rnd.Float64()
}
