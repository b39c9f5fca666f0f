package season

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

var (
	ErrRaceNotFound    = errors.New("race not found")
	ErrCircuitNotFound = errors.New("circuit not found")
	ErrNoDrivers       = errors.New("no drivers found for this race")
	ErrInvalidSeason   = errors.New("invalid season data")
)

type (
	TeamEntry struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
		// lap time multiplier, 0 means: use the simulator default
		Performance float64 `yaml:"performance,omitempty"`
	}
	DriverEntry struct {
		ID     int    `yaml:"id"`
		Name   string `yaml:"name"`
		Number int    `yaml:"number"`
		TeamID int    `yaml:"teamId"`
	}
	RaceEntry struct {
		ID        int    `yaml:"id"`
		Name      string `yaml:"name"`
		CircuitID int    `yaml:"circuitId"`
		// participating teams, empty means all teams
		Teams []int `yaml:"teams,omitempty"`
	}
	Season struct {
		Name      string           `yaml:"name,omitempty"`
		Teams     []TeamEntry      `yaml:"teams"`
		Drivers   []DriverEntry    `yaml:"drivers"`
		Circuits  []model.Circuit  `yaml:"circuits"`
		Races     []RaceEntry      `yaml:"races"`
		Incidents []model.Incident `yaml:"incidents,omitempty"`
	}
)

func Load(r io.Reader) (*Season, error) {
	var ret Season
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil {
		return nil, fmt.Errorf("decode season: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

func LoadFile(path string) (*Season, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Validate checks ids are unique and all references can be resolved.
//
//nolint:cyclop // straight list of checks
func (s *Season) Validate() error {
	if dup := lo.FindDuplicatesBy(s.Teams, func(t TeamEntry) int { return t.ID }); len(dup) > 0 {
		return fmt.Errorf("%w: duplicate team id %d", ErrInvalidSeason, dup[0].ID)
	}
	if dup := lo.FindDuplicatesBy(s.Drivers, func(d DriverEntry) int { return d.ID }); len(dup) > 0 {
		return fmt.Errorf("%w: duplicate driver id %d", ErrInvalidSeason, dup[0].ID)
	}
	if dup := lo.FindDuplicatesBy(s.Circuits, func(c model.Circuit) int { return c.ID }); len(dup) > 0 {
		return fmt.Errorf("%w: duplicate circuit id %d", ErrInvalidSeason, dup[0].ID)
	}
	if dup := lo.FindDuplicatesBy(s.Races, func(r RaceEntry) int { return r.ID }); len(dup) > 0 {
		return fmt.Errorf("%w: duplicate race id %d", ErrInvalidSeason, dup[0].ID)
	}
	for _, d := range s.Drivers {
		if _, ok := s.team(d.TeamID); !ok {
			return fmt.Errorf("%w: driver %d references unknown team %d",
				ErrInvalidSeason, d.ID, d.TeamID)
		}
	}
	for _, r := range s.Races {
		if _, ok := s.circuit(r.CircuitID); !ok {
			return fmt.Errorf("%w: race %d references unknown circuit %d",
				ErrInvalidSeason, r.ID, r.CircuitID)
		}
		for _, teamID := range r.Teams {
			if _, ok := s.team(teamID); !ok {
				return fmt.Errorf("%w: race %d references unknown team %d",
					ErrInvalidSeason, r.ID, teamID)
			}
		}
	}
	for _, inc := range s.Incidents {
		if _, ok := s.race(inc.RaceID); !ok {
			return fmt.Errorf("%w: incident references unknown race %d",
				ErrInvalidSeason, inc.RaceID)
		}
		if !slices.ContainsFunc(s.Drivers, func(d DriverEntry) bool { return d.ID == inc.CompetitorID }) {
			return fmt.Errorf("%w: incident references unknown driver %d",
				ErrInvalidSeason, inc.CompetitorID)
		}
	}
	return nil
}

func (s *Season) Race(raceID int) (RaceEntry, error) {
	if r, ok := s.race(raceID); ok {
		return r, nil
	}
	return RaceEntry{}, fmt.Errorf("%w: %d", ErrRaceNotFound, raceID)
}

// Roster collects all drivers of the teams participating in the race.
// Drivers appear in order of participating teams, then in file order.
func (s *Season) Roster(raceID int) ([]model.Competitor, error) {
	race, err := s.Race(raceID)
	if err != nil {
		return nil, err
	}
	teamIDs := race.Teams
	if len(teamIDs) == 0 {
		teamIDs = lo.Map(s.Teams, func(t TeamEntry, _ int) int { return t.ID })
	}
	ret := lo.FlatMap(lo.Uniq(teamIDs), func(teamID int, _ int) []model.Competitor {
		team, _ := s.team(teamID)
		drivers := lo.Filter(s.Drivers, func(d DriverEntry, _ int) bool {
			return d.TeamID == teamID
		})
		return lo.Map(drivers, func(d DriverEntry, _ int) model.Competitor {
			return model.Competitor{
				ID:     d.ID,
				Name:   d.Name,
				Number: d.Number,
				Team:   model.Team{ID: team.ID, Name: team.Name},
			}
		})
	})
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoDrivers, raceID)
	}
	return ret, nil
}

func (s *Season) Circuit(raceID int) (model.Circuit, error) {
	race, err := s.Race(raceID)
	if err != nil {
		return model.Circuit{}, err
	}
	if c, ok := s.circuit(race.CircuitID); ok {
		return c, nil
	}
	return model.Circuit{}, fmt.Errorf("%w: %d", ErrCircuitNotFound, race.CircuitID)
}

// RaceIncidents returns the incidents of a race ordered by lap.
func (s *Season) RaceIncidents(raceID int) []model.Incident {
	ret := lo.Filter(s.Incidents, func(inc model.Incident, _ int) bool {
		return inc.RaceID == raceID
	})
	slices.SortStableFunc(ret, func(a, b model.Incident) int { return a.Lap - b.Lap })
	return ret
}

// TeamPerformance returns the performance overrides defined in the season.
func (s *Season) TeamPerformance() map[string]float64 {
	withPerf := lo.Filter(s.Teams, func(t TeamEntry, _ int) bool { return t.Performance > 0 })
	return lo.SliceToMap(withPerf, func(t TeamEntry) (string, float64) {
		return t.Name, t.Performance
	})
}

func (s *Season) team(id int) (TeamEntry, bool) {
	return lo.Find(s.Teams, func(t TeamEntry) bool { return t.ID == id })
}

func (s *Season) circuit(id int) (model.Circuit, bool) {
	return lo.Find(s.Circuits, func(c model.Circuit) bool { return c.ID == id })
}

func (s *Season) race(id int) (RaceEntry, bool) {
	return lo.Find(s.Races, func(r RaceEntry) bool { return r.ID == id })
}
