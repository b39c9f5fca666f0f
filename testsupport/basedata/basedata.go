package basedata

import (
	"time"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleCircuit() model.Circuit {
	return model.Circuit{ID: 1, Name: "Monza Circuit", Laps: 53}
}

func SampleTeams() []model.Team {
	return []model.Team{
		{ID: 1, Name: "Red Bull"},
		{ID: 2, Name: "Ferrari"},
		{ID: 3, Name: "Haas"},
		{ID: 4, Name: "Backmarker Racing"},
	}
}

// SampleRoster returns two competitors per team of SampleTeams.
func SampleRoster() []model.Competitor {
	teams := SampleTeams()
	return []model.Competitor{
		{ID: 1, Name: "Max Verstappen", Number: 1, Team: teams[0]},
		{ID: 2, Name: "Sergio Perez", Number: 11, Team: teams[0]},
		{ID: 3, Name: "Charles Leclerc", Number: 16, Team: teams[1]},
		{ID: 4, Name: "Carlos Sainz", Number: 55, Team: teams[1]},
		{ID: 5, Name: "Kevin Magnussen", Number: 20, Team: teams[2]},
		{ID: 6, Name: "Nico Hulkenberg", Number: 27, Team: teams[2]},
		{ID: 7, Name: "Jane Doe", Number: 98, Team: teams[3]},
		{ID: 8, Name: "John Roe", Number: 99, Team: teams[3]},
	}
}

func SampleIncidents() []model.Incident {
	return []model.Incident{
		{
			RaceID: 1, CompetitorID: 1, Lap: 12,
			Description: "Exceeded track limits at Turn 4",
			Penalty:     &model.Penalty{Type: model.PenaltyTypeTime, Value: "5s"},
		},
		{
			RaceID: 1, CompetitorID: 1, Lap: 30,
			Description: "Unsafe release from pit box",
			Penalty:     &model.Penalty{Type: model.PenaltyTypeTime, Value: "10 seconds"},
		},
		{
			RaceID: 1, CompetitorID: 3, Lap: 20,
			Description: "Ignoring blue flags",
			Penalty:     &model.Penalty{Type: model.PenaltyTypeWarning, Value: "reprimand"},
		},
	}
}

// SampleSeasonYAML is a season file matching the values above.
const SampleSeasonYAML = `
teams:
  - id: 1
    name: Red Bull
  - id: 2
    name: Ferrari
  - id: 3
    name: Haas
    performance: 0.931
  - id: 4
    name: Backmarker Racing
drivers:
  - {id: 1, name: Max Verstappen, number: 1, teamId: 1}
  - {id: 2, name: Sergio Perez, number: 11, teamId: 1}
  - {id: 3, name: Charles Leclerc, number: 16, teamId: 2}
  - {id: 4, name: Carlos Sainz, number: 55, teamId: 2}
  - {id: 5, name: Kevin Magnussen, number: 20, teamId: 3}
  - {id: 6, name: Nico Hulkenberg, number: 27, teamId: 3}
  - {id: 7, name: Jane Doe, number: 98, teamId: 4}
  - {id: 8, name: John Roe, number: 99, teamId: 4}
circuits:
  - {id: 1, name: Monza Circuit, laps: 53}
  - {id: 2, name: Unknown Layout}
races:
  - {id: 1, name: Italian Grand Prix, circuitId: 1}
  - {id: 2, name: Test Race, circuitId: 2, teams: [2, 3]}
incidents:
  - raceId: 1
    driverId: 1
    lap: 12
    description: Exceeded track limits at Turn 4
    penalty: {type: TimePenalty, value: 5s}
  - raceId: 1
    driverId: 1
    lap: 30
    description: Unsafe release from pit box
    penalty: {type: TimePenalty, value: 10 seconds}
  - raceId: 1
    driverId: 3
    lap: 20
    description: Ignoring blue flags
    penalty: {type: Warning, value: reprimand}
`
