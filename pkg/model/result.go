package model

//nolint:tagliatelle // output contract
type (
	RaceResultRow struct {
		Position         int    `json:"position"`
		CompetitorID     int    `json:"competitorId"`
		CompetitorName   string `json:"competitorName"`
		CompetitorNumber int    `json:"competitorNumber"`
		TeamID           int    `json:"teamId"`
		TeamName         string `json:"teamName"`
		StartPosition    int    `json:"startPosition"`
		TotalTime        string `json:"totalTime"`
		Gap              string `json:"gap"`
		FastestLap       string `json:"fastestLap"`
		FastestLapNumber int    `json:"fastestLapNumber"`
		PitStops         int    `json:"pitStops"`
		Penalty          string `json:"penalty"`
		LapsCompleted    int    `json:"lapsCompleted"`
	}

	FastestLap struct {
		CompetitorID   int    `json:"competitorId"`
		CompetitorName string `json:"competitorName"`
		Time           string `json:"time"`
		Lap            int    `json:"lap"`
	}

	RaceSimulationResult struct {
		Standings  []RaceResultRow `json:"standings"`
		TotalLaps  int             `json:"totalLaps"`
		FastestLap FastestLap      `json:"fastestLap"`
	}
)

// LapUpdate is a snapshot of the running order after a lap has been completed.
type (
	LapUpdate struct {
		Lap       int           `json:"lap"`
		TotalLaps int           `json:"totalLaps"`
		Positions []LapPosition `json:"positions"`
	}
	LapPosition struct {
		Position     int     `json:"position"`
		CompetitorID int     `json:"competitorId"`
		LapTime      float64 `json:"lapTime"`
		TotalTime    float64 `json:"totalTime"`
		Pitted       bool    `json:"pitted"`
		PitStops     int     `json:"pitStops"`
	}
)
