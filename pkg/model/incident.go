package model

import "time"

type PenaltyType string

const (
	PenaltyTypeTime    PenaltyType = "TimePenalty"
	PenaltyTypeGrid    PenaltyType = "GridPenalty"
	PenaltyTypeWarning PenaltyType = "Warning"
)

type Penalty struct {
	Type PenaltyType `json:"type"  yaml:"type"`
	// Value is free text as entered by the stewards, e.g. "5s" or "10 seconds"
	Value string `json:"value" yaml:"value"`
}

type Incident struct {
	RaceID         int      `json:"raceId"                   yaml:"raceId"`
	CompetitorID   int      `json:"competitorId"             yaml:"driverId"`
	CompetitorName string   `json:"competitorName,omitempty" yaml:"-"`
	Lap            int      `json:"lap"                      yaml:"lap"`
	Description    string   `json:"description"              yaml:"description"`
	Penalty        *Penalty `json:"penalty,omitempty"        yaml:"penalty,omitempty"`
}

// PenalizedRow is a result row after the stewards' decisions were applied.
//
//nolint:tagliatelle // output contract
type PenalizedRow struct {
	RaceResultRow
	PenaltySeconds float64 `json:"penaltySeconds"`
	Incidents      int     `json:"incidents"`
}

type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
)

// RaceLog is a single log line recorded for a race.
type RaceLog struct {
	RaceID       int       `json:"raceId"`
	CompetitorID int       `json:"competitorId"`
	TeamID       int       `json:"teamId"`
	Lap          int       `json:"lap"`
	Timestamp    time.Time `json:"timestamp"`
	Description  string    `json:"description"`
	Severity     Severity  `json:"severity"`
}
