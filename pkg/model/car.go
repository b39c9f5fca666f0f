package model

type Team struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Competitor is a driver entry taking part in a race.
type Competitor struct {
	ID     int    `json:"id"     yaml:"id"`
	Name   string `json:"name"   yaml:"name"`
	Number int    `json:"number" yaml:"number"`
	Team   Team   `json:"team"   yaml:"team"`
}
