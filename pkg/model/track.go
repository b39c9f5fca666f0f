package model

// Circuit describes the track a race is held on.
// Laps <= 0 means "not specified".
type Circuit struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Laps int    `json:"laps" yaml:"laps"`
}
