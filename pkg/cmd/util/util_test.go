package util

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

func sampleResult() *model.RaceSimulationResult {
	return &model.RaceSimulationResult{
		TotalLaps: 3,
		Standings: []model.RaceResultRow{
			{Position: 1, CompetitorID: 2, CompetitorName: "Bob"},
			{Position: 2, CompetitorID: 1, CompetitorName: "Alice"},
		},
		FastestLap: model.FastestLap{CompetitorID: 2, CompetitorName: "Bob", Time: "1:21.050", Lap: 1},
	}
}

func TestWriteJSON_SelectSingleValue(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.NilError(t, WriteJSON(buf, sampleResult(), "$.fastestLap.time"))
	assert.Equal(t, "\"1:21.050\"\n", buf.String())
}

func TestWriteJSON_SelectMultipleValues(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.NilError(t, WriteJSON(buf, sampleResult(), "$.standings[*].competitorName"))
	out := buf.String()
	assert.Check(t, is.Contains(out, "\"Bob\""))
	assert.Check(t, is.Contains(out, "\"Alice\""))
	assert.Check(t, bytes.Index(buf.Bytes(), []byte("Bob")) < bytes.Index(buf.Bytes(), []byte("Alice")))
}

func TestWriteJSON_Full(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.NilError(t, WriteJSON(buf, sampleResult(), ""))
	assert.Check(t, is.Contains(buf.String(), "\"totalLaps\""))
	assert.Check(t, is.Contains(buf.String(), "\"Alice\""))
}

func TestWriteJSON_InvalidSelect(t *testing.T) {
	err := WriteJSON(&bytes.Buffer{}, sampleResult(), "$.standings[")
	assert.ErrorContains(t, err, "invalid select expression")
}
