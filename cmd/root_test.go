//nolint:funlen // ok for tests
package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/cmd/util"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	"github.com/mpapenbr/racecontrol-service-go/testsupport/basedata"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommands(t *testing.T) {
	orig := log.Default()
	t.Cleanup(func() { log.ResetDefault(orig) })

	dir := t.TempDir()
	seasonFile := filepath.Join(dir, "season.yml")
	require.NoError(t, os.WriteFile(seasonFile, []byte(basedata.SampleSeasonYAML), 0o600))
	resultFile := filepath.Join(dir, "result.json")
	standingsFile := filepath.Join(dir, "standings.json")
	incidentsFile := filepath.Join(dir, "incidents.json")

	require.NoError(t, run(t, "simulate",
		"--season", seasonFile, "--race", "1", "--seed", "11",
		"--log-level", "error", "-o", resultFile))

	data, err := os.ReadFile(resultFile)
	require.NoError(t, err)
	env, err := publish.DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, 1, env.RaceID)
	assert.Equal(t, 53, env.Result.TotalLaps)
	assert.Len(t, env.Result.Standings, 8)
	assert.Len(t, env.Logs, 8)

	require.NoError(t, run(t, "standings",
		"--season", seasonFile, "--race", "1", "--result", resultFile,
		"--log-level", "error", "-o", standingsFile))

	data, err = os.ReadFile(standingsFile)
	require.NoError(t, err)
	var rows []model.PenalizedRow
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 8)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Position)
		if r.CompetitorID == 1 {
			assert.Equal(t, "+15s", r.Penalty)
		}
	}

	require.NoError(t, run(t, "incidents",
		"--season", seasonFile, "--race", "1", "--result", resultFile, "--seed", "3",
		"--log-level", "error", "-o", incidentsFile))

	data, err = os.ReadFile(incidentsFile)
	require.NoError(t, err)
	var incidents []model.Incident
	require.NoError(t, json.Unmarshal(data, &incidents))
	assert.GreaterOrEqual(t, len(incidents), 2)
	assert.LessOrEqual(t, len(incidents), 4)
}

func TestCommands_MissingRace(t *testing.T) {
	orig := log.Default()
	t.Cleanup(func() { log.ResetDefault(orig) })

	err := run(t, "simulate", "--race", "0", "--log-level", "error")
	assert.Error(t, err)
}

func TestCommands_ResultOfOtherRace(t *testing.T) {
	orig := log.Default()
	t.Cleanup(func() { log.ResetDefault(orig) })

	dir := t.TempDir()
	seasonFile := filepath.Join(dir, "season.yml")
	require.NoError(t, os.WriteFile(seasonFile, []byte(basedata.SampleSeasonYAML), 0o600))
	resultFile := filepath.Join(dir, "race2.json")
	outFile := filepath.Join(dir, "out.json")

	require.NoError(t, run(t, "simulate",
		"--season", seasonFile, "--race", "2", "--seed", "5",
		"--log-level", "error", "-o", resultFile))

	err := run(t, "standings",
		"--season", seasonFile, "--race", "1", "--result", resultFile,
		"--log-level", "error", "-o", outFile)
	assert.ErrorIs(t, err, util.ErrRaceMismatch)

	err = run(t, "incidents",
		"--season", seasonFile, "--race", "1", "--result", resultFile,
		"--log-level", "error", "-o", outFile)
	assert.ErrorIs(t, err, util.ErrRaceMismatch)

	_, statErr := os.Stat(outFile)
	assert.True(t, os.IsNotExist(statErr))
}
