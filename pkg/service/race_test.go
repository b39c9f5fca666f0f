//nolint:funlen // ok for tests
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	"github.com/mpapenbr/racecontrol-service-go/pkg/season"
	"github.com/mpapenbr/racecontrol-service-go/testsupport/basedata"
)

type recordingPublisher struct {
	mu        sync.Mutex
	results   []*publish.Envelope
	laps      []model.LapUpdate
	resultErr error
	closed    bool
}

func (p *recordingPublisher) PublishResult(_ context.Context, env *publish.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resultErr != nil {
		return p.resultErr
	}
	p.results = append(p.results, env)
	return nil
}

func (p *recordingPublisher) PublishLap(_ context.Context, _ int, upd model.LapUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.laps = append(p.laps, upd)
	return nil
}

func (p *recordingPublisher) Close() {
	p.closed = true
}

func newTestService(t *testing.T, opts ...Option) (*RaceService, *recordingPublisher) {
	t.Helper()
	s, err := season.Load(strings.NewReader(basedata.SampleSeasonYAML))
	require.NoError(t, err)
	pub := &recordingPublisher{}
	all := append([]Option{
		WithPublisher(pub),
		WithSeed(7),
		WithClock(basedata.TestTime),
	}, opts...)
	return NewRaceService(s, all...), pub
}

func TestRaceService_SimulateRace(t *testing.T) {
	svc, pub := newTestService(t)
	defer svc.Close()

	env, err := svc.SimulateRace(context.Background(), 1)
	require.NoError(t, err)

	_, err = uuid.Parse(env.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.RaceID)
	assert.Equal(t, basedata.TestTime(), env.CreatedAt)
	assert.Equal(t, 53, env.Result.TotalLaps)
	assert.Len(t, env.Result.Standings, 8)

	require.Len(t, env.Logs, 8)
	first := env.Result.Standings[0]
	assert.Equal(t, model.RaceLog{
		RaceID:       1,
		CompetitorID: first.CompetitorID,
		TeamID:       first.TeamID,
		Lap:          53,
		Timestamp:    basedata.TestTime(),
		Description: fmt.Sprintf("Final position: P1. Total time: %s. Fastest lap: %s (Lap %d)",
			first.TotalTime, first.FastestLap, first.FastestLapNumber),
		Severity: model.SeverityInfo,
	}, env.Logs[0])

	require.Len(t, pub.results, 1)
	assert.Same(t, env, pub.results[0])
	assert.Len(t, pub.laps, 53)
}

func TestRaceService_SimulateRaceReproducible(t *testing.T) {
	svc1, _ := newTestService(t)
	defer svc1.Close()
	svc2, _ := newTestService(t)
	defer svc2.Close()

	env1, err := svc1.SimulateRace(context.Background(), 2)
	require.NoError(t, err)
	env2, err := svc2.SimulateRace(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, env1.Result, env2.Result)
	assert.NotEqual(t, env1.RunID, env2.RunID)
	// circuit without laps
	assert.Equal(t, 50, env1.Result.TotalLaps)
	assert.Len(t, env1.Result.Standings, 4)
}

func TestRaceService_SimulateRaceUnknownRace(t *testing.T) {
	svc, pub := newTestService(t)
	defer svc.Close()

	_, err := svc.SimulateRace(context.Background(), 42)
	assert.True(t, errors.Is(err, season.ErrRaceNotFound))
	assert.Empty(t, pub.results)
	assert.Empty(t, pub.laps)
}

func TestRaceService_SimulateRacePublishError(t *testing.T) {
	svc, pub := newTestService(t)
	defer svc.Close()
	pub.resultErr = errors.New("broker down")

	env, err := svc.SimulateRace(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "broker down")
	require.NotNil(t, env)
	assert.Len(t, env.Result.Standings, 8)
}

func TestRaceService_Laps(t *testing.T) {
	svc, pub := newTestService(t)

	ch := svc.Laps().Subscribe()
	var got []model.LapUpdate
	done := make(chan struct{})
	go func() {
		defer close(done)
		for upd := range ch {
			got = append(got, upd)
		}
	}()

	env, err := svc.SimulateRace(context.Background(), 1)
	require.NoError(t, err)
	svc.Close()
	<-done

	require.Len(t, got, 53)
	assert.Equal(t, 1, got[0].Lap)
	last := got[len(got)-1]
	assert.Equal(t, 53, last.Lap)
	assert.Equal(t, env.Result.Standings[0].CompetitorID, last.Positions[0].CompetitorID)
	assert.True(t, pub.closed)
}

func TestRaceService_Standings(t *testing.T) {
	svc, _ := newTestService(t)
	defer svc.Close()

	env, err := svc.SimulateRace(context.Background(), 1)
	require.NoError(t, err)

	rows, err := svc.Standings(context.Background(), 1, env.Result)
	require.NoError(t, err)
	require.Len(t, rows, 8)

	byID := map[int]model.PenalizedRow{}
	for i, r := range rows {
		assert.Equal(t, i+1, r.Position)
		byID[r.CompetitorID] = r
	}
	assert.Equal(t, "+15s", byID[1].Penalty)
	assert.InDelta(t, 15.0, byID[1].PenaltySeconds, 1e-9)
	assert.Equal(t, 2, byID[1].Incidents)
	assert.Equal(t, "0s", byID[3].Penalty)
	assert.Equal(t, 1, byID[3].Incidents)
	assert.Equal(t, "0s", rows[0].Gap)

	_, err = svc.Standings(context.Background(), 1, nil)
	assert.True(t, errors.Is(err, ErrNoResult))
	_, err = svc.Standings(context.Background(), 42, env.Result)
	assert.True(t, errors.Is(err, season.ErrRaceNotFound))
}

func TestRaceService_SuggestIncidents(t *testing.T) {
	svc, _ := newTestService(t)
	defer svc.Close()

	env, err := svc.SimulateRace(context.Background(), 1)
	require.NoError(t, err)

	incidents, err := svc.SuggestIncidents(context.Background(), 1, env.Result)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(incidents), 2)
	assert.LessOrEqual(t, len(incidents), 4)
	for i, inc := range incidents {
		assert.Equal(t, 1, inc.RaceID)
		assert.GreaterOrEqual(t, inc.Lap, 1)
		assert.LessOrEqual(t, inc.Lap, 53)
		assert.Nil(t, inc.Penalty)
		if i > 0 {
			assert.LessOrEqual(t, incidents[i-1].Lap, inc.Lap)
		}
	}

	again, err := svc.SuggestIncidents(context.Background(), 1, env.Result)
	require.NoError(t, err)
	assert.Equal(t, incidents, again)

	_, err = svc.SuggestIncidents(context.Background(), 1, nil)
	assert.True(t, errors.Is(err, ErrNoResult))
}
