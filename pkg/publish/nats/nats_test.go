package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	"github.com/mpapenbr/racecontrol-service-go/testsupport/basedata"
)

func runJetStream(t *testing.T) *server.Server {
	t.Helper()
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	srv := natsserver.RunServer(&opts)
	t.Cleanup(srv.Shutdown)
	return srv
}

func sampleEnvelope(raceID int) *publish.Envelope {
	return &publish.Envelope{
		RunID:     "c1a5b8d2-0000-4000-8000-000000000001",
		RaceID:    raceID,
		CreatedAt: basedata.TestTime(),
		Result: &model.RaceSimulationResult{
			TotalLaps: 2,
			Standings: []model.RaceResultRow{
				{Position: 1, CompetitorID: 2, TotalTime: "3:01.500", Gap: "0s", Penalty: "0s"},
				{Position: 2, CompetitorID: 1, TotalTime: "3:02.000", Gap: "+0.500s", Penalty: "0s"},
			},
			FastestLap: model.FastestLap{CompetitorID: 2, Time: "1:30.500", Lap: 2},
		},
		Logs: []model.RaceLog{
			{RaceID: raceID, CompetitorID: 2, Lap: 2, Severity: model.SeverityInfo},
		},
	}
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "racecontrol.race.12.result", ResultSubject(DefaultSubjectPrefix, 12))
	assert.Equal(t, "league.race.3.laps", LapSubject("league", 3))
	assert.Equal(t, "12", resultKey(12))
}

func TestPublisher_ResultRoundTrip(t *testing.T) {
	srv := runJetStream(t)
	ctx := context.Background()

	pub, err := Connect(ctx, srv.ClientURL(), WithBucket("test_results"))
	require.NoError(t, err)
	defer pub.Close()

	sub, err := pub.conn.SubscribeSync(ResultSubject(DefaultSubjectPrefix, 1))
	require.NoError(t, err)

	env := sampleEnvelope(1)
	require.NoError(t, pub.PublishResult(ctx, env))

	msg, err := sub.NextMsg(time.Second)
	require.NoError(t, err)
	var sent publish.Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &sent))
	assert.Equal(t, env.RunID, sent.RunID)

	got, err := pub.LoadResult(ctx, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(env, got); diff != "" {
		t.Errorf("LoadResult() mismatch (-want +got):\n%s", diff)
	}

	// latest result wins
	newer := sampleEnvelope(1)
	newer.RunID = "c1a5b8d2-0000-4000-8000-000000000002"
	require.NoError(t, pub.PublishResult(ctx, newer))
	got, err = pub.LoadResult(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, got.RunID)
}

func TestPublisher_LoadResultMissing(t *testing.T) {
	srv := runJetStream(t)
	ctx := context.Background()

	pub, err := Connect(ctx, srv.ClientURL())
	require.NoError(t, err)
	defer pub.Close()

	_, err = pub.LoadResult(ctx, 99)
	assert.True(t, errors.Is(err, publish.ErrResultNotFound))
}

func TestPublisher_PublishLap(t *testing.T) {
	srv := runJetStream(t)
	ctx := context.Background()

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	pub, err := NewPublisher(ctx, nc, WithSubjectPrefix("league"))
	require.NoError(t, err)

	sub, err := nc.SubscribeSync("league.race.*.laps")
	require.NoError(t, err)

	upd := model.LapUpdate{
		Lap:       3,
		TotalLaps: 10,
		Positions: []model.LapPosition{
			{Position: 1, CompetitorID: 4, LapTime: 90.25, TotalTime: 271.5, Pitted: true, PitStops: 1},
		},
	}
	require.NoError(t, pub.PublishLap(ctx, 7, upd))

	msg, err := sub.NextMsg(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "league.race.7.laps", msg.Subject)
	var got model.LapUpdate
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, upd, got)

	// connection is owned by the caller
	pub.Close()
	assert.False(t, nc.IsClosed())
}
