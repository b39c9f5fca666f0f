package publish

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

var ErrResultNotFound = errors.New("no stored result for race")

type (
	// Envelope is the message sent for a simulated race.
	Envelope struct {
		RunID     string                      `json:"runId"`
		RaceID    int                         `json:"raceId"`
		CreatedAt time.Time                   `json:"createdAt"`
		Result    *model.RaceSimulationResult `json:"result"`
		Logs      []model.RaceLog             `json:"logs,omitempty"`
	}

	Publisher interface {
		PublishResult(ctx context.Context, env *Envelope) error
		PublishLap(ctx context.Context, raceID int, upd model.LapUpdate) error
		Close()
	}

	ResultLoader interface {
		LoadResult(ctx context.Context, raceID int) (*Envelope, error)
	}
)

// NoopPublisher discards everything.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishResult(context.Context, *Envelope) error         { return nil }
func (NoopPublisher) PublishLap(context.Context, int, model.LapUpdate) error { return nil }
func (NoopPublisher) Close()                                                 {}

func DecodeEnvelope(data []byte) (*Envelope, error) {
	var ret Envelope
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	if ret.Result == nil {
		return nil, ErrResultNotFound
	}
	return &ret, nil
}
