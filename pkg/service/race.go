package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/processing/incident"
	"github.com/mpapenbr/racecontrol-service-go/pkg/processing/penalty"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	"github.com/mpapenbr/racecontrol-service-go/pkg/season"
	"github.com/mpapenbr/racecontrol-service-go/pkg/simulator"
	"github.com/mpapenbr/racecontrol-service-go/pkg/utils/broadcast"
)

var ErrNoResult = errors.New("no result given")

type (
	RaceService struct {
		season    *season.Season
		publisher publish.Publisher
		penalties *penalty.Processor
		params    simulator.Params
		seed      uint64
		now       func() time.Time

		lapSource chan model.LapUpdate
		laps      broadcast.BroadcastServer[model.LapUpdate]

		tracer   trace.Tracer
		runs     metric.Int64Counter
		duration metric.Float64Histogram
		l        *log.Logger
	}
	Option func(*RaceService)

	// LapFeed hands out lap updates to subscribers.
	LapFeed interface {
		Subscribe() <-chan model.LapUpdate
		CancelSubscription(<-chan model.LapUpdate)
	}
)

func WithPublisher(p publish.Publisher) Option {
	return func(s *RaceService) {
		s.publisher = p
	}
}

// WithSeed makes simulations and incident suggestions reproducible.
// 0 means random.
func WithSeed(seed uint64) Option {
	return func(s *RaceService) {
		s.seed = seed
	}
}

// WithSimulatorParams replaces the simulator parameters. The team performance
// overrides of the season are still applied on top.
func WithSimulatorParams(p simulator.Params) Option {
	return func(s *RaceService) {
		s.params = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *RaceService) {
		s.now = now
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *RaceService) {
		s.tracer = tracer
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *RaceService) {
		s.l = l
	}
}

//nolint:funlen // setup
func NewRaceService(data *season.Season, opts ...Option) *RaceService {
	ret := &RaceService{
		season:    data,
		publisher: publish.NoopPublisher{},
		penalties: penalty.NewProcessor(),
		params:    simulator.DefaultParams(),
		now:       time.Now,
		l:         log.Default().Named("service.race"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("rcs")
	}
	ret.params.TeamPerformance = mergePerformance(
		ret.params.TeamPerformance, data.TeamPerformance())

	meter := otel.Meter("rcs.service")
	var err error
	if ret.runs, err = meter.Int64Counter("rcs.simulation.runs",
		metric.WithDescription("number of simulated races")); err != nil {
		ret.l.Warn("could not create counter", log.ErrorField(err))
	}
	if ret.duration, err = meter.Float64Histogram("rcs.simulation.duration",
		metric.WithDescription("duration of a race simulation"),
		metric.WithUnit("s")); err != nil {
		ret.l.Warn("could not create histogram", log.ErrorField(err))
	}

	ret.lapSource = make(chan model.LapUpdate)
	ret.laps = broadcast.NewBroadcastServer("laps", "race",
		ret.lapSource,
		broadcast.WithSendTimeout[model.LapUpdate](time.Second),
		broadcast.WithLogger[model.LapUpdate](ret.l.Named("laps")))
	return ret
}

func mergePerformance(base, overrides map[string]float64) map[string]float64 {
	ret := make(map[string]float64, len(base)+len(overrides))
	maps.Copy(ret, base)
	maps.Copy(ret, overrides)
	return ret
}

// Laps returns the channel receiving the lap updates of all following
// simulations. Subscribe before calling SimulateRace.
func (s *RaceService) Laps() LapFeed {
	return s.laps
}

// Close stops the lap distribution and the publisher.
// Must not be called while a simulation is running.
func (s *RaceService) Close() {
	close(s.lapSource)
	s.publisher.Close()
}

// SimulateRace simulates the race, creates the race log and publishes the result.
//
//nolint:funlen // by design
func (s *RaceService) SimulateRace(ctx context.Context, raceID int) (*publish.Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "SimulateRace",
		trace.WithAttributes(attribute.Int("race.id", raceID)))
	defer span.End()

	roster, err := s.season.Roster(raceID)
	if err != nil {
		return nil, s.spanError(span, err)
	}
	circuit, err := s.season.Circuit(raceID)
	if err != nil {
		return nil, s.spanError(span, err)
	}

	opts := []simulator.Option{
		simulator.WithParams(s.params),
		simulator.WithLogger(s.l.Named("simulator")),
		simulator.WithLapObserver(func(upd model.LapUpdate) {
			select {
			case s.lapSource <- upd:
			case <-ctx.Done():
			}
			if err := s.publisher.PublishLap(ctx, raceID, upd); err != nil {
				s.l.Warn("could not publish lap", log.Int("lap", upd.Lap), log.ErrorField(err))
			}
		}),
	}
	if s.seed != 0 {
		opts = append(opts, simulator.WithSeed(s.seed))
	}

	start := time.Now()
	result, err := simulator.New(opts...).Simulate(roster, circuit)
	if err != nil {
		return nil, s.spanError(span, err)
	}
	attrs := metric.WithAttributes(attribute.Int("race.id", raceID))
	s.runs.Add(ctx, 1, attrs)
	s.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	env := &publish.Envelope{
		RunID:     uuid.NewString(),
		RaceID:    raceID,
		CreatedAt: s.now(),
		Result:    result,
	}
	env.Logs = s.raceLogs(raceID, result, env.CreatedAt)
	span.SetAttributes(attribute.String("run.id", env.RunID))

	s.l.Info("race simulated",
		log.Int("race", raceID),
		log.String("runId", env.RunID),
		log.Int("competitors", len(roster)),
		log.Int("laps", result.TotalLaps),
		log.Duration("duration", time.Since(start)))

	if err := s.publisher.PublishResult(ctx, env); err != nil {
		return env, s.spanError(span, fmt.Errorf("publish result: %w", err))
	}
	return env, nil
}

func (s *RaceService) raceLogs(
	raceID int,
	result *model.RaceSimulationResult,
	ts time.Time,
) []model.RaceLog {
	ret := make([]model.RaceLog, len(result.Standings))
	for i, row := range result.Standings {
		ret[i] = model.RaceLog{
			RaceID:       raceID,
			CompetitorID: row.CompetitorID,
			TeamID:       row.TeamID,
			Lap:          result.TotalLaps,
			Timestamp:    ts,
			Description: fmt.Sprintf(
				"Final position: P%d. Total time: %s. Fastest lap: %s (Lap %d)",
				row.Position, row.TotalTime, row.FastestLap, row.FastestLapNumber),
			Severity: model.SeverityInfo,
		}
	}
	return ret
}

// Standings applies the stewards' decisions of the race to the result.
//
//nolint:whitespace // editor/linter issue
func (s *RaceService) Standings(
	ctx context.Context,
	raceID int,
	result *model.RaceSimulationResult,
) ([]model.PenalizedRow, error) {
	_, span := s.tracer.Start(ctx, "Standings",
		trace.WithAttributes(attribute.Int("race.id", raceID)))
	defer span.End()

	if result == nil {
		return nil, s.spanError(span, ErrNoResult)
	}
	if _, err := s.season.Race(raceID); err != nil {
		return nil, s.spanError(span, err)
	}
	incidents := s.season.RaceIncidents(raceID)
	ret, err := s.penalties.Apply(result, incidents)
	if err != nil {
		return nil, s.spanError(span, err)
	}
	s.l.Debug("standings computed",
		log.Int("race", raceID),
		log.Int("incidents", len(incidents)))
	return ret, nil
}

// SuggestIncidents creates random incidents for a simulated race.
//
//nolint:whitespace // editor/linter issue
func (s *RaceService) SuggestIncidents(
	ctx context.Context,
	raceID int,
	result *model.RaceSimulationResult,
) ([]model.Incident, error) {
	_, span := s.tracer.Start(ctx, "SuggestIncidents",
		trace.WithAttributes(attribute.Int("race.id", raceID)))
	defer span.End()

	if result == nil {
		return nil, s.spanError(span, ErrNoResult)
	}
	if _, err := s.season.Race(raceID); err != nil {
		return nil, s.spanError(span, err)
	}
	var opts []incident.Option
	if s.seed != 0 {
		opts = append(opts, incident.WithSeed(s.seed))
	}
	ret := incident.NewGenerator(opts...).Generate(raceID, result.Standings, result.TotalLaps)
	s.l.Debug("incidents suggested", log.Int("race", raceID), log.Int("count", len(ret)))
	return ret, nil
}

func (s *RaceService) spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
