package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/config"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	natspub "github.com/mpapenbr/racecontrol-service-go/pkg/publish/nats"
	"github.com/mpapenbr/racecontrol-service-go/pkg/season"
	"github.com/mpapenbr/racecontrol-service-go/pkg/utils"
)

var (
	ErrNoRace       = errors.New("no race given (use --race)")
	ErrRaceMismatch = errors.New("result belongs to another race")
)

// AddRaceFlags adds the flags every race command needs.
func AddRaceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&config.SeasonFile,
		"season",
		"season.yml",
		"season file containing teams, drivers, circuits and races")
	cmd.Flags().IntVar(&config.RaceID,
		"race",
		0,
		"id of the race")
	cmd.Flags().StringVarP(&config.OutputFile,
		"output",
		"o",
		"",
		"write output to this file (default stdout)")
	cmd.Flags().StringVar(&config.Select,
		"select",
		"",
		"JSONPath expression applied to the output, e.g. '$.result.standings[*].competitorName'")
}

// Setup initializes logging and telemetry. The returned func has to be
// called when the command is done.
func Setup(ctx context.Context) (context.Context, func(), error) {
	logger, err := config.InitLogger()
	if err != nil {
		return ctx, func() {}, fmt.Errorf("invalid log filter: %w", err)
	}
	ctx = log.AddToContext(ctx, logger)
	if config.RaceID <= 0 {
		return ctx, func() {}, ErrNoRace
	}
	shutdown := func() { _ = logger.Sync() }
	if !config.EnableTelemetry {
		return ctx, shutdown, nil
	}
	logger.Info("Enabling telemetry")
	telemetry, err := config.SetupTelemetry(ctx)
	if err != nil {
		logger.Warn("Could not setup telemetry", log.ErrorField(err))
		return ctx, shutdown, nil
	}
	err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
	if err != nil {
		logger.Warn("Could not start runtime metrics", log.ErrorField(err))
	}
	return ctx, func() {
		telemetry.Shutdown()
		shutdown()
	}, nil
}

func LoadSeason(ctx context.Context) (*season.Season, error) {
	log.GetFromContext(ctx).Debug("loading season", log.String("file", config.SeasonFile))
	return season.LoadFile(config.SeasonFile)
}

// ConnectPublisher waits for the NATS server and connects to it.
func ConnectPublisher(ctx context.Context) (*natspub.Publisher, error) {
	logger := log.GetFromContext(ctx)
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
		timeout = 15 * time.Second
	}
	if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
		if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
			return nil, err
		}
	}
	return natspub.Connect(ctx, config.NatsURL,
		natspub.WithSubjectPrefix(config.SubjectPrefix),
		natspub.WithLogger(logger.Named("nats")))
}

// LoadResult reads a stored simulation from ResultFile or, if not set,
// the latest result of the race from NATS.
// The result must belong to RaceID.
func LoadResult(ctx context.Context) (*publish.Envelope, error) {
	env, err := loadResult(ctx)
	if err != nil {
		return nil, err
	}
	if env.RaceID != config.RaceID {
		return nil, fmt.Errorf("%w: result is for race %d, requested race %d",
			ErrRaceMismatch, env.RaceID, config.RaceID)
	}
	return env, nil
}

func loadResult(ctx context.Context) (*publish.Envelope, error) {
	if config.ResultFile != "" {
		data, err := os.ReadFile(config.ResultFile)
		if err != nil {
			return nil, err
		}
		env, err := publish.DecodeEnvelope(data)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", config.ResultFile, err)
		}
		return env, nil
	}
	pub, err := ConnectPublisher(ctx)
	if err != nil {
		return nil, err
	}
	defer pub.Close()
	return pub.LoadResult(ctx, config.RaceID)
}

// WriteOutput writes v as JSON to OutputFile (or stdout), applying Select if given.
func WriteOutput(v any) error {
	if config.OutputFile == "" {
		return WriteJSON(os.Stdout, v, config.Select)
	}
	f, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, v, config.Select); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteJSON(w io.Writer, v any, selectExpr string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	obj, err := oj.Parse(data)
	if err != nil {
		return err
	}
	if selectExpr != "" {
		path, err := jp.ParseString(selectExpr)
		if err != nil {
			return fmt.Errorf("invalid select expression: %w", err)
		}
		res := path.Get(obj)
		if len(res) == 1 {
			obj = res[0]
		} else {
			obj = res
		}
	}
	_, err = fmt.Fprintln(w, oj.JSON(obj, &ojg.Options{Indent: 2, Sort: true}))
	return err
}
