package standings

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/cmd/util"
	"github.com/mpapenbr/racecontrol-service-go/pkg/config"
	"github.com/mpapenbr/racecontrol-service-go/pkg/service"
)

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "applies the stewards' penalties to a simulated race",
		Long: `Reads a simulated race (from --result or the latest one stored in NATS),
applies the time penalties of the race's incidents and prints the new standings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStandings(cmd.Context())
		},
	}
	util.AddRaceFlags(cmd)
	cmd.Flags().StringVar(&config.ResultFile,
		"result",
		"",
		"file containing the output of the simulate command (default: load from NATS)")
	return cmd
}

func showStandings(ctx context.Context) error {
	ctx, shutdown, err := util.Setup(ctx)
	defer shutdown()
	if err != nil {
		return err
	}
	logger := log.GetFromContext(ctx).Named("standings")

	data, err := util.LoadSeason(ctx)
	if err != nil {
		return err
	}
	env, err := util.LoadResult(ctx)
	if err != nil {
		return err
	}
	logger.Debug("using result", log.String("runId", env.RunID), log.Int("race", env.RaceID))

	svc := service.NewRaceService(data, service.WithLogger(logger.Named("service")))
	defer svc.Close()
	rows, err := svc.Standings(ctx, config.RaceID, env.Result)
	if err != nil {
		return err
	}
	return util.WriteOutput(rows)
}
