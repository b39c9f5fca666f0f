package incidents

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/cmd/util"
	"github.com/mpapenbr/racecontrol-service-go/pkg/config"
	"github.com/mpapenbr/racecontrol-service-go/pkg/service"
)

func NewIncidentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "suggests random incidents for a simulated race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return suggestIncidents(cmd.Context())
		},
	}
	util.AddRaceFlags(cmd)
	cmd.Flags().StringVar(&config.ResultFile,
		"result",
		"",
		"file containing the output of the simulate command (default: load from NATS)")
	cmd.Flags().Uint64Var(&config.Seed,
		"seed",
		0,
		"seed for reproducible suggestions (0: random)")
	return cmd
}

func suggestIncidents(ctx context.Context) error {
	ctx, shutdown, err := util.Setup(ctx)
	defer shutdown()
	if err != nil {
		return err
	}
	logger := log.GetFromContext(ctx).Named("incidents")

	data, err := util.LoadSeason(ctx)
	if err != nil {
		return err
	}
	env, err := util.LoadResult(ctx)
	if err != nil {
		return err
	}
	svc := service.NewRaceService(data,
		service.WithSeed(config.Seed),
		service.WithLogger(logger.Named("service")))
	defer svc.Close()
	ret, err := svc.SuggestIncidents(ctx, config.RaceID, env.Result)
	if err != nil {
		return err
	}
	return util.WriteOutput(ret)
}
