package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/cmd/util"
	"github.com/mpapenbr/racecontrol-service-go/pkg/config"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
	"github.com/mpapenbr/racecontrol-service-go/pkg/service"
	"github.com/mpapenbr/racecontrol-service-go/pkg/simulator"
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulates a race of the season",
		Long: `Simulates the race and prints the result as JSON.
The result may be stored with --output and used by the standings and incidents commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulateRace(cmd.Context())
		},
	}
	util.AddRaceFlags(cmd)
	cmd.Flags().Uint64Var(&config.Seed,
		"seed",
		0,
		"seed for reproducible simulations (0: random)")
	cmd.Flags().BoolVarP(&config.Follow,
		"follow",
		"f",
		false,
		"print the running order after each lap to stderr")
	cmd.Flags().BoolVar(&config.Publish,
		"publish",
		false,
		"publish lap updates and the result via NATS")
	return cmd
}

//nolint:funlen // by design
func simulateRace(ctx context.Context) error {
	ctx, shutdown, err := util.Setup(ctx)
	defer shutdown()
	if err != nil {
		return err
	}
	logger := log.GetFromContext(ctx).Named("simulate")

	data, err := util.LoadSeason(ctx)
	if err != nil {
		return err
	}
	var pub publish.Publisher = publish.NoopPublisher{}
	if config.Publish {
		if pub, err = util.ConnectPublisher(ctx); err != nil {
			return err
		}
	}
	svc := service.NewRaceService(data,
		service.WithPublisher(pub),
		service.WithSeed(config.Seed),
		service.WithLogger(logger.Named("service")))

	wg := sync.WaitGroup{}
	if config.Follow {
		names := competitorNames(data.Roster(config.RaceID))
		ch := svc.Laps().Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for upd := range ch {
				printLap(os.Stderr, upd, names)
			}
		}()
	}

	env, err := svc.SimulateRace(ctx, config.RaceID)
	svc.Close()
	wg.Wait()
	if err != nil {
		return err
	}
	logger.Debug("simulation finished", log.String("runId", env.RunID))
	return util.WriteOutput(env)
}

func competitorNames(roster []model.Competitor, err error) map[int]string {
	ret := map[int]string{}
	if err != nil {
		return ret
	}
	for _, c := range roster {
		ret[c.ID] = c.Name
	}
	return ret
}

const followTop = 3

func printLap(w io.Writer, upd model.LapUpdate, names map[int]string) {
	fmt.Fprintln(w, formatLap(upd, names))
}

// formatLap renders the top of the running order, e.g.
// "Lap 12/53: P1 Alice 18:01.250 | P2 Bob (pit) 18:03.120"
func formatLap(upd model.LapUpdate, names map[int]string) string {
	parts := make([]string, 0, followTop)
	for _, p := range upd.Positions {
		if p.Position > followTop {
			break
		}
		name, ok := names[p.CompetitorID]
		if !ok {
			name = fmt.Sprintf("#%d", p.CompetitorID)
		}
		if p.Pitted {
			name += " (pit)"
		}
		parts = append(parts, fmt.Sprintf("P%d %s %s", p.Position, name, simulator.FormatLapTime(p.TotalTime)))
	}
	return fmt.Sprintf("Lap %d/%d: %s", upd.Lap, upd.TotalLaps, strings.Join(parts, " | "))
}
