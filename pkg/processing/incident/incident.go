package incident

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
)

type Type string

const (
	TypeCollision        Type = "Collision"
	TypeTrackLimits      Type = "Track Limits"
	TypeUnsafeRelease    Type = "Unsafe Release"
	TypeCausingCollision Type = "Causing Collision"
	TypeBlueFlags        Type = "Blue Flags"
	TypeDangerousDriving Type = "Dangerous Driving"
)

//nolint:gochecknoglobals // lookup tables
var (
	suggestionTexts = []string{
		"Collision with another car",
		"Exceeded track limits",
		"Unsafe release from pit box",
		"Causing a collision",
		"Ignoring blue flags",
	}
	locations = []string{"Turn 1", "Turn 4", "Turn 7", "Turn 10", "the chicane", "the hairpin"}
)

type (
	Generator struct {
		rnd          *rand.Rand
		minIncidents int
		maxIncidents int
		turns        int
	}
	Option func(g *Generator)
)

func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = r
	}
}

func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithCount sets the range of generated incidents (both inclusive).
func WithCount(minIncidents, maxIncidents int) Option {
	return func(g *Generator) {
		g.minIncidents = minIncidents
		g.maxIncidents = maxIncidents
	}
}

//nolint:mnd // defaults
func NewGenerator(opts ...Option) *Generator {
	ret := &Generator{minIncidents: 2, maxIncidents: 4, turns: 10}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		//nolint:gosec // no crypto needed
		ret.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ret.minIncidents = max(ret.minIncidents, 0)
	if ret.maxIncidents < ret.minIncidents {
		ret.maxIncidents = ret.minIncidents
	}
	return ret
}

// Generate suggests random incidents for the finished race, ordered by lap.
// No penalty is attached, this is left to the stewards.
//
//nolint:whitespace // editor/linter issue
func (g *Generator) Generate(
	raceID int,
	standings []model.RaceResultRow,
	totalLaps int,
) []model.Incident {
	if len(standings) == 0 || totalLaps <= 0 {
		return []model.Incident{}
	}
	num := g.minIncidents + g.rnd.IntN(g.maxIncidents-g.minIncidents+1)
	ret := make([]model.Incident, 0, num)
	for range num {
		row := standings[g.rnd.IntN(len(standings))]
		lap := g.rnd.IntN(totalLaps) + 1
		text := suggestionTexts[g.rnd.IntN(len(suggestionTexts))]
		ret = append(ret, model.Incident{
			RaceID:         raceID,
			CompetitorID:   row.CompetitorID,
			CompetitorName: row.CompetitorName,
			Lap:            lap,
			Description:    fmt.Sprintf("%s at Turn %d", text, g.rnd.IntN(g.turns)+1),
		})
	}
	slices.SortStableFunc(ret, func(a, b model.Incident) int { return a.Lap - b.Lap })
	return ret
}

// Describe creates a steward style description for an incident.
func (g *Generator) Describe(driverName, teamName string, lap int, incidentType Type) string {
	where := locations[g.rnd.IntN(len(locations))]
	who := fmt.Sprintf("Car #%s (%s)", driverName, teamName)
	switch incidentType {
	case TypeCollision:
		return fmt.Sprintf("%s made contact with another car at %s, "+
			"causing both drivers to lose positions. "+
			"The incident occurred during an overtaking attempt.", who, where)
	case TypeTrackLimits:
		return fmt.Sprintf("%s exceeded track limits at %s multiple times, "+
			"gaining an unfair advantage.", who, where)
	case TypeUnsafeRelease:
		return fmt.Sprintf("%s was released unsafely from the pit box, "+
			"forcing another car to take evasive action.", who)
	case TypeCausingCollision:
		return fmt.Sprintf("%s caused a collision at %s by moving under braking, "+
			"resulting in contact with another competitor.", who, where)
	case TypeBlueFlags:
		return fmt.Sprintf("%s ignored blue flags for multiple laps, "+
			"impeding the leaders and affecting the race outcome.", who)
	case TypeDangerousDriving:
		return fmt.Sprintf("%s exhibited dangerous driving behavior at %s, "+
			"forcing other drivers off the racing line.", who, where)
	default:
		return fmt.Sprintf("%s was involved in an incident at %s on lap %d.", who, where, lap)
	}
}
