package penalty

import (
	"regexp"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/simulator"
)

type (
	Processor struct {
		l *log.Logger
	}
	Option func(p *Processor)
)

func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.l = l
	}
}

func NewProcessor(opts ...Option) *Processor {
	ret := &Processor{l: log.Default().Named("penalty")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// Seconds extracts the seconds of a time penalty value like "5s" or "10 seconds".
func Seconds(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(nonNumeric.ReplaceAllString(value, ""))
}

// Format returns "0s" for no penalty and "+Ns" otherwise.
func Format(secs decimal.Decimal) string {
	if secs.IsZero() {
		return simulator.NoPenalty
	}
	return "+" + secs.String() + "s"
}

type adjusted struct {
	row      model.PenalizedRow
	adjusted decimal.Decimal
}

// Apply adds the time penalties of the incidents to the race result and
// re-orders the standings by race time plus penalties.
// Only TimePenalty counts towards the time, every incident of a competitor
// is counted in PenalizedRow.Incidents. Incidents of competitors not part of
// the result are ignored. Gaps are recomputed against the new leader.
//
//nolint:whitespace // editor/linter issue
func (p *Processor) Apply(
	result *model.RaceSimulationResult,
	incidents []model.Incident,
) ([]model.PenalizedRow, error) {
	byCompetitor := lo.GroupBy(incidents, func(inc model.Incident) int {
		return inc.CompetitorID
	})

	work := make([]adjusted, 0, len(result.Standings))
	for _, row := range result.Standings {
		raceTime, err := simulator.ParseLapTime(row.TotalTime)
		if err != nil {
			return nil, err
		}
		own := byCompetitor[row.CompetitorID]
		secs := p.timePenalty(row.CompetitorID, own)
		pr := model.PenalizedRow{
			RaceResultRow:  row,
			PenaltySeconds: secs.InexactFloat64(),
			Incidents:      len(own),
		}
		pr.Penalty = Format(secs)
		work = append(work, adjusted{
			row:      pr,
			adjusted: decimal.NewFromFloat(raceTime).Round(3).Add(secs),
		})
	}

	slices.SortStableFunc(work, func(a, b adjusted) int {
		return a.adjusted.Cmp(b.adjusted)
	})

	ret := make([]model.PenalizedRow, len(work))
	for i := range work {
		ret[i] = work[i].row
		ret[i].Position = i + 1
		ret[i].Gap = simulator.FormatGap(work[i].adjusted.Sub(work[0].adjusted).InexactFloat64())
	}
	return ret, nil
}

func (p *Processor) timePenalty(competitorID int, incidents []model.Incident) decimal.Decimal {
	sum := decimal.Zero
	for _, inc := range incidents {
		if inc.Penalty == nil || inc.Penalty.Type != model.PenaltyTypeTime {
			continue
		}
		secs, err := Seconds(inc.Penalty.Value)
		if err != nil {
			p.l.Warn("ignoring unparsable time penalty",
				log.Int("competitor", competitorID),
				log.String("value", inc.Penalty.Value),
				log.ErrorField(err))
			continue
		}
		sum = sum.Add(secs)
	}
	return sum
}
