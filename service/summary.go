package service

import (
	dmn "github.com/beka-birhanu/vinom-chase/domain"
)

// Summarize aggregates results overall and per map seed.
func Summarize(results []dmn.EpisodeResult) dmn.Summary {
	summary := dmn.Summary{PerSeed: make(map[int64]dmn.Totals)}

	overall := totalsBuilder{}
	perSeed := make(map[int64]*totalsBuilder)
	for _, r := range results {
		overall.add(r)
		b, ok := perSeed[r.MapSeed]
		if !ok {
			b = &totalsBuilder{}
			perSeed[r.MapSeed] = b
		}
		b.add(r)
	}

	summary.Overall = overall.totals()
	for seed, b := range perSeed {
		summary.PerSeed[seed] = b.totals()
	}
	return summary
}

type totalsBuilder struct {
	episodes, caught, timeouts int
	survivalSum, distanceSum   float64
}

func (b *totalsBuilder) add(r dmn.EpisodeResult) {
	b.episodes++
	switch r.Outcome {
	case dmn.OutcomeCaught:
		b.caught++
	case dmn.OutcomeTimeout:
		b.timeouts++
	}
	b.survivalSum += r.SurvivalTime.Seconds()
	b.distanceSum += r.AvgDistance
}

func (b *totalsBuilder) totals() dmn.Totals {
	t := dmn.Totals{Episodes: b.episodes, Caught: b.caught, Timeouts: b.timeouts}
	if b.episodes == 0 {
		return t
	}
	n := float64(b.episodes)
	t.TimeoutRate = float64(b.timeouts) / n
	t.AvgSurvival = b.survivalSum / n
	t.AvgDistance = b.distanceSum / n
	return t
}
