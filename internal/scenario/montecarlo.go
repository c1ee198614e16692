package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/channel-roi/internal/models"
)

// Jitter holds the half-width of the uniform multiplicative perturbation
// per field, as a fraction (0.20 = ±20%).
type Jitter struct {
	Leads      float64 `json:"leads"`
	Conversion float64 `json:"conversion"`
	Margin     float64 `json:"margin"`
	CAC        float64 `json:"cac"`
}

func DefaultJitter() Jitter {
	return Jitter{Leads: 0.20, Conversion: 0.20, Margin: 0.10, CAC: 0.15}
}

// Apply returns a perturbed copy of p. Each field gets its own draw.
func (j Jitter) Apply(p models.ChannelParameters, rng *rand.Rand) models.ChannelParameters {
	p.LeadsPerMonth *= 1 + uniform(rng, j.Leads)
	p.ConversionRate *= 1 + uniform(rng, j.Conversion)
	p.UnitMargin *= 1 + uniform(rng, j.Margin)
	p.CAC *= 1 + uniform(rng, j.CAC)
	return p
}

func uniform(rng *rand.Rand, halfWidth float64) float64 {
	return (rng.Float64()*2 - 1) * halfWidth
}

// MonteCarlo runs n trials per channel and reduces each channel's
// annual-IRR percentages to summary stats. Channels run concurrently; each
// owns a PCG stream keyed by (seed, channel index), so a fixed seed gives
// the same stats whatever the scheduling. It returns the seed it used.
func (r *Runner) MonteCarlo(ctx context.Context, table models.ChannelTable, n int, seed uint64) (map[string]models.MonteCarloStats, uint64, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}

	var mu sync.Mutex
	out := make(map[string]models.MonteCarloStats, len(table))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, c := range table {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		g.Go(func() error {
			samples, err := r.trials(gctx, c.ID, c.Params, n, rng)
			if err != nil {
				return fmt.Errorf("monte carlo %s: %w", c.ID, err)
			}
			st := Stats(samples)
			mu.Lock()
			out[c.ID] = st
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, seed, err
	}
	return out, seed, nil
}

func (r *Runner) trials(ctx context.Context, id string, p models.ChannelParameters, n int, rng *rand.Rand) ([]float64, error) {
	samples := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		res := r.opts.Model.Project(id, r.opts.Jitter.Apply(p, rng))
		samples = append(samples, res.AnnualIRR*100)
	}
	r.m.MonteCarloTrials.Add(float64(n))
	return samples, nil
}

// Stats sorts a copy of samples and reads percentiles at the truncated
// index floor(n*p), without interpolation.
func Stats(samples []float64) models.MonteCarloStats {
	n := len(samples)
	if n == 0 {
		return models.MonteCarloStats{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return models.MonteCarloStats{
		Iterations: n,
		Min:        round2(sorted[0]),
		P5:         round2(percentile(sorted, 0.05)),
		P50:        round2(percentile(sorted, 0.50)),
		P95:        round2(percentile(sorted, 0.95)),
		Max:        round2(sorted[n-1]),
		Mean:       round2(sum / float64(n)),
	}
}

func percentile(sorted []float64, p float64) float64 {
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
