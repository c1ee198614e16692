package scenario

import (
	"context"
	"log/slog"
	"time"

	"github.com/AngelCh415/channel-roi/internal/config"
	"github.com/AngelCh415/channel-roi/internal/metrics"
	"github.com/AngelCh415/channel-roi/internal/models"
	"github.com/AngelCh415/channel-roi/internal/projection"
)

const DefaultIterations = 1000

type Options struct {
	Model   projection.Model
	Jitter  Jitter
	Workers int
}

func DefaultOptions() Options {
	return Options{Model: projection.DefaultModel(), Jitter: DefaultJitter(), Workers: 4}
}

// OptionsFromConfig maps the policy knobs in cfg; jitter is configured in
// percent.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Model: projection.Model{ReserveMonths: cfg.OpexReserveMonths},
		Jitter: Jitter{
			Leads:      cfg.JitterLeadsPct / 100,
			Conversion: cfg.JitterConvPct / 100,
			Margin:     cfg.JitterMarginPct / 100,
			CAC:        cfg.JitterCACPct / 100,
		},
		Workers: cfg.Workers,
	}
}

func DefaultsFromConfig(cfg config.Config) Defaults {
	return Defaults{
		TimeHorizon:   cfg.TimeHorizon,
		MaxHorizon:    cfg.MaxTimeHorizon,
		Iterations:    cfg.MCIterations,
		MaxIterations: cfg.MCMaxIterations,
		Seed:          cfg.MCSeed,
	}
}

type Runner struct {
	opts Options
	log  *slog.Logger
	m    *metrics.Metrics
}

func NewRunner(log *slog.Logger, m *metrics.Metrics, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{opts: opts, log: log, m: m}
}

// Request describes one scenario run. TimeHorizon 0 keeps each channel's
// own horizon; Seed 0 draws a random seed for the Monte Carlo pass.
type Request struct {
	Channels    models.ChannelTable
	TimeHorizon int
	MonteCarlo  bool
	Iterations  int
	Seed        uint64
}

// Run performs the deterministic pass and, when requested, the Monte Carlo
// pass. The returned report has no ID; callers assign one when storing it.
func (r *Runner) Run(ctx context.Context, req Request) (models.Report, error) {
	table := withHorizon(req.Channels, req.TimeHorizon)

	start := time.Now()
	results := r.Deterministic(table)
	r.m.ScenarioRuns.WithLabelValues("deterministic").Inc()
	r.m.ScenarioDuration.WithLabelValues("deterministic").Observe(time.Since(start).Seconds())

	rep := models.Report{
		CreatedAt:   time.Now().UTC(),
		TimeHorizon: req.TimeHorizon,
		Summary:     Summarize(results),
		Results:     results,
	}

	if req.MonteCarlo {
		n := req.Iterations
		if n <= 0 {
			n = DefaultIterations
		}
		start = time.Now()
		stats, seed, err := r.MonteCarlo(ctx, table, n, req.Seed)
		if err != nil {
			return models.Report{}, err
		}
		r.m.ScenarioRuns.WithLabelValues("monte_carlo").Inc()
		r.m.ScenarioDuration.WithLabelValues("monte_carlo").Observe(time.Since(start).Seconds())
		rep.MonteCarlo = stats
		rep.Seed = seed
	}

	r.log.Info("scenario run",
		slog.Int("channels", len(table)),
		slog.String("best_irr_channel", rep.Summary.BestIRRChannel),
		slog.String("fastest_payback", rep.Summary.FastestPayback.String()),
		slog.Bool("monte_carlo", req.MonteCarlo),
	)
	return rep, nil
}

// Deterministic projects every channel once, in table order.
func (r *Runner) Deterministic(table models.ChannelTable) []models.ProjectionResult {
	out := make([]models.ProjectionResult, 0, len(table))
	for _, c := range table {
		res := r.opts.Model.Project(c.ID, c.Params)
		r.m.Projections.Inc()
		if !res.IRRConverged {
			r.m.IRRNonConvergence.Inc()
			r.log.Debug("irr did not converge", slog.String("channel", c.ID))
		}
		out = append(out, res)
	}
	return out
}

// Summarize picks the best IRR, fastest payback and highest ROI. Ties go to
// the earlier channel; unreached paybacks never win.
func Summarize(results []models.ProjectionResult) models.ScenarioSummary {
	var s models.ScenarioSummary
	if len(results) == 0 {
		return s
	}
	s.BestIRRChannel, s.BestIRR = results[0].Channel, results[0].AnnualIRR
	s.HighestROIChannel, s.HighestROI = results[0].Channel, results[0].ROIMultiple
	for _, res := range results {
		if res.AnnualIRR > s.BestIRR {
			s.BestIRRChannel, s.BestIRR = res.Channel, res.AnnualIRR
		}
		if res.ROIMultiple > s.HighestROI {
			s.HighestROIChannel, s.HighestROI = res.Channel, res.ROIMultiple
		}
		if res.Payback.Before(s.FastestPayback) {
			s.FastestPayback, s.FastestPaybackBy = res.Payback, res.Channel
		}
	}
	return s
}

func withHorizon(table models.ChannelTable, horizon int) models.ChannelTable {
	out := make(models.ChannelTable, len(table))
	copy(out, table)
	if horizon > 0 {
		for i := range out {
			out[i].Params.TimeHorizon = horizon
		}
	}
	return out
}
