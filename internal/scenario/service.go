package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AngelCh415/channel-roi/internal/ingest"
	"github.com/AngelCh415/channel-roi/internal/metrics"
	"github.com/AngelCh415/channel-roi/internal/models"
	"github.com/AngelCh415/channel-roi/internal/store"
)

// ErrInvalidInput marks caller mistakes (HTTP 400).
var ErrInvalidInput = errors.New("invalid input")

// Defaults fill in what a RunInput leaves at zero. MaxHorizon and
// MaxIterations cap what a caller may ask for; 0 disables a cap.
type Defaults struct {
	TimeHorizon   int
	MaxHorizon    int
	Iterations    int
	MaxIterations int
	Seed          uint64
}

// RunInput is what the HTTP body or query string asks for. Channels holds
// partial parameter records merged over the loaded table.
type RunInput struct {
	TimeHorizon int                        `json:"time_horizon"`
	View        string                     `json:"view"`
	MonteCarlo  bool                       `json:"monte_carlo"`
	Iterations  int                        `json:"iterations"`
	Seed        uint64                     `json:"seed"`
	Channels    map[string]json.RawMessage `json:"channels"`
}

type Service struct {
	r     *Runner
	st    store.RunStore
	table models.ChannelTable
	d     Defaults
	m     *metrics.Metrics
}

func NewService(r *Runner, st store.RunStore, table models.ChannelTable, d Defaults, m *metrics.Metrics) *Service {
	m.ChannelTableSize.Set(float64(len(table)))
	return &Service{r: r, st: st, table: table, d: d, m: m}
}

func (s *Service) Channels() models.ChannelTable { return s.table }

// Run computes a report for in, stores it and returns it with its new ID.
func (s *Service) Run(ctx context.Context, in RunInput) (models.Report, error) {
	req, err := s.request(in)
	if err != nil {
		return models.Report{}, err
	}
	rep, err := s.r.Run(ctx, req)
	if err != nil {
		return models.Report{}, err
	}
	rep.ID = uuid.NewString()
	if err := s.st.Save(ctx, rep); err != nil {
		return models.Report{}, fmt.Errorf("store run: %w", err)
	}
	s.m.StoredRuns.Inc()
	return rep, nil
}

func (s *Service) request(in RunInput) (Request, error) {
	horizon := in.TimeHorizon
	if horizon == 0 {
		horizon = s.d.TimeHorizon
	}
	if horizon < 0 {
		return Request{}, fmt.Errorf("%w: time_horizon must be >= 1", ErrInvalidInput)
	}
	if s.d.MaxHorizon > 0 && horizon > s.d.MaxHorizon {
		return Request{}, fmt.Errorf("%w: time_horizon must be <= %d", ErrInvalidInput, s.d.MaxHorizon)
	}
	if in.Iterations < 0 {
		return Request{}, fmt.Errorf("%w: iterations must be >= 1", ErrInvalidInput)
	}
	n := in.Iterations
	if n == 0 {
		n = s.d.Iterations
	}
	if s.d.MaxIterations > 0 && n > s.d.MaxIterations {
		n = s.d.MaxIterations
	}
	seed := in.Seed
	if seed == 0 {
		seed = s.d.Seed
	}
	table, err := ingest.ApplyOverrides(s.table, in.Channels)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(table) == 0 {
		return Request{}, fmt.Errorf("%w: no channels", ErrInvalidInput)
	}
	if horizon == 0 && s.d.MaxHorizon > 0 {
		for _, c := range table {
			if c.Params.TimeHorizon > s.d.MaxHorizon {
				return Request{}, fmt.Errorf("%w: channel %s: time_horizon must be <= %d", ErrInvalidInput, c.ID, s.d.MaxHorizon)
			}
		}
	}
	return Request{Channels: table, TimeHorizon: horizon, MonteCarlo: in.MonteCarlo, Iterations: n, Seed: seed}, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Report, error) {
	return s.st.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, v url.Values) ([]store.RunInfo, error) {
	return s.st.List(ctx, clampLimit(atoiDef(v.Get("limit"), 20)))
}

// ParseQuery reads a RunInput from query parameters.
func ParseQuery(v url.Values) (RunInput, error) {
	in := RunInput{View: v.Get("view")}
	var err error
	if in.TimeHorizon, err = atoiParam(v, "time_horizon"); err != nil {
		return RunInput{}, err
	}
	if in.Iterations, err = atoiParam(v, "iterations"); err != nil {
		return RunInput{}, err
	}
	if raw := v.Get("seed"); raw != "" {
		if in.Seed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return RunInput{}, fmt.Errorf("%w: bad seed %q", ErrInvalidInput, raw)
		}
	}
	switch strings.ToLower(v.Get("monte_carlo")) {
	case "", "0", "false", "no":
	case "1", "true", "yes":
		in.MonteCarlo = true
	default:
		return RunInput{}, fmt.Errorf("%w: bad monte_carlo %q", ErrInvalidInput, v.Get("monte_carlo"))
	}
	return in, nil
}

func atoiParam(v url.Values, key string) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", ErrInvalidInput, key, raw)
	}
	return n, nil
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimit(limit int) int {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
