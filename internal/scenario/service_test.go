package scenario

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/channel-roi/internal/ingest"
	"github.com/AngelCh415/channel-roi/internal/store"
)

func newTestService(t *testing.T, d Defaults) *Service {
	t.Helper()
	r := newTestRunner(2)
	return NewService(r, store.NewMemoryStore(), ingest.DefaultTable(), d, r.m)
}

func TestServiceRunStoresReport(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 24, Iterations: 100})
	ctx := context.Background()

	rep, err := svc.Run(ctx, RunInput{})
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)
	assert.Equal(t, 24, rep.TimeHorizon)
	assert.Nil(t, rep.MonteCarlo)

	got, err := svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.m.StoredRuns))
	assert.Equal(t, 5.0, testutil.ToFloat64(svc.m.ChannelTableSize))

	runs, err := svc.List(ctx, url.Values{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rep.ID, runs[0].ID)
}

func TestServiceRunOverrides(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12})
	rep, err := svc.Run(context.Background(), RunInput{
		TimeHorizon: 36,
		Channels: map[string]json.RawMessage{
			"paid_ads": json.RawMessage(`{"setup_costs": 0, "opex_monthly": 0}`),
			"webinars": json.RawMessage(`{"leads_per_month": 40}`),
		},
	})
	require.NoError(t, err)
	require.Len(t, rep.Results, 6)
	assert.Equal(t, "paid_ads", rep.Results[0].Channel)
	assert.Zero(t, rep.Results[0].InitialInvestment)
	assert.Equal(t, "webinars", rep.Results[5].Channel)
	assert.Len(t, rep.Results[5].CashFlows, 37)

	// overrides apply to this run only
	p, _ := svc.Channels().Lookup("paid_ads")
	assert.Equal(t, 30000.0, p.SetupCosts)
}

func TestServiceRunClampsIterations(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12, Iterations: 100, MaxIterations: 50, Seed: 5})
	rep, err := svc.Run(context.Background(), RunInput{MonteCarlo: true, Iterations: 10000})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), rep.Seed)
	for _, st := range rep.MonteCarlo {
		assert.Equal(t, 50, st.Iterations)
	}
}

func TestServiceRunInvalidInput(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12})
	cases := map[string]RunInput{
		"negative horizon":    {TimeHorizon: -1},
		"negative iterations": {Iterations: -5},
		"bad ramp":            {Channels: map[string]json.RawMessage{"seo_content": json.RawMessage(`{"ramp_months": 0}`)}},
		"bad json":            {Channels: map[string]json.RawMessage{"seo_content": json.RawMessage(`{"cac": "lots"}`)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Run(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestServiceRunRejectsHorizonAboveCap(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12, MaxHorizon: 600})
	ctx := context.Background()

	_, err := svc.Run(ctx, RunInput{TimeHorizon: 1 << 42})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Run(ctx, RunInput{TimeHorizon: 601})
	require.ErrorIs(t, err, ErrInvalidInput)

	rep, err := svc.Run(ctx, RunInput{TimeHorizon: 600})
	require.NoError(t, err)
	assert.Len(t, rep.Results[0].CashFlows, 601)
}

func TestServiceRunRejectsChannelHorizonAboveCap(t *testing.T) {
	svc := newTestService(t, Defaults{MaxHorizon: 600})
	_, err := svc.Run(context.Background(), RunInput{
		Channels: map[string]json.RawMessage{"seo_content": json.RawMessage(`{"time_horizon": 4398046511104}`)},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceRunHugeRevenueDelay(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12})
	rep, err := svc.Run(context.Background(), RunInput{
		Channels: map[string]json.RawMessage{"paid_ads": json.RawMessage(`{"revenue_delay": 9223372036854775807}`)},
	})
	require.NoError(t, err)
	assert.Len(t, rep.Results[0].CashFlows, 13)
	assert.False(t, rep.Results[0].Payback.Reached())
}

func TestServiceGetUnknown(t *testing.T) {
	svc := newTestService(t, Defaults{TimeHorizon: 12})
	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestParseQuery(t *testing.T) {
	in, err := ParseQuery(url.Values{
		"time_horizon": {"36"},
		"view":         {"board"},
		"monte_carlo":  {"true"},
		"iterations":   {"250"},
		"seed":         {"12"},
	})
	require.NoError(t, err)
	assert.Equal(t, RunInput{TimeHorizon: 36, View: "board", MonteCarlo: true, Iterations: 250, Seed: 12}, in)

	in, err = ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, RunInput{}, in)

	for _, bad := range []url.Values{
		{"time_horizon": {"soon"}},
		{"iterations": {"1e3"}},
		{"seed": {"-1"}},
		{"monte_carlo": {"maybe"}},
	} {
		_, err := ParseQuery(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", bad)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0))
	assert.Equal(t, 20, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 100, clampLimit(5000))
}
