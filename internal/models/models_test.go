package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaybackOrdering(t *testing.T) {
	none := PaybackNotReached()
	assert.True(t, PaybackAt(3).Before(PaybackAt(4)))
	assert.False(t, PaybackAt(4).Before(PaybackAt(4)))
	assert.True(t, PaybackAt(400).Before(none))
	assert.False(t, none.Before(PaybackAt(1)))
	assert.False(t, none.Before(none))
	assert.Equal(t, none, PaybackMonth{})
}

func TestPaybackJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A PaybackMonth `json:"a"`
		B PaybackMonth `json:"b"`
	}{PaybackAt(7), PaybackNotReached()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 7, "b": null}`, string(b))

	var p PaybackMonth
	require.NoError(t, json.Unmarshal([]byte("12"), &p))
	m, ok := p.Month()
	assert.True(t, ok)
	assert.Equal(t, 12, m)
	require.NoError(t, json.Unmarshal([]byte("null"), &p))
	assert.False(t, p.Reached())
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &p))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultChannelParameters().Validate())

	p := DefaultChannelParameters()
	p.RampMonths, p.RevenueDelay, p.TimeHorizon = 0, -1, 0
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ramp_months")
	assert.Contains(t, err.Error(), "revenue_delay")
	assert.Contains(t, err.Error(), "time_horizon")

	n := p.Normalized()
	assert.Equal(t, 1, n.RampMonths)
	assert.Equal(t, 0, n.RevenueDelay)
	assert.Equal(t, 1, n.TimeHorizon)
}

func TestNormalizedCutsDelayToHorizon(t *testing.T) {
	p := DefaultChannelParameters()
	p.TimeHorizon, p.RevenueDelay = 12, 40
	assert.Equal(t, 12, p.Normalized().RevenueDelay)

	p.RevenueDelay = 5
	assert.Equal(t, 5, p.Normalized().RevenueDelay)
}

func TestDecodeOverDefaults(t *testing.T) {
	p := DefaultChannelParameters()
	require.NoError(t, json.Unmarshal([]byte(`{"leads_per_month": 300, "revenue_delay": 0}`), &p))
	assert.Equal(t, 300.0, p.LeadsPerMonth)
	assert.Equal(t, 0, p.RevenueDelay)
	assert.Equal(t, DefaultChannelParameters().CAC, p.CAC)
}

func TestChannelTableLookup(t *testing.T) {
	table := ChannelTable{{ID: "a", Params: DefaultChannelParameters()}}
	_, ok := table.Lookup("a")
	assert.True(t, ok)
	_, ok = table.Lookup("b")
	assert.False(t, ok)
}
