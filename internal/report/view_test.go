package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/channel-roi/internal/models"
)

func sample() models.Report {
	return models.Report{
		ID:          "r1",
		TimeHorizon: 24,
		Summary: models.ScenarioSummary{
			BestIRRChannel:    "paid_ads",
			BestIRR:           0.41658,
			FastestPayback:    models.PaybackAt(18),
			FastestPaybackBy:  "paid_ads",
			HighestROI:        2.32,
			HighestROIChannel: "paid_ads",
		},
		Results: []models.ProjectionResult{
			{Channel: "paid_ads", InitialInvestment: 75000, AnnualIRR: 0.41658, AnnualIRRPct: "41.7%", Payback: models.PaybackAt(18), NetCashFlow: 57000, ROIMultiple: 2.32, CashFlows: []float64{-75000}},
			{Channel: "seo", InitialInvestment: 1234567.4, AnnualIRR: -0.05, AnnualIRRPct: "-5.0%", Payback: models.PaybackNotReached(), NetCashFlow: -20500, ROIMultiple: 0.4},
		},
		MonteCarlo: map[string]models.MonteCarloStats{
			"paid_ads": {Iterations: 1000, Min: 10.5, P5: 20, P50: 41.66, P95: 60.1, Max: 80, Mean: 41.2},
		},
		Seed: 9,
	}
}

func TestParseView(t *testing.T) {
	assert.Equal(t, ViewBoard, ParseView(" Board "))
	assert.Equal(t, ViewSimple, ParseView("simple"))
	assert.Equal(t, ViewFull, ParseView("full"))
	assert.Equal(t, ViewFull, ParseView(""))
	assert.Equal(t, ViewFull, ParseView("everything"))
}

func TestRenderFull(t *testing.T) {
	out := Render(sample(), ViewFull)
	assert.Equal(t, []string{"paid_ads", "seo"}, out.Order)
	res, ok := out.Channels["paid_ads"].(models.ProjectionResult)
	require.True(t, ok)
	assert.Equal(t, 2.32, res.ROIMultiple)
	assert.IsType(t, models.ScenarioSummary{}, out.Summary)
	assert.Equal(t, "41.66%", out.MonteCarlo["paid_ads"].P50)
	assert.Equal(t, "20.00%", out.MonteCarlo["paid_ads"].P5)
	assert.Equal(t, uint64(9), out.Seed)
}

func TestRenderSimple(t *testing.T) {
	out := Render(sample(), ViewSimple)
	assert.Equal(t, SimpleRow{AnnualIRRPct: "41.7%", Payback: "Month 18", ROIMultiple: 2.32}, out.Channels["paid_ads"])
	assert.Equal(t, SimpleRow{AnnualIRRPct: "-5.0%", Payback: "Not reached", ROIMultiple: 0.4}, out.Channels["seo"])
}

func TestRenderBoard(t *testing.T) {
	out := Render(sample(), ViewBoard)
	assert.Equal(t, BoardRow{
		IRR:               "42%",
		Payback:           "Month 18",
		ROI:               "2.32x",
		InitialInvestment: "$75,000",
		NetCashFlow:       "$57,000",
	}, out.Channels["paid_ads"])
	assert.Equal(t, BoardRow{
		IRR:               "-5%",
		Payback:           "Not reached",
		ROI:               "0.40x",
		InitialInvestment: "$1,234,567",
		NetCashFlow:       "-$20,500",
	}, out.Channels["seo"])

	sum, ok := out.Summary.(BoardSummary)
	require.True(t, ok)
	assert.Equal(t, "42%", sum.BestIRR)
	assert.Equal(t, "Month 18", sum.FastestPayback)
	assert.Equal(t, "2.32x", sum.HighestROI)
}

func TestRenderedJSON(t *testing.T) {
	b, err := json.Marshal(Render(sample(), ViewFull))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	channels := m["channels"].(map[string]any)
	assert.Nil(t, channels["seo"].(map[string]any)["payback_month"], "not reached encodes as null")
	assert.Equal(t, 18.0, channels["paid_ads"].(map[string]any)["payback_month"])
}

func TestRenderWithoutMonteCarlo(t *testing.T) {
	rep := sample()
	rep.MonteCarlo = nil
	assert.Nil(t, Render(rep, ViewBoard).MonteCarlo)
}
