package projection

import (
	"fmt"
	"math"

	"github.com/AngelCh415/channel-roi/internal/finance"
	"github.com/AngelCh415/channel-roi/internal/models"
)

// DefaultReserveMonths is how many months of opex are funded up front
// together with setup costs.
const DefaultReserveMonths = 3.0

type Model struct {
	ReserveMonths float64
}

func DefaultModel() Model { return Model{ReserveMonths: DefaultReserveMonths} }

// Project runs the default model.
func Project(id string, p models.ChannelParameters) models.ProjectionResult {
	return DefaultModel().Project(id, p)
}

func (m Model) InitialInvestment(p models.ChannelParameters) float64 {
	return p.SetupCosts + m.ReserveMonths*p.OpexMonthly
}

// CashFlows returns the monthly series: index 0 is the negative initial
// investment, 1..TimeHorizon the net flows. Revenue and acquisition cost of
// month-m customers land at m+RevenueDelay.
func (m Model) CashFlows(p models.ChannelParameters) []float64 {
	p = p.Normalized()
	h := p.TimeHorizon
	leads := p.EffectiveLeads()

	revenue := make([]float64, h+p.RevenueDelay+1)
	cost := make([]float64, h+p.RevenueDelay+1)
	flows := make([]float64, h+1)
	flows[0] = -m.InitialInvestment(p)

	for month := 1; month <= h; month++ {
		ramp := math.Min(1.0, float64(month)/float64(p.RampMonths))
		customers := leads * ramp * p.ConversionRate / 100

		at := month + p.RevenueDelay
		revenue[at] += customers * p.UnitMargin
		cost[at] += customers * p.CAC

		flows[month] = revenue[month] - cost[month] - p.OpexMonthly
	}
	return flows
}

func (m Model) Project(id string, p models.ChannelParameters) models.ProjectionResult {
	flows := m.CashFlows(p)
	initial := -flows[0]

	res := models.ProjectionResult{
		Channel:           id,
		InitialInvestment: initial,
		CashFlows:         flows,
		Payback:           Payback(flows),
	}

	if monthly, err := finance.IRR(flows); err == nil {
		res.MonthlyIRR = monthly
		res.IRRConverged = true
		res.AnnualIRR = finance.Annualize(monthly)
	}
	res.AnnualIRRPct = fmt.Sprintf("%.1f%%", res.AnnualIRR*100)

	var positive float64
	for _, cf := range flows {
		res.NetCashFlow += cf
		if cf > 0 {
			positive += cf
		}
	}
	res.ROIMultiple = round2(safeDivF(positive, initial))
	return res
}

// Payback scans the cumulative series from month 1 and stops at the first
// non-negative total.
func Payback(flows []float64) models.PaybackMonth {
	if len(flows) == 0 {
		return models.PaybackNotReached()
	}
	cum := flows[0]
	for month := 1; month < len(flows); month++ {
		cum += flows[month]
		if cum >= 0 {
			return models.PaybackAt(month)
		}
	}
	return models.PaybackNotReached()
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
