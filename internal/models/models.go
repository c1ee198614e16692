package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ChannelParameters are the assumptions behind one go-to-market channel.
// ConversionRate is expressed in percent (20 = 20%).
type ChannelParameters struct {
	LeadsPerMonth   float64 `json:"leads_per_month" yaml:"leads_per_month"`
	IsContractor    bool    `json:"is_contractor" yaml:"is_contractor"`
	ContractorCount float64 `json:"contractor_count" yaml:"contractor_count"`
	ConversionRate  float64 `json:"conversion_rate" yaml:"conversion_rate"`
	UnitMargin      float64 `json:"unit_margin" yaml:"unit_margin"`
	CAC             float64 `json:"cac" yaml:"cac"`
	OpexMonthly     float64 `json:"opex_monthly" yaml:"opex_monthly"`
	SetupCosts      float64 `json:"setup_costs" yaml:"setup_costs"`
	RampMonths      int     `json:"ramp_months" yaml:"ramp_months"`
	RevenueDelay    int     `json:"revenue_delay" yaml:"revenue_delay"`
	TimeHorizon     int     `json:"time_horizon" yaml:"time_horizon"`
}

// DefaultChannelParameters is the record absent fields fall back to.
// Decoders unmarshal on top of a copy of it.
func DefaultChannelParameters() ChannelParameters {
	return ChannelParameters{
		LeadsPerMonth:   100,
		ContractorCount: 1,
		ConversionRate:  10,
		UnitMargin:      500,
		CAC:             200,
		OpexMonthly:     10000,
		SetupCosts:      20000,
		RampMonths:      3,
		RevenueDelay:    1,
		TimeHorizon:     24,
	}
}

// EffectiveLeads is the monthly lead volume before ramp.
func (p ChannelParameters) EffectiveLeads() float64 {
	if p.IsContractor {
		return p.LeadsPerMonth * p.ContractorCount
	}
	return p.LeadsPerMonth
}

// Normalized clamps the integer month fields into their valid ranges. A
// revenue delay beyond the horizon is cut to the horizon.
func (p ChannelParameters) Normalized() ChannelParameters {
	if p.RampMonths < 1 {
		p.RampMonths = 1
	}
	if p.TimeHorizon < 1 {
		p.TimeHorizon = 1
	}
	// Anything scheduled past the horizon is never read.
	if p.RevenueDelay < 0 {
		p.RevenueDelay = 0
	}
	if p.RevenueDelay > p.TimeHorizon {
		p.RevenueDelay = p.TimeHorizon
	}
	return p
}

// Validate reports fields outside their documented range.
func (p ChannelParameters) Validate() error {
	var errs []error
	if p.RampMonths < 1 {
		errs = append(errs, fmt.Errorf("ramp_months must be >= 1, got %d", p.RampMonths))
	}
	if p.RevenueDelay < 0 {
		errs = append(errs, fmt.Errorf("revenue_delay must be >= 0, got %d", p.RevenueDelay))
	}
	if p.TimeHorizon < 1 {
		errs = append(errs, fmt.Errorf("time_horizon must be >= 1, got %d", p.TimeHorizon))
	}
	if p.LeadsPerMonth < 0 || p.ConversionRate < 0 || p.ContractorCount < 0 {
		errs = append(errs, errors.New("lead volume, contractor count and conversion rate must be non-negative"))
	}
	return errors.Join(errs...)
}

type Channel struct {
	ID     string            `json:"id" yaml:"id"`
	Params ChannelParameters `json:"params" yaml:"params"`
}

// ChannelTable is ordered; the order is the tie-break order for summaries.
type ChannelTable []Channel

func (t ChannelTable) Lookup(id string) (ChannelParameters, bool) {
	for _, c := range t {
		if c.ID == id {
			return c.Params, true
		}
	}
	return ChannelParameters{}, false
}

// PaybackMonth is the first month with non-negative cumulative cash flow,
// or "not reached". The zero value is not reached.
type PaybackMonth struct {
	month   int
	reached bool
}

func PaybackAt(m int) PaybackMonth { return PaybackMonth{month: m, reached: true} }

func PaybackNotReached() PaybackMonth { return PaybackMonth{} }

func (p PaybackMonth) Reached() bool { return p.reached }

// Month returns the payback month and whether it was reached.
func (p PaybackMonth) Month() (int, bool) { return p.month, p.reached }

// Before orders reached months ascending and puts "not reached" last.
func (p PaybackMonth) Before(o PaybackMonth) bool {
	switch {
	case !p.reached:
		return false
	case !o.reached:
		return true
	default:
		return p.month < o.month
	}
}

func (p PaybackMonth) String() string {
	if !p.reached {
		return "not reached"
	}
	return fmt.Sprintf("month %d", p.month)
}

func (p PaybackMonth) MarshalJSON() ([]byte, error) {
	if !p.reached {
		return []byte("null"), nil
	}
	return json.Marshal(p.month)
}

func (p *PaybackMonth) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = PaybackNotReached()
		return nil
	}
	var m int
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("payback month: %w", err)
	}
	*p = PaybackAt(m)
	return nil
}

type ProjectionResult struct {
	Channel           string       `json:"channel"`
	InitialInvestment float64      `json:"initial_investment"`
	CashFlows         []float64    `json:"cash_flows"`
	MonthlyIRR        float64      `json:"monthly_irr"`
	IRRConverged      bool         `json:"irr_converged"`
	AnnualIRR         float64      `json:"annual_irr"`
	AnnualIRRPct      string       `json:"annual_irr_pct"`
	Payback           PaybackMonth `json:"payback_month"`
	NetCashFlow       float64      `json:"net_cash_flow"`
	ROIMultiple       float64      `json:"roi_multiple"`
}

type ScenarioSummary struct {
	BestIRRChannel    string       `json:"best_irr_channel"`
	BestIRR           float64      `json:"best_irr"`
	FastestPayback    PaybackMonth `json:"fastest_payback_month"`
	FastestPaybackBy  string       `json:"fastest_payback_channel"`
	HighestROI        float64      `json:"highest_roi_multiple"`
	HighestROIChannel string       `json:"highest_roi_channel"`
}

// MonteCarloStats are annual-IRR percentages over Iterations trials.
type MonteCarloStats struct {
	Iterations int     `json:"iterations"`
	Min        float64 `json:"min"`
	P5         float64 `json:"p5"`
	P50        float64 `json:"p50"`
	P95        float64 `json:"p95"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
}

type Report struct {
	ID          string                     `json:"id"`
	CreatedAt   time.Time                  `json:"created_at"`
	TimeHorizon int                        `json:"time_horizon"`
	Summary     ScenarioSummary            `json:"summary"`
	Results     []ProjectionResult         `json:"results"`
	MonteCarlo  map[string]MonteCarloStats `json:"monte_carlo,omitempty"`
	Seed        uint64                     `json:"monte_carlo_seed,omitempty"`
}
