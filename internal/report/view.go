// Package report turns a models.Report into the shape a caller asked for.
// Views only select and format fields; they never recompute the model.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AngelCh415/channel-roi/internal/models"
)

type View string

const (
	ViewFull   View = "full"
	ViewSimple View = "simple"
	ViewBoard  View = "board"
)

// ParseView falls back to ViewFull for anything unknown.
func ParseView(s string) View {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewSimple:
		return ViewSimple
	case ViewBoard:
		return ViewBoard
	default:
		return ViewFull
	}
}

type Rendered struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	View        View             `json:"view"`
	TimeHorizon int              `json:"time_horizon"`
	Summary     any              `json:"summary"`
	Channels    map[string]any   `json:"channels"`
	Order       []string         `json:"channel_order"`
	MonteCarlo  map[string]MCRow `json:"monte_carlo,omitempty"`
	Seed        uint64           `json:"monte_carlo_seed,omitempty"`
}

type SimpleRow struct {
	AnnualIRRPct string  `json:"annual_irr_pct"`
	Payback      string  `json:"payback"`
	ROIMultiple  float64 `json:"roi_multiple"`
}

type BoardRow struct {
	IRR               string `json:"irr"`
	Payback           string `json:"payback"`
	ROI               string `json:"roi"`
	InitialInvestment string `json:"initial_investment"`
	NetCashFlow       string `json:"net_cash_flow"`
}

type BoardSummary struct {
	BestIRRChannel    string `json:"best_irr_channel"`
	BestIRR           string `json:"best_irr"`
	FastestPayback    string `json:"fastest_payback"`
	FastestPaybackBy  string `json:"fastest_payback_channel"`
	HighestROI        string `json:"highest_roi"`
	HighestROIChannel string `json:"highest_roi_channel"`
}

type MCRow struct {
	Iterations int    `json:"iterations"`
	Min        string `json:"min"`
	P5         string `json:"p5"`
	P50        string `json:"p50"`
	P95        string `json:"p95"`
	Max        string `json:"max"`
	Mean       string `json:"mean"`
}

var printer = message.NewPrinter(language.English)

func Render(rep models.Report, v View) Rendered {
	out := Rendered{
		ID:          rep.ID,
		CreatedAt:   rep.CreatedAt,
		View:        v,
		TimeHorizon: rep.TimeHorizon,
		Channels:    make(map[string]any, len(rep.Results)),
		Order:       make([]string, 0, len(rep.Results)),
		Seed:        rep.Seed,
	}

	for _, r := range rep.Results {
		out.Order = append(out.Order, r.Channel)
		switch v {
		case ViewSimple:
			out.Channels[r.Channel] = SimpleRow{
				AnnualIRRPct: r.AnnualIRRPct,
				Payback:      PaybackLabel(r.Payback),
				ROIMultiple:  r.ROIMultiple,
			}
		case ViewBoard:
			out.Channels[r.Channel] = BoardRow{
				IRR:               WholePercent(r.AnnualIRR),
				Payback:           PaybackLabel(r.Payback),
				ROI:               fmt.Sprintf("%.2fx", r.ROIMultiple),
				InitialInvestment: Money(r.InitialInvestment),
				NetCashFlow:       Money(r.NetCashFlow),
			}
		default:
			out.Channels[r.Channel] = r
		}
	}

	if v == ViewBoard {
		s := rep.Summary
		out.Summary = BoardSummary{
			BestIRRChannel:    s.BestIRRChannel,
			BestIRR:           WholePercent(s.BestIRR),
			FastestPayback:    PaybackLabel(s.FastestPayback),
			FastestPaybackBy:  s.FastestPaybackBy,
			HighestROI:        fmt.Sprintf("%.2fx", s.HighestROI),
			HighestROIChannel: s.HighestROIChannel,
		}
	} else {
		out.Summary = rep.Summary
	}

	if len(rep.MonteCarlo) > 0 {
		out.MonteCarlo = make(map[string]MCRow, len(rep.MonteCarlo))
		for id, st := range rep.MonteCarlo {
			out.MonteCarlo[id] = MCRow{
				Iterations: st.Iterations,
				Min:        Percent(st.Min),
				P5:         Percent(st.P5),
				P50:        Percent(st.P50),
				P95:        Percent(st.P95),
				Max:        Percent(st.Max),
				Mean:       Percent(st.Mean),
			}
		}
	}
	return out
}

// Percent formats a value already expressed in percent.
func Percent(v float64) string { return fmt.Sprintf("%.2f%%", v) }

// WholePercent formats a fraction as a rounded whole percent.
func WholePercent(fraction float64) string {
	return printer.Sprintf("%.0f%%", math.Round(fraction*100))
}

// Money formats with thousands separators and no cents.
func Money(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.0f", math.Abs(v))
	}
	return printer.Sprintf("$%.0f", v)
}

func PaybackLabel(p models.PaybackMonth) string {
	if m, ok := p.Month(); ok {
		return fmt.Sprintf("Month %d", m)
	}
	return "Not reached"
}
