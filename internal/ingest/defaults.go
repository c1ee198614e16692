package ingest

import "github.com/AngelCh415/channel-roi/internal/models"

// DefaultTable is the built-in channel table used when no file or URL is
// configured.
func DefaultTable() models.ChannelTable {
	d := models.DefaultChannelParameters()

	paid := d
	paid.LeadsPerMonth = 300
	paid.ConversionRate = 20
	paid.UnitMargin = 700
	paid.CAC = 300
	paid.OpexMonthly = 15000
	paid.SetupCosts = 30000
	paid.RampMonths = 4
	paid.RevenueDelay = 2

	seo := d
	seo.LeadsPerMonth = 220
	seo.ConversionRate = 8
	seo.UnitMargin = 650
	seo.CAC = 40
	seo.OpexMonthly = 9000
	seo.SetupCosts = 15000
	seo.RampMonths = 9
	seo.RevenueDelay = 3

	partners := d
	partners.LeadsPerMonth = 60
	partners.ConversionRate = 25
	partners.UnitMargin = 900
	partners.CAC = 250
	partners.OpexMonthly = 6000
	partners.SetupCosts = 25000
	partners.RampMonths = 6
	partners.RevenueDelay = 2

	outbound := d
	outbound.LeadsPerMonth = 150
	outbound.ConversionRate = 6
	outbound.UnitMargin = 1200
	outbound.CAC = 450
	outbound.OpexMonthly = 22000
	outbound.SetupCosts = 10000
	outbound.RampMonths = 3
	outbound.RevenueDelay = 1

	contractors := d
	contractors.IsContractor = true
	contractors.ContractorCount = 50
	contractors.LeadsPerMonth = 5
	contractors.ConversionRate = 12
	contractors.UnitMargin = 550
	contractors.CAC = 180
	contractors.OpexMonthly = 12000
	contractors.SetupCosts = 20000
	contractors.RampMonths = 2
	contractors.RevenueDelay = 1

	return models.ChannelTable{
		{ID: "paid_ads", Params: paid},
		{ID: "seo_content", Params: seo},
		{ID: "partnerships", Params: partners},
		{ID: "outbound_sales", Params: outbound},
		{ID: "contractors", Params: contractors},
	}
}
