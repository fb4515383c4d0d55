package analysis

import "github.com/agentlift/agentlift/internal/domain"

// Params carries the tunable business constants of the pipeline. The
// defaults reflect the product's published heuristics; deployments override
// them through configuration, never by editing pipeline code.
type Params struct {
	// HourlyRates maps a business domain to its blended hourly labor cost,
	// in the caller's base currency unit.
	HourlyRates map[domain.BotDomain]float64

	// MonthlyVolumes maps a business domain to its baseline interaction
	// volume per month.
	MonthlyVolumes map[domain.BotDomain]int

	// VolumeMultiplier scales the baseline volume for larger bots.
	VolumeMultiplier float64

	// VolumeIntentThreshold is the intent count above which the multiplier
	// applies.
	VolumeIntentThreshold int

	// HighImpactROIThreshold is the annual ROI above which an opportunity
	// lands in the high-impact bucket.
	HighImpactROIThreshold float64

	// QuickWinLimit caps the quick-wins bucket.
	QuickWinLimit int
}

// Defaults returns the standard parameter set
func Defaults() Params {
	return Params{
		HourlyRates: map[domain.BotDomain]float64{
			domain.DomainHR:    45,
			domain.DomainIT:    65,
			domain.DomainSales: 55,
		},
		MonthlyVolumes: map[domain.BotDomain]int{
			domain.DomainHR:    200,
			domain.DomainIT:    300,
			domain.DomainSales: 150,
		},
		VolumeMultiplier:       1.5,
		VolumeIntentThreshold:  10,
		HighImpactROIThreshold: 50000,
		QuickWinLimit:          3,
	}
}

// HourlyRate resolves the labor rate for a domain, falling back to the
// general rate for domains without their own figure
func (p Params) HourlyRate(d domain.BotDomain) float64 {
	if rate, ok := p.HourlyRates[d]; ok {
		return rate
	}
	return 50
}

// MonthlyVolume estimates interactions per month for a domain and bot size.
// Bots above the intent threshold get the volume multiplier.
func (p Params) MonthlyVolume(d domain.BotDomain, intentCount int) int {
	base, ok := p.MonthlyVolumes[d]
	if !ok {
		base = 100
	}
	if intentCount > p.VolumeIntentThreshold {
		return int(float64(base)*p.VolumeMultiplier + 0.5)
	}
	return base
}
