package conditions

import "time"

// Seeing is a qualitative sky-steadiness label inferred from cloud cover.
// It is a coarse heuristic proxy, not a measured seeing value: the weather
// provider supplies no atmospheric turbulence data, so cloud cover stands in.
type Seeing string

const (
	SeeingExcellent Seeing = "Excellent"
	SeeingGood      Seeing = "Good"
	SeeingAverage   Seeing = "Average"
	SeeingPoor      Seeing = "Poor"
	SeeingVeryPoor  Seeing = "Very Poor"
	SeeingUnknown   Seeing = "Unknown"
)

// Reading is the tolerant, provider-agnostic view of a raw weather payload.
// Numeric fields stay nil when the provider omitted them.
type Reading struct {
	CloudCoverPct *float64
	TemperatureC  *float64
	HumidityPct   *float64
	Description   string
	ObservedAt    time.Time
}

// Conditions is the normalized weather record embedded into prompt context.
type Conditions struct {
	CloudCoverPct *float64  `json:"cloudCoverPct,omitempty"`
	TemperatureC  *float64  `json:"temperatureC,omitempty"`
	HumidityPct   *float64  `json:"humidityPct,omitempty"`
	Description   string    `json:"description"`
	Seeing        Seeing    `json:"seeing"`
	ObservedAt    time.Time `json:"observedAt"`
}

// SeeingFor maps cloud cover percent to a seeing label. Total and monotone:
// more cloud never yields a better label. Band lower bounds are inclusive.
// The thresholds are a placeholder policy with no cited source; revisit them
// against real seeing data before trusting them further.
func SeeingFor(cloudPct float64) Seeing {
	switch {
	case cloudPct <= 10:
		return SeeingExcellent
	case cloudPct <= 30:
		return SeeingGood
	case cloudPct <= 60:
		return SeeingAverage
	case cloudPct <= 85:
		return SeeingPoor
	default:
		return SeeingVeryPoor
	}
}

// Normalize turns a raw reading into the typed conditions record, attaching
// the inferred seeing label. Absent cloud cover leaves seeing Unknown.
func Normalize(r Reading) Conditions {
	cond := Conditions{
		CloudCoverPct: r.CloudCoverPct,
		TemperatureC:  r.TemperatureC,
		HumidityPct:   r.HumidityPct,
		Description:   r.Description,
		Seeing:        SeeingUnknown,
		ObservedAt:    r.ObservedAt,
	}
	if r.CloudCoverPct != nil {
		cond.Seeing = SeeingFor(*r.CloudCoverPct)
	}
	return cond
}
