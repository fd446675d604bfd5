package tracker

import "time"

// Fallback model used when no measurement session is available.
const (
	// FallbackPowerKW is the assumed average draw of a workload.
	FallbackPowerKW = 0.1

	// GridIntensity is grams of CO2e per kWh for a typical grid mix.
	GridIntensity = 500.0

	// WaterPerKWh is litres of cooling water per kWh for a typical data center.
	WaterPerKWh = 2.0
)

// Measurement is what a measurement session reported. Nil fields were not
// measured.
type Measurement struct {
	EnergyKWh   *float64
	EmissionsKg *float64
}

// Impact is the estimated footprint of one run.
type Impact struct {
	EnergyKWh  float64
	EmissionsG float64
	WaterL     float64
	Measured   bool
}

// EstimateImpact turns a run's duration and optional measurement into
// energy, emissions and water figures. Measured energy wins over the
// duration model; measured emissions win over the grid-intensity model.
func EstimateImpact(d time.Duration, m Measurement) Impact {
	if d < 0 {
		d = 0
	}
	imp := Impact{EnergyKWh: d.Hours() * FallbackPowerKW}
	if m.EnergyKWh != nil && *m.EnergyKWh >= 0 {
		imp.EnergyKWh = *m.EnergyKWh
		imp.Measured = true
	}
	imp.EmissionsG = imp.EnergyKWh * GridIntensity
	if imp.Measured && m.EmissionsKg != nil && *m.EmissionsKg >= 0 {
		imp.EmissionsG = *m.EmissionsKg * 1000
	}
	imp.WaterL = imp.EnergyKWh * WaterPerKWh
	return imp
}
