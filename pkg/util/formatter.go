// Package util holds small display-formatting helpers, kept separate from
// the core so the engine packages stay free of presentation concerns.
package util

import (
	"fmt"
	"math"
)

// FormatPower renders a MW or MVAr value, auto-scaling to kW/kVAr when
// small.
func FormatPower(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f M%s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f k%s", value*1e3, unit)
	default:
		return fmt.Sprintf("%.3e M%s", value, unit)
	}
}

// FormatVoltageKV renders a bus voltage in kV.
func FormatVoltageKV(kv float64) string {
	return fmt.Sprintf("%8.3f kV", kv)
}

// FormatCurrentKA renders a branch current given in kA, switching to A
// below 1 kA (zero stays in kA).
func FormatCurrentKA(ka float64) string {
	if ka >= 1 || ka == 0 {
		return fmt.Sprintf("%8.3f kA", ka)
	}
	return fmt.Sprintf("%8.3f A", ka*1e3)
}

// FormatMagnitudePhase renders a complex voltage as |V|<angle, angle in
// degrees.
func FormatMagnitudePhase(name string, vm, vaRad float64) string {
	var magStr string
	switch {
	case vm >= 1000, vm != 0 && vm < 0.001:
		magStr = fmt.Sprintf("%8.2e", vm)
	default:
		magStr = fmt.Sprintf("%8.3g", vm)
	}
	phaseStr := fmt.Sprintf("%6.1f", vaRad*180/math.Pi)
	return fmt.Sprintf("%s=%s<%sdeg", name, magStr, phaseStr)
}
