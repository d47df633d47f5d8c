// Package score derives the single 0-100 safety score shown to the user from
// the peer's raw analysis. Everything here is a pure function over a
// SafetyAnalysis snapshot; no state, no I/O.
package score

import "github.com/aryy8/yatriguard/internal/models"

const (
	// DefaultScore is reported when no analysis has arrived yet: unknown,
	// not unsafe.
	DefaultScore = 50

	fallPenalty     = 30
	crashPenalty    = 40
	redZonePenalty  = 25
	distressPenalty = 20
)

// Score maps an analysis onto [0,100], higher is safer. The peer's 0-10 risk
// score is inverted linearly, then a fixed penalty is subtracted for every
// detector that fired, and the result is clamped.
func Score(analysis *models.SafetyAnalysis) float64 {
	if analysis == nil {
		return DefaultScore
	}

	s := (10 - analysis.OverallRiskScore) * 10

	d := analysis.DetectionResults
	if d.FallDetection.IsFall {
		s -= fallPenalty
	}
	if d.CrashDetection.IsCrash {
		s -= crashPenalty
	}
	if d.RedZoneDetection.IsRedZone {
		s -= redZonePenalty
	}
	if d.DistressDetection.IsDistressed {
		s -= distressPenalty
	}

	return clamp(s, 0, 100)
}

// Band maps a score to its display color band. Thresholds are inclusive on
// the lower bound of each band.
func Band(score float64) string {
	switch {
	case score >= 80:
		return "green"
	case score >= 60:
		return "yellow"
	case score >= 40:
		return "orange"
	default:
		return "red"
	}
}

// BandLabel is the human-readable name of a score's band.
func BandLabel(score float64) string {
	switch Band(score) {
	case "green":
		return "Safe"
	case "yellow":
		return "Caution"
	case "orange":
		return "Elevated Risk"
	default:
		return "Danger"
	}
}

// SeverityClass maps a score to the alerting emphasis tier. This scale is
// coarser than the color bands and uses its own thresholds.
func SeverityClass(score float64) string {
	switch {
	case score >= 70:
		return "default"
	case score >= 40:
		return "secondary"
	default:
		return "destructive"
	}
}

var riskLabels = map[models.RiskLevel]string{
	models.RiskVeryLow:  "Very Low Risk",
	models.RiskLow:      "Low Risk",
	models.RiskMedium:   "Medium Risk",
	models.RiskHigh:     "High Risk",
	models.RiskVeryHigh: "Very High Risk",
}

// RiskLabel returns the display label for a risk level. Unrecognized values
// map to "Unknown" rather than an error.
func RiskLabel(level models.RiskLevel) string {
	if label, ok := riskLabels[level]; ok {
		return label
	}
	return "Unknown"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
