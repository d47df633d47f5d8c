package models

// RiskLevel is the peer's coarse classification of an area's risk.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// GeoPoint is a timestamped latitude/longitude pair.
type GeoPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// SafetyAnalysis is the peer's full risk assessment for the current location.
// It is replaced wholesale on every safety_analysis frame; the client never
// merges two analyses.
type SafetyAnalysis struct {
	OverallRiskScore float64           `json:"overall_risk_score"` // 0-10, lower is safer
	RiskLevel        RiskLevel         `json:"risk_level"`
	IsSafe           bool              `json:"is_safe"`
	Location         GeoPoint          `json:"location"`
	DetectionResults DetectionResults  `json:"detection_results"`
	EnhancedAnalysis *EnhancedAnalysis `json:"enhanced_analysis,omitempty"`
}

// DetectionResults always carries all four detector outputs, even when a
// detector did not fire.
type DetectionResults struct {
	FallDetection     FallDetection     `json:"fall_detection"`
	CrashDetection    CrashDetection    `json:"crash_detection"`
	RedZoneDetection  RedZoneDetection  `json:"red_zone_detection"`
	DistressDetection DistressDetection `json:"distress_detection"`
}

// FallDetection is the IMU-based fall detector output.
type FallDetection struct {
	IsFall     bool    `json:"is_fall"`
	Confidence float64 `json:"confidence"`
	Phase      string  `json:"phase,omitempty"` // e.g. "impact", "post-impact"
}

// CrashDetection is the vehicle crash detector output.
type CrashDetection struct {
	IsCrash        bool    `json:"is_crash"`
	Confidence     float64 `json:"confidence"`
	ImpactSeverity string  `json:"impact_severity,omitempty"`
}

// RedZoneDetection reports whether the location falls inside a flagged
// high-risk area.
type RedZoneDetection struct {
	IsRedZone      bool    `json:"is_red_zone"`
	Confidence     float64 `json:"confidence"`
	ZoneName       string  `json:"zone_name,omitempty"`
	CrimeRiskScore float64 `json:"crime_risk_score,omitempty"`
}

// DistressDetection is the behavioral anomaly detector output.
type DistressDetection struct {
	IsDistressed bool    `json:"is_distressed"`
	Confidence   float64 `json:"confidence"`
	AnomalyScore float64 `json:"anomaly_score,omitempty"`
}

// EnhancedAnalysis carries the optional crime-statistics enrichment. Any of
// its fields may be absent.
type EnhancedAnalysis struct {
	NearestArea           *NearestArea    `json:"nearest_area,omitempty"`
	CrimeBreakdown        *CrimeBreakdown `json:"crime_breakdown,omitempty"`
	SafetyRecommendations []string        `json:"safety_recommendations,omitempty"`
	AreaAlerts            []string        `json:"area_alerts,omitempty"`
}

// NearestArea describes the closest known tourist area.
type NearestArea struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
}

// CrimeBreakdown splits the crime-risk score into its component factors,
// each on the same 0-10 scale as the overall score.
type CrimeBreakdown struct {
	TheftRisk      float64 `json:"theft_risk"`
	AssaultRisk    float64 `json:"assault_risk"`
	FraudRisk      float64 `json:"fraud_risk"`
	HarassmentRisk float64 `json:"harassment_risk"`
}
