package mockpeer

import (
	"fmt"
	"math"
	"time"

	"github.com/aryy8/yatriguard/internal/models"
)

// zone is one rule-based restricted area.
type zone struct {
	name     string
	lat, lng float64
	radiusKm float64
	risk     float64 // 0-10 risk score inside the zone
}

// touristArea is a known area with canned crime statistics.
type touristArea struct {
	name     string
	lat, lng float64
	crime    models.CrimeBreakdown
}

// Demo geography around Jaipur, matching the backend's seed data.
var zones = []zone{
	{name: "Military Zone", lat: 26.9124, lng: 75.7873, radiusKm: 0.5, risk: 9.5},
	{name: "Restricted Wildlife Area", lat: 26.9200, lng: 75.8000, radiusKm: 0.8, risk: 8.0},
	{name: "Construction Hazard Zone", lat: 26.8900, lng: 75.7600, radiusKm: 0.3, risk: 7.2},
}

var touristAreas = []touristArea{
	{name: "City Market", lat: 26.9000, lng: 75.7800,
		crime: models.CrimeBreakdown{TheftRisk: 5.5, AssaultRisk: 2.0, FraudRisk: 6.0, HarassmentRisk: 3.5}},
	{name: "Hotel District", lat: 26.9300, lng: 75.8100,
		crime: models.CrimeBreakdown{TheftRisk: 2.5, AssaultRisk: 1.0, FraudRisk: 3.0, HarassmentRisk: 1.5}},
	{name: "Old Town", lat: 26.9150, lng: 75.7700,
		crime: models.CrimeBreakdown{TheftRisk: 4.0, AssaultRisk: 3.0, FraudRisk: 4.5, HarassmentRisk: 4.0}},
}

// Analyze runs the rule-based risk assessment for a location. It mirrors the
// shape of the real backend's comprehensive analysis: a red-zone check, a
// crime-statistics enrichment from the nearest known area, and an overall
// score on the 0-10 scale.
func Analyze(lat, lng float64) models.SafetyAnalysis {
	riskScore := 1.5
	redZone := models.RedZoneDetection{Confidence: 0.9}

	for _, z := range zones {
		distance := haversineKm(lat, lng, z.lat, z.lng)
		if distance <= z.radiusKm {
			redZone.IsRedZone = true
			redZone.ZoneName = z.name
			if z.risk > riskScore {
				riskScore = z.risk
			}
		} else if distance <= z.radiusKm*2 && z.risk/2 > riskScore {
			// Near misses raise the score without tripping the detector.
			riskScore = z.risk / 2
		}
	}

	area, areaDistance := nearestArea(lat, lng)
	crimeScore := (area.crime.TheftRisk + area.crime.AssaultRisk +
		area.crime.FraudRisk + area.crime.HarassmentRisk) / 4
	if !redZone.IsRedZone && crimeScore > riskScore {
		riskScore = crimeScore
	}
	redZone.CrimeRiskScore = crimeScore

	analysis := models.SafetyAnalysis{
		OverallRiskScore: round1(riskScore),
		RiskLevel:        levelFor(riskScore),
		IsSafe:           riskScore <= 4.0,
		Location: models.GeoPoint{
			Lat:       lat,
			Lng:       lng,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		},
		DetectionResults: models.DetectionResults{
			FallDetection:     models.FallDetection{},
			CrashDetection:    models.CrashDetection{},
			RedZoneDetection:  redZone,
			DistressDetection: models.DistressDetection{},
		},
		EnhancedAnalysis: &models.EnhancedAnalysis{
			NearestArea: &models.NearestArea{
				Name:       area.name,
				DistanceKm: round1(areaDistance),
			},
			CrimeBreakdown:        &area.crime,
			SafetyRecommendations: recommendationsFor(riskScore, redZone),
		},
	}

	if redZone.IsRedZone {
		analysis.EnhancedAnalysis.AreaAlerts = []string{
			fmt.Sprintf("You are inside %s. Leave the area immediately.", redZone.ZoneName),
		}
	}
	return analysis
}

func nearestArea(lat, lng float64) (touristArea, float64) {
	best := touristAreas[0]
	bestDistance := haversineKm(lat, lng, best.lat, best.lng)
	for _, area := range touristAreas[1:] {
		if d := haversineKm(lat, lng, area.lat, area.lng); d < bestDistance {
			best, bestDistance = area, d
		}
	}
	return best, bestDistance
}

func levelFor(risk float64) models.RiskLevel {
	switch {
	case risk < 2:
		return models.RiskVeryLow
	case risk < 4:
		return models.RiskLow
	case risk < 6:
		return models.RiskMedium
	case risk < 8:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

func recommendationsFor(risk float64, redZone models.RedZoneDetection) []string {
	if redZone.IsRedZone {
		return []string{
			"Leave the restricted area by the nearest public road",
			"Share your live location with an emergency contact",
		}
	}
	if risk > 4 {
		return []string{
			"Stay in well-lit, populated areas",
			"Keep valuables out of sight",
		}
	}
	return []string{"Area looks safe. Enjoy your trip."}
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
