package village

import "github.com/couchcryptid/hazard-risk-service/internal/domain"

// seed is the monitored village set shown on the dashboard.
var seed = []domain.Village{
	{ID: "v001", Name: "Riverside", RiskLevel: domain.RiskHigh, AlertStatus: domain.AlertSent, Coords: domain.GeoPoint{Lat: 34.0522, Lon: -118.2437}},
	{ID: "v002", Name: "Hillview", RiskLevel: domain.RiskMedium, AlertStatus: domain.AlertSent, Coords: domain.GeoPoint{Lat: 40.7128, Lon: -74.0060}},
	{ID: "v003", Name: "Greenfield", RiskLevel: domain.RiskLow, AlertStatus: domain.AlertInactive, Coords: domain.GeoPoint{Lat: 35.6895, Lon: 139.6917}},
	{ID: "v004", Name: "Laketown", RiskLevel: domain.RiskHigh, AlertStatus: domain.AlertPaused, Coords: domain.GeoPoint{Lat: -33.8688, Lon: 151.2093}},
	{ID: "v005", Name: "Sunnyside", RiskLevel: domain.RiskLow, AlertStatus: domain.AlertInactive, Coords: domain.GeoPoint{Lat: 19.4326, Lon: -99.1332}},
	{ID: "v006", Name: "Mountain Base", RiskLevel: domain.RiskMedium, AlertStatus: domain.AlertSent, Coords: domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}},
	{ID: "v007", Name: "Coastal Point", RiskLevel: domain.RiskLow, AlertStatus: domain.AlertInactive, Coords: domain.GeoPoint{Lat: -22.9068, Lon: -43.1729}},
}

// Seed returns a copy of the built-in village set.
func Seed() []domain.Village {
	out := make([]domain.Village, len(seed))
	copy(out, seed)
	return out
}
