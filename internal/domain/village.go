package domain

// AlertStatus tracks whether alerts are being delivered to a village.
type AlertStatus string

const (
	AlertSent     AlertStatus = "Sent"
	AlertPaused   AlertStatus = "Paused"
	AlertInactive AlertStatus = "Inactive"
)

// Village is a monitored settlement shown on the dashboard.
type Village struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	RiskLevel   RiskLevel   `json:"riskLevel"`
	AlertStatus AlertStatus `json:"alertStatus"`
	Coords      GeoPoint    `json:"coords"`
}

// VillageLocator places a village at its coordinates.
func VillageLocator(v Village) (GeoPoint, bool) {
	return v.Coords, true
}
