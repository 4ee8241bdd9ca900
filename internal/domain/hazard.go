package domain

// FirePoint is a single FIRMS active-fire detection.
type FirePoint struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Brightness float64 `json:"brightness"` // Kelvin, VIIRS I-4 channel
	Confidence string  `json:"confidence"`
}

// HazardEvent is an open EONET natural event reduced to its first Point geometry.
type HazardEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// WeatherRecord is one hour of POWER point weather.
type WeatherRecord struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Day   int     `json:"day"`
	Hour  int     `json:"hour"`
	T2M   float64 `json:"T2M"`   // °C
	RH2M  float64 `json:"RH2M"`  // %
	WS10M float64 `json:"WS10M"` // m/s
}

// FirePointLocator reads the flat latitude/longitude fields.
func FirePointLocator(f FirePoint) (GeoPoint, bool) {
	return GeoPoint{Lat: f.Latitude, Lon: f.Longitude}, true
}

// HazardEventLocator reads the [lon, lat] coordinate pair. Events with fewer
// than two coordinates have no location.
func HazardEventLocator(e HazardEvent) (GeoPoint, bool) {
	if len(e.Coordinates) < 2 {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: e.Coordinates[1], Lon: e.Coordinates[0]}, true
}
