// Package domain models the hazard data the risk service correlates and the
// assessments it produces.
//
// # Data Sources
//
// Three NASA feeds supply the raw material for a risk analysis:
//
//	POWER  hourly point weather: T2M (°C at 2 m), RH2M (% at 2 m), WS10M (m/s at 10 m).
//	FIRMS  VIIRS NOAA-20 near-real-time active fire detections for the last 24 hours.
//	       Brightness is the I-4 channel brightness temperature in Kelvin (bright_ti4).
//	       Confidence is the categorical VIIRS flag: "l" (low), "n" (nominal), "h" (high).
//	EONET  open natural events. Geometry is a list of GeoJSON-like entries whose
//	       coordinates are [longitude, latitude] for Points.
//
// # Correlation
//
// Feeds are global, so each analysis reduces them to the items nearest the
// query point with [Correlate]: great-circle (haversine, R = 6371 km) distance,
// inclusive radius filter, stable ascending sort, truncation. Fire points are
// bounded to 200 km / 10 items and events to 500 km / 10 items.
//
// Events carrying only Polygon or LineString geometry have no location and are
// dropped; no representative point is synthesized from their vertices.
//
// # Risk Levels
//
// Assessments use a four-level ordinal scale shared by every hazard:
//
//	Low < Medium < High < Very High
//
// Villages on the dashboard carry a coarser three-level rating (no Very High).
package domain
