package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 8, 3, 15, 10, 0, 0, time.UTC)
	report := domain.RiskReport{
		ID:       "rpt-1",
		Location: domain.GeoPoint{Lat: 34.05, Lon: -118.25},
		RiskAssessments: domain.RiskAssessments{
			Wildfire:  domain.RiskAssessment{Level: domain.RiskHigh, Reasoning: "dry"},
			Heatwave:  domain.RiskAssessment{Level: domain.RiskMedium, Reasoning: "warm"},
			Flood:     domain.RiskAssessment{Level: domain.RiskLow, Reasoning: "no rain"},
			Landslide: domain.RiskAssessment{Level: domain.RiskLow, Reasoning: "flat"},
		},
		NearbyFires: 3,
		Model:       "gpt-4o-mini",
		GeneratedAt: now,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("rpt-1"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("34.0500,-118.2500"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.RiskReport
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, domain.RiskHigh, decoded.Wildfire.Level)
	assert.Equal(t, 3, decoded.NearbyFires)
	assert.True(t, now.Equal(decoded.GeneratedAt))
}

func TestSerializeToMessage_ValueShape(t *testing.T) {
	msg, err := serializeToMessage(domain.RiskReport{ID: "rpt-2"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &fields))
	for _, key := range []string{"id", "location", "wildfire", "heatwave", "flood", "landslide", "generatedAt"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "model")
}
