package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "wildfire":  {"level": "High", "reasoning": "Three VIIRS detections within 40 km."},
  "heatwave":  {"level": "Medium", "reasoning": "Afternoon highs near 36 C."},
  "flood":     {"level": "Low", "reasoning": "No storm systems nearby."},
  "landslide": {"level": "Very High", "reasoning": "Severe storm 120 km away."}
}`

func TestParseRiskLevel(t *testing.T) {
	for _, l := range RiskLevels {
		got, err := ParseRiskLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	for _, bad := range []string{"", "low", "VERY HIGH", "Extreme"} {
		_, err := ParseRiskLevel(bad)
		assert.ErrorIs(t, err, ErrInvalidModelOutput, bad)
	}
}

func TestRiskLevel_Rank(t *testing.T) {
	assert.Equal(t, 0, RiskLow.Rank())
	assert.Equal(t, 3, RiskVeryHigh.Rank())
	assert.Equal(t, -1, RiskLevel("Severe").Rank())
}

func TestDecodeAssessments_Valid(t *testing.T) {
	got, err := DecodeAssessments(validReply)
	require.NoError(t, err)

	assert.Equal(t, RiskHigh, got.Wildfire.Level)
	assert.Equal(t, RiskMedium, got.Heatwave.Level)
	assert.Equal(t, RiskLow, got.Flood.Level)
	assert.Equal(t, RiskVeryHigh, got.Landslide.Level)
	assert.Contains(t, got.Wildfire.Reasoning, "VIIRS")
	assert.Equal(t, RiskVeryHigh, got.Highest())
}

func TestDecodeAssessments_CodeFence(t *testing.T) {
	got, err := DecodeAssessments("```json\n" + validReply + "\n```")
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, got.Wildfire.Level)
}

func TestDecodeAssessments_UnknownLevel(t *testing.T) {
	reply := strings.Replace(validReply, `"Medium"`, `"Moderate"`, 1)

	_, err := DecodeAssessments(reply)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
	assert.Contains(t, err.Error(), "heatwave")
}

func TestDecodeAssessments_MissingHazard(t *testing.T) {
	_, err := DecodeAssessments(`{"wildfire": {"level": "Low", "reasoning": "x"}}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestDecodeAssessments_NotJSON(t *testing.T) {
	_, err := DecodeAssessments("The risk is low.")
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
}
