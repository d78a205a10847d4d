package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyFeatures(t *testing.T) {
	text := "One owner. Leather Seats, SUNROOF, navigation, backup camera, Bluetooth, heated seats."
	got := ExtractKeyFeatures(text)

	assert.Equal(t, []string{"leather seats", "sunroof", "navigation", "backup camera", "bluetooth"}, got)
}

func TestExtractKeyFeaturesEmpty(t *testing.T) {
	assert.Empty(t, ExtractKeyFeatures("clean title, runs great"))
}
