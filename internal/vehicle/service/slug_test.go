package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		year int
		mk   string
		mdl  string
		vin  string
		want string
	}{
		{"plain", 2020, "Honda", "Civic", "1HGBH41JXMN109186", "2020-honda-civic-109186"},
		{"lowercase vin", 2020, "Honda", "Civic", "1hgbh41jxmn109186", "2020-honda-civic-109186"},
		{"spaces in model", 2019, "Land Rover", "Range Rover", "SALGS2SE0KA109245", "2019-land-rover-range-rover-109245"},
		{"short vin", 2018, "Ford", "F-150", "109186", "2018-ford-f-150-109186"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.year, tt.mk, tt.mdl, tt.vin))
		})
	}
}

func TestGenerateSlugWithoutVIN(t *testing.T) {
	got := GenerateSlug(2020, "Honda", "Civic", "")
	assert.Contains(t, got, "2020-honda-civic-")
	assert.NotEqual(t, "2020-honda-civic-", got)
}
