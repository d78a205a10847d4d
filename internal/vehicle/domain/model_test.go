package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want VehicleStatus
	}{
		{"for-sale", StatusForSale},
		{"pending", StatusPending},
		{"Pending", StatusPending},
		{"sold", StatusSold},
		{" SOLD ", StatusSold},
		{"", StatusForSale},
		{"something-else", StatusForSale},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeStatus(tc.raw), "raw %q", tc.raw)
	}
}
