package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

func TestRecordCarriesRowStatus(t *testing.T) {
	row := &SourceRow{
		Status: "Pending",
		VIN:    "1HGBH41JXMN109186",
		Year:   2020,
		Make:   "Honda",
		Model:  "Civic",
	}

	rec := row.Record([]string{"https://cdn.example.com/1.jpg"})
	assert.Equal(t, vehicledomain.StatusPending, rec.Status)

	row.Status = ""
	assert.Equal(t, vehicledomain.StatusForSale, row.Record(nil).Status)
}
