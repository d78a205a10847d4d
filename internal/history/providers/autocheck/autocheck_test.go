package autocheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

func TestMapTitleBrand(t *testing.T) {
	tests := []struct {
		raw  string
		want vehicledomain.TitleStatus
	}{
		{"Clear", vehicledomain.TitleClean},
		{"junk or scrapped", vehicledomain.TitleSalvage},
		{"storm damage", vehicledomain.TitleFlood},
		{"Lemon Law", vehicledomain.TitleLemon},
		{"rebuildable", vehicledomain.TitleBranded},
		{"mystery", vehicledomain.TitleUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapTitleBrand(tt.raw), "brand %q", tt.raw)
	}
}

func TestGetReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "/vehicle/history", r.URL.Path)
		assert.Equal(t, "1HGBH41JXMN109186", r.URL.Query().Get("vin"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"score": 95,
			"titleBrand": "clear",
			"owners": 1,
			"accidents": 0,
			"serviceCount": 12,
			"embedUrl": "https://autocheck.example.com/embed/1",
			"ownership": [{"start": "2020-01-10", "end": "2023-08-01", "type": "personal", "state": "TX"}]
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "secret")
	report, err := client.GetReport(context.Background(), "1HGBH41JXMN109186")
	require.NoError(t, err)

	assert.Equal(t, "autocheck", report.Provider)
	assert.Equal(t, 95, report.Confidence)
	assert.Equal(t, vehicledomain.TitleClean, report.TitleStatus)
	assert.Equal(t, "https://autocheck.example.com/embed/1", report.ReportURL)
	require.Len(t, report.OwnershipSpans, 1)
	assert.Equal(t, "TX", report.OwnershipSpans[0].State)
}
