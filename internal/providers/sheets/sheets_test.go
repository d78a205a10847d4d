package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet-1/values/Inventory!A2:S", r.URL.Path)
		assert.Equal(t, "api-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Inventory!A2:S",
			"values": [
				["For Sale", "A1", "VIN1", "2020", "Honda", "Civic"],
				["For Sale", "A2", "VIN2"]
			]
		}`))
	}))
	defer srv.Close()

	client := New(Config{
		BaseURL:       srv.URL,
		APIKey:        "api-key",
		SpreadsheetID: "sheet-1",
		Range:         "Inventory!A2:S",
	})

	rows, err := client.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Honda", rows[0][4])
	assert.Len(t, rows[1], 3)
}

func TestFetchRowsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "bad", SpreadsheetID: "s", Range: "A:S"})
	_, err := client.FetchRows(context.Background())
	assert.Error(t, err)
}
