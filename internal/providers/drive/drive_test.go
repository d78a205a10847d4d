package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"folders link", "https://drive.google.com/drive/folders/1AbC_d-3?usp=sharing", "1AbC_d-3", false},
		{"open link", "https://drive.google.com/open?id=XYZ789", "XYZ789", false},
		{"not drive", "https://example.com/folders/abc", "", true},
		{"no id", "https://drive.google.com/drive/my-drive", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FolderID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadFolderURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListImagesPages(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "'folder-1' in parents")
		w.Header().Set("Content-Type", "application/json")
		if page == 0 {
			page++
			_, _ = w.Write([]byte(`{
				"files": [{"id": "f1", "name": "2020-honda-civic-1.jpg", "mimeType": "image/jpeg"}],
				"nextPageToken": "page2"
			}`))
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{
			"files": [{"id": "f2", "name": "2020-honda-civic-2.jpg", "mimeType": "image/jpeg"}]
		}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "key"})
	files, err := client.ListImages(context.Background(), "folder-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "f2", files[1].ID)
}

func TestListImagesNotConfigured(t *testing.T) {
	var client *Client
	_, err := client.ListImages(context.Background(), "folder-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
