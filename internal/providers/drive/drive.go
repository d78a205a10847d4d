// Package drive lists image files in shared Google Drive folders.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/drive/v3"

var (
	ErrNotConfigured = errors.New("drive_not_configured")
	ErrBadFolderURL  = errors.New("invalid_folder_url")
)

var folderIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

// FolderID extracts the folder identifier from a shared Drive folder URL.
func FolderID(folderURL string) (string, error) {
	if !strings.Contains(folderURL, "drive.google.com") {
		return "", ErrBadFolderURL
	}
	for _, re := range folderIDPatterns {
		if m := re.FindStringSubmatch(folderURL); m != nil {
			return m[1], nil
		}
	}
	return "", ErrBadFolderURL
}

type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

type Config struct {
	BaseURL string
	APIKey  string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}

// ListImages returns every image file in the folder, paging until exhausted.
func (c *Client) ListImages(ctx context.Context, folderID string) ([]File, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}

	query := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", folderID)

	var files []File
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("q", query)
		params.Set("fields", "nextPageToken, files(id, name, mimeType)")
		params.Set("pageSize", "200")
		params.Set("key", c.cfg.APIKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.cfg.BaseURL+"/files?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("drive request: %w", err)
		}

		var payload listResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("drive request: unexpected status %d", resp.StatusCode)
		}
		if err != nil {
			return nil, fmt.Errorf("drive response: %w", err)
		}

		files = append(files, payload.Files...)
		if payload.NextPageToken == "" {
			return files, nil
		}
		pageToken = payload.NextPageToken
	}
}
