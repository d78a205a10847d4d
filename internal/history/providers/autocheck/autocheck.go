package autocheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lotkeeper/lotkeeper/internal/history/domain"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

const providerName = "autocheck"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Authenticate(ctx context.Context) (bool, error) {
	if c.apiKey == "" {
		return false, nil
	}
	resp, err := c.get(ctx, "/auth/verify", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) GetReport(ctx context.Context, vin string) (*domain.Report, error) {
	resp, err := c.get(ctx, "/vehicle/history", url.Values{"vin": {vin}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrNotAvailable
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: autocheck status %d", domain.ErrProviderFailed, resp.StatusCode)
	}

	var payload reportPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode autocheck report: %v", domain.ErrProviderFailed, err)
	}
	return payload.normalize(vin), nil
}

func (c *Client) RequestReport(ctx context.Context, vin string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/vehicle/history/request?vin="+url.QueryEscape(vin), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: autocheck status %d", domain.ErrProviderFailed, resp.StatusCode)
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode autocheck request: %v", domain.ErrProviderFailed, err)
	}
	return body.ID, nil
}

func (c *Client) GetStatus(ctx context.Context, requestID string) (domain.RequestStatus, error) {
	resp, err := c.get(ctx, "/vehicle/history/request/"+requestID, nil)
	if err != nil {
		return domain.RequestFailed, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.RequestFailed, fmt.Errorf("%w: autocheck status %d", domain.ErrProviderFailed, resp.StatusCode)
	}
	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RequestFailed, fmt.Errorf("%w: decode autocheck status: %v", domain.ErrProviderFailed, err)
	}
	switch strings.ToLower(body.State) {
	case "done", "completed":
		return domain.RequestCompleted, nil
	case "in_progress", "pending":
		return domain.RequestPending, nil
	default:
		return domain.RequestFailed, nil
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

type reportPayload struct {
	Score        int    `json:"score"`
	TitleBrand   string `json:"titleBrand"`
	Owners       int    `json:"owners"`
	Accidents    int    `json:"accidents"`
	ServiceCount int    `json:"serviceCount"`
	EmbedURL     string `json:"embedUrl"`
	Ownership    []struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Type  string `json:"type"`
		State string `json:"state"`
	} `json:"ownership"`
	AccidentDetail []struct {
		Date     string `json:"date"`
		Severity string `json:"severity"`
		Detail   string `json:"detail"`
	} `json:"accidentDetail"`
}

func (p reportPayload) normalize(vin string) *domain.Report {
	report := &domain.Report{
		Provider:       providerName,
		VIN:            vin,
		TitleStatus:    mapTitleBrand(p.TitleBrand),
		Confidence:     clampConfidence(p.Score),
		OwnerCount:     p.Owners,
		AccidentCount:  p.Accidents,
		ServiceRecords: p.ServiceCount,
		ReportURL:      p.EmbedURL,
		CheckedAt:      time.Now().UTC(),
	}
	for _, span := range p.Ownership {
		report.OwnershipSpans = append(report.OwnershipSpans, domain.OwnershipSpan{
			Start:     parseDate(span.Start),
			End:       parseDate(span.End),
			OwnerType: span.Type,
			State:     span.State,
		})
	}
	for _, acc := range p.AccidentDetail {
		report.Accidents = append(report.Accidents, domain.AccidentRecord{
			Date:     parseDate(acc.Date),
			Severity: acc.Severity,
			Detail:   acc.Detail,
		})
	}
	return report
}

// mapTitleBrand folds AutoCheck's brand vocabulary into the shared title set.
// AutoCheck phrases differ from CARFAX's, so the mapping is provider-local.
func mapTitleBrand(raw string) vehicledomain.TitleStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clear", "clean":
		return vehicledomain.TitleClean
	case "salvage", "junk or scrapped":
		return vehicledomain.TitleSalvage
	case "storm damage", "flood damage":
		return vehicledomain.TitleFlood
	case "lemon law", "manufacturer buyback":
		return vehicledomain.TitleLemon
	case "rebuilt", "rebuildable", "branded title":
		return vehicledomain.TitleBranded
	default:
		return vehicledomain.TitleUnknown
	}
}

func clampConfidence(score int) int {
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return score
}

func parseDate(raw string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
