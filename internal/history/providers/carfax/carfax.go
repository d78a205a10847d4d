package carfax

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lotkeeper/lotkeeper/internal/history/domain"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

const providerName = "carfax"

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
	resp, err := c.get(ctx, "/account")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) GetReport(ctx context.Context, vin string) (*domain.Report, error) {
	resp, err := c.get(ctx, "/reports/"+vin)
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
		return nil, fmt.Errorf("%w: carfax status %d", domain.ErrProviderFailed, resp.StatusCode)
	}

	var payload reportPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode carfax report: %v", domain.ErrProviderFailed, err)
	}
	return payload.normalize(vin), nil
}

func (c *Client) RequestReport(ctx context.Context, vin string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports?vin="+vin, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: carfax status %d", domain.ErrProviderFailed, resp.StatusCode)
	}
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode carfax request: %v", domain.ErrProviderFailed, err)
	}
	return body.RequestID, nil
}

func (c *Client) GetStatus(ctx context.Context, requestID string) (domain.RequestStatus, error) {
	resp, err := c.get(ctx, "/reports/requests/"+requestID)
	if err != nil {
		return domain.RequestFailed, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.RequestFailed, fmt.Errorf("%w: carfax status %d", domain.ErrProviderFailed, resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RequestFailed, fmt.Errorf("%w: decode carfax status: %v", domain.ErrProviderFailed, err)
	}
	switch strings.ToLower(body.Status) {
	case "complete", "completed", "ready":
		return domain.RequestCompleted, nil
	case "pending", "processing", "queued":
		return domain.RequestPending, nil
	default:
		return domain.RequestFailed, nil
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

type reportPayload struct {
	TitleBrand     string  `json:"titleBrand"`
	HistoryScore   int     `json:"historyScore"`
	OwnerCount     int     `json:"ownerCount"`
	AccidentCount  int     `json:"accidentCount"`
	ServiceRecords int     `json:"serviceRecordCount"`
	ReportURL      string  `json:"reportUrl"`
	TitleHistory   []event `json:"titleHistory"`
	Accidents      []event `json:"accidents"`
	ServiceHistory []event `json:"serviceHistory"`
}

type event struct {
	Date     string `json:"date"`
	State    string `json:"state"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
	Odometer int    `json:"odometer"`
}

func (p reportPayload) normalize(vin string) *domain.Report {
	report := &domain.Report{
		Provider:       providerName,
		VIN:            vin,
		TitleStatus:    mapTitleBrand(p.TitleBrand),
		Confidence:     clampConfidence(p.HistoryScore),
		OwnerCount:     p.OwnerCount,
		AccidentCount:  p.AccidentCount,
		ServiceRecords: p.ServiceRecords,
		ReportURL:      p.ReportURL,
		CheckedAt:      time.Now().UTC(),
	}
	for _, e := range p.TitleHistory {
		report.TitleEvents = append(report.TitleEvents, domain.TitleEvent{
			Date:   parseDate(e.Date),
			State:  e.State,
			Status: e.Detail,
		})
	}
	for _, e := range p.Accidents {
		report.Accidents = append(report.Accidents, domain.AccidentRecord{
			Date:     parseDate(e.Date),
			Severity: e.Severity,
			Detail:   e.Detail,
		})
	}
	for _, e := range p.ServiceHistory {
		report.ServiceEvents = append(report.ServiceEvents, domain.ServiceEvent{
			Date:     parseDate(e.Date),
			Odometer: e.Odometer,
			Detail:   e.Detail,
		})
	}
	return report
}

// mapTitleBrand folds CARFAX's brand vocabulary into the shared title set.
func mapTitleBrand(raw string) vehicledomain.TitleStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clean", "no brand":
		return vehicledomain.TitleClean
	case "salvage", "junk":
		return vehicledomain.TitleSalvage
	case "flood", "water damage":
		return vehicledomain.TitleFlood
	case "lemon", "manufacturer buyback":
		return vehicledomain.TitleLemon
	case "rebuilt", "reconstructed", "branded":
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
