package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DCADashboard/internal/model"
)

// FREDFetcher implements MacroFetcher using the St. Louis Fed observations API.
type FREDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewFREDFetcher(apiKey, proxyURL string, timeout time.Duration) *FREDFetcher {
	return &FREDFetcher{
		BaseURL: "https://api.stlouisfed.org",
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *FREDFetcher) Name() string { return "fred" }

type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorMessage string `json:"error_message"`
}

// FetchMacroSeries returns observations since the given date. FRED marks
// missing values with "."; those are dropped rather than read as zero.
func (f *FREDFetcher) FetchMacroSeries(ctx context.Context, code string, since time.Time) ([]model.Observation, error) {
	if f.APIKey == "" {
		return nil, ErrNoCredential
	}
	q := url.Values{}
	q.Set("series_id", code)
	q.Set("api_key", f.APIKey)
	q.Set("file_type", "json")
	q.Set("observation_start", since.Format("2006-01-02"))
	endpoint := f.BaseURL + "/fred/series/observations?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred fetch %s: %w", code, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred read body: %w", err)
	}
	var result fredObservations
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("fred decode %s: status %d: %w", code, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred %s: status %d: %s", code, resp.StatusCode, result.ErrorMessage)
	}

	obs := make([]model.Observation, 0, len(result.Observations))
	for _, o := range result.Observations {
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		d, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		obs = append(obs, model.Observation{Date: d, Value: v})
	}
	return normalizeSeries(obs, false), nil
}
