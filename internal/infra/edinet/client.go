package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"edinet_notifier/internal/domain/disclosure"
	"edinet_notifier/internal/infra/httpretry"
)

// documentListType selects metadata plus the document list.
const documentListType = "2"

// Client reads the EDINET v2 document list.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpretry.Client
}

func NewClient(baseURL, apiKey string, httpClient *httpretry.Client) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

type documentListResponse struct {
	Metadata struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"metadata"`
	Results []disclosure.Record `json:"results"`
}

// Documents returns the records filed on date (formatted in date's zone).
// A null or missing results array is an empty day, not an error.
func (c *Client) Documents(ctx context.Context, date time.Time) ([]disclosure.Record, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("type", documentListType)
	if c.apiKey != "" {
		params.Set("Subscription-Key", c.apiKey)
	}
	endpoint := c.baseURL + "/documents.json?" + params.Encode()

	resp, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error requesting EDINET document list: %w", err)
	}
	defer resp.Body.Close()

	var body documentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding EDINET document list: %w", err)
	}
	// EDINET may answer 200 with an error status in the metadata envelope.
	if body.Metadata.Status != "" && body.Metadata.Status != "200" {
		return nil, fmt.Errorf("EDINET API returned status %s: %s", body.Metadata.Status, body.Metadata.Message)
	}
	if body.Results == nil {
		return []disclosure.Record{}, nil
	}
	return body.Results, nil
}

// DocumentURL links to the PDF rendition of docID.
func DocumentURL(baseURL, docID string) string {
	return fmt.Sprintf("%s/documents/%s?type=2", baseURL, docID)
}
