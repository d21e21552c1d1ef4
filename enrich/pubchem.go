package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chemtrack/model"
)

// Client queries a PubChem-style REST service for hazard data by free-text
// name. A miss or an unreachable service is reported as
// model.ErrEnrichmentUnavailable; the caller degrades to manual entry.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// keywordMap translates common store-label words to the scientific name the
// enrichment service actually knows.
var keywordMap = map[string]string{
	"bleach":         "sodium hypochlorite",
	"clorox":         "sodium hypochlorite",
	"domestos":       "sodium hypochlorite",
	"acetone":        "acetone",
	"polish remover": "acetone",
	"spirit":         "mineral spirits",
	"turpentine":     "turpentine",
	"ethanol":        "ethanol",
	"alcohol":        "ethanol",
	"methanol":       "methanol",
	"drain":          "sodium hydroxide",
	"soda":           "sodium bicarbonate",
}

// hazardKeywords maps GHS H-statement prefixes to display labels.
var hazardKeywords = []struct {
	code  string
	label string
}{
	{"H22", "Flammable"},
	{"H30", "Toxic"},
	{"H31", "Irritant"},
	{"H35", "Carcinogenic"},
	{"H314", "Corrosive"},
	{"H4", "Aquatic Hazard"},
}

// ResolveQuery maps a free-text label to the name submitted to the service.
func ResolveQuery(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for keyword, scientific := range keywordMap {
		if strings.Contains(lower, keyword) {
			return scientific
		}
	}
	return strings.TrimSpace(name)
}

// Lookup enriches a chemical by name: resolve the compound ID, then pull the
// GHS classification and official title.
func (c *Client) Lookup(ctx context.Context, name string) (*model.EnrichmentResult, error) {
	query := ResolveQuery(name)
	if query == "" {
		return nil, fmt.Errorf("empty name: %w", model.ErrEnrichmentUnavailable)
	}

	cid, err := c.fetchCID(ctx, query)
	if err != nil {
		return nil, err
	}

	hazards := c.fetchHazards(ctx, cid)

	title, err := c.fetchTitle(ctx, cid)
	if err != nil {
		// The compound exists; a missing title is not worth failing over.
		title = query
	}

	return &model.EnrichmentResult{
		Found:       true,
		Name:        title,
		Hazards:     hazards,
		Description: fmt.Sprintf("PubChem CID %d", cid),
		SdsLink:     fmt.Sprintf("%s/compound/%d#section=Safety-and-Hazards", c.BaseURL, cid),
	}, nil
}

func (c *Client) fetchCID(ctx context.Context, query string) (int64, error) {
	endpoint := fmt.Sprintf("%s/rest/pug/compound/name/%s/cids/JSON", c.BaseURL, url.PathEscape(query))
	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("enrichment service unreachable: %w", err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("no compound match for %q: %w", query, model.ErrEnrichmentUnavailable)
	}

	var payload struct {
		IdentifierList struct {
			CID []int64 `json:"CID"`
		} `json:"IdentifierList"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.IdentifierList.CID) == 0 {
		return 0, fmt.Errorf("no compound id for %q: %w", query, model.ErrEnrichmentUnavailable)
	}
	return payload.IdentifierList.CID[0], nil
}

// fetchHazards scans the GHS classification document for known H-statement
// codes. The document is large and deeply nested; a keyword scan over the
// raw body is what the data actually supports.
func (c *Client) fetchHazards(ctx context.Context, cid int64) string {
	endpoint := fmt.Sprintf("%s/rest/pug_view/data/compound/%d/JSON?heading=GHS%%20Classification", c.BaseURL, cid)
	body, status, err := c.get(ctx, endpoint)
	if err != nil || status != http.StatusOK {
		return "Check SDS"
	}

	text := string(body)
	var labels []string
	seen := map[string]bool{}
	for _, hk := range hazardKeywords {
		if strings.Contains(text, hk.code) && !seen[hk.label] {
			labels = append(labels, hk.label)
			seen[hk.label] = true
		}
	}
	if len(labels) == 0 {
		return "Check SDS"
	}
	return strings.Join(labels, ", ")
}

func (c *Client) fetchTitle(ctx context.Context, cid int64) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/pug/compound/cid/%d/property/Title/JSON", c.BaseURL, cid)
	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("title lookup failed with status %d", status)
	}

	var payload struct {
		PropertyTable struct {
			Properties []struct {
				Title string `json:"Title"`
			} `json:"Properties"`
		} `json:"PropertyTable"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.PropertyTable.Properties) == 0 {
		return "", fmt.Errorf("title missing for CID %d", cid)
	}
	return payload.PropertyTable.Properties[0].Title, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
