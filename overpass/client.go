// Package overpass queries the Overpass API for tagged OSM elements.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ippon1/Reparaturbonus/fetch"
)

const DefaultBaseURL = "https://overpass-api.de/api/interpreter"

// Element is one OSM node, way, or relation returned by the interpreter.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`
}

type interpreterResponse struct {
	Elements []Element `json:"elements"`
}

// Client issues Overpass QL queries over a fetch client.
type Client struct {
	baseURL string
	fetcher *fetch.Client
}

// NewClient builds a client against the given interpreter endpoint. An empty
// baseURL falls back to the public instance.
func NewClient(fetcher *fetch.Client, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, fetcher: fetcher}
}

// BuildAreaShopQuery renders the Overpass QL query selecting all nodes, ways,
// and relations with the given shop tag inside an administrative area.
func BuildAreaShopQuery(area, shop string) string {
	return fmt.Sprintf(`[out:json][timeout:25];
area["name"=%q]["boundary"="administrative"]["admin_level"="6"]->.searchArea;
(
  node["shop"=%q](area.searchArea);
  way["shop"=%q](area.searchArea);
  relation["shop"=%q](area.searchArea);
);
out center;`, area, shop, shop, shop)
}

// QueryShops posts the area/shop query and returns the decoded elements.
// A failed query is returned as an error; the caller decides whether that is
// fatal (it is for the collector, which has no dataset without it).
func (c *Client) QueryShops(ctx context.Context, area, shop string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("data", BuildAreaShopQuery(area, shop))

	resp, err := c.fetcher.PostForm(c.baseURL, form)
	if err != nil {
		return nil, fmt.Errorf("overpass query: %w", err)
	}

	var decoded interpreterResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return decoded.Elements, nil
}
