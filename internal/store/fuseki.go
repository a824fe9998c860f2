// Package store is a thin client for Apache Jena Fuseki: SPARQL SELECT over
// the query endpoint and Turtle bulk loading over the Graph Store Protocol.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/minhtn/ragchat/internal/config"
)

// formationQuery lists every merged province together with the provinces it
// was formed from, with canonical labels for both.
const formationQuery = `
PREFIX ex: <http://example.org/vn/ontology#>

SELECT ?new_province ?new_label ?old_province ?old_label WHERE {
?new_province ex:formedBy ?old_province .
?new_province ex:canonicalLabel ?new_label .
?old_province ex:canonicalLabel ?old_label .
}
ORDER BY ?new_label ?old_label
`

// Client talks to one Fuseki dataset.
type Client struct {
	cfg    config.FusekiConfig
	client *http.Client
}

// New creates a new Fuseki client.
func New(cfg config.FusekiConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// sparqlResults mirrors the application/sparql-results+json envelope.
type sparqlResults struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// SelectFormations runs the province-formation query and returns one context
// document per result row.
func (c *Client) SelectFormations(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("query", formationQuery)
	q.Set("format", "application/sparql-results+json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.QueryURL()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sparql query: unexpected status code: %d", resp.StatusCode)
	}

	var results sparqlResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("sparql query: decode results: %w", err)
	}

	docs := make([]string, 0, len(results.Results.Bindings))
	for _, b := range results.Results.Bindings {
		docs = append(docs, formatBinding(b))
	}
	return docs, nil
}

// formatBinding renders one result row as "var: value" pairs in a stable
// variable order.
func formatBinding(b map[string]struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}) string {
	vars := make([]string, 0, len(b))
	for v := range b {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	parts := make([]string, 0, len(vars))
	for _, v := range vars {
		parts = append(parts, v+": "+b[v].Value)
	}
	return strings.Join(parts, ", ")
}

// LoadTurtle uploads Turtle data into the default graph, replacing its
// contents. Any non-2xx response is a hard failure.
func (c *Client) LoadTurtle(ctx context.Context, data io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.GraphStoreURL(), data)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/turtle")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bulk load: unexpected status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// LoadTurtleFile uploads a Turtle file. A missing or unreadable file fails
// before any network call is attempted.
func (c *Client) LoadTurtleFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("turtle file: %w", err)
	}
	defer f.Close()

	return c.LoadTurtle(ctx, f)
}
