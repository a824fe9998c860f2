// Package ontology builds the provinces knowledge graph: fetch province
// resources from DBpedia, then merge them with a CSV mapping of old to new
// provinces into the formedBy/mergedInto graph the chatbot queries.
package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the public DBpedia SPARQL endpoint.
const DefaultEndpoint = "https://dbpedia.org/sparql"

// provinceQuery selects every Vietnamese province with its English label.
const provinceQuery = `
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX yago: <http://dbpedia.org/class/yago/>

SELECT DISTINCT ?province ?provinceLabel
WHERE {
  ?province rdf:type yago:WikicatProvincesOfVietnam .
  ?province rdfs:label ?provinceLabel .
  FILTER (lang(?provinceLabel) = "en")
}
`

// Province is one province resource with its label.
type Province struct {
	URI   string
	Label string
}

// Fetch queries the SPARQL endpoint for Vietnamese provinces.
func Fetch(ctx context.Context, endpoint string) ([]Province, error) {
	q := url.Values{}
	q.Set("query", provinceQuery)
	q.Set("format", "application/sparql-results+json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch provinces: unexpected status code: %d", resp.StatusCode)
	}

	var results struct {
		Results struct {
			Bindings []map[string]struct {
				Value string `json:"value"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("fetch provinces: decode results: %w", err)
	}

	provinces := make([]Province, 0, len(results.Results.Bindings))
	for _, b := range results.Results.Bindings {
		provinces = append(provinces, Province{
			URI:   b["province"].Value,
			Label: b["provinceLabel"].Value,
		})
	}
	return provinces, nil
}
