package ontology

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// The provinces file uses a fixed line-oriented Turtle subset: one subject
// line, one label line, one terminator. ReadProvinces only understands what
// WriteProvinces emits; the merged graph itself is loaded into Fuseki, which
// has a full parser.

const (
	ontologyPrefix = "http://example.org/vn/ontology#"
	entityPrefix   = "http://example.org/vn/entity/"
)

// WriteProvinces serializes the fetched provinces as Turtle.
func WriteProvinces(w io.Writer, provinces []Province) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "@prefix ex: <%s> .\n", ontologyPrefix)
	fmt.Fprintln(bw, "@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "ex:Province a rdfs:Class ;")
	fmt.Fprintln(bw, `    rdfs:label "Province" .`)

	for _, p := range provinces {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "<%s> a ex:Province ;\n", p.URI)
		fmt.Fprintf(bw, "    rdfs:label %s@en .\n", quoteLiteral(p.Label))
	}

	return bw.Flush()
}

// ReadProvinces parses a provinces file produced by WriteProvinces.
func ReadProvinces(r io.Reader) ([]Province, error) {
	var provinces []Province
	var current *Province

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "<") && strings.HasSuffix(line, "> a ex:Province ;"):
			uri := strings.TrimSuffix(strings.TrimPrefix(line, "<"), "> a ex:Province ;")
			provinces = append(provinces, Province{URI: uri})
			current = &provinces[len(provinces)-1]
		case strings.HasPrefix(line, "rdfs:label ") && current != nil:
			value := strings.TrimPrefix(line, "rdfs:label ")
			value = strings.TrimSuffix(value, " .")
			value = strings.TrimSuffix(value, "@en")
			label, err := unquoteLiteral(value)
			if err != nil {
				return nil, fmt.Errorf("read provinces: %w", err)
			}
			current.Label = label
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return provinces, nil
}

func quoteLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func unquoteLiteral(s string) (string, error) {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return "", fmt.Errorf("malformed literal: %s", s)
	}
	s = s[1 : len(s)-1]
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s, nil
}
