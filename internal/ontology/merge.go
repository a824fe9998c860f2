package ontology

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Mapping is one old-province to new-province edge from the CSV.
type Mapping struct {
	OldLabel string
	NewLabel string
}

// ParseMappingCSV reads the old->new province mapping. Header names are
// matched after trimming and lowercasing; the old_province cell may hold
// several labels separated by '|'.
func ParseMappingCSV(r io.Reader) ([]Mapping, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("mapping csv: read header: %w", err)
	}

	newIdx, oldIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "new_province":
			newIdx = i
		case "old_province":
			oldIdx = i
		}
	}
	if newIdx < 0 || oldIdx < 0 {
		return nil, fmt.Errorf("mapping csv: missing new_province/old_province columns in %v", header)
	}

	var mappings []Mapping
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mapping csv: %w", err)
		}
		if newIdx >= len(row) || oldIdx >= len(row) {
			continue
		}

		newLabel := strings.TrimSpace(row[newIdx])
		oldField := strings.TrimSpace(row[oldIdx])
		if newLabel == "" || oldField == "" {
			continue
		}
		for _, oldPart := range strings.Split(oldField, "|") {
			if oldLabel := strings.TrimSpace(oldPart); oldLabel != "" {
				mappings = append(mappings, Mapping{OldLabel: oldLabel, NewLabel: newLabel})
			}
		}
	}
	return mappings, nil
}

// Triple is one statement of the merged graph. Subject and, for resource
// objects, Object hold full IRIs; Predicate is a prefixed name. Literal
// objects carry their raw text with IsLiteral set.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	IsLiteral bool
}

// Graph is an ordered, duplicate-free triple list.
type Graph struct {
	triples []Triple
	seen    map[Triple]struct{}
}

func (g *Graph) add(t Triple) {
	if g.seen == nil {
		g.seen = make(map[Triple]struct{})
	}
	if _, ok := g.seen[t]; ok {
		return
	}
	g.seen[t] = struct{}{}
	g.triples = append(g.triples, t)
}

func (g *Graph) has(subject, predicate string) bool {
	for t := range g.seen {
		if t.Subject == subject && t.Predicate == predicate {
			return true
		}
	}
	return false
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Merge links the mapped provinces: ex:formedBy from each new province to
// the old ones it absorbed, ex:mergedInto the other way, and
// ex:canonicalLabel for the labels the chat queries match on. A new label
// with no DBpedia resource gets a minted local URI; an old label with no
// resource is skipped.
func Merge(provinces []Province, mappings []Mapping) *Graph {
	labelIndex := make(map[string]string, len(provinces))
	for _, p := range provinces {
		key := strings.ToLower(strings.TrimSpace(p.Label))
		if _, ok := labelIndex[key]; !ok {
			labelIndex[key] = p.URI
		}
	}
	resolve := func(label string) string {
		return labelIndex[strings.ToLower(strings.TrimSpace(label))]
	}

	g := &Graph{}
	for _, m := range mappings {
		oldURI := resolve(m.OldLabel)
		newURI := resolve(m.NewLabel)

		if newURI == "" {
			newURI = entityPrefix + slugify(m.NewLabel)
			g.add(Triple{newURI, "a", ontologyPrefix + "Province", false})
			g.add(Triple{newURI, "rdfs:label", m.NewLabel, true})
			g.add(Triple{newURI, "ex:canonicalLabel", m.NewLabel, true})
		}

		if oldURI == "" {
			continue
		}

		if !g.has(oldURI, "a") {
			g.add(Triple{oldURI, "a", ontologyPrefix + "Province", false})
			g.add(Triple{oldURI, "ex:canonicalLabel", m.OldLabel, true})
		}

		g.add(Triple{newURI, "ex:formedBy", oldURI, false})
		g.add(Triple{oldURI, "ex:mergedInto", newURI, false})
	}
	return g
}

// slugify lowercases a label and makes it URI-safe the same way the
// mapping labels are minted: spaces to dashes, đ transliterated.
func slugify(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "đ", "d")
	return s
}

// WriteMerged serializes the merged graph as Turtle, one triple per line.
func WriteMerged(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "@prefix ex: <%s> .\n", ontologyPrefix)
	fmt.Fprintln(bw, "@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .")
	fmt.Fprintln(bw)

	for _, t := range g.triples {
		object := t.Object
		if t.IsLiteral {
			object = quoteLiteral(t.Object)
		} else if strings.HasPrefix(object, "http://") || strings.HasPrefix(object, "https://") {
			object = "<" + object + ">"
		}
		fmt.Fprintf(bw, "<%s> %s %s .\n", t.Subject, t.Predicate, object)
	}

	return bw.Flush()
}
