package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhtn/ragchat/internal/ontology"
)

var (
	mergeProvinces string
	mergeMapping   string
	mergeOut       string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge fetched provinces with the old->new mapping CSV",
	Long: `merge combines the provinces Turtle file with a CSV mapping of old
to new provinces into the graph the chatbot queries: ex:formedBy,
ex:mergedInto and ex:canonicalLabel triples. Load the result with
"ragchat load".`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeProvinces, "provinces", "data/provinces.ttl", "provinces Turtle file from 'ragchat fetch'")
	mergeCmd.Flags().StringVar(&mergeMapping, "mapping", "data/mapping.csv", "CSV with new_province,old_province columns")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "data/merged.ttl", "output Turtle file")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	pf, err := os.Open(mergeProvinces)
	if err != nil {
		return fmt.Errorf("provinces file: %w", err)
	}
	defer pf.Close()
	provinces, err := ontology.ReadProvinces(pf)
	if err != nil {
		return err
	}

	mf, err := os.Open(mergeMapping)
	if err != nil {
		return fmt.Errorf("mapping file: %w", err)
	}
	defer mf.Close()
	mappings, err := ontology.ParseMappingCSV(mf)
	if err != nil {
		return err
	}

	graph := ontology.Merge(provinces, mappings)
	if err := writeTurtleFile(mergeOut, func(f *os.File) error {
		return ontology.WriteMerged(f, graph)
	}); err != nil {
		return err
	}

	fmt.Printf("wrote merged graph with %d triples to %s\n", graph.Len(), mergeOut)
	return nil
}
