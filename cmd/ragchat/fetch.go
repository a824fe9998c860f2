package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/minhtn/ragchat/internal/ontology"
)

var (
	fetchEndpoint string
	fetchOut      string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch Vietnamese provinces from DBpedia into a Turtle file",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchEndpoint, "endpoint", ontology.DefaultEndpoint, "SPARQL endpoint to query")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "data/provinces.ttl", "output Turtle file")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	provinces, err := ontology.Fetch(cmd.Context(), fetchEndpoint)
	if err != nil {
		return err
	}

	if err := writeTurtleFile(fetchOut, func(f *os.File) error {
		return ontology.WriteProvinces(f, provinces)
	}); err != nil {
		return err
	}

	fmt.Printf("wrote %d provinces to %s\n", len(provinces), fetchOut)
	return nil
}

func writeTurtleFile(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
