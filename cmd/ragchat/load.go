package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhtn/ragchat/internal/config"
	"github.com/minhtn/ragchat/internal/store"
)

var (
	loadFusekiURL string
	loadDataset   string
)

var loadCmd = &cobra.Command{
	Use:   "load [turtle-file]",
	Short: "Bulk-load a Turtle file into the Fuseki default graph",
	Long: `load uploads a Turtle file over the Graph Store Protocol, replacing
the dataset's default graph. It fails fast: a missing file or a non-2xx
response exits non-zero with no retry.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFusekiURL, "fuseki", "http://localhost:3030", "Fuseki base URL")
	loadCmd.Flags().StringVar(&loadDataset, "dataset", "vn", "Fuseki dataset name")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	file := args[0]

	client := store.New(config.FusekiConfig{BaseURL: loadFusekiURL, Dataset: loadDataset})
	if err := client.LoadTurtleFile(cmd.Context(), file); err != nil {
		return err
	}

	fmt.Printf("loaded %s into %s/%s\n", file, loadFusekiURL, loadDataset)
	return nil
}
