package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "RAG chatbot over a Vietnamese provinces knowledge graph",
	Long: `ragchat serves a chat UI and /ask endpoint backed by a Fuseki
triple-store and an LLM, and ships the data tooling that builds and loads
the knowledge graph.

Running ragchat without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
