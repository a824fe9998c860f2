package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/minhtn/ragchat/internal/answerer"
	"github.com/minhtn/ragchat/internal/config"
	"github.com/minhtn/ragchat/internal/history"
	"github.com/minhtn/ragchat/internal/llm"
	"github.com/minhtn/ragchat/internal/logger"
	"github.com/minhtn/ragchat/internal/mcptool"
	"github.com/minhtn/ragchat/internal/server"
	"github.com/minhtn/ragchat/internal/store"
)

const version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chatbot server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("initialize llm client: %w", err)
	}
	logger.L.Info("llm provider configured", "provider", llmClient.Provider())
	// A missing key is not fatal: the service still answers with the raw
	// retrieved context.
	if cfg.LLM.APIKey == "" {
		logger.L.Warn("llm api key not configured; answers will use the context fallback")
	}

	fuseki := store.New(cfg.Fuseki)
	ask := answerer.New(llmClient, fuseki, cfg.LLM.MaxContextDocs)

	hist := history.Open(cfg.History.DBPath)
	defer hist.Close()

	if cfg.MCP.Enabled {
		go func() {
			if err := mcptool.Serve(ask, version, cfg.MCP.Addr); err != nil {
				logger.L.Error("mcp server stopped", "error", err)
			}
		}()
	}

	srv := server.New(ask, hist)
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting server", "address", serverAddr)
	return http.ListenAndServe(serverAddr, srv.Handler())
}
