package config

import (
	"os"
	"testing"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: "9000"
fuseki:
  base_url: http://fuseki:3030
  dataset: provinces
llm:
  provider: gemini
  api_key: dummy
  model: gemini-2.0-flash
  max_context_docs: 8
history:
  db_path: /tmp/chat.db
mcp:
  enabled: true
  addr: :9001
log_level: debug
`

// TestLoad verifies that Load unmarshals a full configuration file.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Fuseki.Dataset != "provinces" {
		t.Fatalf("unexpected dataset: %s", cfg.Fuseki.Dataset)
	}
	if cfg.LLM.MaxContextDocs != 8 {
		t.Fatalf("unexpected max_context_docs: %d", cfg.LLM.MaxContextDocs)
	}
	if !cfg.MCP.Enabled || cfg.MCP.Addr != ":9001" {
		t.Fatalf("mcp config not parsed: %+v", cfg.MCP)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

// TestLoad_Defaults verifies defaults apply when no config file is present.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Fuseki.QueryURL() != "http://localhost:3030/vn/query" {
		t.Fatalf("unexpected query url: %s", cfg.Fuseki.QueryURL())
	}
	if cfg.Fuseki.GraphStoreURL() != "http://localhost:3030/vn/data?default" {
		t.Fatalf("unexpected graph store url: %s", cfg.Fuseki.GraphStoreURL())
	}
}
