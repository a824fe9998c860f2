package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Fuseki   FusekiConfig
	LLM      LLMConfig
	History  HistoryConfig
	MCP      MCPConfig `mapstructure:"mcp"`
	LogLevel string    `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// FusekiConfig holds the triple-store connection configuration
type FusekiConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Dataset string `mapstructure:"dataset"`
}

// LLMConfig holds the LLM provider configuration
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	// MaxContextDocs caps how many retrieved documents go into the prompt.
	// Zero means no cap: every triple in the store is sent as context.
	MaxContextDocs int `mapstructure:"max_context_docs"`
}

// HistoryConfig holds the chat history persistence configuration
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// MCPConfig holds the optional MCP tool surface configuration
type MCPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// QueryURL returns the SPARQL query endpoint for the configured dataset.
func (c FusekiConfig) QueryURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Dataset + "/query"
}

// GraphStoreURL returns the Graph Store Protocol endpoint for the default graph.
func (c FusekiConfig) GraphStoreURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Dataset + "/data?default"
}

// Load loads the configuration from config.yaml, or from the file named by
// the CONFIG_PATH environment variable. Environment variables with the
// RAGCHAT_ prefix override file values (e.g. RAGCHAT_LLM_API_KEY).
func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RAGCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("fuseki.base_url", "http://localhost:3030")
	v.SetDefault("fuseki.dataset", "vn")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	// Registered so the RAGCHAT_LLM_* env overrides bind even without a file.
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("history.db_path", filepath.Join(".", "history.db"))
	v.SetDefault("log_level", "info")
}
