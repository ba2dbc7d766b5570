package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigRelPath = ".rest2mcp/config.yaml"

// ProjectConfig describes the project to scaffold. All fields are
// required for convert and have no defaults.
type ProjectConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Package string `yaml:"package"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Region      string  `yaml:"region"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type SanitizeConfig struct {
	Headers     []string `yaml:"headers"`
	Fields      []string `yaml:"fields"`
	Replacement string   `yaml:"replacement"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Sanitize SanitizeConfig `yaml:"sanitize"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// Load loads YAML config, then applies env overrides. A .env file in the
// working directory is read first, matching the original tool's behavior.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.SetDefaults()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.Region == "" {
		c.LLM.Region = "us-east-1"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if len(c.Sanitize.Headers) == 0 {
		c.Sanitize.Headers = []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key", "X-Auth-Token"}
	}
	if len(c.Sanitize.Fields) == 0 {
		c.Sanitize.Fields = []string{"password", "secret", "token", "api_key", "access_token", "refresh_token", "credential"}
	}
	if c.Sanitize.Replacement == "" {
		c.Sanitize.Replacement = "***REDACTED***"
	}
	if c.History.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.History.Path = filepath.Join(home, ".rest2mcp", "rest2mcp.db")
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ValidateConvert enforces convert-specific requirements. It runs before
// any model call so that a bad config never costs a network round trip.
func (c *Config) ValidateConvert() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return errors.New("project.name cannot be empty")
	}
	if strings.TrimSpace(c.Project.Version) == "" {
		return errors.New("project.version cannot be empty")
	}
	if strings.TrimSpace(c.Project.Package) == "" {
		return errors.New("project.package cannot be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.api_key cannot be empty")
	}
	return nil
}

func applyEnvOverrides(c *Config) {
	setString(&c.Project.Name, "REST2MCP_PROJECT_NAME")
	setString(&c.Project.Version, "REST2MCP_PROJECT_VERSION")
	setString(&c.Project.Package, "REST2MCP_PROJECT_PACKAGE")
	setInt(&c.Server.Port, "REST2MCP_SERVER_PORT")
	setString(&c.LLM.Provider, "REST2MCP_LLM_PROVIDER")
	setString(&c.LLM.APIKey, "REST2MCP_LLM_API_KEY")
	setString(&c.LLM.BaseURL, "REST2MCP_LLM_BASE_URL")
	setString(&c.LLM.Model, "REST2MCP_LLM_MODEL")
	setInt(&c.LLM.MaxTokens, "REST2MCP_LLM_MAX_TOKENS")
	setFloat(&c.LLM.Temperature, "REST2MCP_LLM_TEMPERATURE")
	setString(&c.History.Path, "REST2MCP_HISTORY_PATH")
	setString(&c.Log.Level, "REST2MCP_LOG_LEVEL")
	// The hosted inference region keeps its conventional variable name.
	setString(&c.LLM.Region, "AWS_REGION")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = n
		}
	}
}
