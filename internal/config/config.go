// Package config loads PantryPal settings. Precedence, lowest first:
// defaults, YAML file, environment, command-line flags (applied by the
// caller on the returned Config).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/pantrypal/internal/matcher"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Environment variables read by ApplyEnv.
const (
	EnvPrefix         = "PANTRYPAL_"
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvGPTKey         = "GPT_CHAT_KEY"
	EnvGPTEndpoint    = "GPT_CHAT_ENDPOINT"
	DefaultConfigFile = "pantrypal.yaml"
)

// Config is the complete application configuration.
type Config struct {
	OwnerID     string        `yaml:"owner_id"`
	Model       ModelConfig   `yaml:"model"`
	Storage     StorageConfig `yaml:"storage"`
	Matcher     MatcherConfig `yaml:"matcher"`
	Flow        FlowConfig    `yaml:"flow"`
	RecipesFile string        `yaml:"recipes_file"`
	Log         LogConfig     `yaml:"log"`
}

// ModelConfig selects and tunes the chat model backend.
type ModelConfig struct {
	// Provider is "gemini" or "openai" (any OpenAI-compatible endpoint).
	Provider    string        `yaml:"provider"`
	Name        string        `yaml:"name"`
	APIKey      string        `yaml:"api_key"`
	Endpoint    string        `yaml:"endpoint"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	// RequestsPerMinute caps outgoing calls; 0 disables the limiter.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type MatcherConfig struct {
	// Staples replace the built-in always-available ingredients when set.
	Staples    []string `yaml:"staples"`
	CrossCheck string   `yaml:"crosscheck"`
}

type FlowConfig struct {
	// MaxRounds caps clarification questions per recipe check; 0 is unlimited.
	MaxRounds int `yaml:"max_rounds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		OwnerID: "local",
		Model: ModelConfig{
			Provider:    ProviderGemini,
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     30 * time.Second,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Path:    ".pantrypal/pantrypal.db",
		},
		Matcher: MatcherConfig{CrossCheck: string(matcher.CrossCheckOff)},
		Flow:    FlowConfig{MaxRounds: 3},
		Log: LogConfig{
			Level: "normal",
			File:  ".pantrypal/pantrypal.log",
		},
	}
}

// Load reads path over the defaults and then applies the environment.
// A missing file is not an error when path is the default file name.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if !(errors.Is(err, os.ErrNotExist) && path == DefaultConfigFile) {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables. getenv is
// usually os.Getenv. Malformed numbers are ignored and left to Validate.
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	// Provider-specific keys first so PANTRYPAL_* wins.
	if v := getenv(EnvGPTKey); v != "" {
		if getenv(EnvGeminiKey) == "" {
			c.Model.Provider = ProviderOpenAI
		}
		if c.Model.Provider == ProviderOpenAI {
			c.Model.APIKey = v
		}
	}
	if c.Model.Provider == ProviderOpenAI {
		str(EnvGPTEndpoint, &c.Model.Endpoint)
	}
	if v := getenv(EnvGeminiKey); v != "" && c.Model.Provider == ProviderGemini {
		c.Model.APIKey = v
	}

	str(EnvPrefix+"OWNER_ID", &c.OwnerID)
	str(EnvPrefix+"MODEL_PROVIDER", &c.Model.Provider)
	str(EnvPrefix+"MODEL_NAME", &c.Model.Name)
	str(EnvPrefix+"MODEL_API_KEY", &c.Model.APIKey)
	str(EnvPrefix+"MODEL_ENDPOINT", &c.Model.Endpoint)
	str(EnvPrefix+"STORAGE_BACKEND", &c.Storage.Backend)
	str(EnvPrefix+"STORAGE_PATH", &c.Storage.Path)
	str(EnvPrefix+"MATCHER_CROSSCHECK", &c.Matcher.CrossCheck)
	str(EnvPrefix+"RECIPES_FILE", &c.RecipesFile)
	str(EnvPrefix+"LOG_LEVEL", &c.Log.Level)
	str(EnvPrefix+"LOG_FILE", &c.Log.File)

	if v := getenv(EnvPrefix + "MATCHER_STAPLES"); v != "" {
		c.Matcher.Staples = splitList(v)
	}
	if v, err := strconv.ParseFloat(getenv(EnvPrefix+"MODEL_TEMPERATURE"), 32); err == nil {
		c.Model.Temperature = float32(v)
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "MODEL_MAX_TOKENS")); err == nil {
		c.Model.MaxTokens = v
	}
	if v, err := time.ParseDuration(getenv(EnvPrefix + "MODEL_TIMEOUT")); err == nil {
		c.Model.Timeout = v
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "MODEL_REQUESTS_PER_MINUTE")); err == nil {
		c.Model.RequestsPerMinute = v
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "FLOW_MAX_ROUNDS")); err == nil {
		c.Flow.MaxRounds = v
	}
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateOffline is Validate without the model credentials, for
// commands that never call the model.
func (c *Config) ValidateOffline() error {
	return c.validate(false)
}

func (c *Config) validate(needModel bool) error {
	var errs []error
	if strings.TrimSpace(c.OwnerID) == "" {
		errs = append(errs, errors.New("owner_id is required"))
	}

	switch c.Model.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("model.provider %q must be %s or %s", c.Model.Provider, ProviderGemini, ProviderOpenAI))
	}
	if needModel && c.Model.APIKey == "" {
		errs = append(errs, fmt.Errorf("model.api_key is required (set %s or %s)", EnvGeminiKey, EnvGPTKey))
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature %.2f must be between 0 and 2", c.Model.Temperature))
	}
	if c.Model.MaxTokens <= 0 {
		errs = append(errs, errors.New("model.max_tokens must be positive"))
	}
	if c.Model.Timeout <= 0 {
		errs = append(errs, errors.New("model.timeout must be positive"))
	}
	if c.Model.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("model.requests_per_minute cannot be negative"))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q must be %s or %s", c.Storage.Backend, BackendMemory, BackendSQLite))
	}

	if _, err := matcher.ParseCrossCheckMode(c.Matcher.CrossCheck); err != nil {
		errs = append(errs, fmt.Errorf("matcher.crosscheck: %w", err))
	}
	if c.Flow.MaxRounds < 0 {
		errs = append(errs, errors.New("flow.max_rounds cannot be negative"))
	}

	return errors.Join(errs...)
}

// CrossCheckMode returns the parsed matcher mode. Call after Validate.
func (c *Config) CrossCheckMode() matcher.CrossCheckMode {
	m, _ := matcher.ParseCrossCheckMode(c.Matcher.CrossCheck)
	return m
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
