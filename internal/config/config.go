package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"redpersona/internal/llm"
)

// Reddit usernames are 3-20 characters of letters, digits, underscore,
// or hyphen.
var validUsername = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Config holds all runtime configuration for redpersona. It is built
// once at startup and passed into each pipeline stage; no component
// reads the environment directly.
type Config struct {
	Username string

	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	Provider   llm.ProviderName
	Model      string
	APIKey     string
	BaseURL    string // OpenRouter-compatible endpoint override
	OllamaHost string

	MaxPosts    int
	MaxComments int
	OutputDir   string
	NoSave      bool
	Verbose     bool
}

// Validate checks that all required fields are set and consistent.
// Missing environment-backed values are reported together so the user
// can fix them in one pass.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("reddit username is required")
	}
	if !validUsername.MatchString(c.Username) {
		return fmt.Errorf("invalid reddit username %q", c.Username)
	}
	switch c.Provider {
	case llm.ProviderOpenRouter, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be openrouter, openai, anthropic, or ollama", c.Provider)
	}

	var missing []string
	if c.RedditClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.RedditClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.RedditUserAgent == "" {
		missing = append(missing, "REDDIT_USER_AGENT")
	}
	if c.APIKey == "" && c.Provider != llm.ProviderOllama {
		missing = append(missing, envKeyForProvider(c.Provider))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.MaxPosts < 1 {
		return fmt.Errorf("--max-posts must be at least 1")
	}
	if c.MaxComments < 1 {
		return fmt.Errorf("--max-comments must be at least 1")
	}
	return nil
}

// LoadFromEnv populates environment-dependent fields (credentials,
// keys, hosts, tunables). Flag values already set take precedence.
func (c *Config) LoadFromEnv() {
	c.RedditClientID = os.Getenv("REDDIT_CLIENT_ID")
	c.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	c.RedditUserAgent = os.Getenv("REDDIT_USER_AGENT")
	c.BaseURL = os.Getenv("OPENROUTER_BASE_URL")
	c.OllamaHost = os.Getenv("OLLAMA_HOST")
	if c.OllamaHost == "" {
		c.OllamaHost = "http://localhost:11434"
	}
	switch c.Provider {
	case llm.ProviderOpenRouter:
		c.APIKey = os.Getenv("OPENROUTER_API_KEY")
	case llm.ProviderOpenAI:
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	case llm.ProviderAnthropic:
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.MaxPosts == 0 {
		c.MaxPosts = intFromEnv("MAX_POSTS", 50)
	}
	if c.MaxComments == 0 {
		c.MaxComments = intFromEnv("MAX_COMMENTS", 50)
	}
	if c.OutputDir == "" {
		c.OutputDir = os.Getenv("OUTPUT_DIR")
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenRouter:
		return "deepseek/deepseek-chat-v3-0324"
	case llm.ProviderOpenAI:
		return "gpt-4o"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

func intFromEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
