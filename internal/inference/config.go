package inference

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds inference service connection parameters.
type Config struct {
	BaseURL         string `toml:"base_url"`
	Token           string `toml:"token"`
	Model           string `toml:"model"`
	MaxTokens       int    `toml:"max_tokens"`
	Timeout         string `toml:"timeout"`
	AnalysisTimeout string `toml:"analysis_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL         string
	Token           string
	Model           string
	MaxTokens       string
	Timeout         string
	AnalysisTimeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// AnalysisTimeoutDuration returns AnalysisTimeout as a time.Duration.
func (c *Config) AnalysisTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.AnalysisTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.AnalysisTimeout != "" {
		c.AnalysisTimeout = overlay.AnalysisTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2048
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.AnalysisTimeout == "" {
		c.AnalysisTimeout = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.AnalysisTimeout != "" {
		if v := os.Getenv(env.AnalysisTimeout); v != "" {
			c.AnalysisTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("inference base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid inference timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.AnalysisTimeout); err != nil {
		return fmt.Errorf("invalid inference analysis_timeout: %w", err)
	}
	return nil
}
