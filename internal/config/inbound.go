package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/meridianworks/meridian/pkg/formatting"
)

const (
	EnvInboundBasePath       = "MERIDIAN_INBOUND_BASE_PATH"
	EnvInboundSecret         = "MERIDIAN_INBOUND_SECRET"
	EnvInboundAllowedSenders = "MERIDIAN_INBOUND_ALLOWED_SENDERS"
	EnvInboundMaxMessageSize = "MERIDIAN_INBOUND_MAX_MESSAGE_SIZE"
)

// InboundConfig holds the inbound gateway's auth and intake settings.
// AllowedSenders is matched as case-insensitive substrings against the
// envelope sender; an empty list rejects every sender.
type InboundConfig struct {
	BasePath       string   `toml:"base_path"`
	Secret         string   `toml:"secret"`
	AllowedSenders []string `toml:"allowed_senders"`
	MaxMessageSize string   `toml:"max_message_size"`
}

// MaxMessageSizeBytes returns MaxMessageSize in bytes.
func (c *InboundConfig) MaxMessageSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxMessageSize)
	if err != nil {
		return 25 * 1024 * 1024 // 25MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InboundConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *InboundConfig) Merge(overlay *InboundConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if len(overlay.AllowedSenders) > 0 {
		c.AllowedSenders = overlay.AllowedSenders
	}
	if overlay.MaxMessageSize != "" {
		c.MaxMessageSize = overlay.MaxMessageSize
	}
}

func (c *InboundConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/inbound"
	}
	if c.MaxMessageSize == "" {
		c.MaxMessageSize = "25MB"
	}
}

func (c *InboundConfig) loadEnv() {
	if v := os.Getenv(EnvInboundBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvInboundSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvInboundAllowedSenders); v != "" {
		senders := strings.Split(v, ",")
		c.AllowedSenders = c.AllowedSenders[:0]
		for _, s := range senders {
			if s = strings.TrimSpace(s); s != "" {
				c.AllowedSenders = append(c.AllowedSenders, s)
			}
		}
	}
	if v := os.Getenv(EnvInboundMaxMessageSize); v != "" {
		c.MaxMessageSize = v
	}
}

func (c *InboundConfig) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("inbound secret required")
	}
	if _, err := formatting.ParseBytes(c.MaxMessageSize); err != nil {
		return fmt.Errorf("invalid max_message_size: %w", err)
	}
	return nil
}
