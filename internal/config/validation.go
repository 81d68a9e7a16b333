package config

import (
	"fmt"
	"strings"
)

// Validate checks every setting for a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if strings.TrimSpace(c.WrapperDir) == "" {
		return fmt.Errorf("wrapperDir must not be empty")
	}
	if c.RelatedLimit <= 0 {
		return fmt.Errorf("relatedLimit must be greater than zero, got %d", c.RelatedLimit)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("pageSize must be greater than zero, got %d", c.PageSize)
	}
	if c.CommandTimeoutSeconds <= 0 {
		return fmt.Errorf("commandTimeoutSeconds must be greater than zero, got %d", c.CommandTimeoutSeconds)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}
