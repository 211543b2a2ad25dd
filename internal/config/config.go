package config

import (
	"fmt"

	"vsi-tools/internal/models"
)

// Config holds all configuration for the latency logger
type Config struct {
	LogFile      string               `mapstructure:"log-file"`
	Count        int                  `mapstructure:"count"`
	Source       string               `mapstructure:"source"`
	HistoryDB    string               `mapstructure:"history-db"`
	Retention    int                  `mapstructure:"history-retention-days"`
	Destinations []models.Destination `mapstructure:"destinations"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return fmt.Errorf("log file path cannot be empty")
	}
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if c.Source == "" {
		return fmt.Errorf("source label cannot be empty")
	}
	if c.Retention < 0 {
		return fmt.Errorf("history retention cannot be negative")
	}
	if len(c.Destinations) == 0 {
		return fmt.Errorf("at least one destination must be specified")
	}
	for i, d := range c.Destinations {
		if d.Host == "" || d.Label == "" {
			return fmt.Errorf("destination %d must have both host and label", i)
		}
	}
	return nil
}
