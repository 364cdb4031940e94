package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	xdgAppName = "tablero"
	configFile = "config.json"

	DefaultEndpoint       = "/tareas-filtradas"
	DefaultTimeoutSeconds = 15
	DefaultSheetRange     = "A1:Z"
	DefaultTopN           = 10
	DefaultLongTaskDays   = 30
)

type Config struct {
	APIURL           string `json:"api_url"`
	Endpoint         string `json:"endpoint"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	SpreadsheetID    string `json:"spreadsheet_id,omitempty"`
	SheetRange       string `json:"sheet_range,omitempty"`
	TopCollaborators int    `json:"top_collaborators"`
	LongTaskDays     int    `json:"long_task_days"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Endpoint:         DefaultEndpoint,
		TimeoutSeconds:   DefaultTimeoutSeconds,
		SheetRange:       DefaultSheetRange,
		TopCollaborators: DefaultTopN,
		LongTaskDays:     DefaultLongTaskDays,
	}
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the config file from the user's config directory and applies
// environment overrides.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path. A missing file yields the
// defaults. TABLERO_API_URL and TABLERO_API_TIMEOUT override the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if v := os.Getenv("TABLERO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TABLERO_API_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Warning: ignoring TABLERO_API_TIMEOUT=%q: %v", v, err)
		} else {
			cfg.TimeoutSeconds = secs
		}
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces blank or non-positive settings from a partial file.
func (c *Config) fillDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.SheetRange == "" {
		c.SheetRange = DefaultSheetRange
	}
	if c.TopCollaborators <= 0 {
		c.TopCollaborators = DefaultTopN
	}
	if c.LongTaskDays <= 0 {
		c.LongTaskDays = DefaultLongTaskDays
	}
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
