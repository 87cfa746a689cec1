package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Tunables loaded from the optional YAML file. Zero values keep the defaults.
//
//	map:
//	  center: [50.2099, 15.8325]
//	  zoom: 11
//	  focusZoom: 14
//	  padding: [50, 50]
//	  flyDuration: 1.5s
//	  popupDelay: 1s
//	polling:
//	  commands: 2s
//	  health: 30s
//	chat:
//	  messagesPerMinute: 20
//	  burst: 5
//	  idleTimeout: 30m
//	  sweepInterval: 1m
type FileConfig struct {
	Map struct {
		Center      []float64 `yaml:"center"`
		Zoom        int       `yaml:"zoom"`
		FocusZoom   int       `yaml:"focusZoom"`
		Padding     []int     `yaml:"padding"`
		FlyDuration string    `yaml:"flyDuration"`
		PopupDelay  string    `yaml:"popupDelay"`
	} `yaml:"map"`
	Polling struct {
		Commands string `yaml:"commands"`
		Health   string `yaml:"health"`
	} `yaml:"polling"`
	Chat struct {
		MessagesPerMinute int    `yaml:"messagesPerMinute"`
		Burst             int    `yaml:"burst"`
		IdleTimeout       string `yaml:"idleTimeout"`
		SweepInterval     string `yaml:"sweepInterval"`
	} `yaml:"chat"`
}

func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("load config file %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

func Parse(r io.Reader) (FileConfig, error) {
	var cfg FileConfig

	b, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("parse config: read: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Parse an optional duration field, returning fallback when it is empty.
func Duration(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", v, err)
	}
	return d, nil
}
