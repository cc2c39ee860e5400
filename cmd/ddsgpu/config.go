package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the ddsgpu configuration file (~/.config/ddsgpu/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	LibraryDir string `yaml:"library_dir"`
	SRGB       *bool  `yaml:"srgb"`

	// Packing
	CompressionLevel *int64 `yaml:"compression_level"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	PreviewSize   *int64 `yaml:"preview_size"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ddsgpu", "config.yaml")
}

// LoadConfig reads the config file at path. A missing or unreadable file
// yields a zero Config.
func LoadConfig(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}
	}
	return c
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applySRGBConfig(c *cli.Command, cfg Config) {
	if cfg.SRGB != nil && !c.IsSet("srgb") {
		srgb = *cfg.SRGB
	}
}

// libraryDir returns the directory argument, falling back to the configured
// library.
func libraryDir(c *cli.Command, cfg Config) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	if cfg.LibraryDir != "" {
		return cfg.LibraryDir
	}
	return "."
}

func applyPackConfig(c *cli.Command, cfg Config, level *int64) {
	if cfg.CompressionLevel != nil && !c.IsSet("level") {
		*level = *cfg.CompressionLevel
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, previewSize *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.PreviewSize != nil && !c.IsSet("preview-size") {
		*previewSize = *cfg.PreviewSize
	}
}
