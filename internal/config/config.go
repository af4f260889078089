package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Profile            string        `toml:"profile"`
	Region             string        `toml:"region"`
	EndpointURL        string        `toml:"endpoint_url"`
	Toolsets           []string      `toml:"toolsets"`
	ReadOnly           bool          `toml:"read_only"`
	DisableDestructive bool          `toml:"disable_destructive"`
	LogLevel           string        `toml:"log_level"`
	LogFormat          string        `toml:"log_format"`
	Output             string        `toml:"output"`
	AuditLog           string        `toml:"audit_log"`
	AllowedTools       []string      `toml:"allowed_tools"`
	Safety             SafetyConfig  `toml:"safety"`
	Paging             PagingConfig  `toml:"paging"`
	Timeouts           TimeoutConfig `toml:"timeouts"`
	Clients            ClientConfig  `toml:"clients"`
	Redact             RedactConfig  `toml:"redact"`
}

type SafetyConfig struct {
	AllowDestructiveTools []string `toml:"allow_destructive_tools"`
}

// PagingConfig holds defaults for list operations. Zero means the service default.
type PagingConfig struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPages        int `toml:"max_pages"`
}

type TimeoutConfig struct {
	DefaultSeconds int            `toml:"default_seconds"`
	MaxSeconds     int            `toml:"max_seconds"`
	PerTool        map[string]int `toml:"per_tool"`
}

type ClientConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

type RedactConfig struct {
	Secrets *bool `toml:"secrets"`
}

// Enabled reports whether secrets are scrubbed from tool output. Defaults to true.
func (r RedactConfig) Enabled() bool {
	return r.Secrets == nil || *r.Secrets
}

type Overrides struct {
	Profile            *string
	Region             *string
	EndpointURL        *string
	Toolsets           *[]string
	ReadOnly           *bool
	DisableDestructive *bool
	LogLevel           *string
	LogFormat          *string
	Output             *string
	AuditLog           *string
}

func DefaultConfig() Config {
	return Config{
		Toolsets:  []string{"aws"},
		LogLevel:  "info",
		LogFormat: "console",
		Output:    "json",
		Paging: PagingConfig{
			DefaultPageSize: 100,
		},
		Timeouts: TimeoutConfig{
			DefaultSeconds: 30,
			MaxSeconds:     300,
		},
		Clients: ClientConfig{
			TTLSeconds: 900,
		},
	}
}

func Load(path string, dir string, overrides Overrides) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		merge(&cfg, fileCfg)
	}

	if dir != "" {
		files, err := dropInFiles(dir)
		if err != nil {
			return cfg, err
		}
		for _, file := range files {
			fileCfg, err := readFile(file)
			if err != nil {
				return cfg, err
			}
			merge(&cfg, fileCfg)
		}
	}

	applyOverrides(&cfg, overrides)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Output) {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output %q (want json or yaml)", c.Output)
	}
	if c.Paging.DefaultPageSize < 0 || c.Paging.DefaultPageSize > 1000 {
		return fmt.Errorf("paging.default_page_size must be between 0 and 1000, got %d", c.Paging.DefaultPageSize)
	}
	if c.Paging.MaxPages < 0 {
		return fmt.Errorf("paging.max_pages must not be negative")
	}
	return nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func dropInFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func merge(dst *Config, src Config) {
	mergeString(&dst.Profile, src.Profile)
	mergeString(&dst.Region, src.Region)
	mergeString(&dst.EndpointURL, src.EndpointURL)
	mergeString(&dst.LogLevel, src.LogLevel)
	mergeString(&dst.LogFormat, src.LogFormat)
	mergeString(&dst.Output, src.Output)
	mergeString(&dst.AuditLog, src.AuditLog)
	if len(src.Toolsets) > 0 {
		dst.Toolsets = append([]string{}, src.Toolsets...)
	}
	if src.ReadOnly {
		dst.ReadOnly = src.ReadOnly
	}
	if src.DisableDestructive {
		dst.DisableDestructive = src.DisableDestructive
	}
	if len(src.AllowedTools) > 0 {
		dst.AllowedTools = append([]string{}, src.AllowedTools...)
	}
	if len(src.Safety.AllowDestructiveTools) > 0 {
		dst.Safety.AllowDestructiveTools = append([]string{}, src.Safety.AllowDestructiveTools...)
	}
	if src.Paging.DefaultPageSize != 0 {
		dst.Paging.DefaultPageSize = src.Paging.DefaultPageSize
	}
	if src.Paging.MaxPages != 0 {
		dst.Paging.MaxPages = src.Paging.MaxPages
	}
	if src.Timeouts.DefaultSeconds != 0 {
		dst.Timeouts.DefaultSeconds = src.Timeouts.DefaultSeconds
	}
	if src.Timeouts.MaxSeconds != 0 {
		dst.Timeouts.MaxSeconds = src.Timeouts.MaxSeconds
	}
	for name, seconds := range src.Timeouts.PerTool {
		if dst.Timeouts.PerTool == nil {
			dst.Timeouts.PerTool = map[string]int{}
		}
		dst.Timeouts.PerTool[name] = seconds
	}
	if src.Clients.TTLSeconds != 0 {
		dst.Clients.TTLSeconds = src.Clients.TTLSeconds
	}
	if src.Redact.Secrets != nil {
		value := *src.Redact.Secrets
		dst.Redact.Secrets = &value
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.Profile != nil {
		cfg.Profile = *overrides.Profile
	}
	if overrides.Region != nil {
		cfg.Region = *overrides.Region
	}
	if overrides.EndpointURL != nil {
		cfg.EndpointURL = *overrides.EndpointURL
	}
	if overrides.Toolsets != nil {
		cfg.Toolsets = append([]string{}, (*overrides.Toolsets)...)
	}
	if overrides.ReadOnly != nil {
		cfg.ReadOnly = *overrides.ReadOnly
	}
	if overrides.DisableDestructive != nil {
		cfg.DisableDestructive = *overrides.DisableDestructive
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		cfg.LogFormat = *overrides.LogFormat
	}
	if overrides.Output != nil {
		cfg.Output = *overrides.Output
	}
	if overrides.AuditLog != nil {
		cfg.AuditLog = *overrides.AuditLog
	}
}
