package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is codepad's settings file. JSON is the native format; .yaml, .yml
// and .toml paths are read and written in those formats instead. Zero values
// mean "use the default".
type Config struct {
	StateDir     string `json:"stateDir,omitempty" yaml:"stateDir,omitempty" toml:"stateDir,omitempty"`         // store + log live here
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`             // store key prefix
	QuotaBytes   int64  `json:"quotaBytes,omitempty" yaml:"quotaBytes,omitempty" toml:"quotaBytes,omitempty"`     // 0 = DefaultQuota, <0 = unlimited
	Language     string `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`         // initial language
	Locale       string `json:"locale,omitempty" yaml:"locale,omitempty" toml:"locale,omitempty"`             // "" = system
	ExportDir    string `json:"exportDir,omitempty" yaml:"exportDir,omitempty" toml:"exportDir,omitempty"`       // downloads go here
	CompactWidth int    `json:"compactWidth,omitempty" yaml:"compactWidth,omitempty" toml:"compactWidth,omitempty"` // columns
	Theme        string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`               // "dark" | "light"
	Wrap         *bool  `json:"wrap,omitempty" yaml:"wrap,omitempty" toml:"wrap,omitempty"`
	MaxImport    int64  `json:"maxImportBytes,omitempty" yaml:"maxImportBytes,omitempty" toml:"maxImportBytes,omitempty"`
}

// DefaultQuota mirrors the few megabytes a browser grants local storage.
const DefaultQuota = 5 << 20

const StoreFile = "store.json"

// DefaultDir is ~/.config/codepad (or the platform equivalent).
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "codepad")
	}
	return ".codepad"
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath() string { return filepath.Join(DefaultDir(), "config.json") }

func Default() *Config {
	wrap := true
	return &Config{
		StateDir:   DefaultDir(),
		Prefix:     "codepad-v1",
		QuotaBytes: DefaultQuota,
		Language:   "javascript",
		ExportDir:  defaultExportDir(),
		Theme:      "dark",
		Wrap:       &wrap,
	}
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	if d := filepath.Join(home, "Downloads"); isDir(d) {
		return d
	}
	return home
}

func isDir(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	}
	return formatJSON
}

// Load reads path and fills unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	switch formatOf(path) {
	case formatYAML:
		err = yaml.Unmarshal(data, &c)
	case formatTOML:
		err = toml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Merge(Default(), &c), nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config: theme must be dark or light, got %q", c.Theme)
	}
	if c.CompactWidth < 0 {
		return fmt.Errorf("config: compactWidth must not be negative")
	}
	if strings.ContainsAny(c.Prefix, " \t\n") {
		return fmt.Errorf("config: prefix %q contains whitespace", c.Prefix)
	}
	return nil
}

// Merge overlays the set fields of over onto a copy of base.
func Merge(base, over *Config) *Config {
	out := Clone(base)
	if over == nil {
		return out
	}
	if over.StateDir != "" {
		out.StateDir = over.StateDir
	}
	if over.Prefix != "" {
		out.Prefix = over.Prefix
	}
	if over.QuotaBytes != 0 {
		out.QuotaBytes = over.QuotaBytes
	}
	if over.Language != "" {
		out.Language = over.Language
	}
	if over.Locale != "" {
		out.Locale = over.Locale
	}
	if over.ExportDir != "" {
		out.ExportDir = over.ExportDir
	}
	if over.CompactWidth != 0 {
		out.CompactWidth = over.CompactWidth
	}
	if over.Theme != "" {
		out.Theme = strings.ToLower(over.Theme)
	}
	if over.Wrap != nil {
		w := *over.Wrap
		out.Wrap = &w
	}
	if over.MaxImport != 0 {
		out.MaxImport = over.MaxImport
	}
	return out
}

func Clone(c *Config) *Config {
	out := *c
	if c.Wrap != nil {
		w := *c.Wrap
		out.Wrap = &w
	}
	return &out
}

// StorePath is the durable store file inside StateDir.
func (c *Config) StorePath() string { return filepath.Join(c.StateDir, StoreFile) }

// LogPath is the default log file inside StateDir.
func (c *Config) LogPath() string { return filepath.Join(c.StateDir, "codepad.log") }

func (c *Config) Dark() bool { return c.Theme != "light" }

func (c *Config) WrapOn() bool { return c.Wrap == nil || *c.Wrap }

// Quota is the effective store quota; 0 disables it.
func (c *Config) Quota() int64 {
	if c.QuotaBytes < 0 {
		return 0
	}
	return c.QuotaBytes
}

func Save(path string, c *Config) error {
	var (
		data []byte
		err  error
	)
	switch formatOf(path) {
	case formatYAML:
		data, err = yaml.Marshal(c)
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
