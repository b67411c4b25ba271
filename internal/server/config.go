package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/brew-water/internal/config"
	"github.com/iwvelando/brew-water/pkg/constants"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSize is returned for byte sizes ParseSize cannot read.
var ErrInvalidSize = errors.New("server: invalid size")

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// Config holds the settings of the API server, read from server-config.yaml.
type Config struct {
	Address        string               `yaml:"address"`
	MaxRequestSize string               `yaml:"maxRequestSize"`
	HistoryPath    string               `yaml:"historyPath"`
	Logging        config.LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// LoadConfig reads path, fills in defaults and validates the result. A
// missing file or an empty path yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read server config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse server config %s: %w", path, err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Normalize trims the settings and applies the defaults for empty ones.
func (c *Config) Normalize() {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	c.HistoryPath = strings.TrimSpace(c.HistoryPath)
	if c.HistoryPath == "" {
		c.HistoryPath = constants.DefaultHistoryPath
	}
	c.MaxRequestSize = strings.TrimSpace(c.MaxRequestSize)
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = strconv.FormatInt(constants.DefaultMaxRequestSizeBytes, 10)
	}
}

// Validate checks that the request size limit can be parsed.
func (c *Config) Validate() error {
	if _, err := ParseSize(c.MaxRequestSize); err != nil {
		return fmt.Errorf("maxRequestSize: %w", err)
	}
	return nil
}

// RequestSizeBytes returns the request body limit. Unreadable or
// non-positive sizes fall back to the default.
func (c *Config) RequestSizeBytes() int64 {
	n, err := ParseSize(c.MaxRequestSize)
	if err != nil || n <= 0 {
		return constants.DefaultMaxRequestSizeBytes
	}
	return n
}

// SetRequestSizeBytes overrides the request body limit. Non-positive sizes
// are ignored.
func (c *Config) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.MaxRequestSize = strconv.FormatInt(size, 10)
	}
}

// ParseSize reads sizes like "512", "256K" or "3MB" (case-insensitive,
// binary multiples). An empty string is the default request size.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	split := strings.LastIndexFunc(s, unicode.IsDigit) + 1
	if split == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, value)
	}
	multiplier, ok := sizeUnits[strings.TrimSpace(s[split:])]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported unit in %q", ErrInvalidSize, value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s[:split]), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, value)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, value)
	}
	return n * multiplier, nil
}
