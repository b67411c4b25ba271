// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/validation"
	"github.com/iwvelando/brew-water/pkg/water"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for brew-water.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Standards StandardsConfig `yaml:"standards,omitempty"`
	Solutions SolutionsConfig `yaml:"solutions,omitempty"`
	Profiles  []NamedProfile  `yaml:"profiles,omitempty"`
	Evaluate  []string        `yaml:"evaluate,omitempty"`
	Optimize  []OptimizeTask  `yaml:"optimize,omitempty"`
	Blend     []BlendTask     `yaml:"blend,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// StandardsConfig selects the target used by optimize tasks that do not
// name their own.
type StandardsConfig struct {
	// Target is the name of a configured profile. Empty means the ideal profile.
	Target string `yaml:"target,omitempty"`
}

// HistoryConfig controls saving of analysis results.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables saving.
	Path string `yaml:"path,omitempty"`
}

// NamedProfile is a water profile that tasks refer to by name.
type NamedProfile struct {
	Name          string `yaml:"name"`
	water.Profile `yaml:",inline" mapstructure:",squash"`
}

// BlendTask mixes two named profiles.
type BlendTask struct {
	Name    string  `yaml:"name,omitempty"`
	A       string  `yaml:"a"`
	VolumeA float64 `yaml:"volumeA"`
	B       string  `yaml:"b"`
	VolumeB float64 `yaml:"volumeB"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize applies defaults: pretty output, pH 7 and a tds equal to the
// mineral sum for profiles that leave them out, and canonical task fields.
func (c *Configuration) Normalize() {
	c.Output.Format = strings.TrimSpace(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	for i := range c.Profiles {
		c.Profiles[i].Normalize()
	}
	c.Solutions.Normalize()
	for i := range c.Optimize {
		c.Optimize[i].Normalize()
	}
	for i := range c.Blend {
		c.Blend[i].Normalize()
	}
}

// Normalize trims the name and fills in pH and tds.
func (p *NamedProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.PH == 0 {
		p.PH = constants.DefaultPH
	}
	if p.TDS == 0 {
		p.TDS = p.MineralSum()
	}
}

// Normalize trims the profile references and names the task when unnamed.
func (b *BlendTask) Normalize() {
	b.A = strings.TrimSpace(b.A)
	b.B = strings.TrimSpace(b.B)
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		b.Name = fmt.Sprintf("%s + %s", b.A, b.B)
	}
}

// Validate returns an error when the blend task cannot run.
func (b *BlendTask) Validate(c *Configuration) error {
	for _, ref := range []string{b.A, b.B} {
		if _, err := c.Profile(ref); err != nil {
			return fmt.Errorf("blend %q: %w", b.Name, err)
		}
	}
	if err := validation.ValidateVolume("blend "+b.Name+" a", b.VolumeA); err != nil {
		return err
	}
	return validation.ValidateVolume("blend "+b.Name+" b", b.VolumeB)
}

// Profile returns the configured profile with the given name.
func (c *Configuration) Profile(name string) (water.Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p.Profile, nil
		}
	}
	return water.Profile{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
}

// HasTasks reports whether any evaluate, optimize or blend work is configured.
func (c *Configuration) HasTasks() bool {
	return len(c.Evaluate)+len(c.Optimize)+len(c.Blend) > 0
}

// Validate returns the first error that prevents the configuration from
// running.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if !c.HasTasks() {
		return ErrNoTasks
	}

	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return errors.New("config: profile name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("config: duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
	}

	if c.Standards.Target != "" {
		if _, err := c.Profile(c.Standards.Target); err != nil {
			return fmt.Errorf("standards target: %w", err)
		}
	}
	if err := c.Solutions.Validate(); err != nil {
		return err
	}
	for _, name := range c.Evaluate {
		if _, err := c.Profile(name); err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
	}
	for i := range c.Optimize {
		if err := c.Optimize[i].Validate(c); err != nil {
			return err
		}
	}
	for i := range c.Blend {
		if err := c.Blend[i].Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings that do not stop a run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	used := make(map[string]bool)
	for _, name := range c.Evaluate {
		used[name] = true
	}
	for _, task := range c.Optimize {
		used[task.Current] = true
		used[task.Target] = true
	}
	for _, task := range c.Blend {
		used[task.A] = true
		used[task.B] = true
	}
	used[c.Standards.Target] = true

	for _, p := range c.Profiles {
		warnings = append(warnings, validation.ValidateProfile(p.Name, p.Profile)...)
		if !used[p.Name] {
			warnings = append(warnings, fmt.Sprintf("Profile '%s' is not used by any task", p.Name))
		}
	}
	return warnings
}
