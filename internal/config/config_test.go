package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/water"
)

const sampleConfig = `
logging:
  level: debug
  outputFile: logs/brew-water.log
output:
  format: json
solutions:
  alkalinityCarrier: sodium   bicarbonate
  overrides:
    - name: calcium chloride
      ppmPerDrop: 2.5
    - name: Magnesium Sulfate
      available: false
profiles:
  - name: tap
    calcium: 45
    magnesium: 12
    sodium: 20
    bicarbonate: 140
    ph: 7.6
    tds: 240
  - name: " distilled "
evaluate:
  - tap
optimize:
  - current: distilled
    target: tap
blend:
  - a: tap
    volumeA: 400
    b: distilled
    volumeB: 600
history:
  path: history.db
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config",
			configPath: filepath.Join("..", "..", "config.yaml.example"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config == nil {
				t.Fatalf("LoadConfiguration() returned nil config")
			}
			if err := config.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.History.Path != "history.db" {
		t.Errorf("History.Path = %q, expected history.db", conf.History.Path)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.OutputFile != "logs/brew-water.log" {
		t.Errorf("unexpected logging config: %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatJSON {
		t.Errorf("Output.Format = %q, expected json", conf.Output.Format)
	}
	if len(conf.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(conf.Profiles))
	}

	tap, err := conf.Profile("tap")
	if err != nil {
		t.Fatalf("Profile(tap) error = %v", err)
	}
	if tap.Calcium != 45 || tap.Bicarbonate != 140 || tap.PH != 7.6 || tap.TDS != 240 {
		t.Errorf("unexpected tap profile: %+v", tap)
	}

	distilled, err := conf.Profile("distilled")
	if err != nil {
		t.Fatalf("Profile(distilled) error = %v", err)
	}
	if distilled.PH != constants.DefaultPH || distilled.TDS != 0 {
		t.Errorf("unexpected distilled defaults: %+v", distilled)
	}

	if conf.Solutions.AlkalinityCarrier != water.SodiumBicarbonate {
		t.Errorf("AlkalinityCarrier = %q, expected %q", conf.Solutions.AlkalinityCarrier, water.SodiumBicarbonate)
	}
	if conf.Blend[0].Name != "tap + distilled" {
		t.Errorf("Blend name = %q", conf.Blend[0].Name)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("profiles: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	conf := Configuration{
		Profiles: []NamedProfile{{Name: "soft", Profile: water.Profile{Calcium: 10, Sodium: 5}}},
	}
	conf.Normalize()

	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q, expected pretty", conf.Output.Format)
	}
	if conf.Profiles[0].PH != 7.0 {
		t.Errorf("PH = %v, expected 7.0", conf.Profiles[0].PH)
	}
	if conf.Profiles[0].TDS != 15 {
		t.Errorf("TDS = %v, expected mineral sum 15", conf.Profiles[0].TDS)
	}
}

func TestValidate(t *testing.T) {
	base := func() Configuration {
		return Configuration{
			Output: OutputConfig{Format: constants.OutputFormatPretty},
			Profiles: []NamedProfile{
				{Name: "tap", Profile: water.New(45, 12, 20, 140)},
				{Name: "ro", Profile: water.New(0, 0, 0, 0)},
			},
			Evaluate: []string{"tap"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr error
		errText string
	}{
		{name: "Valid", mutate: func(c *Configuration) {}},
		{
			name:    "No tasks",
			mutate:  func(c *Configuration) { c.Evaluate = nil },
			wantErr: ErrNoTasks,
		},
		{
			name:    "Unknown evaluate profile",
			mutate:  func(c *Configuration) { c.Evaluate = []string{"well"} },
			wantErr: ErrUnknownProfile,
		},
		{
			name:    "Bad output format",
			mutate:  func(c *Configuration) { c.Output.Format = "xml" },
			errText: "expected output format",
		},
		{
			name: "Duplicate profile",
			mutate: func(c *Configuration) {
				c.Profiles = append(c.Profiles, NamedProfile{Name: "tap"})
			},
			errText: "duplicate profile",
		},
		{
			name:    "Unknown standards target",
			mutate:  func(c *Configuration) { c.Standards.Target = "spring" },
			wantErr: ErrUnknownProfile,
		},
		{
			name: "Blend with zero volume",
			mutate: func(c *Configuration) {
				c.Blend = []BlendTask{{Name: "mix", A: "tap", VolumeA: 0, B: "ro", VolumeB: 100}}
			},
			errText: "volume must be a positive number",
		},
		{
			name: "Blend with unknown profile",
			mutate: func(c *Configuration) {
				c.Blend = []BlendTask{{Name: "mix", A: "tap", VolumeA: 100, B: "well", VolumeB: 100}}
			},
			wantErr: ErrUnknownProfile,
		},
		{
			name: "Optimize with unknown carrier",
			mutate: func(c *Configuration) {
				c.Optimize = []OptimizeTask{{Current: "ro", AlkalinityCarrier: "baking soda"}}
			},
			wantErr: water.ErrSolutionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := base()
			tt.mutate(&conf)
			err := conf.Validate()
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, expected %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Fatalf("Validate() error = %v, expected to contain %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
			}
		})
	}
}
