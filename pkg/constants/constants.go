// Package constants provides shared constants for the brew-water application.
package constants

// Dosing constants
const (
	// MaxDropsPerSolution is the hard ceiling on drops recommended for any single solution
	MaxDropsPerSolution = 20

	// MinDropsPerSolution is the floor on drops recommended for any single solution
	MinDropsPerSolution = 0

	// DefaultPH is the pH assumed when a reading does not provide one
	DefaultPH = 7.0
)

// Numeric constants
const (
	// DecimalPrecision is the precision for display rounding (2 decimal places)
	DecimalPrecision = 100

	// PPMTolerance is the tolerance for mineral concentration comparisons
	PPMTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxScore is the upper bound of every 0-100 score
	MaxScore = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of configuration keys
	EnvPrefix = "BREW_WATER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024

	// DefaultHistoryPath is the default SQLite database for saved profiles and results
	DefaultHistoryPath = "brew-water.db"

	// DefaultHistoryLimit is the default number of records returned by list queries
	DefaultHistoryLimit = 50
)
