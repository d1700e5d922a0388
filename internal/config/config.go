// Package config loads tool configuration and bootstraps logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" mapstructure:"inputs"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Sample    SampleConfig    `yaml:"sample" mapstructure:"sample"`
	Manifest  ManifestConfig  `yaml:"manifest" mapstructure:"manifest"`
	Crosswalk CrosswalkConfig `yaml:"crosswalk" mapstructure:"crosswalk"`
	Overlap   OverlapConfig   `yaml:"overlap" mapstructure:"overlap"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputsConfig points at the externally produced source layers.
type InputsConfig struct {
	Features  string `yaml:"features" mapstructure:"features"`
	Regions   string `yaml:"regions" mapstructure:"regions"`
	RegionID  string `yaml:"region_id_field" mapstructure:"region_id_field"`
	Coastline string `yaml:"coastline" mapstructure:"coastline"`
}

// OutputConfig controls where and under what name layers are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// SampleConfig configures the validation sampler.
type SampleConfig struct {
	BatchSize           int      `yaml:"batch_size" mapstructure:"batch_size"`
	NumBatches          int      `yaml:"num_batches" mapstructure:"num_batches"`
	SimplifyToleranceM  float64  `yaml:"simplify_tolerance_m" mapstructure:"simplify_tolerance_m"`
	FuzzDistanceM       float64  `yaml:"fuzz_distance_m" mapstructure:"fuzz_distance_m"`
	Seed                int64    `yaml:"seed" mapstructure:"seed"`
	Validators          []string `yaml:"validators" mapstructure:"validators"`
	ExtentMode          string   `yaml:"extent_mode" mapstructure:"extent_mode"`
	SmallPerimeterM     float64  `yaml:"small_perimeter_m" mapstructure:"small_perimeter_m"`
	SmallPoints         int      `yaml:"small_points" mapstructure:"small_points"`
	LargePoints         int      `yaml:"large_points" mapstructure:"large_points"`
	MaxAttemptsPerPoint int      `yaml:"max_attempts_per_point" mapstructure:"max_attempts_per_point"`
}

// Extent modes for the Polygon-extent layer.
const (
	ExtentModeFuzzed = "fuzzed"
	ExtentModeBBox   = "bbox"
)

// ManifestConfig configures the local run-manifest database.
type ManifestConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CrosswalkConfig configures the classification cross-walk.
type CrosswalkConfig struct {
	Table  string `yaml:"table" mapstructure:"table"`
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
}

// OverlapConfig configures overlap cleaning.
type OverlapConfig struct {
	Input          string  `yaml:"input" mapstructure:"input"`
	Output         string  `yaml:"output" mapstructure:"output"`
	PointsOutput   string  `yaml:"points_output" mapstructure:"points_output"`
	MinOverlapArea float64 `yaml:"min_overlap_area" mapstructure:"min_overlap_area"`
	BoundaryEps    float64 `yaml:"boundary_eps" mapstructure:"boundary_eps"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("inputs.region_id_field", "RegionID")
	v.SetDefault("output.dir", "working/20")
	v.SetDefault("output.prefix", "NW-Aus-Features-v0-4")
	v.SetDefault("sample.batch_size", 10)
	v.SetDefault("sample.num_batches", 10)
	v.SetDefault("sample.simplify_tolerance_m", 50)
	v.SetDefault("sample.fuzz_distance_m", 50)
	v.SetDefault("sample.seed", 42)
	v.SetDefault("sample.extent_mode", ExtentModeBBox)
	v.SetDefault("sample.small_perimeter_m", 2000)
	v.SetDefault("sample.small_points", 1)
	v.SetDefault("sample.large_points", 3)
	v.SetDefault("sample.max_attempts_per_point", 10)
	v.SetDefault("manifest.path", "validation-runs.db")
	v.SetDefault("overlap.min_overlap_area", 0.0005)
	v.SetDefault("overlap.boundary_eps", 1e-9)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
