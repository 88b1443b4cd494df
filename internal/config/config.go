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
	CMR      CMRConfig      `yaml:"cmr" mapstructure:"cmr"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CMRConfig configures the dataset catalog client.
type CMRConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	PageSize    int    `yaml:"page_size" mapstructure:"page_size"`
	MaxPages    int    `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Keyword     string `yaml:"keyword" mapstructure:"keyword"`
	Platform    string `yaml:"platform" mapstructure:"platform"`
}

// BoundaryConfig configures the reference boundary dataset.
type BoundaryConfig struct {
	Path           string `yaml:"path" mapstructure:"path"`
	URL            string `yaml:"url" mapstructure:"url"`
	CityField      string `yaml:"city_field" mapstructure:"city_field"`
	CountryField   string `yaml:"country_field" mapstructure:"country_field"`
	ContinentField string `yaml:"continent_field" mapstructure:"continent_field"`
	Encoding       string `yaml:"encoding" mapstructure:"encoding"`
	TempDir        string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// PipelineConfig configures batch classification behavior.
type PipelineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures where and how classified results are written.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
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
	v.SetEnvPrefix("GEOSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cmr.base_url", "https://cmr.earthdata.nasa.gov/search")
	v.SetDefault("cmr.page_size", 100)
	v.SetDefault("cmr.max_pages", 10)
	v.SetDefault("cmr.timeout_secs", 30)
	v.SetDefault("boundary.path", "boundaries/boundaries.shp")
	v.SetDefault("boundary.city_field", "NAME_2")
	v.SetDefault("boundary.country_field", "ADMIN")
	v.SetDefault("boundary.continent_field", "CONTINENT")
	v.SetDefault("boundary.temp_dir", "/tmp/geoscope")
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("output.path", "classified.json")
	v.SetDefault("output.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "geoscope.db")
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
