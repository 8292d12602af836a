// Package config loads the mt5report configuration file.
package config

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-report/internal/parser"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvStorePath = "MT5REPORT_STORE"
	EnvLogLevel  = "MT5REPORT_LOG_LEVEL"
	EnvUserID    = "MT5REPORT_USER"
)

// DefaultStorePath is the DuckDB file used when no store path is configured.
const DefaultStorePath = "data/reports.duckdb"

// Slots lists the file formats each upload slot accepts.
type Slots struct {
	TradeHistory []parser.Format `yaml:"trade_history" json:"trade_history" jsonschema:"title=Trade History,description=File formats accepted for trade history reports,enum=html,enum=htm,enum=xlsx" validate:"required,min=1,dive,oneof=html htm xlsx"`
	Backtest     []parser.Format `yaml:"backtest" json:"backtest" jsonschema:"title=Backtest,description=File formats accepted for strategy tester reports,enum=html,enum=htm,enum=xlsx" validate:"required,min=1,dive,oneof=html htm xlsx"`
}

// Config is the mt5report configuration.
type Config struct {
	LogLevel      string `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,description=Minimum level of log messages,enum=debug,enum=info,enum=warn,enum=error" validate:"required,oneof=debug info warn error"`
	StorePath     string `yaml:"store_path" json:"store_path" jsonschema:"title=Store Path,description=DuckDB file holding saved reports or :memory:" validate:"required"`
	Slots         Slots  `yaml:"slots" json:"slots" jsonschema:"title=Upload Slots,description=Accepted file formats per report kind" validate:"required"`
	DefaultUserID string `yaml:"default_user_id" json:"default_user_id" jsonschema:"title=Default User,description=Owner of reports saved from the command line" validate:"required"`
}

// DefaultConfig accepts every format in both slots and keeps reports in DefaultStorePath.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		StorePath: DefaultStorePath,
		Slots: Slots{
			TradeHistory: slices.Clone(parser.AllFormats),
			Backtest:     slices.Clone(parser.AllFormats),
		},
		DefaultUserID: "local",
	}
}

// Load reads the YAML file at path on top of DefaultConfig, applies the environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup has the signature of os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.StorePath = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := lookup(EnvUserID); ok && v != "" {
		c.DefaultUserID = v
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return nil
}

// ParserSlots converts the configured slots for parser.NewDispatcher.
func (c *Config) ParserSlots() []parser.Slot {
	return []parser.Slot{
		{Kind: types.ReportTypeTradeHistory, Accepts: slices.Clone(c.Slots.TradeHistory)},
		{Kind: types.ReportTypeBacktest, Accepts: slices.Clone(c.Slots.Backtest)},
	}
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)

	schema.Title = "mt5report-config"
	schema.Description = "Configuration schema for mt5report"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal config schema", err)
	}

	return string(schemaBytes), nil
}
