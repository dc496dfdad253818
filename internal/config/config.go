package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/turnify/pkg/core/planner"
)

// Storage drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultDataDir = "turnify_data"
	defaultAddr    = ":8080"
	defaultTab     = "Planning"
)

// PlanningConfig controls how plannings are generated
type PlanningConfig struct {
	HorizonDays     int    `yaml:"horizonDays,omitempty" validate:"omitempty,min=1,max=366"`
	ImportanceOrder string `yaml:"importanceOrder,omitempty" validate:"omitempty,oneof=asc desc"`
	ExtendToTarget  *bool  `yaml:"extendToTarget,omitempty"`
}

// DefaultsConfig replaces the built-in fallbacks used when the roster leaves a value unset
type DefaultsConfig struct {
	WeeklyHours     *float64 `yaml:"weeklyHours,omitempty" validate:"omitempty,gt=0"`
	DailyHours      *float64 `yaml:"dailyHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	MinRestHours    *float64 `yaml:"minRestHours,omitempty" validate:"omitempty,gte=0"`
	BreakAfterHours *float64 `yaml:"breakAfterHours,omitempty" validate:"omitempty,gte=0"`
	BreakMinutes    *int     `yaml:"breakMinutes,omitempty" validate:"omitempty,min=0"`
	Importance      *int     `yaml:"importance,omitempty"`
}

// ShiftOverride closes shifts on the dates matched by an RRULE
type ShiftOverride struct {
	RRule       string   `yaml:"rrule" validate:"required"`
	ShiftIDs    []string `yaml:"shiftIds,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// StorageConfig selects where the roster and plannings are persisted
type StorageConfig struct {
	Driver string `yaml:"driver,omitempty" validate:"omitempty,oneof=file postgres sqlite"`
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty" validate:"required_if=Driver postgres"`
}

// SheetsConfig configures publishing to Google Sheets
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetID,omitempty"`
	CredentialsFile string `yaml:"credentialsFile,omitempty" validate:"required_with=SpreadsheetID"`
	Tab             string `yaml:"tab,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" validate:"dive,required"`
}

// Config represents the application configuration
type Config struct {
	Planning  PlanningConfig  `yaml:"planning"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Overrides []ShiftOverride `yaml:"overrides,omitempty" validate:"dive"`
	Storage   StorageConfig   `yaml:"storage"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Server    ServerConfig    `yaml:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads the configuration without an environment suffix
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "turnify_config.test.yaml".
// A .env file in the working directory is loaded first so the config may
// reference its variables as ${VAR}.
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.Overrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in overrides[%d]: %w", i, err)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.Path = defaultDataDir
		case DriverSQLite:
			c.Storage.Path = filepath.Join(defaultDataDir, "turnify.db")
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Sheets.Tab == "" {
		c.Sheets.Tab = defaultTab
	}
}

// HorizonDays returns the configured planning length
func (c *Config) HorizonDays() int {
	if c.Planning.HorizonDays <= 0 {
		return planner.DefaultHorizonDays
	}
	return c.Planning.HorizonDays
}

// ExtendToTarget reports whether the completion pass may extend employees
// toward their weekly target. Enabled unless switched off.
func (c *Config) ExtendToTarget() bool {
	return c.Planning.ExtendToTarget == nil || *c.Planning.ExtendToTarget
}

// ImportanceOrder returns the configured candidate tie-break
func (c *Config) ImportanceOrder() planner.ImportanceOrder {
	if c.Planning.ImportanceOrder == "" {
		return planner.ImportanceHigherFirst
	}
	return planner.ImportanceOrder(c.Planning.ImportanceOrder)
}

// PlannerDefaults merges the configured fallbacks over the built-in ones
func (c *Config) PlannerDefaults() planner.Defaults {
	defaults := planner.DefaultDefaults()
	if c.Defaults.WeeklyHours != nil {
		defaults.WeeklyHours = *c.Defaults.WeeklyHours
	}
	if c.Defaults.DailyHours != nil {
		defaults.DailyHours = *c.Defaults.DailyHours
	}
	if c.Defaults.MinRestHours != nil {
		defaults.MinRestHours = *c.Defaults.MinRestHours
	}
	if c.Defaults.BreakAfterHours != nil {
		defaults.BreakAfterHours = *c.Defaults.BreakAfterHours
	}
	if c.Defaults.BreakMinutes != nil {
		defaults.BreakMinutes = *c.Defaults.BreakMinutes
	}
	if c.Defaults.Importance != nil {
		defaults.Importance = *c.Defaults.Importance
	}
	return defaults
}

// loadDotEnv loads ".env.<env>" and ".env" if present. Variables already set
// in the environment are never overwritten.
func loadDotEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = append([]string{".env." + env}, files...)
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// findConfigFile searches for turnify_config.yaml in current directory and home directory.
// If env is provided, it adds it as an extension (e.g., "turnify_config.test.yaml").
func findConfigFile(env string) (string, error) {
	configFileName := "turnify_config.yaml"
	if env != "" {
		configFileName = "turnify_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
