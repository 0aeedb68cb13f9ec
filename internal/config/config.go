// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"loan-scheduler/internal/model"
	"loan-scheduler/pkg/constants"
)

// Configuration holds all configuration for a loan scheduler session.
type Configuration struct {
	InflationRate float64       `yaml:"inflationRate,omitempty"`
	Logging       LoggingConfig `yaml:"logging,omitempty"`
	Output        OutputConfig  `yaml:"output,omitempty"`
	Server        ServerConfig  `yaml:"server,omitempty"`
	Loans         []LoanSeed    `yaml:"loans,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds the HTTP API options.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// LoanSeed describes a loan preloaded into the session from the config file.
// Ids are assigned in file order when the session starts.
type LoanSeed struct {
	Name                 string  `yaml:"name"`
	Principal            float64 `yaml:"principal"`
	AnnualRate           float64 `yaml:"annualRate"`
	DaysUntilDue         int     `yaml:"daysUntilDue"`
	LateFee              float64 `yaml:"lateFee"`
	CreditFactor         float64 `yaml:"creditFactor"`
	VariableRate         bool    `yaml:"variableRate"`
	InflationSensitivity float64 `yaml:"inflationSensitivity"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")
	v.SetDefault("inflationRate", constants.DefaultInflationRate)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodyBytes", constants.DefaultMaxBodyBytes)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Configuration {
	return &Configuration{
		InflationRate: constants.DefaultInflationRate,
		Server: ServerConfig{
			Address:      constants.DefaultServerAddress,
			MaxBodyBytes: constants.DefaultMaxBodyBytes,
		},
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.InflationRate < 0 {
		warnings = append(warnings, fmt.Sprintf("inflationRate %.2f is negative; variable-rate loans will gain priority from it", c.InflationRate))
	}

	seen := make(map[string]bool)
	for i, seed := range c.Loans {
		if seed.Name == "" {
			warnings = append(warnings, fmt.Sprintf("loans[%d] has no name", i))
			continue
		}
		if seen[seed.Name] {
			warnings = append(warnings, fmt.Sprintf("duplicate loan name %s; names are display labels only", seed.Name))
		}
		seen[seed.Name] = true

		if seed.Principal < 0 {
			warnings = append(warnings, fmt.Sprintf("loan %s has negative principal %.2f and will be rejected", seed.Name, seed.Principal))
		}
		if seed.LateFee < 0 {
			warnings = append(warnings, fmt.Sprintf("loan %s has negative late fee %.2f and will be rejected", seed.Name, seed.LateFee))
		}
		if seed.CreditFactor < 0 || seed.CreditFactor > 1 {
			warnings = append(warnings, fmt.Sprintf("loan %s has credit factor %.2f outside [0, 1] and will be rejected", seed.Name, seed.CreditFactor))
		}
		if seed.InflationSensitivity < 0 || seed.InflationSensitivity > 1 {
			warnings = append(warnings, fmt.Sprintf("loan %s has inflation sensitivity %.2f outside [0, 1] and will be rejected", seed.Name, seed.InflationSensitivity))
		}
		if !seed.VariableRate && seed.InflationSensitivity > 0 {
			warnings = append(warnings, fmt.Sprintf("loan %s sets inflationSensitivity without variableRate; it will have no effect", seed.Name))
		}
	}

	return warnings
}

// SessionLoans converts the configured loan seeds into session loans with ids
// assigned in file order starting at 1.
func (c *Configuration) SessionLoans() []model.Loan {
	loans := make([]model.Loan, 0, len(c.Loans))
	for i, seed := range c.Loans {
		loans = append(loans, model.Loan{
			ID:                   i + 1,
			Name:                 seed.Name,
			Principal:            seed.Principal,
			AnnualRate:           seed.AnnualRate,
			DaysUntilDue:         seed.DaysUntilDue,
			LateFee:              seed.LateFee,
			CreditFactor:         seed.CreditFactor,
			VariableRate:         seed.VariableRate,
			InflationSensitivity: seed.InflationSensitivity,
		})
	}
	return loans
}
