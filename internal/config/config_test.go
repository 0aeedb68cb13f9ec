package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loan-scheduler/pkg/constants"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
inflationRate: 0.07
logging:
  level: debug
  format: console
output:
  format: csv
server:
  address: ":9090"
loans:
  - name: Car Loan
    principal: 12000
    annualRate: 9.5
    daysUntilDue: 14
    lateFee: 250
    creditFactor: 0.4
  - name: Student Loan
    principal: 30000
    annualRate: 4.2
    daysUntilDue: 90
    lateFee: 50
    creditFactor: 0.2
    variableRate: true
    inflationSensitivity: 0.6
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.InflationRate != 0.07 {
		t.Errorf("InflationRate = %v, expected 0.07", conf.InflationRate)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, expected debug", conf.Logging.Level)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %s, expected csv", conf.Output.Format)
	}
	if conf.Server.Address != ":9090" {
		t.Errorf("Server.Address = %s, expected :9090", conf.Server.Address)
	}
	if conf.Server.MaxBodyBytes != constants.DefaultMaxBodyBytes {
		t.Errorf("Server.MaxBodyBytes = %d, expected default %d", conf.Server.MaxBodyBytes, constants.DefaultMaxBodyBytes)
	}
	if len(conf.Loans) != 2 {
		t.Fatalf("len(Loans) = %d, expected 2", len(conf.Loans))
	}
	if !conf.Loans[1].VariableRate || conf.Loans[1].InflationSensitivity != 0.6 {
		t.Errorf("second loan = %+v, expected variable rate with sensitivity 0.6", conf.Loans[1])
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, `
loans:
  - name: Card
    principal: 900
    annualRate: 24
    daysUntilDue: 10
    lateFee: 35
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.InflationRate != constants.DefaultInflationRate {
		t.Errorf("InflationRate = %v, expected default %v", conf.InflationRate, constants.DefaultInflationRate)
	}
	if conf.Server.Address != constants.DefaultServerAddress {
		t.Errorf("Server.Address = %s, expected default %s", conf.Server.Address, constants.DefaultServerAddress)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Errorf("LoadConfiguration() expected error for missing file but got none")
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		conf         Configuration
		wantWarnings []string
	}{
		{
			name: "Clean configuration",
			conf: Configuration{
				InflationRate: 0.05,
				Loans: []LoanSeed{
					{Name: "Car", Principal: 5000, AnnualRate: 8, DaysUntilDue: 30, LateFee: 100, CreditFactor: 0.3},
				},
			},
		},
		{
			name:         "Negative inflation",
			conf:         Configuration{InflationRate: -0.02},
			wantWarnings: []string{"inflationRate -0.02 is negative"},
		},
		{
			name: "Duplicate names and bad ranges",
			conf: Configuration{
				Loans: []LoanSeed{
					{Name: "Card", Principal: 900, CreditFactor: 0.2},
					{Name: "Card", Principal: -10, CreditFactor: 1.4},
				},
			},
			wantWarnings: []string{
				"duplicate loan name Card",
				"negative principal",
				"credit factor 1.40 outside [0, 1]",
			},
		},
		{
			name: "Sensitivity without variable rate",
			conf: Configuration{
				Loans: []LoanSeed{
					{Name: "Card", Principal: 900, InflationSensitivity: 0.5},
				},
			},
			wantWarnings: []string{"sets inflationSensitivity without variableRate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(tt.wantWarnings) == 0 && len(warnings) != 0 {
				t.Errorf("ValidateConfiguration() = %v, expected no warnings", warnings)
			}
			for _, want := range tt.wantWarnings {
				found := false
				for _, warning := range warnings {
					if strings.Contains(warning, want) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("ValidateConfiguration() = %v, missing warning containing %q", warnings, want)
				}
			}
		})
	}
}

func TestSessionLoans(t *testing.T) {
	conf := Configuration{
		Loans: []LoanSeed{
			{Name: "First", Principal: 1000, AnnualRate: 5, DaysUntilDue: 10, LateFee: 20, CreditFactor: 0.1},
			{Name: "Second", Principal: 2000, AnnualRate: 7, DaysUntilDue: 20, LateFee: 40, CreditFactor: 0.2, VariableRate: true, InflationSensitivity: 0.3},
		},
	}

	loans := conf.SessionLoans()
	if len(loans) != 2 {
		t.Fatalf("SessionLoans() returned %d loans, expected 2", len(loans))
	}
	if loans[0].ID != 1 || loans[1].ID != 2 {
		t.Errorf("ids = [%d, %d], expected file-order [1, 2]", loans[0].ID, loans[1].ID)
	}
	if loans[1].Name != "Second" || !loans[1].VariableRate || loans[1].InflationSensitivity != 0.3 {
		t.Errorf("second loan = %+v, fields not carried over", loans[1])
	}
}
