// Package constants provides shared constants for the loan scheduler.
package constants

// Scoring constants. These define the priority formula; changing any of them
// reorders loans.
const (
	// SettledEpsilon is the principal threshold at or below which a loan is
	// considered fully repaid.
	SettledEpsilon = 1e-6

	// SettledScore is the sentinel priority for settled loans so they always
	// sort below every active loan.
	SettledScore = -1e15

	// InterestWeight scales the interest impact term.
	InterestWeight = 1.5

	// PenaltyTermWeight scales the penalty weight term.
	PenaltyTermWeight = 0.8

	// CreditWeight scales the credit impact term.
	CreditWeight = 0.8

	// UrgencyWeight scales the urgency term.
	UrgencyWeight = 5000.0

	// PenaltyRatioCap caps the late fee to principal ratio before scaling.
	PenaltyRatioCap = 5000.0

	// PenaltyScale converts the capped penalty ratio into score units.
	PenaltyScale = 10000.0

	// CreditScale converts the credit factor into score units.
	CreditScale = 100.0

	// ShortTermBoostDays is the daysUntilDue cutoff for the short-term boost.
	ShortTermBoostDays = 5

	// ShortTermBoost multiplies the combined score for near-due loans.
	ShortTermBoost = 1.25

	// PrincipalScale normalizes principal-proportional terms to
	// per-thousand-units so magnitudes are comparable across loans.
	PrincipalScale = 1000.0
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultInflationRate is the session inflation rate used when the
	// configuration does not provide one.
	DefaultInflationRate = 0.05
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024
)
