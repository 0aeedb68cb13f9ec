// Package output provides utilities for formatting and displaying loan
// rankings and payment traces.
package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"loan-scheduler/internal/scheduler"
)

// PrettyFormat writes a human-readable priority table.
func PrettyFormat(w io.Writer, ranking []scheduler.RankedLoan) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Current Loan Priorities ---\n")
	fmt.Fprintf(w, "%-22s%-18s%-15s%-12s\n", "Loan Name", "Priority Score", "Principal", "Days Left")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 67))
	for _, entry := range ranking {
		_, _ = p.Fprintf(w, "%-22s%-18.2f%-15.2f%-12d\n",
			entry.Loan.Name, entry.Score, entry.Loan.Principal, entry.Loan.DaysUntilDue)
	}
}

// CsvFormat writes the ranking in comma-separated value format.
func CsvFormat(w io.Writer, ranking []scheduler.RankedLoan) {
	fmt.Fprintf(w, "\"name\",\"score\",\"principal\",\"daysUntilDue\"\n")
	for _, entry := range ranking {
		fmt.Fprintf(w, "\"%s\",\"%.2f\",\"%.2f\",\"%d\"\n",
			entry.Loan.Name, entry.Score, entry.Loan.Principal, entry.Loan.DaysUntilDue)
	}
}

// PaymentTrace writes the per-loan trace of an allocation pass followed by
// any leftover cash.
func PaymentTrace(w io.Writer, amount float64, result *scheduler.PaymentResult) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "--- Allocating payment of %.2f ---\n", amount)
	for _, step := range result.Steps {
		_, _ = p.Fprintf(w, "Paid %.2f to %s | Remaining principal: %.2f\n",
			step.AmountPaid, step.LoanName, step.RemainingPrincipal)
	}
	if result.Leftover > 0 {
		_, _ = p.Fprintf(w, "Leftover cash: %.2f\n", result.Leftover)
	}
}

// RenderRanking writes the ranking in the requested format.
func RenderRanking(w io.Writer, format string, ranking []scheduler.RankedLoan) {
	switch format {
	case "csv":
		CsvFormat(w, ranking)
	default:
		PrettyFormat(w, ranking)
	}
}
