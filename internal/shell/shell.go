// Package shell implements the interactive session driving a scheduler. It
// prompts for loan fields, assigns ids, and translates the scheduler's
// reportable conditions into user-facing messages. All input arrives through
// an io.Reader and all output goes to an io.Writer so sessions can be
// scripted in tests.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"loan-scheduler/internal/model"
	"loan-scheduler/internal/scheduler"
	"loan-scheduler/pkg/output"
)

// Shell drives one interactive session over a scheduler.
type Shell struct {
	logger       *zap.Logger
	sched        *scheduler.Scheduler
	in           *bufio.Scanner
	out          io.Writer
	outputFormat string
	nextID       int
}

// New creates a Shell over the given scheduler. Ids continue after any loans
// already seeded into the session. If logger is nil, it will use a no-op
// logger to prevent panics.
func New(logger *zap.Logger, sched *scheduler.Scheduler, in io.Reader, out io.Writer, outputFormat string) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}

	nextID := 1
	for _, loan := range sched.Loans() {
		if loan.ID >= nextID {
			nextID = loan.ID + 1
		}
	}

	return &Shell{
		logger:       logger,
		sched:        sched,
		in:           bufio.NewScanner(in),
		out:          out,
		outputFormat: outputFormat,
		nextID:       nextID,
	}
}

// Run loops over the menu until the user exits or input ends.
func (sh *Shell) Run() error {
	fmt.Fprintf(sh.out, "=== Adaptive Loan Repayment Scheduler ===\n")

	for {
		fmt.Fprintf(sh.out, "\n========= MENU =========\n"+
			"1. Add a Loan\n"+
			"2. View Loan Priorities\n"+
			"3. Allocate Payment\n"+
			"4. Simulate Passing Days\n"+
			"5. Exit\n"+
			"========================\n"+
			"Enter choice: ")

		choice, err := sh.readLine()
		if err != nil {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			sh.addLoan()
		case "2":
			sh.displayPriorities()
		case "3":
			sh.allocatePayment()
		case "4":
			sh.simulateDays()
		case "5":
			fmt.Fprintf(sh.out, "\n=== Exiting scheduler ===\n")
			return nil
		default:
			fmt.Fprintf(sh.out, "Invalid choice. Try again.\n")
		}
	}
}

func (sh *Shell) addLoan() {
	name, err := sh.prompt("Enter Loan Name: ")
	if err != nil {
		return
	}
	principal, err := sh.promptFloat("Enter Principal Amount: ")
	if err != nil {
		return
	}
	rate, err := sh.promptFloat("Enter Annual Interest Rate (%): ")
	if err != nil {
		return
	}
	days, err := sh.promptInt("Enter Days Until Due: ")
	if err != nil {
		return
	}
	fee, err := sh.promptFloat("Enter Late Fee: ")
	if err != nil {
		return
	}
	credit, err := sh.promptFloat("Enter Credit Impact Factor (0-1): ")
	if err != nil {
		return
	}
	variable, err := sh.promptBool("Variable Rate (y/n)? ")
	if err != nil {
		return
	}
	sensitivity := 0.0
	if variable {
		sensitivity, err = sh.promptFloat("Enter Inflation Sensitivity (0-1): ")
		if err != nil {
			return
		}
	}

	loan := model.Loan{
		ID:                   sh.nextID,
		Name:                 name,
		Principal:            principal,
		AnnualRate:           rate,
		DaysUntilDue:         days,
		LateFee:              fee,
		CreditFactor:         credit,
		VariableRate:         variable,
		InflationSensitivity: sensitivity,
	}
	if err := sh.sched.AddLoan(loan); err != nil {
		fmt.Fprintf(sh.out, "Could not add loan: %v\n", err)
		return
	}
	sh.nextID++
	fmt.Fprintf(sh.out, "Loan added successfully!\n")
}

func (sh *Shell) displayPriorities() {
	ranking, err := sh.sched.DisplayPriorities()
	if err != nil {
		sh.reportCondition(err)
		return
	}
	fmt.Fprintf(sh.out, "\n")
	output.RenderRanking(sh.out, sh.outputFormat, ranking)
}

func (sh *Shell) allocatePayment() {
	amount, err := sh.promptFloat("Enter total payment amount: ")
	if err != nil {
		return
	}

	result, err := sh.sched.AllocatePayment(amount)
	if err != nil {
		sh.reportCondition(err)
		return
	}

	fmt.Fprintf(sh.out, "\n")
	output.PaymentTrace(sh.out, amount, result)
	sh.displayPriorities()
}

func (sh *Shell) simulateDays() {
	days, err := sh.promptInt("Enter number of days to simulate: ")
	if err != nil {
		return
	}

	ranking, err := sh.sched.SimulateDays(days)
	if err != nil {
		sh.reportCondition(err)
		return
	}

	fmt.Fprintf(sh.out, "\nSimulated %d days. Deadlines updated.\n\n", days)
	output.RenderRanking(sh.out, sh.outputFormat, ranking)
}

// reportCondition translates scheduler conditions into session messages. The
// scheduler itself never prints.
func (sh *Shell) reportCondition(err error) {
	switch {
	case errors.Is(err, scheduler.ErrNoLoans):
		fmt.Fprintf(sh.out, "\nNo loans in this session yet.\n")
	case errors.Is(err, scheduler.ErrAllSettled):
		fmt.Fprintf(sh.out, "\nAll loans repaid or inactive.\n")
	case errors.Is(err, scheduler.ErrInvalidAmount):
		fmt.Fprintf(sh.out, "\nInvalid payment amount.\n")
	case errors.Is(err, scheduler.ErrNoOp):
		fmt.Fprintf(sh.out, "\nNo days simulated.\n")
	default:
		fmt.Fprintf(sh.out, "\nOperation failed: %v\n", err)
	}
}

func (sh *Shell) readLine() (string, error) {
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sh.in.Text(), nil
}

func (sh *Shell) prompt(label string) (string, error) {
	fmt.Fprintf(sh.out, "%s", label)
	line, err := sh.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptFloat re-prompts until the input parses; input ending mid-prompt
// abandons the current operation.
func (sh *Shell) promptFloat(label string) (float64, error) {
	for {
		line, err := sh.prompt(label)
		if err != nil {
			return 0, err
		}
		val, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return val, nil
		}
		fmt.Fprintf(sh.out, "Please enter a number.\n")
	}
}

func (sh *Shell) promptInt(label string) (int, error) {
	for {
		line, err := sh.prompt(label)
		if err != nil {
			return 0, err
		}
		val, err := strconv.Atoi(line)
		if err == nil {
			return val, nil
		}
		fmt.Fprintf(sh.out, "Please enter a whole number.\n")
	}
}

func (sh *Shell) promptBool(label string) (bool, error) {
	line, err := sh.prompt(label)
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}
