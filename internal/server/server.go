// Package server exposes a session scheduler over an HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"loan-scheduler/internal/model"
	"loan-scheduler/internal/scheduler"
	"loan-scheduler/pkg/constants"
)

type handler struct {
	logger       *zap.Logger
	maxBodyBytes int64
	version      string

	// The scheduler itself is single-actor; the mutex serializes the
	// concurrent HTTP surface in front of it.
	mu     sync.Mutex
	sched  *scheduler.Scheduler
	nextID int
}

// NewHandler constructs the HTTP handler that serves the scheduler API. The
// server owns id assignment for loans added through it, continuing after any
// seeded loans.
func NewHandler(logger *zap.Logger, sched *scheduler.Scheduler, maxBodyBytes int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.DefaultMaxBodyBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	nextID := 1
	for _, loan := range sched.Loans() {
		if loan.ID >= nextID {
			nextID = loan.ID + 1
		}
	}

	h := &handler{
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
		version:      trimmedVersion,
		sched:        sched,
		nextID:       nextID,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/loans", h.handleLoans)
	mux.HandleFunc("/api/priorities", h.handlePriorities)
	mux.HandleFunc("/api/payments", h.handlePayments)
	mux.HandleFunc("/api/simulate", h.handleSimulate)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type loanRequest struct {
	Name                 string  `json:"name"`
	Principal            float64 `json:"principal"`
	AnnualRate           float64 `json:"annualRate"`
	DaysUntilDue         int     `json:"daysUntilDue"`
	LateFee              float64 `json:"lateFee"`
	CreditFactor         float64 `json:"creditFactor"`
	VariableRate         bool    `json:"variableRate"`
	InflationSensitivity float64 `json:"inflationSensitivity"`
}

type rankedEntry struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Principal    float64 `json:"principal"`
	DaysUntilDue int     `json:"daysUntilDue"`
}

type priorityResponse struct {
	Loans []rankedEntry `json:"loans"`
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

type paymentStepResponse struct {
	LoanName           string  `json:"loanName"`
	AmountPaid         float64 `json:"amountPaid"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

type paymentResponse struct {
	Steps    []paymentStepResponse `json:"steps"`
	Leftover float64               `json:"leftover"`
}

type simulateRequest struct {
	Days int `json:"days"`
}

type exportDocument struct {
	InflationRate float64      `yaml:"inflationRate"`
	Loans         []model.Loan `yaml:"loans"`
}

func (h *handler) handleLoans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req loanRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	loan := model.Loan{
		ID:                   h.nextID,
		Name:                 req.Name,
		Principal:            req.Principal,
		AnnualRate:           req.AnnualRate,
		DaysUntilDue:         req.DaysUntilDue,
		LateFee:              req.LateFee,
		CreditFactor:         req.CreditFactor,
		VariableRate:         req.VariableRate,
		InflationSensitivity: req.InflationSensitivity,
	}
	if err := h.sched.AddLoan(loan); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.nextID++

	h.logger.Info("loan added",
		zap.String("op", "server.handleLoans"),
		zap.Int("id", loan.ID),
		zap.String("name", loan.Name),
	)
	h.writeJSON(w, http.StatusCreated, loan)
}

func (h *handler) handlePriorities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	ranking, err := h.sched.DisplayPriorities()
	h.mu.Unlock()
	if err != nil {
		h.respondCondition(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, rankingToResponse(ranking))
}

func (h *handler) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req paymentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	result, err := h.sched.AllocatePayment(req.Amount)
	h.mu.Unlock()
	if err != nil {
		h.respondCondition(w, err)
		return
	}

	resp := paymentResponse{Leftover: result.Leftover}
	for _, step := range result.Steps {
		resp.Steps = append(resp.Steps, paymentStepResponse{
			LoanName:           step.LoanName,
			AmountPaid:         step.AmountPaid,
			RemainingPrincipal: step.RemainingPrincipal,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req simulateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	ranking, err := h.sched.SimulateDays(req.Days)
	h.mu.Unlock()
	if err != nil {
		h.respondCondition(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, rankingToResponse(ranking))
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	doc := exportDocument{
		InflationRate: h.sched.InflationRate(),
		Loans:         h.sched.Loans(),
	}
	h.mu.Unlock()

	data, err := yaml.Marshal(doc)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize session: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=\"loans.yaml\"")
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write export response",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// respondCondition maps the scheduler's reportable conditions to HTTP
// statuses: bad request input gets 400, empty or fully-repaid sessions get
// 409 so clients can distinguish them from transport errors.
func (h *handler) respondCondition(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidAmount), errors.Is(err, scheduler.ErrNoOp):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduler.ErrNoLoans), errors.Is(err, scheduler.ErrAllSettled):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodyBytes))
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request: %v", err))
		return false
	}
	return true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Warn(msg,
		zap.String("op", "server.respondError"),
		zap.Int("status", status),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func rankingToResponse(ranking []scheduler.RankedLoan) priorityResponse {
	resp := priorityResponse{}
	for _, entry := range ranking {
		resp.Loans = append(resp.Loans, rankedEntry{
			Name:         entry.Loan.Name,
			Score:        entry.Score,
			Principal:    entry.Loan.Principal,
			DaysUntilDue: entry.Loan.DaysUntilDue,
		})
	}
	return resp
}
