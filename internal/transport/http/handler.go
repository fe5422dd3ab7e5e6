package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SscSPs/fiscalsim/internal/adapters/patternstore/memory"
	"github.com/SscSPs/fiscalsim/internal/apperrors"
	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/services"
)

// snapshotRetention is how long a finished run's broadcaster is kept alive
// after its terminal event, so a poll client that misses the SSE stream can
// still GET /snapshot for a while before the registry reclaims the memory.
const snapshotRetention = 5 * time.Minute

// ErrorResponse is the generic error body every handler in this package
// returns on failure, grounded on the teacher's handlers.ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SimulationHandler exposes SimulationRunner over HTTP, grounded on the
// teacher's handlers.LedgerHandler shape: a thin struct wrapping a service,
// translating domain errors to status codes and JSON. Persistence/CRUD of
// companies and patterns are external collaborators (spec §1); this demo
// handler accepts them inline in the run request and stores them in the
// in-memory reference store purely so RunSimulation has something to read.
type SimulationHandler struct {
	runner   *services.SimulationRunner
	store    *memory.Store
	registry *BroadcastRegistry
}

// NewSimulationHandler builds a handler around a container's runner, the
// reference in-memory store it reads from, and the registry its
// ProgressSink was constructed with.
func NewSimulationHandler(runner *services.SimulationRunner, store *memory.Store, registry *BroadcastRegistry) *SimulationHandler {
	return &SimulationHandler{runner: runner, store: store, registry: registry}
}

// RunRequest is the POST /simulations body: a fiscal configuration plus the
// company and patterns to run it against.
type RunRequest struct {
	FiscalConfig    domain.FiscalConfig `json:"fiscalConfig" binding:"required"`
	Company         domain.Company      `json:"company" binding:"required"`
	RevenuePatterns []domain.Pattern    `json:"revenuePatterns"`
	ExpensePatterns []domain.Pattern    `json:"expensePatterns"`
}

// RunResponse acknowledges a started run (spec §6: "returns {simulationId}
// immediately (status running)").
type RunResponse struct {
	SimulationID string                  `json:"simulationId"`
	Status       domain.SimulationStatus `json:"status"`
}

// CreateSimulation godoc
// @Summary Start a twelve-month financial simulation
// @Description Validates the fiscal configuration, stores the supplied company/patterns in the reference store, and runs the simulation in the background. Progress is observable via the events/snapshot endpoints.
// @Tags simulations
// @Accept json
// @Produce json
// @Param request body RunRequest true "Fiscal config, company and patterns"
// @Success 202 {object} RunResponse
// @Failure 400 {object} ErrorResponse
// @Router /simulations [post]
func (h *SimulationHandler) CreateSimulation(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.store.PutCompany(req.Company)
	h.store.PutRevenuePatterns(req.Company.ID, req.RevenuePatterns)
	h.store.PutExpensePatterns(req.Company.ID, req.ExpensePatterns)

	simulationID := uuid.NewString()

	go func() {
		// The request's context is cancelled as soon as the handler returns,
		// so the background run gets a detached context and relies solely on
		// RunOptions.Cancel for cooperative cancellation (none is wired here
		// — a future DELETE /simulations/:id could close a per-run channel
		// tracked alongside the registry).
		_, _ = h.runner.RunSimulation(context.Background(), req.FiscalConfig, req.Company.ID, services.RunOptions{SimulationID: simulationID})
		time.AfterFunc(snapshotRetention, func() { h.registry.Forget(simulationID) })
	}()

	c.JSON(http.StatusAccepted, RunResponse{SimulationID: simulationID, Status: domain.StatusRunning})
}

// GetSnapshot godoc
// @Summary Read the latest progress snapshot for a simulation
// @Description For clients that cannot hold a streaming connection (spec §6).
// @Tags simulations
// @Produce json
// @Param id path string true "Simulation ID"
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /simulations/{id}/snapshot [get]
func (h *SimulationHandler) GetSnapshot(c *gin.Context) {
	id := c.Param("id")
	snapshot, ok := h.registry.Latest(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: apperrors.NewNotFoundError("simulation", id).Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// StreamEvents godoc
// @Summary Stream simulation progress as server-sent events
// @Description Canonical wire format per spec §6: {"type":"progress"|"completed"|"error"|"heartbeat","data":{...}}.
// @Tags simulations
// @Produce text/event-stream
// @Param id path string true "Simulation ID"
// @Router /simulations/{id}/events [get]
func (h *SimulationHandler) StreamEvents(c *gin.Context) {
	id := c.Param("id")
	ch := h.registry.Subscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			return writeEvent(w, snapshot)
		}
	})
}

// wireEnvelope is the canonical wire shape per spec §6:
// {"type":"progress"|"completed"|"error"|"heartbeat","data":{…}}, one JSON
// object per SSE "data:" line.
type wireEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// wireErrorPayload is the body a failed run's terminal event carries (spec
// §6: "error carries {message}").
type wireErrorPayload struct {
	Message string `json:"message"`
}

// writeEvent renders one Snapshot as a single SSE "data:" line carrying the
// wireEnvelope, and reports whether the stream should continue (false once
// a terminal event has been written).
func writeEvent(w io.Writer, s domain.Snapshot) bool {
	env := wireEnvelope{Type: "progress"}
	switch s.Status {
	case services.StatusHeartbeat:
		env.Type = "heartbeat" // heartbeats carry no data payload (spec §6)
	case domain.StatusCompleted:
		env.Type, env.Data = "completed", s
	case domain.StatusFailed:
		env.Type, env.Data = "error", wireErrorPayload{Message: s.Message}
	default:
		env.Data = s
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	// The stream ends once a terminal (completed/failed) event has been
	// written; a heartbeat never ends it.
	return !s.Terminal()
}
