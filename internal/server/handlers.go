package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/topovision/topovision/internal/analysis"
	"github.com/topovision/topovision/internal/calculus"
	"github.com/topovision/topovision/internal/httputil"
	"github.com/topovision/topovision/internal/store"
)

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

// handleStrategies lists the registered calculation strategies.
func (ws *WebServer) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]any{"strategies": calculus.StrategyNames()})
}

// handleAnalyze accepts a strategy, optional region and parameters,
// queues the calculation and returns the run ID to poll with.
func (ws *WebServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Strategy == "" {
		httputil.BadRequest(w, "missing 'strategy' field")
		return
	}
	// Reject unknown names before queueing so the caller gets a 400
	// instead of a failed run.
	known := false
	for _, name := range calculus.StrategyNames() {
		if name == req.Strategy {
			known = true
			break
		}
	}
	if !known {
		ws.writeCalcError(w, fmt.Errorf("%w: %q", calculus.ErrInvalidStrategy, req.Strategy))
		return
	}
	if req.ZFactor < 0 {
		ws.writeCalcError(w, fmt.Errorf("%w: z_factor must be positive, got %g", calculus.ErrInvalidParameter, req.ZFactor))
		return
	}

	runID, err := ws.svc.Submit(req)
	if err != nil {
		ws.writeCalcError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID,
		"status": store.StatusRunning,
	})
}

// handleResult drains at most one finished calculation. When nothing
// has completed since the last poll it reports a pending status so
// clients can keep polling the same way.
func (ws *WebServer) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	env, ok := ws.svc.Poll()
	if !ok {
		httputil.WriteJSONOK(w, map[string]string{"status": "pending"})
		return
	}
	httputil.WriteJSONOK(w, env)
}

// handleRuns returns recent run history, newest first.
// Query params:
//
//	run_id (optional; fetch a single run)
//	limit (optional, default 50)
func (ws *WebServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if ws.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run history not configured")
		return
	}

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		rec, err := ws.db.GetRun(runID)
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "no run with id "+runID)
			return
		}
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, rec)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = v
	}

	runs, err := ws.db.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, "failed to list runs: "+err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]any{"runs": runs, "count": len(runs)})
}

// handleConfig reports the effective settings, defaults included.
func (ws *WebServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	body := map[string]any{
		"z_factor":       ws.settings.GetZFactor(),
		"pixel_scale_xy": ws.settings.GetPixelScaleXY(),
		"pixel_scale_z":  ws.settings.GetPixelScaleZ(),
		"frame_source":   ws.settings.GetFrameSource(),
		"frame_width":    ws.settings.GetFrameWidth(),
		"frame_height":   ws.settings.GetFrameHeight(),
		"denoiser":       ws.settings.GetDenoiser(),
		"denoise_kernel": ws.settings.GetDenoiseKernel(),
		"queue_depth":    ws.settings.GetQueueDepth(),
	}
	if ws.settings.Perspective != nil {
		body["perspective"] = ws.settings.Perspective
	}
	httputil.WriteJSONOK(w, body)
}

// writeCalcError maps calculation error classes onto HTTP statuses:
// caller mistakes are 400s, everything else is a 500.
func (ws *WebServer) writeCalcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculus.ErrInvalidStrategy),
		errors.Is(err, calculus.ErrInvalidParameter),
		errors.Is(err, calculus.ErrInvalidShape),
		errors.Is(err, calculus.ErrNoStrategy):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalServerError(w, err.Error())
	}
}
