package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/preston-bernstein/better-bets-service/internal/history"
	"github.com/preston-bernstein/better-bets-service/internal/http/requestutil"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

// Backfill run states.
const (
	RunRunning = "running"
	RunDone    = "done"
	RunStopped = "stopped"
	RunFailed  = "failed"
)

// maxTrackedRuns caps how many run statuses stay queryable.
const maxTrackedRuns = 50

// Backfiller runs a historical odds backfill.
type Backfiller interface {
	Run(ctx context.Context, opts history.BackfillOptions) (history.BackfillReport, error)
}

// BackfillRun is the status of one admin-triggered backfill.
type BackfillRun struct {
	RunID      string                  `json:"runId"`
	State      string                  `json:"state"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt *time.Time              `json:"finishedAt,omitempty"`
	Report     *history.BackfillReport `json:"report,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// AdminHandler exposes admin-only endpoints guarded by a bearer token.
// Backfills run in the background, one at a time, outside any request deadline.
type AdminHandler struct {
	backfiller Backfiller
	defaults   history.BackfillOptions
	token      string
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	runs   map[string]*BackfillRun
	order  []string
	active string
}

// NewAdminHandler constructs an AdminHandler. defaults supply the limits a request cannot override.
func NewAdminHandler(backfiller Backfiller, defaults history.BackfillOptions, token string, logger *slog.Logger) *AdminHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &AdminHandler{
		backfiller: backfiller,
		defaults:   defaults,
		token:      token,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		runs:       make(map[string]*BackfillRun),
	}
}

// Backfill starts archiving one historical odds snapshot per day in from..to and answers 202
// with the run status. Poll BackfillStatus for the report. A second request while a run is
// active gets 409.
func (h *AdminHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.checkAuth(w, r) {
		return
	}
	if h.backfiller == nil {
		writeError(w, r, http.StatusServiceUnavailable, "backfill not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	fromRaw := requestutil.FirstParam(q, "from")
	if fromRaw == "" {
		writeError(w, r, http.StatusBadRequest, "from is required (YYYY-MM-DD)", logger)
		return
	}
	toRaw := requestutil.FirstParam(q, "to")
	if toRaw == "" {
		toRaw = fromRaw
	}
	from, to, err := timeutil.ParseRange(fromRaw, toRaw)
	if err != nil {
		logging.Warn(logger, "admin backfill invalid range", slog.String("from", fromRaw), slog.String("to", toRaw))
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	opts := h.defaults
	opts.From = from
	opts.To = to
	if sport := requestutil.FirstParam(q, "sport"); sport != "" {
		opts.Sport = sport
		opts.League = ""
	}
	if force, err := requestutil.BoolParam(q, "force", false); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	} else if force {
		opts.Force = true
	}

	h.mu.Lock()
	if h.ctx.Err() != nil {
		h.mu.Unlock()
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", logger)
		return
	}
	if h.active != "" {
		active := h.active
		h.mu.Unlock()
		writeError(w, r, http.StatusConflict, "backfill "+active+" is already running", logger)
		return
	}
	opts.RunID = h.newID()
	run := &BackfillRun{RunID: opts.RunID, State: RunRunning, StartedAt: h.now().UTC()}
	h.track(run)
	started := *run
	h.wg.Add(1)
	h.mu.Unlock()

	go h.execute(logging.WithLogger(h.ctx, logger), opts)

	logging.Info(logger, "admin backfill started",
		slog.String(logging.FieldRunID, started.RunID),
		slog.String(logging.FieldSport, opts.Sport),
	)
	w.Header().Set("Location", "/admin/odds/backfill/"+started.RunID)
	writeJSON(w, http.StatusAccepted, started, logger)
}

// BackfillStatus returns the state of a run started by Backfill, with its report once finished.
func (h *AdminHandler) BackfillStatus(w http.ResponseWriter, r *http.Request) {
	if !h.checkAuth(w, r) {
		return
	}
	id := chi.URLParam(r, "runID")

	h.mu.Lock()
	run, ok := h.runs[id]
	var snapshot BackfillRun
	if ok {
		snapshot = *run
	}
	h.mu.Unlock()

	if !ok {
		writeError(w, r, http.StatusNotFound, "backfill run not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, snapshot, loggerFromContext(r, h.logger))
}

// Shutdown cancels the active run and waits for it to record its outcome.
func (h *AdminHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.cancel()
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *AdminHandler) execute(ctx context.Context, opts history.BackfillOptions) {
	defer h.wg.Done()
	logger := logging.FromContext(ctx, h.logger)

	report, err := h.backfiller.Run(ctx, opts)
	finished := h.now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()
	run := h.runs[opts.RunID]
	run.FinishedAt = &finished
	run.Report = &report
	switch {
	case err == nil:
		run.State = RunDone
	case report.StoppedEarly && !isContextErr(err):
		run.State = RunStopped
		run.Error = err.Error()
	default:
		run.State = RunFailed
		run.Error = err.Error()
	}
	h.active = ""

	if run.State == RunFailed {
		logging.Error(logger, "admin backfill failed", err, slog.String(logging.FieldRunID, opts.RunID))
		return
	}
	logging.Info(logger, "admin backfill finished",
		slog.String(logging.FieldRunID, opts.RunID),
		slog.String("state", run.State),
	)
}

// track registers run as active and forgets the oldest finished runs past maxTrackedRuns. Callers hold mu.
func (h *AdminHandler) track(run *BackfillRun) {
	h.runs[run.RunID] = run
	h.order = append(h.order, run.RunID)
	h.active = run.RunID
	for len(h.order) > maxTrackedRuns {
		delete(h.runs, h.order[0])
		h.order = h.order[1:]
	}
}

func (h *AdminHandler) checkAuth(w http.ResponseWriter, r *http.Request) bool {
	if h.authorize(r) {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
	return false
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && token == h.token
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
