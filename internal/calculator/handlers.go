package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"deskcalc/internal/engine"
	"deskcalc/internal/handlers"
	"deskcalc/internal/observability"
	"deskcalc/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const (
	maxBodyBytes = 64 << 10
	maxKeys      = 4096
)

// Handler serves the calculator endpoints on top of a session store.
type Handler struct {
	store *session.Store
}

func NewHandler(store *session.Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "create_session")
	defer span.End()

	sess, err := h.store.Create()
	if err != nil {
		fail(ctx, span, logger, w, "create_session", err)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, displayOf(sess.ID, sess.View()))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "get_session")
	defer span.End()

	sess, err := h.lookup(r, span)
	if err != nil {
		fail(ctx, span, logger, w, "get_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, displayOf(sess.ID, sess.View()))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "delete_session")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if err := h.store.Delete(id); err != nil {
		fail(ctx, span, logger, w, "delete_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — key events
// ---------------------------------------------------------------------------

// PressKeys handles POST /calculator/sessions/{id}/keys — feeds the keys to
// the session's engine as one atomic batch.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "press_keys")
	defer span.End()

	sess, err := h.lookup(r, span)
	if err != nil {
		fail(ctx, span, logger, w, "press_keys", err)
		return
	}

	events, err := decodeKeys(w, r)
	if err != nil {
		fail(ctx, span, logger, w, "press_keys", err)
		return
	}

	resp := runEvents(ctx, span, logger, sess.ID, sess.Apply, events)
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// SetInput handles PUT /calculator/sessions/{id}/input — replaces the text
// being composed, as when the user edits the display field directly.
func (h *Handler) SetInput(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "set_input")
	defer span.End()

	sess, err := h.lookup(r, span)
	if err != nil {
		fail(ctx, span, logger, w, "set_input", err)
		return
	}

	var req InputRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		fail(ctx, span, logger, w, "set_input", badRequest("invalid request body", err))
		return
	}

	_, state := sess.Apply(engine.Input(req.Input))
	eventsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", engine.KindInput.String()),
		attribute.Bool("applied", true),
	))

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, displayOf(sess.ID, state))
}

// Evaluate handles POST /calculator/evaluate — runs the keys through a fresh
// engine without creating a session.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "evaluate")
	defer span.End()

	events, err := decodeKeys(w, r)
	if err != nil {
		fail(ctx, span, logger, w, "evaluate", err)
		return
	}

	eng := engine.New()
	apply := func(events ...engine.Event) ([]engine.Outcome, engine.State) {
		outcomes := make([]engine.Outcome, len(events))
		for i, ev := range events {
			outcomes[i] = eng.HandleEvent(ev)
		}
		return outcomes, eng.State()
	}

	resp := runEvents(ctx, span, logger, "", apply, events)
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// runEvents applies events through apply and records one child span per key,
// the calculator metrics, and a summary log line.
func runEvents(ctx context.Context, span trace.Span, logger *zap.Logger, sessionID string, apply func(...engine.Event) ([]engine.Outcome, engine.State), events []engine.Event) KeysResponse {
	requestID := observability.RequestIDFromContext(ctx)
	span.SetAttributes(attribute.Int("calculator.keys.count", len(events)))

	start := time.Now()
	outcomes, state := apply(events...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	resp := KeysResponse{
		Display: displayOf(sessionID, state),
		Steps:   make([]KeyStep, 0, len(events)),
	}

	for i, ev := range events {
		out := outcomes[i]

		// --- Child span per key ---
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, ev.Kind),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key", ev.Key()),
				attribute.Bool("calculator.key.applied", out.Applied),
			),
		)

		step := KeyStep{Key: ev.Key(), Applied: out.Applied}
		if out.Applied {
			resp.Applied++
		} else {
			resp.Ignored++
		}

		eventsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", ev.Kind.String()),
			attribute.Bool("applied", out.Applied),
		))

		if out.Computed {
			step.Computed = true
			step.Value = engine.FormatValue(out.Value)

			attrs := metric.WithAttributes(attribute.String("operation", out.Op.String()))
			computationsCounter.Add(ctx, 1, attrs)
			if !math.IsNaN(out.Value) && !math.IsInf(out.Value, 0) {
				resultGauge.Record(ctx, out.Value, attrs)
			}

			stepSpan.AddEvent("computation.complete", trace.WithAttributes(
				attribute.String("operation", out.Op.String()),
				attribute.String("result", step.Value),
			))

			logger.Debug("calculator operation completed",
				zap.String("operation", out.Op.String()),
				zap.String("result", step.Value),
				zap.String("request_id", requestID),
			)
		}

		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		resp.Steps = append(resp.Steps, step)
	}

	requestHistogram.Record(ctx, elapsed)

	span.AddEvent("keys.complete", trace.WithAttributes(
		attribute.Int("applied", resp.Applied),
		attribute.Int("ignored", resp.Ignored),
		attribute.String("result", state.Result),
	))
	span.SetAttributes(
		attribute.String("calculator.input", state.Input),
		attribute.String("calculator.result", state.Result),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.String("session_id", sessionID),
		zap.Int("keys", len(events)),
		zap.Int("applied", resp.Applied),
		zap.Int("ignored", resp.Ignored),
		zap.String("input", state.Input),
		zap.String("result", state.Result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	return resp
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// requestError carries the HTTP status and client-facing message for a
// failed request.
type requestError struct {
	status int
	msg    string
	err    error
}

func (e *requestError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error {
	return &requestError{status: http.StatusBadRequest, msg: msg, err: err}
}

// classify maps an error to its HTTP status and response message.
func classify(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.msg
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, session.ErrCapacity):
		return http.StatusServiceUnavailable, "too many sessions"
	}
	return http.StatusInternalServerError, "internal error"
}

func fail(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, err error) {
	status, msg := classify(err)
	observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
}

func startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+opName,
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, logger
}

func (h *Handler) lookup(r *http.Request, span trace.Span) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))
	return h.store.Get(id)
}

func decodeKeys(w http.ResponseWriter, r *http.Request) ([]engine.Event, error) {
	var req KeysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, badRequest("invalid request body", err)
	}

	events, err := engine.ParseKeys(req.Keys)
	if err != nil {
		return nil, badRequest(err.Error(), err)
	}
	if len(events) == 0 {
		return nil, badRequest("no keys provided", errors.New("keys is empty"))
	}
	if len(events) > maxKeys {
		return nil, badRequest("too many keys", fmt.Errorf("%d keys exceeds limit of %d", len(events), maxKeys))
	}
	return events, nil
}

func displayOf(sessionID string, s engine.State) Display {
	d := Display{
		SessionID: sessionID,
		Input:     s.Input,
		Result:    s.Result,
	}
	if s.HasPending {
		d.PendingOperator = s.Operator.Symbol()
		d.Accumulator = engine.FormatValue(s.Accumulator)
	}
	return d
}
