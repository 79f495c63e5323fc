// Package session implements the prediction form: field input, a guarded
// submission to the prediction endpoint, and the render model of the result.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nekruzvatanshoev/carprice/pkg/apperrors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/metrics"
)

// Options wires a Session. Errors and Log default to slog.Default based values.
type Options struct {
	Schema    form.Schema
	Predictor predict.Predictor
	Errors    *apperrors.Handler
	Log       *slog.Logger
}

// Session is one user's form. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	state     *form.State
	predictor predict.Predictor
	errs      *apperrors.Handler
	log       *slog.Logger

	phase      Phase
	busy       bool
	prediction *predict.Estimate
	errMsg     string
	lastActive time.Time
}

func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	errs := opts.Errors
	if errs == nil {
		errs = apperrors.NewHandler(log)
	}

	return &Session{
		state:      form.NewState(opts.Schema),
		predictor:  opts.Predictor,
		errs:       errs,
		log:        log.With(slog.String("variant", opts.Schema.Name)),
		phase:      PhaseIdle,
		lastActive: time.Now(),
	}
}

func (s *Session) Schema() form.Schema {
	return s.state.Schema()
}

// Update stores raw input for a field. It leaves the prediction and error as they are.
func (s *Session) Update(name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	if err := s.state.Set(name, raw); err != nil {
		return apperrors.NewFieldError(err)
	}
	return nil
}

// Submit posts the current form to the predictor. A call made while another
// submission is in flight returns an error matching apperrors.ErrBusy and
// changes nothing. On failure the previous prediction is kept and the fixed
// failure message is set.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return apperrors.NewBusyError()
	}

	s.busy = true
	s.errMsg = ""
	s.lastActive = time.Now()
	s.transition(PhaseSubmitting)
	payload, encodeErr := s.state.Payload()
	s.mu.Unlock()

	start := time.Now()
	var (
		est predict.Estimate
		err = encodeErr
	)
	if err == nil {
		est, err = s.predictor.Predict(ctx, payload)
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	s.lastActive = time.Now()
	variant := s.state.Schema().Name

	if err != nil {
		appErr := apperrors.NewPredictionError(err)
		s.errMsg = s.errs.Handle(ctx, appErr)
		s.transition(PhaseFailed)
		metrics.RecordPrediction(variant, "failure", elapsed)
		return appErr
	}

	s.prediction = &est
	s.transition(PhaseSuccess)
	metrics.RecordPrediction(variant, "success", elapsed)
	s.log.DebugContext(ctx, "prediction received",
		slog.String("kind", string(est.Kind)),
		slog.Float64("value", est.Value),
		slog.Duration("duration", elapsed),
	)
	return nil
}

// Reset restores the initial form and drops the prediction and error.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return apperrors.NewBusyError()
	}

	s.state.Reset()
	s.prediction = nil
	s.errMsg = ""
	s.lastActive = time.Now()
	if s.phase != PhaseIdle {
		s.transition(PhaseIdle)
	}
	return nil
}

// Prediction returns the last successful estimate.
func (s *Session) Prediction() (predict.Estimate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prediction == nil {
		return predict.Estimate{}, false
	}
	return *s.prediction, true
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastActive is the time of the latest update, submit or reset.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// transition must be called with mu held.
func (s *Session) transition(to Phase) {
	from := s.phase
	if !IsTransitionAllowed(from, to) {
		s.log.Warn("invalid form phase transition", slog.String("from", string(from)), slog.String("to", string(to)))
		return
	}
	s.phase = to
	metrics.RecordPhaseTransition(string(from), string(to))
}
