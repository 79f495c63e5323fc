package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekruzvatanshoev/carprice/pkg/logger"
)

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "prediction", err: NewPredictionError(errors.New("dial tcp: refused")), expected: PredictionFailedMessage},
		{name: "wrapped prediction", err: fmt.Errorf("submit: %w", NewPredictionError(nil)), expected: PredictionFailedMessage},
		{name: "busy", err: NewBusyError(), expected: "A prediction is already in progress."},
		{name: "field", err: NewFieldError(errors.New("bad option")), expected: "Invalid input: bad option"},
		{name: "plain", err: errors.New("boom"), expected: genericMessage},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UserMessage(tc.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("status 500")
	err := NewPredictionError(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, NewBusyError(), ErrBusy)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := logger.WithCorrelationID(context.Background(), "req-1")
	msg := h.Handle(ctx, NewPredictionError(errors.New("connection refused")))

	assert.Equal(t, PredictionFailedMessage, msg)
	assert.Contains(t, buf.String(), `"code":"E300"`)
	assert.Contains(t, buf.String(), `"correlation_id":"req-1"`)
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	buf.Reset()
	assert.Equal(t, "", h.Handle(ctx, nil))
	assert.Empty(t, buf.String())

	msg = h.Handle(ctx, NewBusyError())
	assert.Equal(t, "A prediction is already in progress.", msg)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
