package predict

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Predict(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotHeader http.Header
		gotBody   string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotHeader = r.Method, r.URL.Path, r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_price": 4.23, "currency": "Lakhs"}`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, ts.URL+"/predict", c.Endpoint())

	payload := `{"Present_Price":5.59,"Age":""}`
	est, err := c.Predict(context.Background(), []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/predict", gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, "4.23", est.Formatted())
	assert.Equal(t, "Lakhs", est.Unit)
}

func TestClient_PredictStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "bad input"}`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), []byte(`{}`))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	assert.Contains(t, statusErr.Body, "bad input")
}

func TestClient_PredictMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_PredictTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestClient_CustomPath(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`1`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL + "/api", Path: "v2/predict"})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/predict", gotPath)
}

func TestClient_Health(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"message": "Car Price Prediction API is running"}`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)
	assert.NoError(t, c.Health(context.Background()))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8000", "://bad"} {
		_, err := New(Options{BaseURL: base})
		assert.ErrorIs(t, err, ErrInvalidBaseURL, "base %q", base)
	}
}
