package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carprice/pkg/apperrors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
)

func newTestSession(t *testing.T, status int, response string, gotBody *string) *session.Session {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if gotBody != nil {
			*gotBody = string(b)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(ts.Close)

	client, err := predict.New(predict.Options{BaseURL: ts.URL})
	require.NoError(t, err)

	return session.New(session.Options{
		Schema:    form.Classic(),
		Predictor: client,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunPredict_Sets(t *testing.T) {
	var body string
	sess := newTestSession(t, http.StatusOK, `{"predicted_price": 4.23, "currency": "Lakhs"}`, &body)

	var out bytes.Buffer
	err := runPredict(context.Background(), predictIO{out: &out}, sess, []string{
		"Present_Price=5.59",
		"Kms_Driven=27000",
		"Fuel_Type=Diesel",
	})
	require.NoError(t, err)

	assert.Equal(t, "Estimated price: 4.23 Lakhs\n", out.String())
	assert.Equal(t, `{"Present_Price":5.59,"Kms_Driven":27000,"Fuel_Type":1,"Seller_Type":0,"Transmission":0,"Owner":"","Age":""}`, body)
}

func TestRunPredict_Failure(t *testing.T) {
	sess := newTestSession(t, http.StatusInternalServerError, ``, nil)

	var out bytes.Buffer
	err := runPredict(context.Background(), predictIO{out: &out}, sess, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.PredictionFailedMessage+"\n", out.String())
}

func TestRunPredict_BadSet(t *testing.T) {
	sess := newTestSession(t, http.StatusOK, `1`, nil)

	err := runPredict(context.Background(), predictIO{out: io.Discard}, sess, []string{"Age"})
	assert.ErrorIs(t, err, errBadSet)

	err = runPredict(context.Background(), predictIO{out: io.Discard}, sess, []string{"Fuel_Type=Hydrogen"})
	assert.ErrorIs(t, err, form.ErrUnknownOption)
}

func TestRunPredict_Interactive(t *testing.T) {
	var body string
	sess := newTestSession(t, http.StatusOK, `650000.5`, &body)

	in := strings.NewReader("5.59\n27000\nHydrogen\nDiesel\n\n\n2.0\n8\n")
	var out bytes.Buffer
	err := runPredict(context.Background(), predictIO{in: in, out: &out, interactive: true}, sess, nil)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Fuel Type [0=Petrol, 1=Diesel, 2=CNG] (default Petrol): ")
	assert.Contains(t, out.String(), "Invalid input")
	assert.Contains(t, out.String(), "Estimated price: 650000.50\n")
	assert.Equal(t, `{"Present_Price":5.59,"Kms_Driven":27000,"Fuel_Type":1,"Seller_Type":0,"Transmission":0,"Owner":2,"Age":8}`, body)
}

func TestRunPredict_InteractiveSkipsGivenFields(t *testing.T) {
	sess := newTestSession(t, http.StatusOK, `1`, nil)

	var out bytes.Buffer
	err := runPredict(context.Background(), predictIO{in: strings.NewReader(""), out: &out, interactive: true}, sess, []string{"Present_Price=3"})
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "Present Price")
	assert.Contains(t, out.String(), "Kilometers Driven (e.g., 27000): ")
}

func TestRunPredict_JSON(t *testing.T) {
	sess := newTestSession(t, http.StatusOK, `{"predicted_price": 2.005}`, nil)

	var out bytes.Buffer
	err := runPredict(context.Background(), predictIO{out: &out, json: true}, sess, nil)
	require.NoError(t, err)

	var v session.View
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "2.01", v.Prediction)
	assert.Equal(t, session.PhaseSuccess, v.Phase)
}

func TestPrintFields(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printFields(&out, form.Extended()))

	assert.Contains(t, out.String(), "variant: extended")
	assert.Contains(t, out.String(), "seller_type")
	assert.Contains(t, out.String(), "2=Trustmark Dealer")
}
