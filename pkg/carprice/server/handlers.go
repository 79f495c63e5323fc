package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nekruzvatanshoev/carprice/pkg/apperrors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
)

const maxBodyBytes = 64 << 10

type fieldRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error string       `json:"error"`
	View  session.View `json:"view"`
}

// GetPage defines a GET handler rendering the form page
func (h *httpServer) GetPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.renderPage(w, http.StatusOK, pageData{View: sess.View()})
}

// PostPage defines a POST handler that applies every posted field, submits
// the form and renders the result
func (h *httpServer) PostPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, http.StatusBadRequest, pageData{View: sess.View(), Notice: "Could not read the submitted form."})
		return
	}

	for _, f := range sess.Schema().Fields {
		if _, posted := r.PostForm[f.Name]; !posted {
			continue
		}
		if err := sess.Update(f.Name, r.PostForm.Get(f.Name)); err != nil {
			h.renderPage(w, http.StatusBadRequest, pageData{View: sess.View(), Notice: h.errs.Handle(r.Context(), err)})
			return
		}
	}

	err := sess.Submit(r.Context())
	if errors.Is(err, apperrors.ErrBusy) {
		h.renderPage(w, http.StatusConflict, pageData{View: sess.View(), Notice: apperrors.UserMessage(err)})
		return
	}

	h.renderPage(w, http.StatusOK, pageData{View: sess.View()})
}

// GetForm defines a GET handler returning the form view as JSON
func (h *httpServer) GetForm(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.writeJSON(w, http.StatusOK, sess.View())
}

// PutField defines a PUT handler storing the raw value of one field
func (h *httpServer) PutField(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	name := mux.Vars(r)["name"]

	var req fieldRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be {\"value\": \"...\"}", View: sess.View()})
		return
	}

	if err := sess.Update(name, req.Value); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: h.errs.Handle(r.Context(), err), View: sess.View()})
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View())
}

// Submit defines a POST handler sending the form to the prediction endpoint.
// A failed prediction is part of the view, so it still answers 200.
func (h *httpServer) Submit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := sess.Submit(r.Context()); errors.Is(err, apperrors.ErrBusy) {
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: apperrors.UserMessage(err), View: sess.View()})
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View())
}

// Reset defines a POST handler restoring the initial form
func (h *httpServer) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := sess.Reset(); err != nil {
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: apperrors.UserMessage(err), View: sess.View()})
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View())
}

// Liveness defines a GET handler for process liveness
func (h *httpServer) Liveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness defines a GET handler checking the prediction service
func (h *httpServer) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if err := h.health.Health(r.Context()); err != nil {
		h.log.Warn("prediction service not ready", slog.Any("error", err))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "prediction_service": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "prediction_service": "OK"})
}

// session resolves the caller's form session and refreshes its cookie.
func (h *httpServer) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	id, sess := h.sessions.Get(id)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess
}

func (h *httpServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", slog.Any("error", err))
	}
}
