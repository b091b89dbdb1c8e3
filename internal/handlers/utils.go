package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/internal/workflow"
)

const maxBodyBytes = 1 << 20

type contextKey string

const contextSubjectKey contextKey = "sub"

// ErrorResponse is the error payload of every endpoint.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Reason string   `json:"reason,omitempty"`
	Hint   string   `json:"hint,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func sessionIDFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(contextSubjectKey).(string)
	if !ok || strings.TrimSpace(subject) == "" {
		return "", errors.New("missing subject")
	}
	return subject, nil
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// errorResponse maps domain errors to a status code and payload.
func errorResponse(err error) (int, ErrorResponse) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields}
	case services.AuthReason(err) != "":
		return http.StatusUnauthorized, ErrorResponse{Error: "login failed", Reason: services.AuthReason(err)}
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, workflow.ErrSessionNotFound):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"}
	case errors.Is(err, workflow.ErrWrongStep):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, workflow.ErrInvalidAction):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, workflow.ErrUnknownEquipment):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, workflow.ErrNoChecklist):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Hint: workflow.NoChecklistHint}
	case errors.Is(err, workflow.ErrAuditIncomplete):
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	writeJSON(w, status, body)
}
