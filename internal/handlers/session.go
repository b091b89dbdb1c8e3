package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nordicmaskin/kma/internal/workflow"
	"github.com/nordicmaskin/kma/types"
	"go.uber.org/zap"
)

// SessionView is the client-facing snapshot of a wizard session.
type SessionView struct {
	ID         string               `json:"id"`
	Step       workflow.Step        `json:"step"`
	User       string               `json:"user,omitempty"`
	Action     types.Action         `json:"action,omitempty"`
	Equipment  *types.Equipment     `json:"equipment,omitempty"`
	Checklist  *types.Checklist     `json:"checklist,omitempty"`
	Completion *workflow.Completion `json:"completion,omitempty"`
}

func viewOf(s *workflow.Session) SessionView {
	view := SessionView{
		ID:         s.ID,
		Step:       s.Step,
		User:       s.User,
		Action:     s.Action,
		Completion: s.Completion,
	}
	if s.Step == workflow.StepChecklistInProgress {
		eq, checklist := s.Equipment, s.Checklist
		view.Equipment = &eq
		view.Checklist = &checklist
	}
	return view
}

type ActionRequest struct {
	Action types.Action `json:"action"`
}

// CompletionResponse carries the completion outcome. Error is set when
// the audit trail could not be written.
type CompletionResponse struct {
	Session    SessionView          `json:"session"`
	Completion *workflow.Completion `json:"completion"`
	Error      string               `json:"error,omitempty"`
}

// SessionHandler drives the wizard for the authenticated session.
type SessionHandler struct {
	controller *workflow.Controller
	sessions   *workflow.Sessions
	logger     *zap.Logger
}

func NewSessionHandler(controller *workflow.Controller, sessions *workflow.Sessions, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{controller: controller, sessions: sessions, logger: logger}
}

// SessionRouter registers session routes. Every route requires auth.
func SessionRouter(r chi.Router, controller *workflow.Controller, sessions *workflow.Sessions, logger *zap.Logger, authMiddleware func(http.Handler) http.Handler) {
	handler := NewSessionHandler(controller, sessions, logger)

	r.Use(authMiddleware)
	r.Get("/", handler.Get)
	r.Post("/action", handler.ChooseAction)
	r.Post("/equipment", handler.SelectEquipment)
	r.Post("/equipment/new", handler.CreateEquipment)
	r.Get("/checklist", handler.Checklist)
	r.Post("/complete", handler.Complete)
	r.Get("/report.pdf", handler.ReportPDF)
	r.Post("/back", handler.Back)
	r.Post("/restart", handler.Restart)
	r.Post("/logout", handler.Logout)
}

// with runs fn on the caller's session and writes the resulting view.
func (h *SessionHandler) with(w http.ResponseWriter, r *http.Request, fn func(*workflow.Session) error) {
	id, err := sessionIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var view SessionView
	err = h.sessions.With(id, func(s *workflow.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if view.Step == workflow.StepLoggedOut {
		h.sessions.Remove(id)
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(*workflow.Session) error { return nil })
}

func (h *SessionHandler) ChooseAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.with(w, r, func(s *workflow.Session) error {
		return h.controller.ChooseAction(s, req.Action)
	})
}

func (h *SessionHandler) SelectEquipment(w http.ResponseWriter, r *http.Request) {
	var req types.Equipment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.with(w, r, func(s *workflow.Session) error {
		return h.controller.SelectEquipment(r.Context(), s, req)
	})
}

// CreateEquipment registers the unit (or updates its notes) and selects it.
func (h *SessionHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req types.Equipment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.with(w, r, func(s *workflow.Session) error {
		return h.controller.CreateEquipment(r.Context(), s, req)
	})
}

// Checklist returns the resolved checklist while it is being filled.
func (h *SessionHandler) Checklist(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var checklist types.Checklist
	err = h.sessions.With(id, func(s *workflow.Session) error {
		if s.Step != workflow.StepChecklistInProgress {
			return workflow.ErrWrongStep
		}
		checklist = s.Checklist
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checklist)
}

// Complete submits the filled checklist.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var sub workflow.Submission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp CompletionResponse
	err = h.sessions.With(id, func(s *workflow.Session) error {
		done, err := h.controller.Complete(r.Context(), s, sub)
		resp.Completion = done
		resp.Session = viewOf(s)
		return err
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, resp)
	case errors.Is(err, workflow.ErrAuditIncomplete):
		h.logger.Error("audit trail incomplete", zap.String("session", id), zap.Error(err))
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
	default:
		h.fail(w, r, err)
	}
}

// ReportPDF streams the last completed certificate.
func (h *SessionHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var done *workflow.Completion
	err = h.sessions.With(id, func(s *workflow.Session) error {
		done = s.Completion
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if done == nil {
		writeError(w, http.StatusNotFound, "no report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+done.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(done.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(done.PDF)
}

// Back moves one step backward. Going back from the action screen ends
// the session.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, h.controller.Back)
}

// Restart begins a new report after completion.
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, h.controller.Restart)
}

// Logout ends the session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(s *workflow.Session) error {
		h.controller.Logout(s)
		return nil
	})
}
