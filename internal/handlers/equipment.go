package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nordicmaskin/kma/internal/services"
	"go.uber.org/zap"
)

// EquipmentHandler serves the cascading pick lists of the equipment screen.
type EquipmentHandler struct {
	catalog *services.EquipmentService
	logger  *zap.Logger
}

func NewEquipmentHandler(catalog *services.EquipmentService, logger *zap.Logger) *EquipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentHandler{catalog: catalog, logger: logger}
}

// EquipmentRouter registers equipment routes on the given router.
func EquipmentRouter(r chi.Router, catalog *services.EquipmentService, logger *zap.Logger, authMiddleware func(http.Handler) http.Handler) {
	handler := NewEquipmentHandler(catalog, logger)

	r.Use(authMiddleware)
	r.Get("/types", handler.Types)
	r.Get("/brands", handler.Brands)
	r.Get("/models", handler.Models)
	r.Get("/serials", handler.Serials)
}

type ListResponse struct {
	Items []string `json:"items"`
}

func (h *EquipmentHandler) Types(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.catalog.Types)
}

func (h *EquipmentHandler) Brands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, func(ctx context.Context) ([]string, error) {
		return h.catalog.Brands(ctx, q.Get("type"))
	})
}

func (h *EquipmentHandler) Models(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, func(ctx context.Context) ([]string, error) {
		return h.catalog.Models(ctx, q.Get("type"), q.Get("brand"))
	})
}

func (h *EquipmentHandler) Serials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, func(ctx context.Context) ([]string, error) {
		return h.catalog.Serials(ctx, q.Get("type"), q.Get("brand"), q.Get("model"))
	})
}

func (h *EquipmentHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]string, error)) {
	items, err := fetch(r.Context())
	if err != nil {
		h.logger.Error("listing equipment failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Items: items})
}
