package programs

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"crm-leads/internal/middleware"
	"crm-leads/internal/transport"
)

// Source yields the program catalog to resolve ids against.
type Source interface {
	Catalog(ctx context.Context) *Catalog
}

// Static serves a fixed catalog.
type Static struct {
	C *Catalog
}

func (s Static) Catalog(context.Context) *Catalog {
	return s.C
}

type Handler struct {
	source Source
	log    *slog.Logger
}

func NewHandler(source Source, log *slog.Logger) *Handler {
	return &Handler{source: source, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFromRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items := h.source.Catalog(ctx).All()
	log.Info("programs list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
