package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"crm-leads/internal/httpx"
	"crm-leads/internal/middleware"
	"crm-leads/internal/transport"
	"crm-leads/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
	timeout time.Duration
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		timeout: timeout,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, VariantAuthenticated)
}

func (h *Handler) CreateExternal(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, VariantExternal)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, variant Variant) {
	log := middleware.LoggerFromRequest(h.log, r).With(slog.String("variant", string(variant)))

	// Landing pages post whatever their form holds; the public route ignores extra keys.
	decode := httpx.DecodeJSON
	if variant == VariantExternal {
		decode = httpx.DecodeJSONLenient
	}

	var draft Draft
	if err := decode(r.Body, &draft); err != nil {
		log.Warn("lead create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.service.Submit(ctx, variant, draft)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			log.Warn("lead create: validation error", slog.Int("fields", len(verrs)))
			transport.WriteValidationError(w, verrs)
		case errors.Is(err, ErrTransport):
			log.Error("lead create: crm unavailable", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadGateway, publicTransportMessage(err), nil)
		default:
			log.Error("lead create: unexpected error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	if !res.Success {
		log.Warn("lead create: rejected", slog.String("crm_error", res.Error), slog.Int("code", res.Code))
		transport.WriteJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	log.Info("lead create: ok")
	transport.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFromRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := h.val.Var(id, "required,objectid"); err != nil {
		log.Warn("lead get: invalid id", slog.String("lead_id", id))
		transport.WriteError(w, http.StatusBadRequest, ErrInvalidLeadID.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.service.Get(ctx, id)
	if err != nil {
		log.Error("lead get: crm unavailable", slog.String("lead_id", id), slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, publicTransportMessage(err), nil)
		return
	}
	if !res.Success {
		status := http.StatusNotFound
		if res.Code >= 400 && res.Code < 600 {
			status = res.Code
		}
		log.Warn("lead get: rejected", slog.String("lead_id", id), slog.String("crm_error", res.Error))
		transport.WriteJSON(w, status, res)
		return
	}

	log.Info("lead get: ok", slog.String("lead_id", id))
	transport.WriteJSON(w, http.StatusOK, res)
}

func publicTransportMessage(err error) string {
	if errors.Is(err, ErrExternalUnavailable) {
		return ErrExternalUnavailable.Error()
	}
	return "crm unavailable"
}
