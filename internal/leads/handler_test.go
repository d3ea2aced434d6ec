package leads

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crm-leads/internal/transport"
	"crm-leads/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(sub Submitter) http.Handler {
	h := NewHandler(newTestService(sub, nil), validation.New(), slog.New(slog.NewJSONHandler(io.Discard, nil)), time.Second)
	r := chi.NewRouter()
	r.Post("/api/leads", h.Create)
	r.Post("/api/leads/external", h.CreateExternal)
	r.Get("/api/leads/{id}", h.Get)
	return r
}

func postDraft(t *testing.T, router http.Handler, path string, d Draft) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(d)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerCreateSuccess(t *testing.T) {
	sub := &fakeSubmitter{result: Result{Success: true, Object: &Lead{ID: "6800a1b2c3d4e5f6a7b8c9d0"}}}
	w := postDraft(t, newTestRouter(sub), "/api/leads", validDraft())

	require.Equal(t, http.StatusCreated, w.Code)
	var res Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, "6800a1b2c3d4e5f6a7b8c9d0", res.Object.ID)
}

func TestHandlerCreateValidationError(t *testing.T) {
	sub := &fakeSubmitter{result: Result{Success: true}}
	d := validDraft()
	d.MobilePhone = "12345abc"
	w := postDraft(t, newTestRouter(sub), "/api/leads", d)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res transport.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "validation error", res.Error)
	assert.Equal(t, "Teléfono inválido", res.Details["mobile_phone"])
	assert.Equal(t, 0, sub.calls())
}

func TestHandlerCreateRejected(t *testing.T) {
	sub := &fakeSubmitter{result: Result{Success: false, Error: "X"}}
	w := postDraft(t, newTestRouter(sub), "/api/leads", validDraft())

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var res Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "X", res.Error)
}

func TestHandlerCreateTransportError(t *testing.T) {
	sub := &fakeSubmitter{err: &TransportError{Op: opUpsert, Err: io.ErrUnexpectedEOF}}
	w := postDraft(t, newTestRouter(sub), "/api/leads", validDraft())
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandlerExternal(t *testing.T) {
	sub := &fakeSubmitter{result: Result{Success: true}}
	d := validDraft()
	d.Campaign = ""
	d.User = ""
	w := postDraft(t, newTestRouter(sub), "/api/leads/external", d)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, sub.external, 1)
}

func TestHandlerExternalIgnoresExtraFields(t *testing.T) {
	body := `{"first_name":"Laura","last_name":"Gómez","email":"laura@example.com",` +
		`"mobile_phone":"3001234567","interestProgram":"2","ignore_interaction":true,"_id":"x"}`

	sub := &fakeSubmitter{result: Result{Success: true}}
	req := httptest.NewRequest(http.MethodPost, "/api/leads/external", strings.NewReader(body))
	w := httptest.NewRecorder()
	newTestRouter(sub).ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, sub.external, 1)

	req = httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	w = httptest.NewRecorder()
	newTestRouter(sub).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "the authenticated route stays strict")
}

func TestHandlerInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{"))
	w := httptest.NewRecorder()
	newTestRouter(&fakeSubmitter{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGet(t *testing.T) {
	sub := &fakeSubmitter{getResult: Result{Success: true, Object: &Lead{ID: "6800a1b2c3d4e5f6a7b8c9d0"}}}
	router := newTestRouter(sub)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/6800a1b2c3d4e5f6a7b8c9d0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/leads/not-an-id", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGetNotFound(t *testing.T) {
	sub := &fakeSubmitter{getResult: Result{Success: false, Error: "Lead no encontrado"}}
	req := httptest.NewRequest(http.MethodGet, "/api/leads/6800a1b2c3d4e5f6a7b8c9d0", nil)
	w := httptest.NewRecorder()
	newTestRouter(sub).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
