package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() Payload {
	return Payload{
		FirstName:       "Laura",
		LastName:        "Gómez",
		Email:           "laura@example.com",
		MobilePhone:     "3001234567",
		Number:          "3001234567",
		InterestProgram: "Técnico laboral en mercadeo y ventas",
		Campaign:        "67e46027c13cec9e6b46b799",
		User:            "67e3720c2b0e4aa7ffe7a190",
		Status:          StatusActive,
		FullName:        "Laura Gómez",
	}
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestGatewayCreatePostsPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead/upsert", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"object":{"_id":"6800a1b2c3d4e5f6a7b8c9d0","full_name":"Laura Gómez","status":"active"}}`))
	}))
	defer server.Close()

	g := NewGateway(server.URL, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	res, err := g.Create(context.Background(), testPayload())
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.Object)
	assert.Equal(t, "6800a1b2c3d4e5f6a7b8c9d0", res.Object.ID)
	assert.Equal(t, "3001234567", got["number"])
	assert.Equal(t, "3001234567", got["mobile_phone"])
	assert.Equal(t, "Técnico laboral en mercadeo y ventas", got["interestProgram"])
	assert.Equal(t, "Laura Gómez", got["full_name"])
	assert.NotContains(t, got, "ignore_interaction")
}

func TestGatewayCreateExternal(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead/external", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	g := NewGateway(server.URL, nil, WithExternalIdentity("landing_campaign", "landing_user"))
	res, err := g.CreateExternal(context.Background(), testPayload())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, res.Object)

	assert.Equal(t, "landing_campaign", got["campaign"])
	assert.Equal(t, "landing_user", got["user"])
	assert.Equal(t, true, got["ignore_interaction"])
	assert.Equal(t, "3001234567", got["number"])
}

func TestGatewayExternalDefaultsToPlaceholders(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, nil).CreateExternal(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "temp_campaign_id", got["campaign"])
	assert.Equal(t, "temp_user_id", got["user"])
}

func TestGatewayLogicalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"Lead duplicado","code":409}`))
	}))
	defer server.Close()

	res, err := NewGateway(server.URL, nil).Create(context.Background(), testPayload())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Lead duplicado", res.Error)
	assert.Equal(t, 409, res.Code)
}

func TestGatewayLogicalFailureOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"campaign not found"}`))
	}))
	defer server.Close()

	res, err := NewGateway(server.URL, nil).Create(context.Background(), testPayload())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "campaign not found", res.Error)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestGatewayTransportFailureOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, nil).Create(context.Background(), testPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, opUpsert, te.Op)
}

func TestGatewayTransportFailureOnUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewGateway(url, nil).Create(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGatewayExternalWrapsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, nil).CreateExternal(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrExternalUnavailable)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGatewayMissingSuccessFlagIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, nil).Create(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGatewayRedactsPhoneOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	_, err := NewGateway(server.URL, bufferLogger(&buf)).Create(context.Background(), testPayload())
	require.Error(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "lead create: crm request failed")
	assert.Contains(t, logs, "REDACTED")
	assert.NotContains(t, logs, "3001234567")
}

func TestGatewayKeepsEchoedBodyOutOfErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(append([]byte("Internal error processing "), body...))
	}))
	defer server.Close()

	for name, call := range map[string]func(*Gateway) error{
		"create": func(g *Gateway) error {
			_, err := g.Create(context.Background(), testPayload())
			return err
		},
		"external": func(g *Gateway) error {
			_, err := g.CreateExternal(context.Background(), testPayload())
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := call(NewGateway(server.URL, bufferLogger(&buf)))
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
			assert.NotContains(t, err.Error(), "3001234567")
			assert.NotContains(t, buf.String(), "3001234567")
		})
	}
}

func TestGatewayGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead/get/6800a1b2c3d4e5f6a7b8c9d0", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"success":true,"object":{"_id":"6800a1b2c3d4e5f6a7b8c9d0","first_name":"Laura","trackings":[{"tracking":"call","interest":3}]}}`))
	}))
	defer server.Close()

	res, err := NewGateway(server.URL, nil).Get(context.Background(), "6800a1b2c3d4e5f6a7b8c9d0")
	require.NoError(t, err)
	require.NotNil(t, res.Object)
	assert.Equal(t, "Laura", res.Object.FirstName)
	require.Len(t, res.Object.Trackings, 1)
	require.NotNil(t, res.Object.Trackings[0].Interest)
	assert.Equal(t, 3, *res.Object.Trackings[0].Interest)

	_, err = NewGateway(server.URL, nil).Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidLeadID)
}

func TestGatewayOneAttemptPerCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, nil).Create(context.Background(), testPayload())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGatewayRecordsLatency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	_, err := NewGateway(server.URL, nil, WithGatewayMetrics(m)).Create(context.Background(), testPayload())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if strings.HasSuffix(f.GetName(), "crm_request_seconds") {
			found = true
		}
	}
	assert.True(t, found)
}
