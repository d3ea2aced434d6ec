package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	opUpsert   = "upsert"
	opExternal = "external"
	opGet      = "get"

	maxResponseBytes = 1 << 20
)

// Gateway talks to the CRM lead endpoints. Every call is a single attempt.
type Gateway struct {
	baseURL            string
	httpClient         *http.Client
	log                *slog.Logger
	metrics            *Metrics
	externalCampaignID string
	externalUserID     string
}

type GatewayOption func(*Gateway)

func WithGatewayHTTPClient(hc *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.httpClient = hc
	}
}

func WithGatewayMetrics(m *Metrics) GatewayOption {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithExternalIdentity sets the campaign and user stamped on public submissions.
func WithExternalIdentity(campaignID, userID string) GatewayOption {
	return func(g *Gateway) {
		g.externalCampaignID = campaignID
		g.externalUserID = userID
	}
}

func NewGateway(baseURL string, log *slog.Logger, opts ...GatewayOption) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	g := &Gateway{
		baseURL:            strings.TrimSuffix(baseURL, "/"),
		httpClient:         &http.Client{Timeout: 15 * time.Second},
		log:                log,
		externalCampaignID: "temp_campaign_id",
		externalUserID:     "temp_user_id",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Create posts the payload to /lead/upsert as-is.
func (g *Gateway) Create(ctx context.Context, p Payload) (Result, error) {
	res, err := g.do(ctx, opUpsert, http.MethodPost, "/lead/upsert", p)
	if err != nil {
		g.log.Error("lead create: crm request failed",
			slog.Any("input", p),
			slog.String("error", err.Error()),
		)
		return Result{}, err
	}
	if !res.Success {
		g.log.Warn("lead create: crm rejected lead",
			slog.Any("input", p),
			slog.String("crm_error", res.Error),
			slog.Int("code", res.Code),
		)
	}
	return res, nil
}

// CreateExternal posts to /lead/external with placeholder identity and
// ignore_interaction set, for submissions without an authenticated context.
func (g *Gateway) CreateExternal(ctx context.Context, p Payload) (Result, error) {
	p.Campaign = g.externalCampaignID
	p.User = g.externalUserID
	body := externalPayload{Payload: p, IgnoreInteraction: true}

	res, err := g.do(ctx, opExternal, http.MethodPost, "/lead/external", body)
	if err != nil {
		g.log.Error("lead external: crm request failed",
			slog.Any("input", p),
			slog.String("error", err.Error()),
		)
		return Result{}, fmt.Errorf("%w: %w", ErrExternalUnavailable, err)
	}
	if !res.Success {
		g.log.Warn("lead external: crm rejected lead",
			slog.Any("input", p),
			slog.String("crm_error", res.Error),
			slog.Int("code", res.Code),
		)
	}
	return res, nil
}

// Get fetches a single lead by id.
func (g *Gateway) Get(ctx context.Context, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, ErrInvalidLeadID
	}
	res, err := g.do(ctx, opGet, http.MethodGet, "/lead/get/"+url.PathEscape(id), nil)
	if err != nil {
		g.log.Error("lead get: crm request failed", slog.String("lead_id", id), slog.String("error", err.Error()))
		return Result{}, err
	}
	return res, nil
}

func (g *Gateway) do(ctx context.Context, op, method, path string, body interface{}) (Result, error) {
	start := time.Now()
	defer func() {
		g.metrics.ObserveCRMLatency(op, time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Result{}, &TransportError{Op: op, Err: fmt.Errorf("marshal payload: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return Result{}, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return decodeResult(op, resp.StatusCode, raw)
}

type resultEnvelope struct {
	Success *bool           `json:"success"`
	Object  json.RawMessage `json:"object"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

// decodeResult turns any answer carrying the {success,...} envelope into a
// Result, whatever the status code. Anything else is a transport failure.
func decodeResult(op string, status int, raw []byte) (Result, error) {
	ok := status >= http.StatusOK && status < http.StatusMultipleChoices

	var env resultEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Success == nil {
		if err == nil {
			err = errors.New("response missing success flag")
		}
		if !ok {
			// The body may echo the submitted lead, so only its size is kept.
			err = fmt.Errorf("unexpected response (%d bytes)", len(raw))
		}
		return Result{}, &TransportError{Op: op, StatusCode: status, Err: err}
	}

	res := Result{
		Success: *env.Success && ok,
		Error:   env.Error,
		Code:    env.Code,
	}
	if res.Error == "" && !res.Success {
		res.Error = env.Message
	}
	if res.Code == 0 && !ok {
		res.Code = status
	}
	if len(env.Object) > 0 && string(env.Object) != "null" {
		var lead Lead
		if err := json.Unmarshal(env.Object, &lead); err == nil {
			res.Object = &lead
		}
	}
	return res, nil
}
