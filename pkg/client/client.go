// Package client is a typed HTTP client for the checkout API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
	// RetryAfter is set on 429 responses.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req stripeapp.CreatePaymentIntentRequest) (stripeapp.CreatePaymentIntentResponse, error) {
	var out stripeapp.CreatePaymentIntentResponse
	err := c.do(ctx, http.MethodPost, "/api/stripe/create-payment-intent", req, &out)
	return out, err
}

func (c *Client) CreateSubscription(ctx context.Context, req stripeapp.CreateSubscriptionRequest) (stripeapp.CreateSubscriptionResponse, error) {
	var out stripeapp.CreateSubscriptionResponse
	err := c.do(ctx, http.MethodPost, "/api/stripe/create-subscription", req, &out)
	return out, err
}

// Product fetches the catalog entry with its sorted prices.
func (c *Client) Product(ctx context.Context) (stripeapp.Product, error) {
	var out struct {
		Success bool               `json:"success"`
		Product *stripeapp.Product `json:"product"`
		Error   string             `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stripe/products", nil, &out); err != nil {
		return stripeapp.Product{}, err
	}
	if !out.Success || out.Product == nil {
		return stripeapp.Product{}, &APIError{Status: http.StatusOK, Message: "products response without a product"}
	}
	return *out.Product, nil
}

// ValidatePromo returns the validator's verdict. Transport failures are errors;
// a rejected code is a result with Valid false.
func (c *Client) ValidatePromo(ctx context.Context, code string) (stripeapp.PromoResult, error) {
	var out stripeapp.PromoResult
	err := c.do(ctx, http.MethodPost, "/api/stripe/validate-promo", map[string]string{"code": code}, &out)
	return out, err
}

func (c *Client) PaymentSuccess(ctx context.Context, req stripeapp.PaymentSuccessRequest) (stripeapp.PaymentSuccessResponse, error) {
	var out stripeapp.PaymentSuccessResponse
	err := c.do(ctx, http.MethodPost, "/api/stripe/payment-success", req, &out)
	return out, err
}

// PaymentStatus reads the webhook-reconciled status of a payment intent.
func (c *Client) PaymentStatus(ctx context.Context, paymentIntentID string) (stripeapp.PaymentStatusResponse, error) {
	var out stripeapp.PaymentStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/stripe/payment-status/"+url.PathEscape(paymentIntentID), nil, &out)
	return out, err
}

// SendAudit posts a batch of audit events.
func (c *Client) SendAudit(ctx context.Context, events []audit.Event) error {
	return c.do(ctx, http.MethodPost, "/api/audit", map[string][]audit.Event{"events": events}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response, raw []byte) error {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message, apiErr.Code = body.Error, body.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			apiErr.RetryAfter = time.Duration(n) * time.Second
		}
	}
	return apiErr
}

// AuditSink ships audit batches to the API, for use with audit.NewLogger.
type AuditSink struct {
	Client *Client
}

func (s AuditSink) Write(ctx context.Context, events []audit.Event) error {
	return s.Client.SendAudit(ctx, events)
}
