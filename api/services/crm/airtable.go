package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/pkg/money"
)

// Airtable patches records in an Airtable table over its REST API.
type Airtable struct {
	httpClient *http.Client
	apiURL     string
	pat        string
	baseID     string
	table      string
}

// NewAirtable returns a Recorder for cfg, or Noop when cfg is incomplete.
func NewAirtable(cfg config.Airtable) Recorder {
	if !cfg.Enabled() {
		return Noop{}
	}
	return &Airtable{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		pat:        cfg.PAT,
		baseID:     cfg.BaseID,
		table:      cfg.TableName,
	}
}

type airtablePatch struct {
	Fields airtableFields `json:"fields"`
}

type airtableFields struct {
	PaymentStatus   string  `json:"Payment Status"`
	PaymentIntentID string  `json:"Payment Intent ID"`
	OrderAmount     float64 `json:"Order Amount"`
	SelectedProduct string  `json:"Selected Product"`
	PaymentDate     string  `json:"Payment Date"`
}

// RecordPayment PATCHes the record named by u.IntakeID. An empty intake id is skipped.
func (a *Airtable) RecordPayment(ctx context.Context, u PaymentUpdate) error {
	if u.IntakeID == "" {
		slog.Info("skipping airtable update, no intake id", "payment_intent_id", u.PaymentIntentID)
		return nil
	}
	paidAt := u.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	currency := u.Currency
	if currency == "" {
		currency = "usd"
	}
	body, err := json.Marshal(airtablePatch{Fields: airtableFields{
		PaymentStatus:   u.Status,
		PaymentIntentID: u.PaymentIntentID,
		OrderAmount:     money.Major(u.Amount, currency).InexactFloat64(),
		SelectedProduct: u.ProductName,
		PaymentDate:     paidAt.UTC().Format(time.RFC3339),
	}})
	if err != nil {
		return fmt.Errorf("marshal airtable patch: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s/%s", a.apiURL, url.PathEscape(a.baseID), url.PathEscape(a.table), url.PathEscape(u.IntakeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.pat)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("airtable update failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	slog.Info("airtable updated", "intake_id", u.IntakeID, "status", u.Status)
	return nil
}
