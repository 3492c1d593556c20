package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/castboard/castboard/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.paylane.com"

// Gateway is the payment-processor surface the billing pipeline depends on.
// The webhook signature check lives in this package too (VerifySignature) but
// is a free function since it needs no credentials beyond the shared secret.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionDetails, error)
	CreateRefund(ctx context.Context, params RefundParams) (*Refund, error)
}

// LineItem is one priced position of a checkout session, amount in minor
// currency units.
type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

type CheckoutSessionParams struct {
	LineItems       []LineItem `json:"line_items"`
	Mode            string     `json:"mode"`
	SuccessURL      string     `json:"success_url"`
	CancelURL       string     `json:"cancel_url"`
	ClientReference string     `json:"client_reference"`
	CustomerEmail   string     `json:"customer_email"`
}

type CheckoutSession struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

// SessionDetails is the processor's view of a (possibly completed) checkout
// session, as returned by the retrieval endpoint used for verify-by-polling.
type SessionDetails struct {
	ID              string `json:"id"`
	PaymentStatus   string `json:"payment_status"` // "paid" or "unpaid"
	PaymentRef      string `json:"payment_ref"`
	CustomerRef     string `json:"customer_ref"`
	SubscriptionRef string `json:"subscription_ref"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
	ClientReference string `json:"client_reference"`
}

const PaymentStatusPaid = "paid"

type RefundParams struct {
	PaymentRef string `json:"payment_ref"`
	Reason     string `json:"reason"`
}

type Refund struct {
	ID             string `json:"id"`
	AmountRefunded int64  `json:"amount_refunded"`
	Currency       string `json:"currency"`
}

// Client talks to the processor's REST API with a bearer secret key.
type Client struct {
	APIBaseURL string
	SecretKey  string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		APIBaseURL: strings.TrimRight(env.GetEnv("PAYMENT_API_BASE_URL", defaultAPIBaseURL), "/"),
		SecretKey:  strings.TrimSpace(env.GetEnv("PAYMENT_SECRET_KEY", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if len(params.LineItems) == 0 {
		return nil, errors.New("at least one line item is required")
	}
	if params.Mode == "" {
		params.Mode = "subscription"
	}

	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", params, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("processor returned checkout session without id")
	}
	return &out, nil
}

func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*SessionDetails, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, errors.New("session id is required")
	}

	var out SessionDetails
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRefund(ctx context.Context, params RefundParams) (*Refund, error) {
	if strings.TrimSpace(params.PaymentRef) == "" {
		return nil, errors.New("payment ref is required")
	}

	var out Refund
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", params, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("processor returned refund without id")
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("PAYMENT_SECRET_KEY is not configured")
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("processor request %s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}
	return nil
}
