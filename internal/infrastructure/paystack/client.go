package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creditunion-backoffice/internal/domain/payment"

	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://api.paystack.co"

// Amounts cross the wire in the currency's minor unit (pesewas, kobo).
var minorUnits = decimal.NewFromInt(100)

// Client talks to the Paystack transaction API with a secret key.
type Client struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	HTTP        *http.Client
}

var _ payment.Provider = (*Client)(nil)

func NewClient(secretKey, baseURL, callbackURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		SecretKey:   secretKey,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		CallbackURL: callbackURL,
		HTTP:        &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is the shape of every Paystack response.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	// Paystack echoes the metadata sent at initialize; it is "" when none was sent.
	Metadata json.RawMessage `json:"metadata"`
}

type checkoutMetadata struct {
	MemberID string `json:"member_id"`
}

// owner reads the member id out of the echoed metadata.
func (d verifyData) owner() string {
	var m checkoutMetadata
	if len(d.Metadata) == 0 || json.Unmarshal(d.Metadata, &m) != nil {
		return ""
	}
	return m.MemberID
}

type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("paystack http %d: %s", e.Status, e.Message)
}

func (e *httpError) Unwrap() error { return payment.ErrProvider }

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrProvider, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrProvider, err)
	}
	if res.StatusCode >= 300 {
		var e envelope[json.RawMessage]
		_ = json.Unmarshal(raw, &e)
		return &httpError{Status: res.StatusCode, Message: e.Message}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode: %v", payment.ErrProvider, err)
	}
	return nil
}

// Initiate opens a checkout for amount (major units) billed to email. The
// owning member travels in the transaction metadata.
func (c *Client) Initiate(ctx context.Context, memberID, email string, amount decimal.Decimal) (*payment.Checkout, error) {
	payload := map[string]any{
		"email":    email,
		"amount":   amount.Mul(minorUnits).Round(0).IntPart(),
		"metadata": checkoutMetadata{MemberID: memberID},
	}
	if c.CallbackURL != "" {
		payload["callback_url"] = c.CallbackURL
	}

	var out envelope[initializeData]
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("%w: initialize: %s", payment.ErrProvider, out.Message)
	}
	return &payment.Checkout{Reference: out.Data.Reference, RedirectURL: out.Data.AuthorizationURL}, nil
}

// Verify reports the state of a transaction. Amount is in major units.
func (c *Client) Verify(ctx context.Context, reference string) (*payment.Verification, error) {
	var out envelope[verifyData]
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("%w: verify: %s", payment.ErrProvider, out.Message)
	}

	v := &payment.Verification{
		Reference: reference,
		Amount:    decimal.NewFromInt(out.Data.Amount).Div(minorUnits),
		MemberID:  out.Data.owner(),
	}
	switch out.Data.Status {
	case "success":
		v.Status = payment.StatusSuccess
	case "failed", "abandoned", "reversed":
		v.Status = payment.StatusFailed
	default:
		v.Status = payment.StatusPending
	}
	return v, nil
}
