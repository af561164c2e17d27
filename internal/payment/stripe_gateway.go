package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
)

const (
	stripeBaseURL      = "https://api.stripe.com"
	signatureTolerance = 5 * time.Minute
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type stripeGateway struct {
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	successURL    string
	cancelURL     string
}

func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	if secretKey == "" {
		logger.L().Warn("Stripe secret key is empty")
	}

	return &stripeGateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		successURL: os.Getenv("SUCCESS_URL"),
		cancelURL:  os.Getenv("CANCEL_RETURN_URL"),
	}
}

// post sends a form-encoded request to the Stripe API and decodes the JSON
// response into out.
func (s *stripeGateway) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		stripeBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read stripe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.L().Error("stripe returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return fmt.Errorf("stripe error: %s", string(body))
	}
	return json.Unmarshal(body, out)
}

func (s *stripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	log := logger.L().With(
		zap.Uint("order_id", params.OrderID),
		zap.String("amount", params.Amount.String()),
	)

	currency := params.Currency
	if currency == "" {
		currency = "idr"
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", s.successURL)
	form.Set("cancel_url", s.cancelURL)
	form.Set("customer_email", params.BuyerEmail)
	form.Set("client_reference_id", strconv.FormatUint(uint64(params.OrderID), 10))
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(params.OrderID), 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", params.Amount.Shift(2).String())

	var res struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := s.post(ctx, "/v1/checkout/sessions", form, &res); err != nil {
		log.Error("failed creating checkout session", zap.Error(err))
		return nil, err
	}

	log.Info("checkout session created", zap.String("session_id", res.ID))

	return &CheckoutSession{
		SessionID: res.ID,
		URL:       res.URL,
		ExpiresAt: time.Unix(res.ExpiresAt, 0),
	}, nil
}

func (s *stripeGateway) CreatePayout(ctx context.Context, params PayoutParams) (*Payout, error) {
	log := logger.L().With(
		zap.String("reference_id", params.ReferenceID),
		zap.String("amount", params.Amount.String()),
	)

	currency := params.Currency
	if currency == "" {
		currency = "idr"
	}

	form := url.Values{}
	form.Set("amount", params.Amount.Shift(2).String())
	form.Set("currency", currency)
	form.Set("description", params.Description)
	form.Set("metadata[reference_id]", params.ReferenceID)

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := s.post(ctx, "/v1/payouts", form, &res); err != nil {
		log.Error("failed creating payout", zap.Error(err))
		return nil, err
	}

	log.Info("payout created",
		zap.String("payout_id", res.ID),
		zap.String("status", res.Status),
	)

	return &Payout{PayoutID: res.ID, Status: res.Status}, nil
}

// VerifySignature checks the Stripe-Signature header: an HMAC-SHA256 of
// "<timestamp>.<payload>" keyed with the webhook secret, rejected when the
// timestamp is outside the tolerance window.
func (s *stripeGateway) VerifySignature(r *http.Request, payload []byte) error {
	if s.webhookSecret == "" {
		return nil // skip in dev
	}

	header := r.Header.Get("Stripe-Signature")
	if header == "" {
		return ErrInvalidSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	age := time.Since(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}
