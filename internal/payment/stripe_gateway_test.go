package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedRequest(t *testing.T, secret string, payload []byte, ts time.Time) *http.Request {
	t.Helper()

	timestamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(payload)

	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", nil)
	req.Header.Set("Stripe-Signature",
		fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func TestStripeGateway_VerifySignature(t *testing.T) {
	const secret = "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	gw, ok := NewStripeGateway("sk_test", secret).(*stripeGateway)
	require.True(t, ok)

	t.Run("ValidSignature", func(t *testing.T) {
		req := signedRequest(t, secret, payload, time.Now())
		assert.NoError(t, gw.VerifySignature(req, payload))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		req := signedRequest(t, "whsec_other", payload, time.Now())
		assert.ErrorIs(t, gw.VerifySignature(req, payload), ErrInvalidSignature)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		req := signedRequest(t, secret, payload, time.Now())
		assert.ErrorIs(t, gw.VerifySignature(req, []byte(`{"id":"evt_2"}`)), ErrInvalidSignature)
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		req := signedRequest(t, secret, payload, time.Now().Add(-10*time.Minute))
		assert.ErrorIs(t, gw.VerifySignature(req, payload), ErrInvalidSignature)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/payment", nil)
		assert.ErrorIs(t, gw.VerifySignature(req, payload), ErrInvalidSignature)
	})

	t.Run("NoSecretSkipsCheck", func(t *testing.T) {
		dev, ok := NewStripeGateway("sk_test", "").(*stripeGateway)
		require.True(t, ok)

		req := httptest.NewRequest(http.MethodPost, "/webhook/payment", nil)
		assert.NoError(t, dev.VerifySignature(req, payload))
	})
}
