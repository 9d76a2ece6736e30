package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.App.Env)
	require.True(t, cfg.App.IsProd())
	require.False(t, cfg.Seller.Code2.ConfirmsOrder(), "default code2 action should be contact_info")
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, "orders.json", cfg.Storage.OrderLogPath)
	require.Equal(t, "INR", cfg.Razorpay.Currency)
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	require.NoError(t, os.Unsetenv("CRAFTLINE_APP_ENV"))

	_, err := Load()
	require.Error(t, err, "missing required env should fail")
}

func TestLoad_Code2Variant(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("CRAFTLINE_SELLER_CODE2", "confirm")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Seller.Code2.ConfirmsOrder(), "payment variant treats 2 as confirm")
}

func TestLoad_RejectsUnknownCode2(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("CRAFTLINE_SELLER_CODE2", "menu")

	_, err := Load()
	require.Error(t, err, "unknown code2 action should fail validation")
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("CRAFTLINE_APP_ENV", "prod")
	t.Setenv("CRAFTLINE_VERIFY_TOKEN", "verify-me")
	t.Setenv("CRAFTLINE_SELLER_ADDRESS", "whatsapp:+919014056297")
	t.Setenv("CRAFTLINE_TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("CRAFTLINE_TWILIO_AUTH_TOKEN", "token")
	t.Setenv("CRAFTLINE_TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886")
	t.Setenv("CRAFTLINE_RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("CRAFTLINE_RAZORPAY_KEY_SECRET", "rzp_secret")
	t.Setenv("CRAFTLINE_RAZORPAY_CALLBACK_URL", "https://example.test/payment/webhook")
}
