package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	secret := "whsec_test"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	header := SignPayload(payload, secret, now)

	assert.NoError(t, verifySignatureAt(payload, header, secret, DefaultSignatureTolerance, now))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	now := time.Now()
	header := SignPayload([]byte(`{"amount":100}`), secret, now)

	err := verifySignatureAt([]byte(`{"amount":999}`), header, secret, DefaultSignatureTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, "whsec_a", now)

	err := verifySignatureAt(payload, header, "whsec_b", DefaultSignatureTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureRejectsOldTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	signedAt := time.Now().Add(-10 * time.Minute)
	header := SignPayload(payload, secret, signedAt)

	err := verifySignatureAt(payload, header, secret, DefaultSignatureTolerance, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	for _, header := range []string{"", "garbage", "t=abc,v1=00", "v1=00", "t=123"} {
		err := verifySignatureAt(payload, header, "whsec_test", 0, time.Now())
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestVerifySignatureAcceptsSecondV1Entry(t *testing.T) {
	// During secret rotation the processor may send multiple v1 entries.
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Now()
	valid := SignPayload(payload, secret, now)
	header := valid + ",v1=deadbeef"

	assert.NoError(t, verifySignatureAt(payload, header, secret, DefaultSignatureTolerance, now))
}
