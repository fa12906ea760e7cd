package encryption

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := NewService(testKey())
	require.NoError(t, err)

	ciphertext, err := svc.Encrypt("shpat_abcdef0123456789")
	require.NoError(t, err)
	assert.NotEqual(t, "shpat_abcdef0123456789", ciphertext)

	plaintext, err := svc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "shpat_abcdef0123456789", plaintext)
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	svc, err := NewService(testKey())
	require.NoError(t, err)

	first, err := svc.Encrypt("token")
	require.NoError(t, err)
	second, err := svc.Encrypt("token")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewService_RejectsBadKeys(t *testing.T) {
	_, err := NewService("not base64!!!")
	assert.Error(t, err)

	_, err = NewService(base64.StdEncoding.EncodeToString(make([]byte, 16)))
	assert.Error(t, err)
}

func TestDecrypt_RejectsTamperedCiphertext(t *testing.T) {
	svc, err := NewService(testKey())
	require.NoError(t, err)

	ciphertext, err := svc.Encrypt("token")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = svc.Decrypt(base64.RawURLEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestDecrypt_RejectsTruncatedCiphertext(t *testing.T) {
	svc, err := NewService(testKey())
	require.NoError(t, err)

	_, err = svc.Decrypt(base64.RawURLEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
