package keygen

import (
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRSAKeyPair(t *testing.T) {
	t.Parallel()
	kp, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	block, _ := pem.Decode(kp.PrivateKey)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, 2048, priv.N.BitLen())

	assert.True(t, strings.HasPrefix(string(kp.PublicKey), "ssh-rsa "))
}

func TestGenerateRSAKeyPair_InvalidBits(t *testing.T) {
	t.Parallel()
	_, err := GenerateRSAKeyPair(0)
	assert.Error(t, err)
}

func TestParsePublicKey(t *testing.T) {
	t.Parallel()
	kp, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	line := strings.TrimSpace(string(kp.PublicKey)) + " ops@example"
	info, err := ParsePublicKey(line)
	require.NoError(t, err)
	assert.Equal(t, "ssh-rsa", info.Type)
	assert.True(t, strings.HasPrefix(info.Fingerprint, "SHA256:"))
	assert.Equal(t, "ops@example", info.Comment)
}

func TestParsePublicKey_Invalid(t *testing.T) {
	t.Parallel()
	kp, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	twoKeys := string(kp.PublicKey) + string(kp.PublicKey)

	for name, in := range map[string]string{
		"empty":    "  ",
		"garbage":  "ssh-rsa not-base64",
		"two keys": twoKeys,
	} {
		_, err := ParsePublicKey(in)
		assert.Error(t, err, name)
	}
}
