package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWK_PublicKey_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		jwk     JWK
		wantErr string
	}{
		{"unsupported kty", JWK{Kty: "RSA"}, "unsupported kty"},
		{"unsupported curve", JWK{Kty: "OKP", Crv: "X25519"}, "unsupported OKP curve"},
		{"short key", JWK{Kty: "OKP", Crv: "Ed25519", X: "AAAA"}, "invalid Ed25519 public key size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.jwk.PublicKey()
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestKeySet(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	signer, err := NewSignerEdDSA("k1", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.NoError(t, err)

	ks := NewKeySet()
	require.False(t, ks.IsReady())
	require.NoError(t, ks.AddSigner(signer))
	require.True(t, ks.IsReady())
	require.ErrorContains(t, ks.AddSigner(signer), "duplicate kid")

	got, err := ks.Get("k1")
	require.NoError(t, err)
	require.Equal(t, pub, got)

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)

	// The served document must round-trip through JSON.
	raw, err := json.Marshal(ks.PublicJWKS())
	require.NoError(t, err)
	var fetched JWKS
	require.NoError(t, json.Unmarshal(raw, &fetched))
	require.Len(t, fetched.Keys, 1)
	back, err := fetched.Keys[0].PublicKey()
	require.NoError(t, err)
	require.Equal(t, pub, back)
}
