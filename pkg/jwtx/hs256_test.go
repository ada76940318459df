package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer := Signer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := signer.Mint("user-1", "alice", "admin")
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "storefront", claims.Issuer)
}

func TestSignerRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer := Signer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}
	other := Signer{Secret: []byte("other-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := signer.Mint("user-1", "alice", "user")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerRejectsExpired(t *testing.T) {
	t.Parallel()

	signer := Signer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: -time.Minute}

	token, err := signer.Mint("user-1", "alice", "user")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := Signer{Secret: []byte("test-secret"), Issuer: "somewhere-else", TTL: time.Hour}
	verifier := Signer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := signer.Mint("user-1", "alice", "user")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
