package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	require.NotEqual(t, "Abcdef1!", hash)

	require.NoError(t, VerifyPassword("Abcdef1!", hash))
	require.Error(t, VerifyPassword("abcdef1!", hash))

	// Salts are per-call, so two hashes of the same input differ.
	other, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	require.NotEqual(t, hash, other)
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	require.Empty(t, ValidatePasswordStrength("Abcdef1!"))

	// Every violated rule is reported, not just the first.
	reasons := ValidatePasswordStrength("abc")
	require.Len(t, reasons, 4)

	require.Len(t, ValidatePasswordStrength("abcdefg1!"), 1) // missing uppercase only
	require.Len(t, ValidatePasswordStrength("ABCDEFG1!"), 1) // missing lowercase only
	require.Len(t, ValidatePasswordStrength("Abcdefgh!"), 1) // missing digit only
	require.Len(t, ValidatePasswordStrength("Abcdefg12"), 1) // missing special only
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	_, err = GenerateToken(0)
	require.Error(t, err)

	require.Equal(t, FingerprintToken(tok), FingerprintToken(tok))
	require.NotEqual(t, tok, FingerprintToken(tok))
}
