package crypto

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/offline-signer/internal/errs"
)

var testParams = ParamsWithCost(1 << 10)

func TestSealOpen(t *testing.T) {
	secret := []byte("sixty-four bytes of very secret key material, or close to it...")

	envelope, err := Seal(secret, []byte("hunter2"), testParams)
	require.NoError(t, err)
	assert.True(t, IsSealed(envelope))
	assert.NotContains(t, envelope, string(secret))

	plaintext, err := Open(envelope, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, secret, plaintext)
}

func TestOpenFailuresAreIndistinguishable(t *testing.T) {
	envelope, err := Seal([]byte("secret"), []byte("right"), testParams)
	require.NoError(t, err)

	_, wrongPassword := Open(envelope, []byte("wrong"))

	parts := strings.Split(envelope, sep)
	parts[6] = "AAAA" + parts[6][4:]
	_, corrupted := Open(strings.Join(parts, sep), []byte("right"))

	_, garbage := Open("not an envelope", []byte("right"))

	parts = strings.Split(envelope, sep)
	parts[1] = strconv.Itoa(1 << 40)
	_, oversized := Open(strings.Join(parts, sep), []byte("right"))

	for _, err := range []error{wrongPassword, corrupted, garbage, oversized} {
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.InvalidPassword))
		assert.Equal(t, ErrDecrypt.Error(), err.Error())
	}
}

func TestSealPlain(t *testing.T) {
	envelope := SealPlain([]byte("secret"))
	assert.False(t, IsSealed(envelope))

	plaintext, err := Open(envelope, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), plaintext)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword([]byte("correct horse"), testParams)
	require.NoError(t, err)

	assert.True(t, VerifyPassword([]byte("correct horse"), hash))
	assert.False(t, VerifyPassword([]byte("battery staple"), hash))
	assert.False(t, VerifyPassword([]byte("correct horse"), "scrypt$bad"))

	_, err = HashPassword(nil, testParams)
	assert.Error(t, err)
}

func TestParamsWithCost(t *testing.T) {
	assert.Equal(t, 1<<10, ParamsWithCost(1<<10).N)
	assert.Equal(t, DefaultParams().N, ParamsWithCost(1000).N)
	assert.Equal(t, DefaultParams().N, ParamsWithCost(0).N)
	assert.Equal(t, MaxCost, ParamsWithCost(MaxCost).N)
	assert.Equal(t, DefaultParams().N, ParamsWithCost(MaxCost*2).N)
}

func TestStoredCostIsBounded(t *testing.T) {
	hash, err := HashPassword([]byte("correct horse"), testParams)
	require.NoError(t, err)

	for i, value := range map[int]int{1: 1 << 40, 2: maxScryptR + 1, 3: maxScryptP + 1} {
		parts := strings.Split(hash, sep)
		parts[i] = strconv.Itoa(value)
		assert.False(t, VerifyPassword([]byte("correct horse"), strings.Join(parts, sep)), i)
	}
}
