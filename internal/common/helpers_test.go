package common

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0.024981836", FormatUnits(24981836, 9))
	assert.Equal(t, "1.000000000", LamportsToSOL(1_000_000_000))
	assert.Equal(t, "0.000001", FormatUnits(1, 6))
	assert.Equal(t, "42", FormatUnits(42, 0))
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals int
		want     uint64
	}{
		{"0.001", 9, 1_000_000},
		{"1", 9, 1_000_000_000},
		{".5", 6, 500_000},
		{"2.500000", 6, 2_500_000},
		{" 3.25 ", 2, 325},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.in, tc.decimals)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseUnitsRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "1.", "1.2.3", "0.0000000001"} {
		_, err := SOLToLamports(in)
		assert.Error(t, err, in)
	}
}

func TestAddressQRCode(t *testing.T) {
	png, err := AddressQRCode("BhJpHMEGBWo1fJusPTjqhZKmvM2ZNyRj712kWiVq9Gc9")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(png)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), raw[:4])

	text, err := AddressQRCodeText("BhJpHMEGBWo1fJusPTjqhZKmvM2ZNyRj712kWiVq9Gc9")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
