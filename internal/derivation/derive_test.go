package derivation

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSlip10Vector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	for path, want := range map[string]string{
		"m/0'":    "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		"m/0h":    "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		"m/0'/1'": "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2",
	} {
		key, err := keyAtPath(seed, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, hex.EncodeToString(key[:32]), path)
	}
}

func TestCanonicalPath(t *testing.T) {
	p, err := canonicalPath(" m/44h/501'/0h ")
	require.NoError(t, err)
	assert.Equal(t, "m/44'/501'/0'", p)

	for _, bad := range []string{"", "m", "x/44'", "m/44", "m/44'/abc'", "m/2147483648'"} {
		_, err := canonicalPath(bad)
		assert.True(t, errs.Is(err, errs.InvalidDerivationPath), bad)
	}
}

func TestDeriveOneIsDeterministic(t *testing.T) {
	spec := PathSpec{Preset: "phantom"}

	a, pathA, err := DeriveOne(testMnemonic, "", spec, 3)
	require.NoError(t, err)
	b, pathB, err := DeriveOne(testMnemonic, "", spec, 3)
	require.NoError(t, err)

	assert.Equal(t, "m/44'/501'/3'/0'", pathA)
	assert.Equal(t, pathA, pathB)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	other, _, err := DeriveOne(testMnemonic, "", spec, 4)
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey(), other.PublicKey())
}

func TestPassphraseChangesKey(t *testing.T) {
	for _, p := range Presets() {
		spec := PathSpec{Preset: p.Name}
		plain, _, err := DeriveOne(testMnemonic, "", spec, 0)
		require.NoError(t, err)
		salted, _, err := DeriveOne(testMnemonic, "TREZOR", spec, 0)
		require.NoError(t, err)
		assert.NotEqual(t, plain.PublicKey(), salted.PublicKey(), p.Name)
	}
}

func TestDeriveManyShape(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			rows, err := DeriveMany(testMnemonic, "", PathSpec{Preset: p.Name}, 5, 4)
			require.NoError(t, err)
			require.Len(t, rows, 4)

			for i, row := range rows {
				assert.Equal(t, 5+i, row.Index)
				assert.Equal(t, strings.ReplaceAll(p.Template, IndexPlaceholder, fmt.Sprint(row.Index)), row.Path)

				key, _, err := DeriveOne(testMnemonic, "", PathSpec{Preset: p.Name}, row.Index)
				require.NoError(t, err)
				assert.Equal(t, key.PublicKey().String(), row.PublicKey)
			}
		})
	}
}

func TestDeriveManyLenientPreset(t *testing.T) {
	rows, err := DeriveMany(testMnemonic, "", PathSpec{Preset: "metamask"}, 0, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = DeriveMany(testMnemonic, "", PathSpec{Preset: CustomPreset, Template: "m/44'/501'"}, 0, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = DeriveMany(testMnemonic, "", PathSpec{Preset: CustomPreset, Template: "m/44'/501'/7'/{index}'"}, 0, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m/44'/501'/7'/1'", rows[1].Path)
}

func TestDeriveManySkipsUnhardenedSteps(t *testing.T) {
	rows, err := DeriveMany(testMnemonic, "", PathSpec{Preset: CustomPreset, Template: "m/44'/501'/{index}'/0"}, 0, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, _, err = DeriveOne(testMnemonic, "", PathSpec{Preset: CustomPreset, Template: "m/44'/501'/{index}'/0"}, 0)
	assert.True(t, errs.Is(err, errs.InvalidDerivationPath))
}

func TestDeriveRejectsBadInput(t *testing.T) {
	_, err := DeriveMany("abandon abandon abandon", "", PathSpec{Preset: "phantom"}, 0, 1)
	assert.True(t, errs.Is(err, errs.InvalidMnemonicStructure))

	_, err = DeriveMany(testMnemonic, "", PathSpec{Preset: "phantom"}, -1, 1)
	assert.True(t, errs.Is(err, errs.InvalidDerivationPath))

	_, _, err = DeriveOne(testMnemonic, "", PathSpec{Preset: "phantom"}, -1)
	assert.True(t, errs.Is(err, errs.InvalidDerivationPath))
}

func TestValidate(t *testing.T) {
	res := Validate(testMnemonic)
	assert.Equal(t, ValidationResult{Valid: true, WordCount: 12, ChecksumValid: true, Message: "mnemonic is valid"}, res)

	res = Validate("abandon abandon abandon")
	assert.False(t, res.Valid)
	assert.Equal(t, 3, res.WordCount)
	assert.Contains(t, res.Message, "3")

	res = Validate(strings.Repeat("abandon ", 12))
	assert.True(t, res.Valid)
	assert.False(t, res.ChecksumValid)
	assert.Equal(t, 12, res.WordCount)

	for _, empty := range []string{"", "   \n\t"} {
		res = Validate(empty)
		assert.False(t, res.Valid)
		assert.Equal(t, 0, res.WordCount)
		assert.Equal(t, emptyMnemonicMessage, res.Message)
	}

	res = Validate(strings.Replace(testMnemonic, "about", "aboot", 1))
	assert.True(t, res.Valid)
	assert.False(t, res.ChecksumValid)
	assert.Equal(t, 12, res.WordCount)
	assert.Contains(t, res.Message, `"aboot"`)
}

func TestChecksumInvalidMnemonicStillDerives(t *testing.T) {
	_, _, err := DeriveOne(strings.Repeat("abandon ", 12), "", PathSpec{Preset: "ledger"}, 0)
	assert.NoError(t, err)

	unknownWord := strings.Replace(testMnemonic, "about", "aboot", 1)
	key, path, err := DeriveOne(unknownWord, "", PathSpec{Preset: "phantom"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/501'/0'/0'", path)
	assert.Len(t, key, 64)

	accounts, err := DeriveMany(unknownWord, "", PathSpec{Preset: "phantom"}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestGenerate(t *testing.T) {
	for words := range wordCountBits {
		m, err := Generate(words)
		require.NoError(t, err)
		res := Validate(m)
		assert.True(t, res.ChecksumValid)
		assert.Equal(t, words, res.WordCount)
	}

	_, err := Generate(13)
	assert.True(t, errs.Is(err, errs.InvalidMnemonicStructure))
}
