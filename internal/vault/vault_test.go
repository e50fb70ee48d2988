package vault_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/offline-signer/internal/crypto"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/internal/vault"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New(t.TempDir(), vault.WithKDFCost(1<<10))
	require.NoError(t, err)
	return v
}

func TestGenerateTwiceFails(t *testing.T) {
	v := newVault(t)

	rec, err := v.Generate("alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Name)
	assert.NotEmpty(t, rec.CreatedAt)
	assert.Empty(t, rec.ImportedAt)

	_, err = v.Generate("alice", nil)
	assert.True(t, errs.Is(err, errs.AlreadyExists), "got %v", err)
}

func TestDeleteMissingFails(t *testing.T) {
	v := newVault(t)

	err := v.Delete("nobody")
	assert.True(t, errs.Is(err, errs.NotFound), "got %v", err)

	_, err = v.Generate("bob", nil)
	require.NoError(t, err)
	require.NoError(t, v.Delete("bob"))

	_, err = v.Load("bob", nil)
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestInvalidNames(t *testing.T) {
	v := newVault(t)

	for _, name := range []string{"..", "a/b", "x y", `..\evil`} {
		_, err := v.Generate(name, nil)
		assert.True(t, errs.Is(err, errs.InvalidName), "name %q: %v", name, err)
	}

	_, err := v.Generate("", nil)
	assert.True(t, errs.Is(err, errs.MissingRequiredField))
	assert.Equal(t, "name", errs.FieldOf(err))
}

func TestImportExportRoundTrip(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	for _, enc := range vault.SecretEncodings {
		t.Run(enc.String(), func(t *testing.T) {
			src := newVault(t)
			_, err := src.ImportKeypair("k", key, vault.ImportOptions{}, nil)
			require.NoError(t, err)

			exported, err := src.ExportSecret("k", enc, nil)
			require.NoError(t, err)

			dst := newVault(t)
			rec, err := dst.Import("k", exported, enc, nil)
			require.NoError(t, err)
			assert.Equal(t, key.PublicKey().String(), rec.PublicKey)
			assert.NotEmpty(t, rec.ImportedAt)

			loaded, err := dst.Load("k", nil)
			require.NoError(t, err)
			assert.Equal(t, key, loaded)
		})
	}
}

func TestImportErrorsAreDistinguishable(t *testing.T) {
	v := newVault(t)

	_, err := vault.ParseSecretEncoding("base85")
	assert.True(t, errs.Is(err, errs.UnsupportedEncoding))

	_, err = v.Import("a", "0OIl-not-base58", vault.Base58, nil)
	assert.True(t, errs.Is(err, errs.InvalidEncoding), "got %v", err)

	_, err = v.Import("a", "[1,2,300]", vault.JSONArray, nil)
	assert.True(t, errs.Is(err, errs.InvalidEncoding), "got %v", err)

	_, err = v.Import("a", "[1,2,3]", vault.JSONArray, nil)
	assert.True(t, errs.Is(err, errs.InvalidSecretMaterial), "got %v", err)

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	mismatched := append(append([]byte{}, key[:32]...), other[32:]...)
	material, err := vault.Base64.Encode(mismatched)
	require.NoError(t, err)

	_, err = v.Import("a", material, vault.Base64, nil)
	assert.True(t, errs.Is(err, errs.InvalidSecretMaterial), "got %v", err)

	list, err := v.List()
	require.NoError(t, err)
	assert.Empty(t, list, "failed imports must not reach storage")
}

func TestListOmitsSecrets(t *testing.T) {
	v := newVault(t)

	for _, name := range []string{"zed", "amy"} {
		_, err := v.Generate(name, nil)
		require.NoError(t, err)
	}

	list, err := v.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].Name)
	assert.Equal(t, "zed", list[1].Name)

	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "encryptedSecretKey")
	assert.NotContains(t, string(out), "mnemonic\"")
}

func TestPasswordLifecycle(t *testing.T) {
	v := newVault(t)
	password := []byte("correct horse")

	set, err := v.PasswordSet()
	require.NoError(t, err)
	assert.False(t, set)

	ok, err := v.VerifyPassword(password)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.SetPassword(password))
	assert.True(t, errs.Is(v.SetPassword([]byte("another")), errs.AlreadyExists))

	ok, err = v.VerifyPassword(password)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = v.VerifyPassword([]byte("nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = v.Generate("k", nil)
	assert.True(t, errs.Is(err, errs.MissingRequiredField))
	_, err = v.Generate("k", []byte("nope"))
	assert.True(t, errs.Is(err, errs.InvalidPassword))

	rec, err := v.Generate("k", password)
	require.NoError(t, err)

	key, err := v.Load("k", password)
	require.NoError(t, err)
	assert.Equal(t, rec.PublicKey, key.PublicKey().String())

	_, err = v.Load("k", []byte("nope"))
	assert.Equal(t, crypto.ErrDecrypt, err)

	assert.True(t, errs.Is(v.ClearPassword(), errs.VaultNotEmpty))

	require.NoError(t, v.Delete("k"))
	require.NoError(t, v.ClearPassword())
	set, err = v.PasswordSet()
	require.NoError(t, err)
	assert.False(t, set)
}

func TestCorruptedRecordLooksLikeWrongPassword(t *testing.T) {
	v := newVault(t)
	password := []byte("pw")
	require.NoError(t, v.SetPassword(password))
	_, err := v.Generate("k", password)
	require.NoError(t, err)

	path := filepath.Join(v.Root(), "keys", "k.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec model.KeypairRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	rec.PublicKey = other.PublicKey().String()
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = v.Load("k", password)
	assert.Equal(t, crypto.ErrDecrypt, err)
	assert.True(t, errs.Is(err, errs.InvalidPassword))
}

func TestMnemonicRetention(t *testing.T) {
	const phrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	t.Run("plain", func(t *testing.T) {
		v := newVault(t)
		rec, err := v.ImportKeypair("m", key, vault.ImportOptions{Mnemonic: phrase, DerivationPath: "m/44'/501'/0'/0'"}, nil)
		require.NoError(t, err)
		assert.Equal(t, phrase, rec.Mnemonic)
		assert.Empty(t, rec.EncryptedMnemonic)

		got, ok, err := v.ExportMnemonic("m", nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, phrase, got)
	})

	t.Run("encrypted", func(t *testing.T) {
		v := newVault(t)
		password := []byte("pw")
		require.NoError(t, v.SetPassword(password))

		rec, err := v.ImportKeypair("m", key, vault.ImportOptions{Mnemonic: phrase}, password)
		require.NoError(t, err)
		assert.Empty(t, rec.Mnemonic)
		assert.NotEmpty(t, rec.EncryptedMnemonic)

		got, ok, err := v.ExportMnemonic("m", password)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, phrase, got)

		_, _, err = v.ExportMnemonic("m", []byte("bad"))
		assert.True(t, errs.Is(err, errs.InvalidPassword))
	})

	t.Run("not retained", func(t *testing.T) {
		v := newVault(t)
		_, err := v.ImportKeypair("m", key, vault.ImportOptions{}, nil)
		require.NoError(t, err)

		_, ok, err := v.ExportMnemonic("m", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNonceAccounts(t *testing.T) {
	v := newVault(t)

	require.NoError(t, v.SaveNonceAccount("main", model.NonceAccountRecord{Address: "Addr1", Authority: "Auth1"}))
	require.NoError(t, v.SaveNonceAccount("backup", model.NonceAccountRecord{Address: "Addr2", Authority: "Auth1"}))

	err := v.SaveNonceAccount("main", model.NonceAccountRecord{Address: "Addr3"})
	assert.True(t, errs.Is(err, errs.AlreadyExists))

	rec, err := v.NonceAccount("main")
	require.NoError(t, err)
	assert.Equal(t, "Addr1", rec.Address)
	assert.NotEmpty(t, rec.CreatedAt)

	_, err = v.NonceAccount("missing")
	assert.True(t, errs.Is(err, errs.NotFound))

	all, err := v.NonceAccounts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "backup", all[0].Label)
}
