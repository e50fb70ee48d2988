package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, result string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"jsonrpc":"2.0"`)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,` + result + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebsocketURL(t *testing.T) {
	assert.Equal(t, "wss://api.devnet.solana.com", WebsocketURL("https://api.devnet.solana.com"))
	assert.Equal(t, "ws://127.0.0.1:8899", WebsocketURL("http://127.0.0.1:8899"))
}

func TestFetchAccountDataMissing(t *testing.T) {
	srv := rpcServer(t, `"result":{"context":{"slot":1},"value":null}`)

	_, err := NewSolanaClient(srv.URL, "").FetchAccountData(context.Background(), solana.NewWallet().PublicKey())
	assert.True(t, errs.Is(err, errs.NotFound), "got %v", err)
}

func TestFetchAccountData(t *testing.T) {
	srv := rpcServer(t, `"result":{"context":{"slot":1},"value":{"data":["AQID","base64"],"executable":false,"lamports":1,"owner":"11111111111111111111111111111111","rentEpoch":0}}`)

	data, err := NewSolanaClient(srv.URL, "").FetchAccountData(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestSOLBalanceNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewSolanaClient(url, "").SOLBalance(context.Background(), solana.NewWallet().PublicKey())
	assert.True(t, errs.Is(err, errs.NetworkFailure))
}

func TestSubmitTransactionRejected(t *testing.T) {
	srv := rpcServer(t, `"error":{"code":-32002,"message":"Transaction simulation failed"}`)

	_, err := NewSolanaClient(srv.URL, "").SubmitTransaction(context.Background(), []byte{1, 2, 3})
	require.Error(t, err)
	assert.False(t, errs.Is(err, errs.NetworkFailure))
	assert.True(t, strings.Contains(err.Error(), "simulation failed"))
}
