package wallet_test

import (
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/gapeval/backend/auth/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress    = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func testKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString(testPrivKeyHex)
	require.NoError(t, err)
	return secp256k1.PrivKeyFromBytes(b)
}

// personalSign produces the r||s||v signature a wallet returns, v in 27/28.
func personalSign(t *testing.T, key *secp256k1.PrivateKey, msg string) []byte {
	t.Helper()
	compact := ecdsa.SignCompact(key, wallet.TextHash([]byte(msg)), false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

func TestPubkeyToAddress(t *testing.T) {
	key := testKey(t)
	assert.Equal(t, testAddress, wallet.PubkeyToAddress(key.PubKey()))
}

func TestChecksumAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "lowercase", in: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", want: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{name: "uppercase", in: "0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359", want: "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"},
		{name: "already checksummed", in: testAddress, want: testAddress},
		{name: "no prefix", in: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", wantErr: true},
		{name: "too short", in: "0x5aaeb6053f", wantErr: true},
		{name: "not hex", in: "0xzzaeb6053f3e94c9b9a09f33669435e7ef1beaed", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wallet.ChecksumAddress(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, wallet.ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecoverAddress(t *testing.T) {
	key := testKey(t)
	msg := "example.org wants you to sign in with your Ethereum account"
	sig := personalSign(t, key, msg)

	t.Run("v 27/28", func(t *testing.T) {
		got, err := wallet.RecoverAddress([]byte(msg), "0x"+hex.EncodeToString(sig))
		require.NoError(t, err)
		assert.Equal(t, testAddress, got)
	})

	t.Run("v 0/1 without prefix", func(t *testing.T) {
		raw := append([]byte(nil), sig...)
		raw[64] -= 27
		got, err := wallet.RecoverAddress([]byte(msg), hex.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, testAddress, got)
	})

	t.Run("other message recovers another address", func(t *testing.T) {
		got, err := wallet.RecoverAddress([]byte(msg+"!"), "0x"+hex.EncodeToString(sig))
		if err == nil {
			assert.NotEqual(t, testAddress, got)
		}
	})

	t.Run("bad length", func(t *testing.T) {
		_, err := wallet.RecoverAddress([]byte(msg), "0x"+hex.EncodeToString(sig[:64]))
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("bad recovery id", func(t *testing.T) {
		raw := append([]byte(nil), sig...)
		raw[64] = 30
		_, err := wallet.RecoverAddress([]byte(msg), hex.EncodeToString(raw))
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := wallet.RecoverAddress([]byte(msg), "0xnothex")
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})
}
