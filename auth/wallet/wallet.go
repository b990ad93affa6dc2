// Package wallet recovers Ethereum account addresses from personal_sign
// signatures.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const (
	signatureLen = 65
	addressLen   = 20
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidAddress   = errors.New("invalid address")
)

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// TextHash is the EIP-191 version 0x45 digest of msg:
// keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func TextHash(msg []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(msg))
	return keccak256([]byte(prefix), msg)
}

// RecoverAddress returns the checksummed address that produced the 65 byte
// r||s||v signature over the personal_sign digest of msg. The signature may
// be hex encoded with or without the 0x prefix; v is accepted as 0/1 or
// 27/28.
func RecoverAddress(msg []byte, signatureHex string) (string, error) {
	sig, err := decodeHex(signatureHex)
	if err != nil || len(sig) != signatureLen {
		return "", ErrInvalidSignature
	}

	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", ErrInvalidSignature
	}

	// decred expects [27+recid] || r || s
	compact := make([]byte, signatureLen)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, TextHash(msg))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the checksummed account address of pub.
func PubkeyToAddress(pub *secp256k1.PublicKey) string {
	raw := pub.SerializeUncompressed()
	digest := keccak256(raw[1:])
	return checksum(digest[len(digest)-addressLen:])
}

// ChecksumAddress validates a 0x-prefixed 20 byte hex address and returns
// its EIP-55 mixed-case form.
func ChecksumAddress(address string) (string, error) {
	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		return "", ErrInvalidAddress
	}
	b, err := hex.DecodeString(address[2:])
	if err != nil || len(b) != addressLen {
		return "", ErrInvalidAddress
	}
	return checksum(b), nil
}

func checksum(addr []byte) string {
	lower := hex.EncodeToString(addr)
	hash := hex.EncodeToString(keccak256([]byte(lower)))

	out := make([]byte, 0, 2+len(lower))
	out = append(out, "0x"...)
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && hash[i] >= '8' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
