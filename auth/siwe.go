package auth

import (
	"errors"
	"strconv"
	"strings"
)

const siweHeaderSuffix = " wants you to sign in with your Ethereum account:"

var errMalformedMessage = errors.New("malformed login message")

// LoginMessage holds the fields of an EIP-4361 message the login checks
// rely on.
type LoginMessage struct {
	Domain  string
	Address string // as written in the message, empty if none
	Nonce   string
	ChainID *int64
}

// ParseLoginMessage reads a Sign-In with Ethereum message. Plain messages
// without the SIWE header are accepted as long as they carry a Nonce line.
func ParseLoginMessage(msg string) (LoginMessage, error) {
	var lm LoginMessage
	lines := strings.Split(strings.ReplaceAll(msg, "\r\n", "\n"), "\n")

	if domain, ok := strings.CutSuffix(lines[0], siweHeaderSuffix); ok {
		if len(lines) < 2 || strings.TrimSpace(lines[1]) == "" {
			return lm, errMalformedMessage
		}
		lm.Domain = domain
		lm.Address = strings.TrimSpace(lines[1])
	}

	for _, line := range lines {
		if v, ok := strings.CutPrefix(line, "Nonce: "); ok {
			lm.Nonce = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "Chain ID: "); ok {
			id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return lm, errMalformedMessage
			}
			lm.ChainID = &id
		}
	}
	if lm.Nonce == "" {
		return lm, errMalformedMessage
	}
	return lm, nil
}
