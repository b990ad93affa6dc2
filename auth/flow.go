package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gapeval/backend/auth/wallet"
)

// LoginState is the progress of a single wallet login.
type LoginState int

const (
	StateNonceIssued LoginState = iota
	StateAwaitingVerification
	StateVerified
	StateCredentialIssued
	StateRejected
)

func (s LoginState) String() string {
	switch s {
	case StateNonceIssued:
		return "nonce_issued"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateVerified:
		return "verified"
	case StateCredentialIssued:
		return "credential_issued"
	case StateRejected:
		return "rejected"
	}
	return fmt.Sprintf("LoginState(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid login state transition")

// loginAttempt walks one message/signature pair from a presented nonce to
// an issued credential. Any failed step moves it to StateRejected.
type loginAttempt struct {
	state     LoginState
	message   LoginMessage
	raw       string
	signature string

	address   string
	role      Role
	token     string
	expiresAt time.Time
	rejection error
}

func newLoginAttempt() *loginAttempt {
	return &loginAttempt{state: StateNonceIssued}
}

func (a *loginAttempt) reject(err error) error {
	a.state = StateRejected
	a.rejection = err
	return err
}

// present records the signed message. The message must carry a nonce.
func (a *loginAttempt) present(message, signature string) error {
	if a.state != StateNonceIssued {
		return ErrInvalidTransition
	}
	lm, err := ParseLoginMessage(message)
	if err != nil {
		return a.reject(newErrInvalidLoginMessage().SetDebug(err))
	}
	a.message = lm
	a.raw = message
	a.signature = signature
	a.state = StateAwaitingVerification
	return nil
}

// verify consumes the embedded nonce and recovers the signer. The nonce is
// consumed even if the signature turns out bad, so every nonce admits one
// attempt.
func (a *loginAttempt) verify(ctx context.Context, nonces NonceStore) error {
	if a.state != StateAwaitingVerification {
		return ErrInvalidTransition
	}
	if err := nonces.Consume(ctx, a.message.Nonce); err != nil {
		if errors.Is(err, ErrNonceInvalid) {
			return a.reject(errUnauthenticated(err))
		}
		return a.reject(fmt.Errorf("consume nonce: %w", err))
	}

	address, err := recoverSigner(a.raw, a.signature)
	if err != nil {
		return a.reject(err)
	}
	if a.message.Address != "" {
		claimed, err := wallet.ChecksumAddress(a.message.Address)
		if err != nil {
			return a.reject(newErrInvalidLoginMessage().SetDebug(err))
		}
		if claimed != address {
			return a.reject(newErrInvalidSignature().SetDebug(
				fmt.Errorf("message claims %s, signed by %s", claimed, address)))
		}
	}
	a.address = address
	a.state = StateVerified
	return nil
}

func (a *loginAttempt) issue(role Role, creds *CredentialIssuer) error {
	if a.state != StateVerified {
		return ErrInvalidTransition
	}
	token, expiresAt, err := creds.Issue(a.address, role, a.message.ChainID)
	if err != nil {
		return a.reject(err)
	}
	a.role = role
	a.token = token
	a.expiresAt = expiresAt
	a.state = StateCredentialIssued
	return nil
}

func recoverSigner(message, signature string) (string, error) {
	address, err := wallet.RecoverAddress([]byte(message), signature)
	if err != nil {
		return "", newErrInvalidSignature().SetDebug(err)
	}
	return address, nil
}
