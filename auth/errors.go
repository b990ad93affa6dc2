package auth

import (
	"net/http"

	"github.com/gapeval/backend/srvcerror"
)

const ErrCodeInvalidLoginMessage = "invalid_login_message"

func newErrInvalidLoginMessage() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidLoginMessage,
		"login message is malformed or carries no nonce",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidSignature = "invalid_signature"

func newErrInvalidSignature() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSignature,
		"signature does not match the message",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func errUnauthenticated(debug error) *srvcerror.Error {
	return srvcerror.ErrUnauthenticated().SetDebug(debug)
}
