package http

import (
	"net/http"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/httpjson"
	"github.com/go-chi/httplog/v2"
)

type verifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (httpserver *HttpServer) authNonce(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	nonce, err := httpserver.authSrvc.IssueNonce(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, NonceResponse{Nonce: nonce})
}

func (httpserver *HttpServer) authVerify(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var req verifyRequest
	if err := decodeBody(w, r, &req, auth.ErrCodeInvalidLoginMessage); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	session, err := httpserver.authSrvc.Login(r.Context(), req.Message, req.Signature)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, VerifyResponse{
		Token: session.Token,
		Role:  string(session.Role),
	})
}

func (httpserver *HttpServer) authSession(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	response := SessionResponse{
		Address: claims.Subject,
		Role:    string(claims.Role),
		ChainID: claims.ChainID,
	}
	if claims.ExpiresAt != nil {
		response.ExpiresAt = claims.ExpiresAt.Time
	}

	httpjson.WriteSuccessJson(w, response)
}
