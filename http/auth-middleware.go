package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/httpjson"
	"github.com/gapeval/backend/srvcerror"
	"github.com/go-chi/httplog/v2"
	"github.com/golang-jwt/jwt/v5/request"
)

// bearerClaimsMiddleware stores the claims of a valid bearer credential
// in the request context. Requests without a credential pass through as
// anonymous; a credential that does not validate is rejected.
func bearerClaimsMiddleware(authSrvc *auth.AuthSrvc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, err := request.BearerExtractor{}.ExtractToken(r)
			if err != nil {
				if errors.Is(err, request.ErrNoTokenInRequest) {
					next.ServeHTTP(w, r)
					return
				}
				httpjson.HandleError(httplog.LogEntry(r.Context()), w,
					srvcerror.ErrUnauthenticated().SetDebug(err))
				return
			}

			claims, err := authSrvc.ValidateCredential(token)
			if err != nil {
				httpjson.HandleError(httplog.LogEntry(r.Context()), w, err)
				return
			}

			httplog.LogEntrySetField(r.Context(), "address", slog.StringValue(claims.Subject))
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		}
		return http.HandlerFunc(hfn)
	}
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.ClaimsFromContext(r.Context()) == nil {
			httpjson.HandleError(httplog.LogEntry(r.Context()), w, srvcerror.ErrUnauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireRole(role auth.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				httpjson.HandleError(httplog.LogEntry(r.Context()), w, srvcerror.ErrUnauthenticated())
				return
			}
			if claims.Role != role {
				httpjson.HandleError(httplog.LogEntry(r.Context()), w,
					srvcerror.ErrForbidden("role "+string(role)+" required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
