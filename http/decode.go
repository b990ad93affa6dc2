package http

import (
	"encoding/json"
	"net/http"

	"github.com/gapeval/backend/srvcerror"
)

const maxRequestBodyBytes = 1 << 20

// decodeBody reads a JSON request body into v. A body that does not
// decode is reported with errCode, the validation code of the endpoint.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, errCode string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return srvcerror.New(errCode, "request body is not valid JSON").
			SetHttpStatusCode(http.StatusBadRequest).
			SetDebug(err)
	}
	return nil
}
