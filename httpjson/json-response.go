package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gapeval/backend/srvcerror"
)

type JsonResponse struct {
	Status  string `json:"status"` // "success" or "error"
	Data    any    `json:"data,omitempty"`
	ErrCode string `json:"code,omitempty"`
	ErrMsg  string `json:"message,omitempty"`
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	resp := JsonResponse{
		Status: "success",
		Data:   data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	resp := JsonResponse{
		Status:  "error",
		ErrMsg:  errMsg,
		ErrCode: errCode,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func writeInternalErrorJson(w http.ResponseWriter) {
	internal := srvcerror.ErrInternalSE()
	WriteErrorJson(w, internal.Error(), internal.HttpStatusCode(), internal.ErrorCode())
}

// HandleError writes err as a JSON error response. Service errors keep
// their code and status; anything else becomes a 500 whose details only
// reach the log.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if !errors.As(err, &srvcErr) {
		logger.Error("internal server error", "error", err)
		writeInternalErrorJson(w)
		return
	}

	if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
		logger.Error("internal server error", "error", err, "debug", srvcErr.DebugInfo())
	} else if srvcErr.DebugInfo() != nil {
		logger.Warn("service error", "error", err, "code", srvcErr.ErrorCode(), "debug", srvcErr.DebugInfo())
	} else {
		logger.Warn("service error", "error", err, "code", srvcErr.ErrorCode())
	}
	WriteErrorJson(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode())
}
