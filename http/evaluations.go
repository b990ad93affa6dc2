package http

import (
	"net/http"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/httpjson"
	"github.com/gapeval/backend/subm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
)

// createEvaluationRequest ignores any evaluator field in the body; the
// evaluator is the credential's subject.
type createEvaluationRequest struct {
	SubmissionID string          `json:"submission_id"`
	Answers      []answerRequest `json:"answers"`
}

func (httpserver *HttpServer) createEvaluation(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := auth.ClaimsFromContext(r.Context())

	var req createEvaluationRequest
	if err := decodeBody(w, r, &req, subm.ErrCodeInvalidEvaluation); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	e, err := httpserver.submSrvc.CreateEvaluation(r.Context(), claims.Subject, subm.CreateEvaluationParams{
		SubmissionID: req.SubmissionID,
		Answers:      answerParams(req.Answers),
	})
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapEvaluation(e))
}

func (httpserver *HttpServer) getEvaluation(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	id := chi.URLParam(r, "id")

	e, err := httpserver.submSrvc.GetEvaluation(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapEvaluation(e))
}
