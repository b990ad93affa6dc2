package http

import (
	"net/http"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/httpjson"
	"github.com/gapeval/backend/subm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
)

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (a answerRequest) params() subm.AnswerParams {
	return subm.AnswerParams{QuestionID: a.QuestionID, Answer: a.Answer}
}

func answerParams(answers []answerRequest) []subm.AnswerParams {
	res := make([]subm.AnswerParams, 0, len(answers))
	for _, a := range answers {
		res = append(res, a.params())
	}
	return res
}

type createSubmissionRequest struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	KarmaGapID  string          `json:"karma_gap_id"`
	Category    string          `json:"category"`
	Answers     []answerRequest `json:"answers"`
}

func (httpserver *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := auth.ClaimsFromContext(r.Context())

	var req createSubmissionRequest
	if err := decodeBody(w, r, &req, subm.ErrCodeInvalidSubmission); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	s, err := httpserver.submSrvc.CreateSubmission(r.Context(), claims.Subject, subm.CreateSubmissionParams{
		ProjectID:    req.ProjectID,
		ProjectName:  req.ProjectName,
		KarmaGapID:   req.KarmaGapID,
		CategorySlug: req.Category,
		Answers:      answerParams(req.Answers),
	})
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubmission(s))
}

func (httpserver *HttpServer) getSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	id := chi.URLParam(r, "id")

	s, err := httpserver.submSrvc.GetSubmission(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubmission(s))
}

func (httpserver *HttpServer) listSubmissionEvaluations(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	id := chi.URLParam(r, "id")

	evals, err := httpserver.submSrvc.ListSubmissionEvaluations(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	response := make([]Evaluation, 0, len(evals))
	for i := range evals {
		response = append(response, mapEvaluation(&evals[i]))
	}

	httpjson.WriteSuccessJson(w, response)
}
