package subm

import (
	"net/http"

	"github.com/gapeval/backend/srvcerror"
)

const ErrCodeSubmissionNotFound = "submission_not_found"

func newErrSubmissionNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionNotFound,
		"submission not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeEvaluationNotFound = "evaluation_not_found"

func newErrEvaluationNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEvaluationNotFound,
		"evaluation not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidSubmission = "invalid_submission"

func newErrInvalidSubmission(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmission,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidEvaluation = "invalid_evaluation"

func newErrInvalidEvaluation(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidEvaluation,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}
