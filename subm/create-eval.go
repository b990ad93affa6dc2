package subm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/logger"
	"github.com/gapeval/backend/metrics"
	"github.com/gapeval/backend/scoring"
	"github.com/google/uuid"
)

func validateEvaluationParams(params CreateEvaluationParams) error {
	if params.SubmissionID == "" {
		return newErrInvalidEvaluation("submission_id is required")
	}
	if len(params.Answers) == 0 {
		return newErrInvalidEvaluation("at least one answer is required")
	}
	for _, a := range params.Answers {
		if a.QuestionID == "" {
			return newErrInvalidEvaluation("answer is missing question_id")
		}
	}
	return nil
}

// CreateEvaluation scores the answers of evaluator, appends the evaluation
// to the submission and recomputes the submission score as the mean of all
// evaluation scores. Answer codes outside 1/2/3 are not rejected; they
// zero the evaluation score.
//
// The read of the submission and the write of its evaluations are not
// linearizable: two concurrent evaluations of one submission race and the
// last write wins. The evaluation collection is written before the
// submission, so a failed insert leaves the submission score untouched.
// A failed submission update leaves an evaluation that the score lacks.
func (s *SubmSrvc) CreateEvaluation(ctx context.Context, evaluator string, params CreateEvaluationParams) (*EvaluationView, error) {
	if err := validateEvaluationParams(params); err != nil {
		return nil, err
	}

	submission, err := s.submissionByID(ctx, params.SubmissionID)
	if err != nil {
		return nil, err
	}

	missing, err := s.unknownQuestion(ctx, params.Answers)
	if err != nil {
		return nil, err
	}
	if missing != "" {
		return nil, newErrInvalidEvaluation(fmt.Sprintf("question %s does not exist", missing))
	}

	answers := make([]domain.EvaluationAnswer, 0, len(params.Answers))
	for _, a := range params.Answers {
		answers = append(answers, domain.EvaluationAnswer{
			ID:         uuid.NewString(),
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}
	evaluation := domain.Evaluation{
		ID:            uuid.NewString(),
		Evaluator:     evaluator,
		SubmissionID:  submission.ID,
		DateCompleted: s.now(),
		Answers:       answers,
	}
	score := s.weights.ScoreEvaluation(evaluation.AnswerCodes())
	evaluation.Score = &score

	evals := append(slices.Clone(submission.Evaluations), evaluation)
	scores := make([]*float64, 0, len(evals))
	for _, e := range evals {
		scores = append(scores, e.Score)
	}
	submScore := scoring.Aggregate(scores)

	if err := s.store.InsertEvaluation(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("insert evaluation: %w", err)
	}
	if err := s.store.SetEvaluations(ctx, submission.ID, evals, submScore); err != nil {
		return nil, fmt.Errorf("update submission %s: %w", submission.ID, err)
	}
	metrics.EvaluationCreated()

	logger.FromContext(ctx).Info("evaluation created",
		slog.String("evaluation_id", evaluation.ID),
		slog.String("submission_id", submission.ID),
		slog.String("evaluator", evaluator),
		slog.Float64("score", score),
		slog.Float64("submission_score", submScore))

	return s.evaluationView(ctx, evaluation)
}
