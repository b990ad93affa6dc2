package subm

import (
	"context"
	"errors"
	"fmt"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
)

func (s *SubmSrvc) evaluationView(ctx context.Context, e domain.Evaluation) (*EvaluationView, error) {
	answers, err := s.joinQuestions(ctx, fromEvalAnswers(e.Answers))
	if err != nil {
		return nil, fmt.Errorf("join questions: %w", err)
	}
	return &EvaluationView{
		ID:            e.ID,
		DateCompleted: e.DateCompleted,
		Evaluator:     e.Evaluator,
		SubmissionID:  e.SubmissionID,
		Score:         e.Score,
		Answers:       answers,
	}, nil
}

func (s *SubmSrvc) GetEvaluation(ctx context.Context, id string) (*EvaluationView, error) {
	e, err := s.store.EvaluationByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newErrEvaluationNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation %s: %w", id, err)
	}
	return s.evaluationView(ctx, e)
}

// ListSubmissionEvaluations returns the evaluations embedded in the
// submission, oldest first.
func (s *SubmSrvc) ListSubmissionEvaluations(ctx context.Context, submID string) ([]EvaluationView, error) {
	submission, err := s.submissionByID(ctx, submID)
	if err != nil {
		return nil, err
	}
	views := make([]EvaluationView, 0, len(submission.Evaluations))
	for _, e := range submission.Evaluations {
		v, err := s.evaluationView(ctx, e)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}
