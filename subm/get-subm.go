package subm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/karma"
	"github.com/gapeval/backend/logger"
)

func (s *SubmSrvc) submissionByID(ctx context.Context, id string) (*domain.Submission, error) {
	submission, err := s.store.SubmissionByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newErrSubmissionNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	return &submission, nil
}

// evaluationStats reads the evaluations collection for the newest
// evaluation date and the evaluation count.
func (s *SubmSrvc) evaluationStats(ctx context.Context, submID string) (*time.Time, int, error) {
	evals, err := s.store.EvaluationsBySubmission(ctx, submID)
	if err != nil {
		return nil, 0, fmt.Errorf("list evaluations of %s: %w", submID, err)
	}
	if len(evals) == 0 {
		return nil, 0, nil
	}
	last := evals[0].DateCompleted
	return &last, len(evals), nil
}

// GetSubmission returns the submission with its answered questions and the
// registry data of the project. A failing registry leaves KarmaData nil.
func (s *SubmSrvc) GetSubmission(ctx context.Context, id string) (*SubmissionView, error) {
	submission, err := s.submissionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lastEval, evalCount, err := s.evaluationStats(ctx, id)
	if err != nil {
		return nil, err
	}

	answers, err := s.joinQuestions(ctx, fromSubmAnswers(submission.Answers))
	if err != nil {
		return nil, fmt.Errorf("join questions: %w", err)
	}

	return &SubmissionView{
		ID:                 submission.ID,
		DateCompleted:      submission.DateCompleted,
		ProjectID:          submission.ProjectID,
		ProjectName:        submission.ProjectName,
		KarmaGapID:         submission.KarmaGapID,
		Owner:              submission.Owner,
		Score:              submission.Score,
		Answers:            answers,
		Category:           submission.Category,
		KarmaData:          s.fetchProject(ctx, submission.KarmaGapID),
		LastEvaluationDate: lastEval,
		EvaluationCount:    evalCount,
	}, nil
}

func (s *SubmSrvc) fetchProject(ctx context.Context, karmaGapID string) *karma.ProjectData {
	if s.registry == nil {
		return nil
	}
	data, err := s.registry.FetchProject(ctx, karmaGapID)
	if err != nil {
		logger.FromContext(ctx).Warn("project registry unavailable",
			slog.String("karma_gap_id", karmaGapID),
			slog.Any("error", err))
		return nil
	}
	return data
}

// ListCategorySubmissions summarizes the submissions filed under slug.
// It does not check that the category exists.
func (s *SubmSrvc) ListCategorySubmissions(ctx context.Context, slug string) ([]SubmissionSummary, error) {
	submissions, err := s.store.SubmissionsByCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list submissions of %s: %w", slug, err)
	}

	summaries := make([]SubmissionSummary, 0, len(submissions))
	for _, submission := range submissions {
		lastEval, evalCount, err := s.evaluationStats(ctx, submission.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SubmissionSummary{
			ID:                 submission.ID,
			DateCompleted:      submission.DateCompleted,
			ProjectID:          submission.ProjectID,
			ProjectName:        submission.ProjectName,
			KarmaGapID:         submission.KarmaGapID,
			Owner:              submission.Owner,
			Score:              submission.Score,
			LastEvaluationDate: lastEval,
			EvaluationCount:    evalCount,
		})
	}
	return summaries, nil
}
