package subm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/logger"
	"github.com/google/uuid"
)

// unknownQuestion returns the first question id in answers that does not
// exist, or "" when all do.
func (s *SubmSrvc) unknownQuestion(ctx context.Context, answers []AnswerParams) (string, error) {
	questions, err := s.questions.QuestionsByIDs(ctx, answerQuestionIDs(answers))
	if err != nil {
		return "", fmt.Errorf("fetch questions: %w", err)
	}
	for _, a := range answers {
		if _, ok := questions[a.QuestionID]; !ok {
			return a.QuestionID, nil
		}
	}
	return "", nil
}

func validateSubmissionParams(params CreateSubmissionParams) error {
	required := []struct{ name, value string }{
		{"project_id", params.ProjectID},
		{"project_name", params.ProjectName},
		{"karma_gap_id", params.KarmaGapID},
		{"category", params.CategorySlug},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return newErrInvalidSubmission(r.name + " is required")
		}
	}
	if len(params.Answers) == 0 {
		return newErrInvalidSubmission("at least one answer is required")
	}
	for _, a := range params.Answers {
		if a.QuestionID == "" {
			return newErrInvalidSubmission("answer is missing question_id")
		}
		if utf8.RuneCountInString(a.Answer) > domain.MaxSubmissionAnswerLength {
			return newErrInvalidSubmission(fmt.Sprintf(
				"answer to question %s exceeds %d characters",
				a.QuestionID, domain.MaxSubmissionAnswerLength))
		}
	}
	return nil
}

// CreateSubmission stores a self-assessment owned by owner. The category is
// copied into the submission as it is now.
func (s *SubmSrvc) CreateSubmission(ctx context.Context, owner string, params CreateSubmissionParams) (*SubmissionView, error) {
	if err := validateSubmissionParams(params); err != nil {
		return nil, err
	}

	category, err := s.categories.GetCategory(ctx, params.CategorySlug)
	if err != nil {
		return nil, err
	}

	missing, err := s.unknownQuestion(ctx, params.Answers)
	if err != nil {
		return nil, err
	}
	if missing != "" {
		return nil, newErrInvalidSubmission(fmt.Sprintf("question %s does not exist", missing))
	}

	answers := make([]domain.SubmissionAnswer, 0, len(params.Answers))
	for _, a := range params.Answers {
		answers = append(answers, domain.SubmissionAnswer{
			ID:         uuid.NewString(),
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}

	submission := domain.Submission{
		ID:            uuid.NewString(),
		ProjectID:     params.ProjectID,
		ProjectName:   params.ProjectName,
		KarmaGapID:    params.KarmaGapID,
		DateCompleted: s.now(),
		Score:         nil,
		Answers:       answers,
		Evaluations:   []domain.Evaluation{},
		Category:      category.Snapshot(),
		Owner:         owner,
	}
	if err := s.store.InsertSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	logger.FromContext(ctx).Info("submission created",
		slog.String("submission_id", submission.ID),
		slog.String("category", category.Slug),
		slog.String("owner", owner))

	joined, err := s.joinQuestions(ctx, fromSubmAnswers(submission.Answers))
	if err != nil {
		return nil, fmt.Errorf("join questions: %w", err)
	}
	return &SubmissionView{
		ID:            submission.ID,
		DateCompleted: submission.DateCompleted,
		ProjectID:     submission.ProjectID,
		ProjectName:   submission.ProjectName,
		KarmaGapID:    submission.KarmaGapID,
		Owner:         submission.Owner,
		Score:         submission.Score,
		Answers:       joined,
		Category:      submission.Category,
	}, nil
}
