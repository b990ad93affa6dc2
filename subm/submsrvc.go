// Package subm stores project submissions and the evaluations scored
// against them.
package subm

import (
	"context"
	"time"

	"github.com/gapeval/backend/docstore"
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/karma"
	"github.com/gapeval/backend/scoring"
)

type submStore interface {
	docstore.SubmissionStore
	docstore.EvaluationStore
}

type CategoryGetter interface {
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
}

type QuestionGetter interface {
	QuestionsByIDs(ctx context.Context, ids []string) (map[string]domain.Question, error)
}

type ProjectFetcher interface {
	FetchProject(ctx context.Context, id string) (*karma.ProjectData, error)
}

type SubmSrvc struct {
	store      submStore
	categories CategoryGetter
	questions  QuestionGetter
	registry   ProjectFetcher
	weights    scoring.Weights
	now        func() time.Time
}

// NewSubmSrvc wires the service. registry may be nil, in which case
// submissions are served without registry data.
func NewSubmSrvc(
	store submStore,
	categories CategoryGetter,
	questions QuestionGetter,
	registry ProjectFetcher,
	weights scoring.Weights,
) *SubmSrvc {
	return &SubmSrvc{
		store:      store,
		categories: categories,
		questions:  questions,
		registry:   registry,
		weights:    weights,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func answerQuestionIDs(answers []AnswerParams) []string {
	ids := make([]string, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	return ids
}

func fromSubmAnswers(answers []domain.SubmissionAnswer) []AnsweredQuestion {
	out := make([]AnsweredQuestion, 0, len(answers))
	for _, a := range answers {
		out = append(out, AnsweredQuestion{ID: a.ID, QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return out
}

func fromEvalAnswers(answers []domain.EvaluationAnswer) []AnsweredQuestion {
	out := make([]AnsweredQuestion, 0, len(answers))
	for _, a := range answers {
		out = append(out, AnsweredQuestion{ID: a.ID, QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return out
}

// joinQuestions attaches questions to answers in one batch lookup. Answers
// whose question is unknown are dropped.
func (s *SubmSrvc) joinQuestions(ctx context.Context, answers []AnsweredQuestion) ([]AnsweredQuestion, error) {
	ids := make([]string, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.questions.QuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]AnsweredQuestion, 0, len(answers))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		a.Question = q
		out = append(out, a)
	}
	return out, nil
}
