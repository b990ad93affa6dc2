package subm

import (
	"time"

	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/karma"
)

type AnswerParams struct {
	QuestionID string
	Answer     string
}

type CreateSubmissionParams struct {
	ProjectID    string
	ProjectName  string
	KarmaGapID   string
	CategorySlug string
	Answers      []AnswerParams
}

type CreateEvaluationParams struct {
	SubmissionID string
	Answers      []AnswerParams
}

// AnsweredQuestion is an answer joined with the question it responds to.
type AnsweredQuestion struct {
	ID         string
	QuestionID string
	Answer     string
	Question   domain.Question
}

type SubmissionView struct {
	ID                 string
	DateCompleted      time.Time
	ProjectID          string
	ProjectName        string
	KarmaGapID         string
	Owner              string
	Score              *float64
	Answers            []AnsweredQuestion
	Category           domain.Category
	KarmaData          *karma.ProjectData // nil when the registry is unavailable
	LastEvaluationDate *time.Time
	EvaluationCount    int
}

type SubmissionSummary struct {
	ID                 string
	DateCompleted      time.Time
	ProjectID          string
	ProjectName        string
	KarmaGapID         string
	Owner              string
	Score              *float64
	LastEvaluationDate *time.Time
	EvaluationCount    int
}

type EvaluationView struct {
	ID            string
	DateCompleted time.Time
	Evaluator     string
	SubmissionID  string
	Score         *float64
	Answers       []AnsweredQuestion
}
