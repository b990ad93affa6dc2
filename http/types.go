package http

import (
	"time"

	"github.com/gapeval/backend/karma"
)

type Question struct {
	ID                   string  `json:"id"`
	ProjectStatement     string  `json:"project_statement"`
	ProjectDescription   *string `json:"project_description"`
	EvaluatorStatement   string  `json:"evaluator_statement"`
	EvaluatorDescription *string `json:"evaluator_description"`
	Section              string  `json:"section"`
	Order                int     `json:"order"`
}

type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Slug        string   `json:"slug"`
	Evaluators  []string `json:"evaluators"`
}

type CategoryWithSubmissions struct {
	Category
	Submissions []SubmissionSummary `json:"submissions"`
}

type Answer struct {
	ID         string   `json:"id"`
	QuestionID string   `json:"question_id"`
	Answer     string   `json:"answer"`
	Question   Question `json:"question"`
}

type SubmissionSummary struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	ProjectName        string     `json:"project_name"`
	KarmaGapID         string     `json:"karma_gap_id"`
	Owner              string     `json:"owner"`
	DateCompleted      time.Time  `json:"date_completed"`
	Score              *float64   `json:"score"`
	Category           Category   `json:"category"`
	LastEvaluationDate *time.Time `json:"last_evaluation_date"`
	EvaluationCount    int        `json:"evaluation_count"`
}

type Submission struct {
	SubmissionSummary
	Answers   []Answer           `json:"answers"`
	KarmaData *karma.ProjectData `json:"karma_data"`
}

type Evaluation struct {
	ID            string    `json:"id"`
	Evaluator     string    `json:"evaluator"`
	SubmissionID  string    `json:"submission_id"`
	DateCompleted time.Time `json:"date_completed"`
	Score         *float64  `json:"score"`
	Answers       []Answer  `json:"answers"`
}

type NonceResponse struct {
	Nonce string `json:"nonce"`
}

type VerifyResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type SessionResponse struct {
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	ChainID   *int64    `json:"chainId"`
	ExpiresAt time.Time `json:"expires_at"`
}
