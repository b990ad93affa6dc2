package domain

import "time"

const MaxSubmissionAnswerLength = 1800

type Submission struct {
	ID            string             `json:"id" bson:"id" dynamo:"id,hash"`
	ProjectID     string             `json:"project_id" bson:"project_id" dynamo:"project_id"`
	ProjectName   string             `json:"project_name" bson:"project_name" dynamo:"project_name"`
	KarmaGapID    string             `json:"karma_gap_id" bson:"karma_gap_id" dynamo:"karma_gap_id"`
	DateCompleted time.Time          `json:"date_completed" bson:"date_completed" dynamo:"date_completed"`
	Score         *float64           `json:"score" bson:"score" dynamo:"score"` // nil until evaluated
	Answers       []SubmissionAnswer `json:"answers" bson:"answers" dynamo:"answers"`
	Evaluations   []Evaluation       `json:"evaluations" bson:"evaluations" dynamo:"evaluations"`
	Category      Category           `json:"category" bson:"category" dynamo:"category"`
	Owner         string             `json:"owner" bson:"owner" dynamo:"owner"`
}

type SubmissionAnswer struct {
	ID         string `json:"id" bson:"id" dynamo:"id"`
	QuestionID string `json:"question_id" bson:"question_id" dynamo:"question_id"`
	Answer     string `json:"answer" bson:"answer" dynamo:"answer"`
}
